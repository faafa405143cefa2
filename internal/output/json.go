package output

import (
	"encoding/json"
	"time"

	"github.com/abatilo/taskflow/internal/category"
	"github.com/abatilo/taskflow/internal/task"
	"github.com/abatilo/taskflow/internal/view"
)

// JSONFormatter formats output as JSON.
type JSONFormatter struct {
	categories *category.Registry
	now        func() time.Time
}

// marshalJSON marshals a value to indented JSON with a trailing newline.
func marshalJSON(v any) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data) + "\n"
}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter(categories *category.Registry, now func() time.Time) *JSONFormatter {
	return &JSONFormatter{categories: categories, now: now}
}

// taskJSON is the JSON representation of a task: the stored record plus
// derived presentation fields.
type taskJSON struct {
	*task.Task
	CategoryName string `json:"categoryName,omitempty"`
	DueLabel     string `json:"dueLabel,omitempty"`
	Overdue      bool   `json:"overdue"`
}

func (f *JSONFormatter) toTaskJSON(t *task.Task) taskJSON {
	now := f.now()
	tj := taskJSON{Task: t, Overdue: view.IsOverdue(t, now)}
	if c, ok := f.categories.Lookup(t.CategoryID); ok {
		tj.CategoryName = c.Name
	}
	if label, ok := view.DueDateLabel(t.DueDate, now); ok {
		tj.DueLabel = label
	}
	return tj
}

// FormatTask formats a single task as JSON.
func (f *JSONFormatter) FormatTask(t *task.Task) string {
	return marshalJSON(f.toTaskJSON(t))
}

// FormatTaskList formats a list of tasks as JSON.
func (f *JSONFormatter) FormatTaskList(tasks []*task.Task) string {
	jsonTasks := make([]taskJSON, len(tasks))
	for i, t := range tasks {
		jsonTasks[i] = f.toTaskJSON(t)
	}
	return marshalJSON(jsonTasks)
}

// FormatStats formats aggregate counts as JSON.
func (f *JSONFormatter) FormatStats(s view.Stats) string {
	return marshalJSON(s)
}

// FormatCategories formats the category registry as JSON.
func (f *JSONFormatter) FormatCategories(cs []category.Category) string {
	return marshalJSON(cs)
}

// errorJSON is the JSON representation of an error.
type errorJSON struct {
	Error string `json:"error"`
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(err error) string {
	return marshalJSON(errorJSON{Error: err.Error()})
}

// messageJSON is the JSON representation of a message.
type messageJSON struct {
	Message string `json:"message"`
}

// FormatMessage formats a simple message as JSON.
func (f *JSONFormatter) FormatMessage(msg string) string {
	return marshalJSON(messageJSON{Message: msg})
}
