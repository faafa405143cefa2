package output

import (
	"github.com/abatilo/taskflow/internal/category"
	"github.com/abatilo/taskflow/internal/task"
	"github.com/abatilo/taskflow/internal/view"
)

// Formatter defines the interface for output formatting.
type Formatter interface {
	FormatTask(t *task.Task) string
	FormatTaskList(tasks []*task.Task) string
	FormatStats(s view.Stats) string
	FormatCategories(cs []category.Category) string
	FormatError(err error) string
	FormatMessage(msg string) string
}
