package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/abatilo/taskflow/internal/category"
	"github.com/abatilo/taskflow/internal/task"
	"github.com/abatilo/taskflow/internal/view"
)

//nolint:gochecknoglobals // Styles are immutable lookup tables
var (
	priorityColors = map[task.Priority]lipgloss.Color{
		task.PriorityHigh:   lipgloss.Color("#dc2626"),
		task.PriorityMedium: lipgloss.Color("#d97706"),
		task.PriorityLow:    lipgloss.Color("#16a34a"),
	}
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626")).Bold(true)
	doneStyle    = lipgloss.NewStyle().Faint(true).Strikethrough(true)
)

// HumanFormatter formats output for human-readable terminal display.
type HumanFormatter struct {
	categories *category.Registry
	now        func() time.Time
}

// NewHumanFormatter creates a new HumanFormatter.
func NewHumanFormatter(categories *category.Registry, now func() time.Time) *HumanFormatter {
	return &HumanFormatter{categories: categories, now: now}
}

// FormatTask formats a single task for display.
func (f *HumanFormatter) FormatTask(t *task.Task) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] %s\n", t.ID, t.Title))
	sb.WriteString(fmt.Sprintf("  Status:   %s\n", t.Status))
	sb.WriteString(fmt.Sprintf("  Priority: %s\n", f.priority(t.Priority)))
	if badge := f.categoryBadge(t.CategoryID); badge != "" {
		sb.WriteString(fmt.Sprintf("  Category: %s\n", badge))
	}
	if due := f.dueLabel(t); due != "" {
		sb.WriteString(fmt.Sprintf("  Due:      %s\n", due))
	}
	sb.WriteString(fmt.Sprintf("  Created:  %s\n", t.CreatedAt.Local().Format("2006-01-02 15:04")))
	sb.WriteString(fmt.Sprintf("  Updated:  %s\n", t.UpdatedAt.Local().Format("2006-01-02 15:04")))

	if t.Description != "" {
		sb.WriteString("\n")
		sb.WriteString(t.Description)
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatTaskList formats a list of tasks for display.
func (f *HumanFormatter) FormatTaskList(tasks []*task.Task) string {
	if len(tasks) == 0 {
		return "No tasks found.\n"
	}

	var sb strings.Builder
	for _, t := range tasks {
		sb.WriteString(f.formatTaskLine(t))
	}
	return sb.String()
}

// formatTaskLine formats a single task as a compact one-liner.
func (f *HumanFormatter) formatTaskLine(t *task.Task) string {
	title := t.Title
	if t.Status == task.StatusCompleted {
		title = doneStyle.Render(title)
	}
	line := fmt.Sprintf("%s %s [%s] %s", f.statusIcon(t.Status), f.priorityMark(t.Priority), t.ID, title)
	if badge := f.categoryBadge(t.CategoryID); badge != "" {
		line += " " + badge
	}
	if due := f.dueLabel(t); due != "" {
		line += " (" + due + ")"
	}
	return line + "\n"
}

func (f *HumanFormatter) statusIcon(s task.Status) string {
	switch s {
	case task.StatusPending:
		return "[ ]"
	case task.StatusCompleted:
		return "[X]"
	default:
		return "[?]"
	}
}

func (f *HumanFormatter) priorityMark(p task.Priority) string {
	mark := "P?"
	switch p {
	case task.PriorityHigh:
		mark = "P1"
	case task.PriorityMedium:
		mark = "P2"
	case task.PriorityLow:
		mark = "P3"
	}
	if c, ok := priorityColors[p]; ok {
		return lipgloss.NewStyle().Foreground(c).Render(mark)
	}
	return mark
}

func (f *HumanFormatter) priority(p task.Priority) string {
	if c, ok := priorityColors[p]; ok {
		return lipgloss.NewStyle().Foreground(c).Render(string(p))
	}
	return string(p)
}

// categoryBadge renders the category name in its color. Unknown ids get no badge.
func (f *HumanFormatter) categoryBadge(id string) string {
	c, ok := f.categories.Lookup(id)
	if !ok {
		return ""
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render("#" + c.Name)
}

func (f *HumanFormatter) dueLabel(t *task.Task) string {
	now := f.now()
	label, ok := view.DueDateLabel(t.DueDate, now)
	if !ok {
		return ""
	}
	if view.IsOverdue(t, now) {
		return overdueStyle.Render(label + ", overdue")
	}
	return label
}

// FormatStats formats aggregate counts.
func (f *HumanFormatter) FormatStats(s view.Stats) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total:     %d\n", s.Total))
	sb.WriteString(fmt.Sprintf("Completed: %d\n", s.Completed))
	sb.WriteString(fmt.Sprintf("Pending:   %d\n", s.Pending))
	overdue := fmt.Sprintf("%d", s.Overdue)
	if s.Overdue > 0 {
		overdue = overdueStyle.Render(overdue)
	}
	sb.WriteString(fmt.Sprintf("Overdue:   %s\n", overdue))
	return sb.String()
}

// FormatCategories formats the category registry.
func (f *HumanFormatter) FormatCategories(cs []category.Category) string {
	var sb strings.Builder
	for _, c := range cs {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render("●")
		sb.WriteString(fmt.Sprintf("%s [%s] %s %s\n", swatch, c.ID, c.Name, c.Color))
	}
	return sb.String()
}

// FormatError formats an error for display.
func (f *HumanFormatter) FormatError(err error) string {
	return fmt.Sprintf("Error: %s\n", err.Error())
}

// FormatMessage formats a simple message.
func (f *HumanFormatter) FormatMessage(msg string) string {
	return msg + "\n"
}
