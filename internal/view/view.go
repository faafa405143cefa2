// Package view derives what the user sees from the task collection. Every
// function here is pure: it reads its arguments and never mutates them.
package view

import (
	"strings"
	"time"

	tferrors "github.com/abatilo/taskflow/internal/errors"
	"github.com/abatilo/taskflow/internal/task"
)

// AllCategories is the category filter value that matches every task.
const AllCategories = "all"

// StatusFilter narrows visible tasks by completion state.
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusPending   StatusFilter = StatusFilter(task.StatusPending)
	StatusCompleted StatusFilter = StatusFilter(task.StatusCompleted)
)

// ParseStatusFilter validates a status filter string. Empty means all.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch f := StatusFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "", StatusAll:
		return StatusAll, nil
	case StatusPending, StatusCompleted:
		return f, nil
	default:
		return "", tferrors.InvalidStatusFilterError{Value: s}
	}
}

// Matches returns true if a task with the given status should be included.
func (f StatusFilter) Matches(status task.Status) bool {
	if f == "" || f == StatusAll {
		return true
	}
	return task.Status(f) == status
}

// Filter holds the view parameters.
type Filter struct {
	Status   StatusFilter
	Category string
	Search   string
}

// DefaultFilter shows everything.
func DefaultFilter() Filter {
	return Filter{Status: StatusAll, Category: AllCategories}
}

// Matches reports whether t passes every part of the filter.
func (f Filter) Matches(t *task.Task) bool {
	if !f.Status.Matches(t.Status) {
		return false
	}
	if f.Category != "" && f.Category != AllCategories && t.CategoryID != f.Category {
		return false
	}
	if f.Search == "" {
		return true
	}
	needle := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(t.Title), needle) ||
		strings.Contains(strings.ToLower(t.Description), needle)
}

// VisibleTasks returns the tasks matching f in their stored order.
func VisibleTasks(tasks []*task.Task, f Filter) []*task.Task {
	out := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// Stats are aggregate counts over the whole collection.
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	Overdue   int `json:"overdue"`
}

// ComputeStats counts tasks by status and overdue state as of now.
func ComputeStats(tasks []*task.Task, now time.Time) Stats {
	st := Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Status == task.StatusCompleted {
			st.Completed++
		} else {
			st.Pending++
		}
		if IsOverdue(t, now) {
			st.Overdue++
		}
	}
	return st
}

// IsOverdue reports whether t is not completed and its due date is strictly
// before now's calendar date. A task due today is not overdue.
func IsOverdue(t *task.Task, now time.Time) bool {
	if t.DueDate == nil || t.Status == task.StatusCompleted {
		return false
	}
	return t.DueDate.Before(task.DateOf(now))
}

// DueDateLabel returns a short label for a due date relative to now:
// "Today", "Tomorrow", or a month-day date like "Jan 02". ok is false when
// there is no due date.
func DueDateLabel(due *task.Date, now time.Time) (label string, ok bool) {
	if due == nil {
		return "", false
	}
	today := task.DateOf(now)
	switch *due {
	case today:
		return "Today", true
	case today.AddDays(1):
		return "Tomorrow", true
	default:
		return due.In(now.Location()).Format("Jan 02"), true
	}
}
