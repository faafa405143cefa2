package form

import (
	"strings"

	tferrors "github.com/abatilo/taskflow/internal/errors"
	"github.com/abatilo/taskflow/internal/task"
)

// Fields is a partial set of raw draft values as typed by a user. Nil fields
// are left unchanged when applied. An empty DueDate clears the due date.
type Fields struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"dueDate"`
	Priority    *string `json:"priority"`
	CategoryID  *string `json:"categoryId"`
}

// ApplyTo returns d with the non-nil fields parsed and overlaid.
func (f Fields) ApplyTo(d task.Draft) (task.Draft, error) {
	if f.Title != nil {
		d.Title = *f.Title
	}
	if f.Description != nil {
		d.Description = *f.Description
	}
	if f.DueDate != nil {
		raw := strings.TrimSpace(*f.DueDate)
		if raw == "" {
			d.DueDate = nil
		} else {
			due, err := task.ParseDate(raw)
			if err != nil {
				return d, tferrors.InvalidDateError{Value: raw}
			}
			d.DueDate = &due
		}
	}
	if f.Priority != nil {
		p := task.Priority(strings.ToLower(strings.TrimSpace(*f.Priority)))
		if !task.IsValidPriority(p) {
			return d, tferrors.InvalidPriorityError{Value: *f.Priority}
		}
		d.Priority = p
	}
	if f.CategoryID != nil {
		d.CategoryID = strings.TrimSpace(*f.CategoryID)
	}
	return d, nil
}
