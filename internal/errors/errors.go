//nolint:revive // Package name intentionally matches stdlib for domain clarity
package errors

import "fmt"

// ValidationError indicates a draft failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TaskNotFoundError indicates the task ID doesn't match any task in the collection.
type TaskNotFoundError struct {
	ID string
}

func (e TaskNotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.ID)
}

// InvalidPriorityError indicates an invalid priority value.
type InvalidPriorityError struct {
	Value string
}

func (e InvalidPriorityError) Error() string {
	return fmt.Sprintf("invalid priority: %s (valid: high, medium, low)", e.Value)
}

// InvalidStatusFilterError indicates an unknown status filter value.
type InvalidStatusFilterError struct {
	Value string
}

func (e InvalidStatusFilterError) Error() string {
	return fmt.Sprintf("invalid status filter: %s (valid: all, pending, completed)", e.Value)
}

// InvalidDateError indicates a due date that is not a YYYY-MM-DD calendar date.
type InvalidDateError struct {
	Value string
}

func (e InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date: %s (expected YYYY-MM-DD)", e.Value)
}

// SessionClosedError indicates a form operation was attempted with no open session.
type SessionClosedError struct{}

func (e SessionClosedError) Error() string {
	return "no form session is open"
}
