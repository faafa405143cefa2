package task

import (
	"regexp"
	"strings"
	"time"
)

// Status represents the completion state of a task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Toggled returns the opposite status.
func (s Status) Toggled() Status {
	if s == StatusCompleted {
		return StatusPending
	}
	return StatusCompleted
}

// Priority represents the importance level of a task.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// DefaultCategoryID is the id of the first seeded category.
const DefaultCategoryID = "1"

// Task represents a tracked work item.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     *Date     `json:"dueDate"`
	Priority    Priority  `json:"priority"`
	CategoryID  string    `json:"categoryId"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	return &c
}

// Apply replaces the editable fields of t with the draft's values. Empty
// priority and category fall back to the draft defaults.
func (t *Task) Apply(d Draft) {
	t.Title = strings.TrimSpace(d.Title)
	t.Description = d.Description
	t.DueDate = d.DueDate.Copy()
	if t.DueDate != nil && t.DueDate.IsZero() {
		t.DueDate = nil
	}
	t.Priority = d.Priority
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	t.CategoryID = d.CategoryID
	if t.CategoryID == "" {
		t.CategoryID = DefaultCategoryID
	}
}

// Draft is the editable field set of a task before it is committed.
type Draft struct {
	Title       string
	Description string
	DueDate     *Date
	Priority    Priority
	CategoryID  string
}

// NewDraft returns a draft with the create-mode defaults.
func NewDraft() Draft {
	return Draft{
		Priority:   PriorityMedium,
		CategoryID: DefaultCategoryID,
	}
}

// DraftFrom pre-fills a draft from an existing task.
func DraftFrom(t *Task) Draft {
	return Draft{
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate.Copy(),
		Priority:    t.Priority,
		CategoryID:  t.CategoryID,
	}
}

// IsValidStatus checks if a status string is valid.
func IsValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusCompleted:
		return true
	default:
		return false
	}
}

// IsValidPriority checks if a priority string is valid.
func IsValidPriority(p Priority) bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

var idPattern = regexp.MustCompile(`^[0-9a-z]+$`)

// IsValidID reports whether id is a non-empty lowercase base36 string, the
// form GenerateID produces.
func IsValidID(id string) bool {
	return idPattern.MatchString(id)
}
