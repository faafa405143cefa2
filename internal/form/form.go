// Package form holds the transient create/edit draft for a task.
package form

import (
	"strings"

	tferrors "github.com/abatilo/taskflow/internal/errors"
	"github.com/abatilo/taskflow/internal/task"
)

// Mode says whether a session creates a new task or edits an existing one.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Committer is the part of the task store a form session writes through.
type Committer interface {
	Create(d task.Draft) (*task.Task, error)
	Update(id string, d task.Draft) (*task.Task, error)
}

// ValidDraft is a draft that passed Validate.
type ValidDraft struct {
	task.Draft
}

// Validate checks that the draft's title is non-empty after trimming.
func Validate(d task.Draft) (ValidDraft, error) {
	if strings.TrimSpace(d.Title) == "" {
		return ValidDraft{}, tferrors.ValidationError{Field: "title", Reason: "Task title is required!"}
	}
	if d.Priority != "" && !task.IsValidPriority(d.Priority) {
		return ValidDraft{}, tferrors.InvalidPriorityError{Value: string(d.Priority)}
	}
	return ValidDraft{Draft: d}, nil
}

// Session is a create/edit form. It is Closed until Begin is called and
// closes again after a successful Commit or a Cancel.
type Session struct {
	store     Committer
	open      bool
	mode      Mode
	editingID string
	draft     task.Draft
	lastErr   error
}

// NewSession creates a closed session that commits to store.
func NewSession(store Committer) *Session {
	return &Session{store: store}
}

// Begin opens the session. With a nil initial task it starts a create-mode
// draft with defaults; otherwise it pre-fills an edit-mode draft. Calling
// Begin on an open session discards the previous draft.
func (s *Session) Begin(initial *task.Task) task.Draft {
	s.open = true
	s.lastErr = nil
	if initial == nil {
		s.mode = ModeCreate
		s.editingID = ""
		s.draft = task.NewDraft()
	} else {
		s.mode = ModeEdit
		s.editingID = initial.ID
		s.draft = task.DraftFrom(initial)
	}
	return s.draft
}

// IsOpen reports whether a draft is being edited.
func (s *Session) IsOpen() bool { return s.open }

// Mode returns the session mode. Empty when closed.
func (s *Session) Mode() Mode {
	if !s.open {
		return ""
	}
	return s.mode
}

// EditingID returns the id of the task being edited, if any.
func (s *Session) EditingID() string { return s.editingID }

// Draft returns the current draft.
func (s *Session) Draft() task.Draft { return s.draft }

// LastError returns the error of the most recent failed commit.
func (s *Session) LastError() error { return s.lastErr }

// SetDraft replaces the draft fields.
func (s *Session) SetDraft(d task.Draft) error {
	if !s.open {
		return tferrors.SessionClosedError{}
	}
	s.draft = d
	return nil
}

// Commit validates the draft and writes it to the store. On success the
// session closes; on failure it stays open with LastError set.
func (s *Session) Commit() (*task.Task, error) {
	if !s.open {
		return nil, tferrors.SessionClosedError{}
	}

	valid, err := Validate(s.draft)
	if err != nil {
		s.lastErr = err
		return nil, err
	}

	var t *task.Task
	if s.mode == ModeEdit {
		t, err = s.store.Update(s.editingID, valid.Draft)
	} else {
		t, err = s.store.Create(valid.Draft)
	}
	if err != nil {
		s.lastErr = err
		return nil, err
	}

	s.reset()
	return t, nil
}

// Cancel discards the session without touching the store.
func (s *Session) Cancel() {
	s.reset()
}

func (s *Session) reset() {
	s.open = false
	s.mode = ""
	s.editingID = ""
	s.draft = task.Draft{}
	s.lastErr = nil
}
