// Package store owns the in-memory task collection. Every mutation goes
// through Store, is persisted as one full snapshot, and is announced to
// subscribers.
package store

import (
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	tferrors "github.com/abatilo/taskflow/internal/errors"
	"github.com/abatilo/taskflow/internal/task"
)

// Persister loads and saves the full task collection.
type Persister interface {
	Load() []*task.Task
	Save(tasks []*task.Task) error
}

// EventKind names the mutation that produced an Event.
type EventKind string

const (
	EventCreated EventKind = "created"
	EventUpdated EventKind = "updated"
	EventDeleted EventKind = "deleted"
	EventToggled EventKind = "toggled"
)

// Event is delivered to subscribers after a successful mutation.
type Event struct {
	Kind   EventKind
	TaskID string
}

// Store is the sole owner and writer of the task collection.
type Store struct {
	mu        sync.Mutex
	tasks     []*task.Task
	persister Persister
	now       func() time.Time
	logger    *slog.Logger

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(Event)
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Store and loads the persisted collection once.
func New(p Persister, opts ...Option) *Store {
	s := &Store{
		persister: p,
		now:       time.Now,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		subs:      make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tasks = p.Load()
	if s.tasks == nil {
		s.tasks = []*task.Task{}
	}
	return s
}

// Tasks returns a deep copy of the collection in insertion order.
func (s *Store) Tasks() []*task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.tasks)
}

// Get returns a copy of the task with the given id.
func (s *Store) Get(id string) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return nil, tferrors.TaskNotFoundError{ID: id}
	}
	return s.tasks[i].Clone(), nil
}

// Create adds a new pending task built from the draft.
func (s *Store) Create(d task.Draft) (*task.Task, error) {
	if err := checkDraft(d); err != nil {
		return nil, err
	}

	s.mu.Lock()
	now := s.timestamp()
	t := &task.Task{
		Status:    task.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	t.Apply(d)
	t.ID = task.GenerateID(t.Title, now, func(id string) bool { return s.indexOf(id) >= 0 })
	s.tasks = append(s.tasks, t)
	out := t.Clone()
	s.persistLocked()
	s.mu.Unlock()

	s.logger.Debug("task created", slog.String("id", out.ID))
	s.publish(Event{Kind: EventCreated, TaskID: out.ID})
	return out, nil
}

// Update replaces the editable fields of an existing task. ID, creation time
// and status are preserved.
func (s *Store) Update(id string, d task.Draft) (*task.Task, error) {
	if err := checkDraft(d); err != nil {
		return nil, err
	}

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return nil, tferrors.TaskNotFoundError{ID: id}
	}
	t := s.tasks[i]
	t.Apply(d)
	t.UpdatedAt = s.touch(t)
	out := t.Clone()
	s.persistLocked()
	s.mu.Unlock()

	s.logger.Debug("task updated", slog.String("id", id))
	s.publish(Event{Kind: EventUpdated, TaskID: id})
	return out, nil
}

// Delete removes the task with the given id. Deleting an absent id is a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	before := len(s.tasks)
	s.tasks = slices.DeleteFunc(s.tasks, func(t *task.Task) bool { return t.ID == id })
	removed := len(s.tasks) != before
	s.persistLocked()
	s.mu.Unlock()

	s.logger.Debug("task deleted", slog.String("id", id), slog.Bool("removed", removed))
	s.publish(Event{Kind: EventDeleted, TaskID: id})
}

// ToggleStatus flips a task between pending and completed.
func (s *Store) ToggleStatus(id string) (*task.Task, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return nil, tferrors.TaskNotFoundError{ID: id}
	}
	t := s.tasks[i]
	t.Status = t.Status.Toggled()
	t.UpdatedAt = s.touch(t)
	out := t.Clone()
	s.persistLocked()
	s.mu.Unlock()

	s.logger.Debug("task toggled", slog.String("id", id), slog.String("status", string(out.Status)))
	s.publish(Event{Kind: EventToggled, TaskID: id})
	return out, nil
}

// Subscribe registers fn to be called after every mutation. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) publish(e Event) {
	s.subMu.Lock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(Event), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}

// persistLocked writes the snapshot. Failures are logged and otherwise
// ignored; the in-memory collection stays authoritative.
func (s *Store) persistLocked() {
	if err := s.persister.Save(cloneAll(s.tasks)); err != nil {
		s.logger.Warn("unable to persist tasks", slog.Int("tasks", len(s.tasks)), slog.String("error", err.Error()))
	}
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

// touch returns the new UpdatedAt for t, never earlier than CreatedAt.
func (s *Store) touch(t *task.Task) time.Time {
	now := s.timestamp()
	if now.Before(t.CreatedAt) {
		return t.CreatedAt
	}
	return now
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.tasks, func(t *task.Task) bool { return t.ID == id })
}

// checkDraft rejects a blank title and an unknown priority. An empty priority
// is allowed and defaults to medium.
func checkDraft(d task.Draft) error {
	if strings.TrimSpace(d.Title) == "" {
		return tferrors.ValidationError{Field: "title", Reason: "Task title is required!"}
	}
	if d.Priority != "" && !task.IsValidPriority(d.Priority) {
		return tferrors.InvalidPriorityError{Value: string(d.Priority)}
	}
	return nil
}

func cloneAll(tasks []*task.Task) []*task.Task {
	out := make([]*task.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
