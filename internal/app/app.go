// Package app is the surface presentation code talks to. It forwards user
// intents to the task store and keeps the derived view current.
package app

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/abatilo/taskflow/internal/category"
	"github.com/abatilo/taskflow/internal/form"
	"github.com/abatilo/taskflow/internal/store"
	"github.com/abatilo/taskflow/internal/task"
	"github.com/abatilo/taskflow/internal/view"
)

// App wires the category registry, task store, view parameters and form
// session together.
type App struct {
	// intentMu serializes intents so each one runs to completion before the next.
	intentMu sync.Mutex

	mu         sync.Mutex
	store      *store.Store
	categories *category.Registry
	form       *form.Session
	now        func() time.Time
	logger     *slog.Logger

	filter  view.Filter
	all     []*task.Task
	visible []*task.Task

	unsubscribe func()
}

// Option configures an App.
type Option func(*App)

// WithClock overrides the time used for overdue computation.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New creates an App over s and computes the initial view.
func New(s *store.Store, categories *category.Registry, opts ...Option) *App {
	a := &App{
		store:      s,
		categories: categories,
		form:       form.NewSession(s),
		now:        time.Now,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		filter:     view.DefaultFilter(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.refresh()
	a.unsubscribe = s.Subscribe(func(e store.Event) {
		a.logger.Debug("recomputing view", slog.String("event", string(e.Kind)), slog.String("id", e.TaskID))
		a.refresh()
	})
	return a
}

// Close stops listening for store changes.
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
}

// CreateTask commits a create-mode form session with the given fields. On
// failure the session stays open with LastError set.
func (a *App) CreateTask(d task.Draft) (*task.Task, error) {
	a.intentMu.Lock()
	defer a.intentMu.Unlock()
	a.form.Begin(nil)
	return a.commit(d)
}

// UpdateTask commits an edit-mode form session for id with the given fields.
// On failure the session stays open with LastError set.
func (a *App) UpdateTask(id string, d task.Draft) (*task.Task, error) {
	a.intentMu.Lock()
	defer a.intentMu.Unlock()
	existing, err := a.store.Get(id)
	if err != nil {
		return nil, err
	}
	a.form.Begin(existing)
	return a.commit(d)
}

func (a *App) commit(d task.Draft) (*task.Task, error) {
	if err := a.form.SetDraft(d); err != nil {
		return nil, err
	}
	return a.form.Commit()
}

// DeleteTask removes a task. Unknown ids are ignored.
func (a *App) DeleteTask(id string) {
	a.intentMu.Lock()
	defer a.intentMu.Unlock()
	a.store.Delete(id)
}

// ToggleTask flips a task between pending and completed.
func (a *App) ToggleTask(id string) (*task.Task, error) {
	a.intentMu.Lock()
	defer a.intentMu.Unlock()
	return a.store.ToggleStatus(id)
}

// SetStatusFilter changes the status filter.
func (a *App) SetStatusFilter(f view.StatusFilter) {
	a.mu.Lock()
	a.filter.Status = f
	a.mu.Unlock()
	a.refresh()
}

// SetCategoryFilter changes the category filter. Any id is accepted.
func (a *App) SetCategoryFilter(id string) {
	a.mu.Lock()
	a.filter.Category = id
	a.mu.Unlock()
	a.refresh()
}

// SetSearchText changes the search text.
func (a *App) SetSearchText(s string) {
	a.mu.Lock()
	a.filter.Search = s
	a.mu.Unlock()
	a.refresh()
}

// SetFilter replaces all view parameters at once.
func (a *App) SetFilter(f view.Filter) {
	a.mu.Lock()
	a.filter = f
	a.mu.Unlock()
	a.refresh()
}

// Filter returns the current view parameters.
func (a *App) Filter() view.Filter {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.filter
}

// CurrentTasks returns the full collection.
func (a *App) CurrentTasks() []*task.Task {
	a.mu.Lock()
	defer a.mu.Unlock()
	return cloneAll(a.all)
}

// VisibleTasks returns the filtered collection.
func (a *App) VisibleTasks() []*task.Task {
	a.mu.Lock()
	defer a.mu.Unlock()
	return cloneAll(a.visible)
}

// Stats returns aggregate counts over the full collection. Overdue is
// evaluated against the clock on every call.
func (a *App) Stats() view.Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return view.ComputeStats(a.all, a.now())
}

// Categories returns the fixed category registry.
func (a *App) Categories() *category.Registry {
	return a.categories
}

// Form returns the form session, for presentation code that edits drafts
// field by field. The session itself is not safe for concurrent use.
func (a *App) Form() *form.Session {
	return a.form
}

// Get returns one task.
func (a *App) Get(id string) (*task.Task, error) {
	return a.store.Get(id)
}

func (a *App) refresh() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.all = a.store.Tasks()
	a.visible = view.VisibleTasks(a.all, a.filter)
}

func cloneAll(tasks []*task.Task) []*task.Task {
	out := make([]*task.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
