package store

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tferrors "github.com/abatilo/taskflow/internal/errors"
	"github.com/abatilo/taskflow/internal/storage"
	"github.com/abatilo/taskflow/internal/task"
)

// fakeClock advances by one second on every read.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

// recordingPersister counts saves and keeps the last snapshot.
type recordingPersister struct {
	initial []*task.Task
	saves   int
	last    []*task.Task
	failErr error
}

func (p *recordingPersister) Load() []*task.Task { return p.initial }

func (p *recordingPersister) Save(tasks []*task.Task) error {
	p.saves++
	p.last = tasks
	return p.failErr
}

func newTestStore(t *testing.T) (*Store, *recordingPersister) {
	t.Helper()
	p := &recordingPersister{}
	clock := &fakeClock{t: time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)}
	return New(p, WithClock(clock.Now)), p
}

func draft(title string) task.Draft {
	d := task.NewDraft()
	d.Title = title
	return d
}

func TestCreate(t *testing.T) {
	s, p := newTestStore(t)

	tk, err := s.Create(draft("  Ship report  "))
	require.NoError(t, err)

	assert.NotEmpty(t, tk.ID)
	assert.Equal(t, "Ship report", tk.Title)
	assert.Equal(t, task.StatusPending, tk.Status)
	assert.Equal(t, task.PriorityMedium, tk.Priority)
	assert.Equal(t, task.DefaultCategoryID, tk.CategoryID)
	assert.Equal(t, tk.CreatedAt, tk.UpdatedAt)

	assert.Equal(t, 1, p.saves)
	require.Len(t, p.last, 1)
	assert.Equal(t, tk, p.last[0])
}

func TestCreateUniqueIDs(t *testing.T) {
	s, _ := newTestStore(t)
	seen := map[string]bool{}
	for n := 0; n < 100; n++ {
		tk, err := s.Create(draft("same title"))
		require.NoError(t, err)
		require.False(t, seen[tk.ID], "duplicate id %s", tk.ID)
		seen[tk.ID] = true
	}
	assert.Len(t, s.Tasks(), 100)
}

func TestCreateWhitespaceTitleFails(t *testing.T) {
	s, p := newTestStore(t)

	_, err := s.Create(draft("   "))
	var ve tferrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "title", ve.Field)

	assert.Empty(t, s.Tasks())
	assert.Zero(t, p.saves)
}

func TestCreateUnknownPriorityFails(t *testing.T) {
	s, p := newTestStore(t)

	d := draft("urgent thing")
	d.Priority = "urgent"
	_, err := s.Create(d)
	var ipe tferrors.InvalidPriorityError
	require.ErrorAs(t, err, &ipe)
	assert.Equal(t, "urgent", ipe.Value)
	assert.Empty(t, s.Tasks())
	assert.Zero(t, p.saves)

	tk, err := s.Create(draft("fine"))
	require.NoError(t, err)
	d.Title = "still fine"
	_, err = s.Update(tk.ID, d)
	require.ErrorAs(t, err, &ipe)

	got, err := s.Get(tk.ID)
	require.NoError(t, err)
	assert.Equal(t, task.PriorityMedium, got.Priority)
}

func TestUpdatePreservesIdentity(t *testing.T) {
	s, p := newTestStore(t)
	orig, err := s.Create(draft("Write tests"))
	require.NoError(t, err)
	_, err = s.ToggleStatus(orig.ID)
	require.NoError(t, err)

	due := task.Date{Year: 2026, Month: time.November, Day: 1}
	updated, err := s.Update(orig.ID, task.Draft{
		Title:       "Write more tests",
		Description: "cover the store",
		DueDate:     &due,
		Priority:    task.PriorityHigh,
		CategoryID:  "4",
	})
	require.NoError(t, err)

	assert.Equal(t, orig.ID, updated.ID)
	assert.Equal(t, orig.CreatedAt, updated.CreatedAt)
	assert.Equal(t, task.StatusCompleted, updated.Status, "update must keep status")
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))
	assert.Equal(t, "Write more tests", updated.Title)
	assert.Equal(t, "cover the store", updated.Description)
	assert.Equal(t, &due, updated.DueDate)
	assert.Equal(t, task.PriorityHigh, updated.Priority)
	assert.Equal(t, "4", updated.CategoryID)
	assert.Equal(t, 3, p.saves)
}

func TestUpdateMissing(t *testing.T) {
	s, p := newTestStore(t)

	_, err := s.Update("nope", draft("x"))
	var nf tferrors.TaskNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "nope", nf.ID)
	assert.Zero(t, p.saves)
}

func TestUpdateEmptyTitle(t *testing.T) {
	s, _ := newTestStore(t)
	tk, err := s.Create(draft("keep me"))
	require.NoError(t, err)

	_, err = s.Update(tk.ID, draft(""))
	var ve tferrors.ValidationError
	require.ErrorAs(t, err, &ve)

	got, err := s.Get(tk.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep me", got.Title)
}

func TestToggleTwiceRestoresStatus(t *testing.T) {
	s, _ := newTestStore(t)
	orig, err := s.Create(draft("Stretch"))
	require.NoError(t, err)

	once, err := s.ToggleStatus(orig.ID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusCompleted, once.Status)

	twice, err := s.ToggleStatus(orig.ID)
	require.NoError(t, err)
	assert.Equal(t, orig.Status, twice.Status)
	assert.True(t, twice.UpdatedAt.After(orig.UpdatedAt))

	twice.UpdatedAt = orig.UpdatedAt
	assert.Equal(t, orig, twice, "only updatedAt may differ")
}

func TestToggleMissing(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.ToggleStatus("ghost")
	assert.True(t, errors.As(err, &tferrors.TaskNotFoundError{}))
}

func TestDeleteIsIdempotent(t *testing.T) {
	s, p := newTestStore(t)
	a, _ := s.Create(draft("a"))
	b, _ := s.Create(draft("b"))

	s.Delete(a.ID)
	s.Delete(a.ID)
	s.Delete("never-existed")

	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, b.ID, tasks[0].ID)
	assert.Equal(t, 5, p.saves, "every mutating call writes one snapshot")
}

func TestUpdatedAtNeverBeforeCreatedAt(t *testing.T) {
	p := &recordingPersister{}
	times := []time.Time{
		time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC),
		time.Date(2026, 10, 17, 11, 0, 0, 0, time.UTC), // clock stepped back
	}
	i := 0
	s := New(p, WithClock(func() time.Time {
		now := times[min(i, len(times)-1)]
		i++
		return now
	}))

	tk, err := s.Create(draft("x"))
	require.NoError(t, err)
	toggled, err := s.ToggleStatus(tk.ID)
	require.NoError(t, err)
	assert.False(t, toggled.UpdatedAt.Before(toggled.CreatedAt))
}

func TestSaveFailureKeepsMemory(t *testing.T) {
	p := &recordingPersister{failErr: errors.New("read-only filesystem")}
	s := New(p)

	tk, err := s.Create(draft("still here"))
	require.NoError(t, err)

	got, err := s.Get(tk.ID)
	require.NoError(t, err)
	assert.Equal(t, "still here", got.Title)
}

func TestLoadsPersistedCollection(t *testing.T) {
	slot := storage.NewMemorySlot(storage.DefaultSlotName)
	first := New(storage.NewAdapter(slot, nil))
	a, err := first.Create(draft("first"))
	require.NoError(t, err)
	_, err = first.Create(draft("second"))
	require.NoError(t, err)

	second := New(storage.NewAdapter(slot, nil))
	tasks := second.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, a.ID, tasks[0].ID)
	assert.Equal(t, "second", tasks[1].Title)
}

func TestTasksReturnsCopies(t *testing.T) {
	s, _ := newTestStore(t)
	tk, _ := s.Create(draft("original"))

	snapshot := s.Tasks()
	snapshot[0].Title = "mutated"

	got, err := s.Get(tk.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", got.Title)
}

func TestSubscribe(t *testing.T) {
	s, p := newTestStore(t)

	var events []Event
	savesAtNotify := -1
	unsubscribe := s.Subscribe(func(e Event) {
		events = append(events, e)
		savesAtNotify = p.saves
	})

	tk, _ := s.Create(draft("observe me"))
	assert.Equal(t, 1, savesAtNotify, "notification comes after the write")
	_, _ = s.ToggleStatus(tk.ID)
	_, _ = s.Update(tk.ID, draft("renamed"))
	_, _ = s.Update("missing", draft("x"))
	s.Delete(tk.ID)

	assert.Equal(t, []Event{
		{Kind: EventCreated, TaskID: tk.ID},
		{Kind: EventToggled, TaskID: tk.ID},
		{Kind: EventUpdated, TaskID: tk.ID},
		{Kind: EventDeleted, TaskID: tk.ID},
	}, events)

	unsubscribe()
	_, _ = s.Create(draft("unobserved"))
	assert.Len(t, events, 4)
}
