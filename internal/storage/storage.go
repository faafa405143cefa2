package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/abatilo/taskflow/internal/task"
)

// DefaultSlotName is the slot holding the task collection.
const DefaultSlotName = "taskflow-tasks"

const sqliteFile = "taskflow.db"

// Backend names accepted by OpenSlot.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Adapter round-trips the full task collection through a Slot.
type Adapter struct {
	slot   Slot
	logger *slog.Logger
}

// NewAdapter creates an Adapter over slot. A nil logger discards output.
func NewAdapter(slot Slot, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Adapter{slot: slot, logger: logger}
}

// Load reads the snapshot. It never fails: a missing, unreadable or malformed
// slot yields an empty collection.
func (a *Adapter) Load() []*task.Task {
	data, err := a.slot.Read()
	if errors.Is(err, ErrSlotEmpty) {
		a.logger.Debug("slot empty, starting with no tasks", slog.String("slot", a.slot.Name()))
		return []*task.Task{}
	}
	if err != nil {
		a.logger.Warn("unable to read slot", slog.String("slot", a.slot.Name()), slog.String("error", err.Error()))
		return []*task.Task{}
	}

	tasks, err := DecodeSnapshot(data)
	if err != nil {
		a.logger.Warn("discarding malformed snapshot", slog.String("slot", a.slot.Name()), slog.String("error", err.Error()))
		return []*task.Task{}
	}
	a.logger.Debug("loaded snapshot", slog.String("slot", a.slot.Name()), slog.Int("tasks", len(tasks)))
	return tasks
}

// Save serializes the full collection and overwrites the slot.
func (a *Adapter) Save(tasks []*task.Task) error {
	data, err := EncodeSnapshot(tasks)
	if err != nil {
		return err
	}
	return a.slot.Write(data)
}

// EncodeSnapshot marshals the collection as a JSON array of task records.
func EncodeSnapshot(tasks []*task.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []*task.Task{}
	}
	return json.Marshal(tasks)
}

// DecodeSnapshot parses a JSON array of task records. A snapshot holding any
// record that breaks a task invariant is rejected as a whole.
func DecodeSnapshot(data []byte) ([]*task.Task, error) {
	var tasks []*task.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, &parseError{"invalid snapshot: " + err.Error()}
	}
	out := make([]*task.Task, 0, len(tasks))
	seen := make(map[string]bool, len(tasks))
	for i, t := range tasks {
		if t == nil {
			return nil, &parseError{fmt.Sprintf("invalid snapshot: record %d is null", i)}
		}
		if err := checkRecord(t); err != nil {
			return nil, &parseError{fmt.Sprintf("invalid snapshot: record %d: %s", i, err)}
		}
		if seen[t.ID] {
			return nil, &parseError{fmt.Sprintf("invalid snapshot: duplicate id %q", t.ID)}
		}
		seen[t.ID] = true
		if t.DueDate != nil && t.DueDate.IsZero() {
			t.DueDate = nil
		}
		out = append(out, t)
	}
	return out, nil
}

func checkRecord(t *task.Task) error {
	switch {
	case !task.IsValidID(t.ID):
		return fmt.Errorf("invalid id %q", t.ID)
	case strings.TrimSpace(t.Title) == "":
		return errors.New("empty title")
	case !task.IsValidStatus(t.Status):
		return fmt.Errorf("invalid status %q", t.Status)
	case !task.IsValidPriority(t.Priority):
		return fmt.Errorf("invalid priority %q", t.Priority)
	case t.UpdatedAt.Before(t.CreatedAt):
		return errors.New("updatedAt before createdAt")
	}
	return nil
}

// OpenSlot opens the named slot on the given backend. The returned closer
// releases backend resources and is never nil.
func OpenSlot(backend, dataDir, name string) (Slot, io.Closer, error) {
	switch backend {
	case BackendFile, "":
		return NewFileSlot(dataDir, name), nopCloser{}, nil
	case BackendSQLite:
		s, err := OpenSQLiteSlot(filepath.Join(dataDir, sqliteFile), name)
		if err != nil {
			return nil, nopCloser{}, err
		}
		return s, s, nil
	case BackendMemory:
		return NewMemorySlot(name), nopCloser{}, nil
	default:
		return nil, nopCloser{}, UnknownBackendError{Name: backend}
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
