package storage

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

const slotExt = ".json"

// Slot is a single named value in a local durable key-value area.
type Slot interface {
	Name() string
	// Read returns the slot content, or ErrSlotEmpty if it was never written.
	Read() ([]byte, error)
	// Write replaces the slot content.
	Write(data []byte) error
}

// FileSlot stores the slot as one file under a directory.
type FileSlot struct {
	dir  string
	name string
}

// NewFileSlot creates a FileSlot for name under dir.
func NewFileSlot(dir, name string) *FileSlot {
	return &FileSlot{dir: dir, name: name}
}

// Name returns the slot name.
func (s *FileSlot) Name() string {
	return s.name
}

// Path returns the full path of the slot file.
func (s *FileSlot) Path() string {
	return filepath.Join(s.dir, SanitizeName(s.name)+slotExt)
}

// Read reads the slot file.
func (s *FileSlot) Read() ([]byte, error) {
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrSlotEmpty
	}
	return data, err
}

// Write replaces the slot file. The content is written to a temp file in the
// same directory and renamed over the old one.
func (s *FileSlot) Write(data []byte) error {
	//nolint:gosec // G301: 0755 is appropriate for user-accessible data directory
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+SanitizeName(s.name)+"-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	//nolint:gosec // G302: 0644 is appropriate for user-readable task snapshots
	if err = os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, s.Path())
}

// MemorySlot keeps the slot in memory. Useful for tests and throwaway sessions.
type MemorySlot struct {
	mu   sync.Mutex
	name string
	data []byte
	set  bool
}

// NewMemorySlot creates an empty MemorySlot.
func NewMemorySlot(name string) *MemorySlot {
	return &MemorySlot{name: name}
}

// Name returns the slot name.
func (s *MemorySlot) Name() string {
	return s.name
}

// Read returns a copy of the stored bytes.
func (s *MemorySlot) Read() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return nil, ErrSlotEmpty
	}
	return append([]byte(nil), s.data...), nil
}

// Write stores a copy of data.
func (s *MemorySlot) Write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
	s.set = true
	return nil
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// SanitizeName converts a slot name to a safe file name.
// "taskflow tasks/v1" -> "taskflow-tasks-v1"
func SanitizeName(name string) string {
	result := unsafeNameChars.ReplaceAllString(name, "-")
	result = strings.Trim(result, "-")
	if result == "" {
		return "slot"
	}
	return result
}
