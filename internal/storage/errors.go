package storage

import (
	"errors"
	"fmt"
)

// ErrSlotEmpty indicates the named slot has never been written.
var ErrSlotEmpty = errors.New("slot is empty")

// parseError represents a snapshot that could not be decoded.
type parseError struct {
	msg string
}

func (e *parseError) Error() string {
	return e.msg
}

// UnknownBackendError indicates a slot backend name that is not supported.
type UnknownBackendError struct {
	Name string
}

func (e UnknownBackendError) Error() string {
	return fmt.Sprintf("unknown storage backend: %s (valid: file, sqlite, memory)", e.Name)
}
