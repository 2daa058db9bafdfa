package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrEmptyID     = errors.New("note has no ID")
	ErrDuplicateID = errors.New("duplicate note ID")
	ErrClosed      = errors.New("note is closed")
	ErrReadOnly    = errors.New("store is in read-only mode")
	ErrNoGeometry  = errors.New("note has no geometry")
)

// PersistenceError reports a failure to write the note collection to its
// storage medium, or to read the collection back before modifying it.
// LoadAll never produces one: it heals unreadable documents as empty.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsPersistence reports whether err wraps a *PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
