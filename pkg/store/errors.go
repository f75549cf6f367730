package store

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("store closed")

	// ErrUnsupportedDriver is returned by Open for unknown driver names.
	ErrUnsupportedDriver = errors.New("unsupported store driver")

	// ErrConnectionFailed is returned when a database cannot be reached.
	ErrConnectionFailed = errors.New("database connection failed")

	// ErrMigrationFailed is returned when schema migrations fail.
	ErrMigrationFailed = errors.New("database migration failed")

	// ErrInvalidKey is returned for empty slot keys.
	ErrInvalidKey = errors.New("slot key is required")
)

// Error wraps a backend failure with the operation and slot key.
type Error struct {
	Op      string
	Key     string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Key != "" {
		return fmt.Sprintf("store: %s %q: %s", e.Op, e.Key, msg)
	}
	return fmt.Sprintf("store: %s: %s", e.Op, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an Error.
func NewError(op, key, message string, err error) *Error {
	return &Error{Op: op, Key: key, Message: message, Err: err}
}
