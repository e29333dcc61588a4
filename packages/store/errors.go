package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by Get, Update, and Delete when the key
	// does not exist in the collection.
	ErrNotFound = errors.New("key not found")

	// ErrDuplicateKey is returned by Set when the key already exists.
	// Set never overwrites; use Update for existing keys.
	ErrDuplicateKey = errors.New("key already exists")

	// ErrInvalidCollection is returned when the collection or table name
	// is empty or not a valid identifier.
	ErrInvalidCollection = errors.New("invalid collection or table name")
)

// ConnectionError reports a backend that could not be reached or a
// backend-level failure during an operation. The connection string parse
// failures surface through it as well.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

func connErr(op string, err error) *ConnectionError {
	return &ConnectionError{Op: op, Err: err}
}
