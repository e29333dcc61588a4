package envrx

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConnected is returned by the store pass-through methods when
	// no connection has been established yet.
	ErrNotConnected = errors.New("not connected to a store")

	// ErrNoStore is returned by Connect when the Env was built without
	// a store source.
	ErrNoStore = errors.New("no store configured")

	// ErrAlreadyInitialized is returned by Initialize on a second call;
	// the Initialized state is terminal.
	ErrAlreadyInitialized = errors.New("already initialized")
)

// InitializationError wraps the file or store failure that aborted
// Initialize. Entries already exported to the process environment are
// not rolled back.
type InitializationError struct {
	Err error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("initialize: %v", e.Err)
}

func (e *InitializationError) Unwrap() error {
	return e.Err
}
