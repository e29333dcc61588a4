package cmd

import (
	"errors"

	"github.com/abdul-hamid-achik/envrx/packages/envfile"
	"github.com/abdul-hamid-achik/envrx/packages/store"
)

// Exit codes for the envrx CLI
const (
	// ExitSuccess indicates the command completed
	ExitSuccess = 0

	// ExitError indicates a generic failure
	ExitError = 1

	// ExitParseError indicates a file parsing or validation error
	ExitParseError = 2

	// ExitKeyError indicates a missing or duplicate key
	ExitKeyError = 3

	// ExitConnectionError indicates the database could not be reached
	ExitConnectionError = 4

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

// exitCode maps an error to the process exit code.
func exitCode(err error) int {
	var parseErr *envfile.ParseError
	var validationErr *envfile.ValidationError
	var connErr *store.ConnectionError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &parseErr), errors.As(err, &validationErr):
		return ExitParseError
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrDuplicateKey):
		return ExitKeyError
	case errors.As(err, &connErr):
		return ExitConnectionError
	default:
		return ExitError
	}
}
