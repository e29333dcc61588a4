package envfile

import "fmt"

// ParseError reports a file that could not be read or was not
// syntactically valid for its format.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError reports a syntactically valid file whose top-level
// structure is not a flat mapping of scalar values.
type ValidationError struct {
	Path string
	Key  string
}

func (e *ValidationError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: top-level structure is not a flat mapping", e.Path)
	}
	return fmt.Sprintf("%s: key %q has a nested value, expected a flat mapping", e.Path, e.Key)
}
