package settings

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a document or profile does not exist
	// where one was expected.
	ErrNotFound = errors.New("not found")

	// ErrInvalidName is returned when a profile name is empty (after
	// trimming) or unusable as a file name.
	ErrInvalidName = errors.New("invalid profile name")
)

// ParseError wraps a syntactically malformed stored or imported document.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError reports a document that parsed but does not conform to
// the configuration schema. It never implies partial application: callers
// must leave all state untouched when they receive one.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid document: " + e.Problems[0]
	}
	return fmt.Sprintf("invalid document (%d problems): %s",
		len(e.Problems), strings.Join(e.Problems, "; "))
}
