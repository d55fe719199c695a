package column

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidColumn is returned when a spec has no name.
	ErrInvalidColumn = errors.New("invalid column")

	// ErrDuplicateColumn is returned when two specs share a name.
	ErrDuplicateColumn = errors.New("duplicate column")

	// ErrAttributesUnsupported is returned when attribute columns are
	// requested for rows that do not carry attributes.
	ErrAttributesUnsupported = errors.New("row type does not support attributes")
)

// TemplateError reports a template accessor that failed to compile.
//
// The original parse error can be accessed via errors.Unwrap.
type TemplateError struct {
	Column   string
	Accessor string
	cause    error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("column %q: %s template: %v", e.Column, e.Accessor, e.cause)
}

func (e *TemplateError) Unwrap() error { return e.cause }
