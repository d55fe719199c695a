package gridkit

import (
	"errors"
	"fmt"

	"github.com/hupe1980/gridkit/blobstore"
	"github.com/hupe1980/gridkit/column"
	"github.com/hupe1980/gridkit/state"
	"github.com/hupe1980/gridkit/viewstore"
)

var (
	// ErrUnknownColumn is returned when a filter or sort names a column the
	// grid does not have.
	ErrUnknownColumn = state.ErrUnknownColumn

	// ErrAttributesUnsupported is returned when attribute fields are
	// requested for a row type that does not carry attributes.
	ErrAttributesUnsupported = column.ErrAttributesUnsupported

	// ErrNotFound is returned when a dataset blob does not exist.
	ErrNotFound = blobstore.ErrNotFound

	// ErrViewNotFound is returned when a saved view does not exist.
	ErrViewNotFound = viewstore.ErrViewNotFound

	// ErrInvalidField is returned by Builder for empty or duplicate field names.
	ErrInvalidField = errors.New("invalid field")
)

// ErrLoad reports a dataset that could not be loaded into a grid.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrLoad struct {
	Name  string
	cause error
}

func (e *ErrLoad) Error() string {
	return fmt.Sprintf("load %q: %v", e.Name, e.cause)
}

func (e *ErrLoad) Unwrap() error { return e.cause }

// ErrInvalidView reports a view that does not fit the grid.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrInvalidView struct {
	View  string
	cause error
}

func (e *ErrInvalidView) Error() string {
	return fmt.Sprintf("apply view %q: %v", e.View, e.cause)
}

func (e *ErrInvalidView) Unwrap() error { return e.cause }

func loadError(name string, err error) error {
	if err == nil {
		return nil
	}
	var le *ErrLoad
	if errors.As(err, &le) {
		return err
	}
	return &ErrLoad{Name: name, cause: err}
}
