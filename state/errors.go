package state

import "errors"

// ErrUnknownColumn is returned when a filter or sort refers to a column the
// state does not know.
var ErrUnknownColumn = errors.New("state: unknown column")
