package state

import "time"

// Stage identifies one pipeline stage.
type Stage int

const (
	// StageFilter applies the quick filter and the column selections.
	StageFilter Stage = iota
	// StageSort orders the filtered rows.
	StageSort
	// StageVisible slices the page window.
	StageVisible
)

// String returns the lower-case stage name.
func (s Stage) String() string {
	switch s {
	case StageFilter:
		return "filter"
	case StageSort:
		return "sort"
	case StageVisible:
		return "visible"
	default:
		return "unknown"
	}
}

// Observer is notified after each pipeline stage with the stage input size,
// its output size and how long it took.
type Observer func(stage Stage, in, out int, d time.Duration)

type options struct {
	rowIDKey string
	offset   int
	limit    int
	observer Observer
}

// Option configures a State.
type Option func(*options)

// WithRowItemIDKey sets the row field used as the row cache identity.
// Default: "id".
func WithRowItemIDKey(key string) Option {
	return func(o *options) {
		o.rowIDKey = key
	}
}

// WithPage sets the initial page window. A limit of 0 shows every row.
func WithPage(offset, limit int) Option {
	return func(o *options) {
		o.offset = offset
		o.limit = limit
	}
}

// WithObserver registers a callback for stage timings.
func WithObserver(fn Observer) Option {
	return func(o *options) {
		o.observer = fn
	}
}
