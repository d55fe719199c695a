package state

import (
	"fmt"
	"strings"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/gridkit/cache"
	"github.com/hupe1980/gridkit/column"
	"github.com/hupe1980/gridkit/row"
)

// Direction is the sort direction.
type Direction int

const (
	// Ascending sorts smallest first.
	Ascending Direction = iota
	// Descending sorts largest first.
	Descending
)

// String returns "asc" or "desc".
func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// ParseDirection parses "asc" or "desc", ignoring case. The empty string is
// Ascending.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return Ascending, fmt.Errorf("state: unknown sort direction %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Snapshot holds the sizes of every row sequence.
type Snapshot struct {
	Rows     int
	Filtered int
	Sorted   int
	Visible  int
}

// Settings is the full set of user controls of a State.
type Settings struct {
	QuickFilter   string
	Selections    map[string]any
	SortColumn    string
	SortDirection Direction
	Offset        int
	Limit         int
}

// State owns the rows, caches and derived views of one grid.
type State struct {
	columns []*column.Definition
	byName  map[string]*column.Definition

	rows     []row.Row
	cache    *cache.Cache
	rowCache *cache.RowCache

	quickFilter string
	selections  map[string]any
	sortColumn  string
	sortDir     Direction
	offset      int
	limit       int

	observer Observer

	filtered     *roaring.Bitmap
	filteredRows []row.Row
	sortedRows   []row.Row
	visibleRows  []row.Row
}

var _ column.State = (*State)(nil)

// New creates an empty State over columns.
func New(columns []*column.Definition, optFns ...Option) *State {
	opts := options{rowIDKey: "id"}
	for _, fn := range optFns {
		fn(&opts)
	}

	byName := make(map[string]*column.Definition, len(columns))
	for _, c := range columns {
		byName[c.Name] = c
	}

	s := &State{
		columns:    columns,
		byName:     byName,
		cache:      cache.New(),
		rowCache:   cache.NewRowCache(opts.rowIDKey),
		selections: make(map[string]any),
		offset:     max(opts.offset, 0),
		limit:      max(opts.limit, 0),
		observer:   opts.observer,
		filtered:   roaring.New(),
	}
	s.Recompute()
	return s
}

// Rows returns the authoritative row set.
func (s *State) Rows() []row.Row { return s.rows }

// Cache returns the grid cache.
func (s *State) Cache() *cache.Cache { return s.cache }

// RowCache returns the per-row cache.
func (s *State) RowCache() *cache.RowCache { return s.rowCache }

// Columns returns the column definitions in declaration order.
func (s *State) Columns() []*column.Definition { return s.columns }

// Column returns the column with the given name.
func (s *State) Column(name string) (*column.Definition, bool) {
	c, ok := s.byName[name]
	return c, ok
}

// FilteredRows returns the rows that passed the filter stage, in input order.
func (s *State) FilteredRows() []row.Row { return s.filteredRows }

// SortedRows returns the filtered rows in sort order.
func (s *State) SortedRows() []row.Row { return s.sortedRows }

// VisibleRows returns the current page of sorted rows.
func (s *State) VisibleRows() []row.Row { return s.visibleRows }

// QuickFilter returns the quick filter text.
func (s *State) QuickFilter() string { return s.quickFilter }

// Selection returns the active selection of a column.
func (s *State) Selection(name string) (any, bool) {
	v, ok := s.selections[name]
	return v, ok
}

// Selections returns a copy of all active selections.
func (s *State) Selections() map[string]any {
	out := make(map[string]any, len(s.selections))
	for k, v := range s.selections {
		out[k] = v
	}
	return out
}

// Sort returns the active sort column and direction. The column is empty
// when no sort is active.
func (s *State) Sort() (string, Direction) { return s.sortColumn, s.sortDir }

// Page returns the page window.
func (s *State) Page() (offset, limit int) { return s.offset, s.limit }

// Snapshot returns the current sizes of the row sequences.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Rows:     len(s.rows),
		Filtered: len(s.filteredRows),
		Sorted:   len(s.sortedRows),
		Visible:  len(s.visibleRows),
	}
}

// SetDataRows replaces the row set. Both caches are cleared because every
// statistic and per-row value may have changed.
func (s *State) SetDataRows(rows []row.Row) {
	s.rows = rows
	s.cache.Clear()
	s.rowCache.Clear()
	s.Recompute()
}

// SetRowItemIDKey changes the row identity field. The row cache is cleared
// when the key actually changes.
func (s *State) SetRowItemIDKey(key string) {
	s.rowCache.SetRowItemIDKey(key)
}

// SetQuickFilter sets the free-text filter applied across all columns.
func (s *State) SetQuickFilter(text string) {
	s.quickFilter = text
	s.Recompute()
}

// SetColumnFilter sets the selection of a column. A nil selection clears it.
func (s *State) SetColumnFilter(name string, selection any) error {
	if _, ok := s.byName[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	if selection == nil {
		delete(s.selections, name)
	} else {
		s.selections[name] = selection
	}
	s.Recompute()
	return nil
}

// ClearColumnFilter removes the selection of a column.
func (s *State) ClearColumnFilter(name string) {
	if _, ok := s.selections[name]; !ok {
		return
	}
	delete(s.selections, name)
	s.Recompute()
}

// ClearFilters removes the quick filter and every column selection.
func (s *State) ClearFilters() {
	s.quickFilter = ""
	clear(s.selections)
	s.Recompute()
}

// SetSort sorts by the named column.
func (s *State) SetSort(name string, dir Direction) error {
	if _, ok := s.byName[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	s.sortColumn = name
	s.sortDir = dir
	s.Recompute()
	return nil
}

// ClearSort restores input order.
func (s *State) ClearSort() {
	s.sortColumn = ""
	s.sortDir = Ascending
	s.Recompute()
}

// SetPage sets the page window. A limit of 0 shows every row. Only the
// visible stage runs.
func (s *State) SetPage(offset, limit int) {
	s.offset = max(offset, 0)
	s.limit = max(limit, 0)
	s.runStage(StageVisible, len(s.sortedRows), s.paginate)
}

// Apply replaces every control with those of st and runs the pipeline once.
// Nil selections are skipped. An unknown column leaves the state unchanged.
func (s *State) Apply(st Settings) error {
	for name := range st.Selections {
		if _, ok := s.byName[name]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownColumn, name)
		}
	}
	if st.SortColumn != "" {
		if _, ok := s.byName[st.SortColumn]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownColumn, st.SortColumn)
		}
	}

	s.quickFilter = st.QuickFilter
	clear(s.selections)
	for name, selection := range st.Selections {
		if selection != nil {
			s.selections[name] = selection
		}
	}
	s.sortColumn = st.SortColumn
	s.sortDir = st.SortDirection
	if st.SortColumn == "" {
		s.sortDir = Ascending
	}
	s.offset = max(st.Offset, 0)
	s.limit = max(st.Limit, 0)
	s.Recompute()
	return nil
}

// Recompute runs the full pipeline synchronously.
func (s *State) Recompute() {
	s.runStage(StageFilter, len(s.rows), s.filter)
	s.runStage(StageSort, len(s.filteredRows), s.sort)
	s.runStage(StageVisible, len(s.sortedRows), s.paginate)
}

func (s *State) runStage(stage Stage, in int, fn func() int) {
	if s.observer == nil {
		fn()
		return
	}
	start := time.Now()
	out := fn()
	s.observer(stage, in, out, time.Since(start))
}
