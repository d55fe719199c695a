package state

import (
	"slices"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/gridkit/cache"
	"github.com/hupe1980/gridkit/column"
	"github.com/hupe1980/gridkit/row"
)

type quickValue struct {
	text string
	ok   bool
}

func quickFilterKey(c *column.Definition) string {
	return "quick-filter-" + c.Name
}

// filter rebuilds the bitmap of row indices that pass the quick filter and
// every active column selection.
func (s *State) filter() int {
	n := len(s.rows)
	bm := roaring.New()
	if n > 0 {
		bm.AddRange(0, uint64(n))
	}

	if s.quickFilter != "" {
		bm = s.narrow(bm, s.matchesQuickFilter)
	}

	for _, c := range s.columns {
		if bm.IsEmpty() {
			break
		}
		selection, ok := s.selections[c.Name]
		if !ok || c.Filter == nil || c.Filter.Matches == nil {
			continue
		}
		bm = s.narrow(bm, func(r row.Row) bool {
			return c.Filter.Matches(selection, c.FilterValue(r), c, s)
		})
	}

	filtered := make([]row.Row, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		filtered = append(filtered, s.rows[it.Next()])
	}

	s.filtered = bm
	s.filteredRows = filtered
	return len(filtered)
}

// narrow returns the subset of candidates whose row satisfies pred.
func (s *State) narrow(candidates *roaring.Bitmap, pred func(row.Row) bool) *roaring.Bitmap {
	out := roaring.New()
	it := candidates.Iterator()
	for it.HasNext() {
		i := it.Next()
		if pred(s.rows[i]) {
			out.Add(i)
		}
	}
	return out
}

func (s *State) matchesQuickFilter(r row.Row) bool {
	needle := strings.ToLower(s.quickFilter)
	for _, c := range s.columns {
		qv, _ := cache.GetOrAddRow(s.rowCache, r, quickFilterKey(c), func() (quickValue, bool) {
			text, ok := c.QuickFilterValue(r)
			return quickValue{text: strings.ToLower(text), ok: ok}, true
		})
		if qv.ok && strings.Contains(qv.text, needle) {
			return true
		}
	}
	return false
}

type sortEntry struct {
	row   row.Row
	value row.Value
}

// sort orders the filtered rows by the active sort column. Undefined sort
// values always go last; ties keep their filtered order.
func (s *State) sort() int {
	c, ok := s.byName[s.sortColumn]
	if !ok || !c.HasSortValue() {
		s.sortedRows = s.filteredRows
		return len(s.sortedRows)
	}

	entries := make([]sortEntry, len(s.filteredRows))
	for i, r := range s.filteredRows {
		entries[i] = sortEntry{row: r, value: c.SortValue(r)}
	}

	desc := s.sortDir == Descending
	slices.SortStableFunc(entries, func(a, b sortEntry) int {
		return compareSortValues(a.value, b.value, desc)
	})

	sorted := make([]row.Row, len(entries))
	for i := range entries {
		sorted[i] = entries[i].row
	}
	s.sortedRows = sorted
	return len(sorted)
}

func compareSortValues(a, b row.Value, desc bool) int {
	aDef, bDef := a.IsDefined(), b.IsDefined()
	switch {
	case !aDef && !bDef:
		return 0
	case !aDef:
		return 1
	case !bDef:
		return -1
	}
	if desc {
		return row.Compare(b, a)
	}
	return row.Compare(a, b)
}

func (s *State) paginate() int {
	total := len(s.sortedRows)
	start := min(s.offset, total)
	end := total
	if s.limit > 0 {
		end = min(start+s.limit, total)
	}
	s.visibleRows = s.sortedRows[start:end:end]
	return len(s.visibleRows)
}

// FilteredIndices returns the input indices of the filtered rows.
func (s *State) FilteredIndices() []uint32 {
	return s.filtered.ToArray()
}
