package gridkit

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/gridkit/blobstore"
	"github.com/hupe1980/gridkit/column"
	"github.com/hupe1980/gridkit/dataset"
	"github.com/hupe1980/gridkit/row"
	"github.com/hupe1980/gridkit/state"
	"github.com/hupe1980/gridkit/viewstore"
)

// Grid is one grid instance: its columns, its rows and the filter, sort and
// page state applied to them.
//
// Every mutation recomputes the derived row sequences synchronously before
// it returns. A Grid is not safe for concurrent use.
type Grid struct {
	id      string
	opts    options
	logger  *Logger
	metrics MetricsCollector
	st      *state.State
}

// New creates an empty grid over columns.
func New(columns []*column.Definition, optFns ...Option) *Grid {
	opts := applyOptions(optFns)

	g := &Grid{
		id:      opts.gridID,
		opts:    opts,
		logger:  opts.logger.WithGridID(opts.gridID),
		metrics: opts.metricsCollector,
	}
	g.st = state.New(columns,
		state.WithRowItemIDKey(opts.rowIDKey),
		state.WithPage(0, opts.pageSize),
		state.WithObserver(g.observe),
	)
	return g
}

func (g *Grid) observe(stage state.Stage, in, out int, d time.Duration) {
	g.metrics.RecordRecompute(stage, in, out, d)
	g.logger.LogRecompute(context.Background(), stage, in, out, d)
}

// ID returns the grid id.
func (g *Grid) ID() string { return g.id }

// Logger returns the grid logger.
func (g *Grid) Logger() *Logger { return g.logger }

// State returns the underlying pipeline state.
func (g *Grid) State() *state.State { return g.st }

// Columns returns the column definitions.
func (g *Grid) Columns() []*column.Definition { return g.st.Columns() }

// Rows returns the authoritative row set.
func (g *Grid) Rows() []row.Row { return g.st.Rows() }

// FilteredRows returns the rows passing every filter, in input order.
func (g *Grid) FilteredRows() []row.Row { return g.st.FilteredRows() }

// SortedRows returns the filtered rows in sort order.
func (g *Grid) SortedRows() []row.Row { return g.st.SortedRows() }

// VisibleRows returns the current page of sorted rows.
func (g *Grid) VisibleRows() []row.Row { return g.st.VisibleRows() }

// Snapshot returns the sizes of every row sequence.
func (g *Grid) Snapshot() state.Snapshot { return g.st.Snapshot() }

// SetDataRows replaces the rows and invalidates every cache.
func (g *Grid) SetDataRows(rows []row.Row) { g.st.SetDataRows(rows) }

// SetRowItemIDKey changes the row identity field.
func (g *Grid) SetRowItemIDKey(key string) { g.st.SetRowItemIDKey(key) }

// SetQuickFilter sets the free-text filter.
func (g *Grid) SetQuickFilter(text string) { g.st.SetQuickFilter(text) }

// SetColumnFilter sets the selection of a column. A nil selection clears it.
func (g *Grid) SetColumnFilter(name string, selection any) error {
	return g.st.SetColumnFilter(name, selection)
}

// ClearColumnFilter removes the selection of a column.
func (g *Grid) ClearColumnFilter(name string) { g.st.ClearColumnFilter(name) }

// ClearFilters removes the quick filter and every selection.
func (g *Grid) ClearFilters() { g.st.ClearFilters() }

// SetSort sorts by the named column.
func (g *Grid) SetSort(name string, dir state.Direction) error {
	return g.st.SetSort(name, dir)
}

// ClearSort restores input order.
func (g *Grid) ClearSort() { g.st.ClearSort() }

// SetPage sets the page window. A limit of 0 shows every row.
func (g *Grid) SetPage(offset, limit int) { g.st.SetPage(offset, limit) }

// GoToPage shows the zero-based page of the current page size.
func (g *Grid) GoToPage(page int) {
	_, limit := g.st.Page()
	g.st.SetPage(max(page, 0)*limit, limit)
}

// PageCount returns the number of pages of sorted rows, at least 1.
func (g *Grid) PageCount() int {
	_, limit := g.st.Page()
	n := len(g.st.SortedRows())
	if limit == 0 || n == 0 {
		return 1
	}
	return (n + limit - 1) / limit
}

func (g *Grid) datasetOptions(optFns []dataset.Option) []dataset.Option {
	all := make([]dataset.Option, 0, len(g.opts.datasetOptions)+len(optFns)+1)
	all = append(all, dataset.WithCodec(g.opts.codec))
	all = append(all, g.opts.datasetOptions...)
	return append(all, optFns...)
}

// LoadRows reads the dataset stored under name and replaces the grid rows
// with it. The format is detected from the name unless set in optFns.
func (g *Grid) LoadRows(ctx context.Context, store blobstore.BlobStore, name string, optFns ...dataset.Option) error {
	start := time.Now()
	rows, info, err := dataset.Read(ctx, store, name, g.datasetOptions(optFns)...)
	d := time.Since(start)

	g.metrics.RecordLoad(info.Rows, info.Bytes, d, err)
	g.logger.LogLoad(ctx, name, info.Rows, info.Bytes, d, err)
	if err != nil {
		return loadError(name, err)
	}

	g.st.SetDataRows(rows)
	return nil
}

// LoadAll reads several datasets concurrently and replaces the grid rows with
// their concatenation, in the order of names.
func (g *Grid) LoadAll(ctx context.Context, store blobstore.BlobStore, names []string, optFns ...dataset.Option) error {
	start := time.Now()
	rows, err := dataset.ReadAll(ctx, store, names, g.datasetOptions(optFns)...)
	d := time.Since(start)

	label := fmt.Sprintf("%d datasets", len(names))
	g.metrics.RecordLoad(len(rows), 0, d, err)
	g.logger.LogLoad(ctx, label, len(rows), 0, d, err)
	if err != nil {
		return loadError(label, err)
	}

	g.st.SetDataRows(rows)
	return nil
}

// ExportRows writes the sorted rows to store under name.
func (g *Grid) ExportRows(ctx context.Context, store blobstore.BlobStore, name string, optFns ...dataset.Option) error {
	return dataset.Write(ctx, store, name, g.st.SortedRows(), g.datasetOptions(optFns)...)
}

// CurrentView captures the quick filter, selections, sort and page size of
// the grid under name.
func (g *Grid) CurrentView(name string) (*viewstore.View, error) {
	v := &viewstore.View{
		Name:        name,
		QuickFilter: g.st.QuickFilter(),
	}

	selections := g.st.Selections()
	if len(selections) > 0 {
		v.Filters = make(map[string]viewstore.Selection, len(selections))
		for col, needle := range selections {
			sel, err := viewstore.SelectionFromNeedle(needle)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", col, err)
			}
			v.Filters[col] = sel
		}
	}

	v.Sort.Column, v.Sort.Direction = g.st.Sort()
	_, v.PageSize = g.st.Page()
	return v, nil
}

// ApplyView replaces the quick filter, selections, sort and page size of the
// grid with those of v and recomputes once. The view is checked against the
// grid columns first, so an invalid view leaves the grid unchanged.
func (g *Grid) ApplyView(v *viewstore.View) error {
	if v == nil {
		return &ErrInvalidView{cause: viewstore.ErrInvalidView}
	}
	needles, err := v.Needles()
	if err != nil {
		return &ErrInvalidView{View: v.Name, cause: err}
	}

	names := make([]string, 0, len(needles))
	for col := range needles {
		names = append(names, col)
	}
	if v.Sort.Column != "" {
		names = append(names, v.Sort.Column)
	}
	for _, col := range names {
		if _, ok := g.st.Column(col); !ok {
			return &ErrInvalidView{View: v.Name, cause: fmt.Errorf("%w: %q", ErrUnknownColumn, col)}
		}
	}

	err = g.st.Apply(state.Settings{
		QuickFilter:   v.QuickFilter,
		Selections:    needles,
		SortColumn:    v.Sort.Column,
		SortDirection: v.Sort.Direction,
		Limit:         v.PageSize,
	})
	if err != nil {
		return &ErrInvalidView{View: v.Name, cause: err}
	}
	return nil
}

// SaveView stores v under the grid id. v.Version must be the version last
// loaded, or 0 for a new view.
func (g *Grid) SaveView(ctx context.Context, store viewstore.Store, v *viewstore.View) error {
	start := time.Now()
	err := store.Save(ctx, g.id, v)
	g.metrics.RecordViewSave(time.Since(start), err)

	name := ""
	if v != nil {
		name = v.Name
	}
	version := int64(0)
	if err == nil {
		version = v.Version
	}
	g.logger.LogViewSaved(ctx, name, version, err)
	return err
}

// LoadView loads the named view of this grid from store and applies it.
func (g *Grid) LoadView(ctx context.Context, store viewstore.Store, name string) (*viewstore.View, error) {
	v, err := store.Load(ctx, g.id, name)
	if err != nil {
		return nil, err
	}
	if err := g.ApplyView(v); err != nil {
		return nil, err
	}
	return v, nil
}
