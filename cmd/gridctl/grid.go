package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"

	"github.com/hupe1980/gridkit"
	"github.com/hupe1980/gridkit/column"
	"github.com/hupe1980/gridkit/config"
	"github.com/hupe1980/gridkit/filter"
	"github.com/hupe1980/gridkit/row"
)

// newGrid builds a grid from cfg with its initial view applied.
func newGrid(cfg *config.Grid, optFns ...gridkit.Option) (*gridkit.Grid, error) {
	specs, err := cfg.ColumnSpecs()
	if err != nil {
		return nil, err
	}
	defs, err := column.Build(specs, column.WithDefaultFilters(filter.Defaults()))
	if err != nil {
		return nil, errors.Wrap(err, "build columns")
	}
	dsOpts, err := cfg.Source.DatasetOptions()
	if err != nil {
		return nil, err
	}
	opts := []gridkit.Option{
		gridkit.WithGridID(cfg.ID),
		gridkit.WithRowIDKey(cfg.RowIDKey),
		gridkit.WithPageSize(cfg.PageSize),
		gridkit.WithDatasetOptions(dsOpts...),
	}
	g := gridkit.New(defs, append(opts, optFns...)...)
	v, err := cfg.View("config")
	if err != nil {
		return nil, err
	}
	if err := g.ApplyView(v); err != nil {
		return nil, err
	}
	return g, nil
}

// loadSource reads the grid rows from src.
func loadSource(ctx context.Context, g *gridkit.Grid, src config.Source) error {
	store, name, err := openSource(ctx, src)
	if err != nil {
		return err
	}
	return g.LoadRows(ctx, store, name)
}

// cell renders the display text of one column.
func cell(def *column.Definition, r row.Row) string {
	if s, ok := def.QuickFilterValue(r); ok {
		return s
	}
	return r.Get(def.Field).Text()
}

// table renders rows as tab aligned columns headed by the column titles.
type table struct {
	columns []*column.Definition
	rows    []row.Row
	total   int
}

func (t table) render(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	var cols []*column.Definition
	for _, def := range t.columns {
		if !def.Hidden {
			cols = append(cols, def)
		}
	}
	titles := make([]string, len(cols))
	for i, def := range cols {
		titles[i] = def.Title
		if titles[i] == "" {
			titles[i] = def.Name
		}
	}
	fmt.Fprintln(tw, strings.Join(titles, "\t"))
	cells := make([]string, len(cols))
	for _, r := range t.rows {
		for i, def := range cols {
			cells[i] = cell(def, r)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "(%d of %d rows)\n", len(t.rows), t.total)
	return err
}

func (t table) String() string {
	var sb strings.Builder
	_ = t.render(&sb)
	return sb.String()
}
