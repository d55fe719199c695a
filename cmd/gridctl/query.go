package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/hupe1980/gridkit"
	"github.com/hupe1980/gridkit/state"
	"github.com/hupe1980/gridkit/viewstore"
)

// Prepare the grid of the current command: load the config, read its rows
// and apply --view.
func (a *Action) prepareGrid() (*gridkit.Grid, viewstore.Store) {
	cfg := a.Config()
	if data := a.getString("data"); data != "" {
		cfg.Source.URI = data
	}
	ctx := a.Context()

	g, err := newGrid(cfg, gridkit.WithLogger(a.Logger()))
	if err != nil {
		a.Exit(nil, err)
	}
	a.Start("Loading %s", cfg.Source.URI)
	if err := loadSource(ctx, g, cfg.Source); err != nil {
		a.Exit(nil, err)
	}
	a.Append("%d rows\n", len(g.Rows()))

	var views viewstore.Store
	name := a.getString("view")
	save := ""
	if a.cmd.Flags().Lookup("save-view") != nil {
		save = a.getString("save-view")
	}
	if name != "" || save != "" {
		if views, err = openViews(ctx, cfg, a.getString("config")); err != nil {
			a.Exit(nil, err)
		}
	}
	if name != "" {
		if _, err := g.LoadView(ctx, views, name); err != nil {
			a.Exit(nil, errors.Wrapf(err, "view %q", name))
		}
	}
	return g, views
}

// Print the visible rows of the configured grid.
func query(cmd *cobra.Command, args []string) {
	a := newAction(cmd)
	g, views := a.prepareGrid()

	if quick := a.getString("quick"); quick != "" {
		g.SetQuickFilter(quick)
	}
	if col := a.getString("sort"); col != "" {
		dir := state.Ascending
		if a.getBool("desc") {
			dir = state.Descending
		}
		if err := g.SetSort(col, dir); err != nil {
			a.Exit(nil, err)
		}
	}
	_, limit := g.State().Page()
	if n := a.getInt("limit"); n >= 0 {
		limit = n
	}
	g.SetPage(max(a.getInt("offset"), 0), limit)

	if name := a.getString("save-view"); name != "" {
		if err := saveView(a, g, views, name); err != nil {
			a.Exit(nil, err)
		}
	}

	a.Exit(table{columns: g.Columns(), rows: g.VisibleRows(), total: len(g.SortedRows())}, nil)
}

// saveView stores the current grid state under name, replacing any
// previous version of the view.
func saveView(a *Action, g *gridkit.Grid, views viewstore.Store, name string) error {
	ctx := a.Context()
	v, err := g.CurrentView(name)
	if err != nil {
		return err
	}
	prev, err := views.Load(ctx, g.ID(), name)
	switch {
	case err == nil:
		v.Version = prev.Version
	case !errors.Is(err, viewstore.ErrViewNotFound):
		return err
	}
	a.Start("Saving view %q", name)
	if err := g.SaveView(ctx, views, v); err != nil {
		return err
	}
	a.Append("version %d\n", v.Version)
	return nil
}
