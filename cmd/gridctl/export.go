package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/gridkit/dataset"
)

type exported struct {
	rows int
	uri  string
}

func (e exported) String() string {
	return fmt.Sprintf("%d rows written to %s", e.rows, e.uri)
}

// Write the sorted rows of the configured grid to --out.
func export(cmd *cobra.Command, args []string) {
	a := newAction(cmd)
	g, _ := a.prepareGrid()
	ctx := a.Context()

	out := a.Config().Source
	out.URI = a.getString("out")
	store, name, err := openSource(ctx, out)
	if err != nil {
		a.Exit(nil, err)
	}

	// The output name decides the encoding, not the source settings.
	format, comp, err := dataset.Detect(name)
	if err != nil {
		a.Exit(nil, err)
	}
	opts := []dataset.Option{dataset.WithFormat(format), dataset.WithCompression(comp)}
	if cols := a.getStringSlice("columns"); len(cols) > 0 {
		opts = append(opts, dataset.WithColumns(cols...))
	}
	a.Start("Exporting %s", out.URI)
	if err := g.ExportRows(ctx, store, name, opts...); err != nil {
		a.Exit(nil, err)
	}
	a.Exit(exported{rows: len(g.SortedRows()), uri: out.URI}, nil)
}
