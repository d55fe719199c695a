package main

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/gridkit"
	"github.com/hupe1980/gridkit/column"
	"github.com/hupe1980/gridkit/filter"
	"github.com/hupe1980/gridkit/row"
	"github.com/hupe1980/gridkit/state"
)

var benchCities = []string{"Berlin", "Hamburg", "Munich", "Bern", "Zurich", "Vienna"}

// syntheticRows generates n rows with a seeded random amount.
func syntheticRows(n int, seed int64) []row.Row {
	rng := rand.New(rand.NewPCG(uint64(seed), 0))
	rows := make([]row.Row, n)
	for i := range rows {
		rows[i] = row.Row{
			"id":     row.Int(i),
			"name":   row.String(fmt.Sprintf("customer-%05d", i)),
			"city":   row.String(benchCities[rng.IntN(len(benchCities))]),
			"amount": row.Number(float64(rng.IntN(100000)) / 100),
		}
	}
	return rows
}

func benchColumns() ([]*column.Definition, error) {
	return column.Build([]column.Spec{
		{Name: "name", Title: "Name", Field: "name"},
		{Name: "city", Title: "City", Field: "city", Filter: filter.PickExisting},
		{Name: "amount", Title: "Amount", Field: "amount", Kind: column.KindNumber},
	}, column.WithDefaultFilters(filter.Defaults()))
}

type benchResult struct {
	rows       int
	iterations int
	elapsed    time.Duration
	stats      gridkit.BasicMetricsStats
}

func (r benchResult) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "rows:        %d\n", r.rows)
	fmt.Fprintf(&sb, "iterations:  %d\n", r.iterations)
	fmt.Fprintf(&sb, "filter:      %d runs, avg %s\n", r.stats.FilterCount, time.Duration(r.stats.FilterAvgNanos))
	fmt.Fprintf(&sb, "sort:        %d runs, avg %s\n", r.stats.SortCount, time.Duration(r.stats.SortAvgNanos))
	fmt.Fprintf(&sb, "visible:     %d runs\n", r.stats.VisibleCount)
	if r.iterations > 0 {
		fmt.Fprintf(&sb, "per update:  %s\n", r.elapsed/time.Duration(r.iterations))
	}
	return sb.String()
}

// Run the filter and sort pipeline over synthetic rows, changing one input
// per iteration so every stage recomputes.
func bench(cmd *cobra.Command, args []string) {
	a := newAction(cmd)
	n := max(a.getInt("rows"), 0)
	iterations := max(a.getInt("iterations"), 0)

	defs, err := benchColumns()
	if err != nil {
		a.Exit(nil, err)
	}
	metrics := &gridkit.BasicMetricsCollector{}
	g := gridkit.New(defs,
		gridkit.WithPageSize(50),
		gridkit.WithLogger(a.Logger()),
		gridkit.WithMetricsCollector(metrics))

	a.Start("Generating %d rows", n)
	g.SetDataRows(syntheticRows(n, a.getInt64("seed")))
	a.Append("done\n")

	quick := []string{"", "er", "mu", "customer-0"}
	topN := filter.NumberSelection{Method: filter.MethodTopN, Value: row.Int(100)}

	a.Start("Running %d iterations", iterations)
	start := time.Now()
	for i := range iterations {
		g.SetQuickFilter(quick[i%len(quick)])
		if i%2 == 0 {
			if err := g.SetColumnFilter("amount", topN); err != nil {
				a.Exit(nil, err)
			}
		} else {
			g.ClearColumnFilter("amount")
		}
		dir := state.Ascending
		if i%3 == 0 {
			dir = state.Descending
		}
		if err := g.SetSort("amount", dir); err != nil {
			a.Exit(nil, err)
		}
		_ = g.VisibleRows()
	}
	elapsed := time.Since(start)

	a.Exit(benchResult{rows: n, iterations: iterations, elapsed: elapsed, stats: metrics.GetStats()}, nil)
}
