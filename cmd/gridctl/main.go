// Command gridctl evaluates grid configurations from the command line.
//
//	gridctl query --config grid.yaml --quick berlin --sort amount --desc --limit 20
//	gridctl export --config grid.yaml --out s3://bucket/exports/orders.csv.zst
//	gridctl bench --rows 10000
package main

import (
	"github.com/spf13/cobra"
)

func addCommands(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Print the visible rows of a grid",
		Args:  cobra.NoArgs,
		Run:   query}
	cmd.Flags().String("data", "", "dataset URI (overrides source.uri)")
	cmd.Flags().String("quick", "", "quick filter text")
	cmd.Flags().String("sort", "", "sort column")
	cmd.Flags().Bool("desc", false, "sort descending")
	cmd.Flags().Int("offset", 0, "first visible row")
	cmd.Flags().Int("limit", -1, "page size (default: from config)")
	cmd.Flags().String("view", "", "apply a saved view")
	cmd.Flags().String("save-view", "", "save the resulting view under this name")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "export",
		Short: "Write the sorted rows of a grid to a dataset",
		Args:  cobra.NoArgs,
		Run:   export}
	cmd.Flags().String("data", "", "dataset URI (overrides source.uri)")
	cmd.Flags().String("out", "", "output dataset URI (required)")
	cmd.Flags().String("view", "", "apply a saved view")
	cmd.Flags().StringSlice("columns", nil, "restrict exported fields")
	_ = cmd.MarkFlagRequired("out")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "bench",
		Short: "Measure the pipeline on synthetic rows",
		Args:  cobra.NoArgs,
		Run:   bench}
	cmd.Flags().Int("rows", 10000, "number of generated rows")
	cmd.Flags().Int("iterations", 100, "pipeline runs")
	cmd.Flags().Int64("seed", 4711, "random seed")
	root.AddCommand(cmd)
}

func main() {
	var root = &cobra.Command{Use: "gridctl"}
	root.PersistentFlags().String("config", "grid.yaml", "grid config file")
	root.PersistentFlags().String("log-level", "", "log level (overrides logLevel)")
	root.PersistentFlags().BoolP("quiet", "q", false, "silence status output")
	addCommands(root)
	_ = root.Execute()
}
