// Package gridkit provides an embeddable grid evaluation engine for Go.
//
// A grid is a set of schemaless rows, a list of column definitions and the
// state a user applies on top: a quick filter, per-column selections, a sort
// column and a page window. gridkit evaluates that state in a synchronous
// filter → sort → page pipeline and keeps column statistics and per-row
// derived values in memo caches until the data changes.
//
// # Quick Start
//
//	columns, _ := column.Build([]column.Spec{
//	    {Name: "name", Field: "name", Filter: filter.Text},
//	    {Name: "amount", Field: "amount", Kind: column.KindNumber, Filter: filter.Number},
//	})
//
//	g := gridkit.New(columns, gridkit.WithPageSize(50))
//	_ = g.LoadRows(ctx, store, "orders.parquet")
//
//	g.SetQuickFilter("berlin")
//	_ = g.SetColumnFilter("amount", filter.NumberSelection{Method: filter.MethodTopN, Value: row.Int(10)})
//	_ = g.SetSort("amount", state.Descending)
//
//	for _, r := range g.VisibleRows() {
//	    fmt.Println(r.Get("name"))
//	}
//
// # Typed Entities
//
// Builder turns typed Go values into rows and a Definition describing the
// fields, attribute columns and action URLs of the grid:
//
//	rows, _ := gridkit.NewBuilder[Order]().
//	    AddTextField("name", func(o Order) string { return o.Name }).
//	    AddDateTimeField("created", func(o Order) *time.Time { return &o.Created }).
//	    Build(orders)
//
// # Saved Views
//
// CurrentView captures the quick filter, selections, sort and page size of a
// grid as a viewstore.View, and ApplyView restores one. Views are persisted
// with viewstore.BlobStore or viewstore.DynamoStore.
//
// # Storage
//
// Rows are read from any blobstore.BlobStore (memory, local files, S3, MinIO)
// in JSON, NDJSON, CSV, Arrow IPC or Parquet, optionally zstd or lz4
// compressed. See package dataset.
//
// # Observability
//
// Every grid carries a Logger and a MetricsCollector. Both default to no-ops;
// see WithLogger and WithMetricsCollector.
package gridkit
