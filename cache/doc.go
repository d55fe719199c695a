// Package cache provides the memo stores owned by a grid instance.
//
// # Cache
//
// Cache is an unbounded key to value store used for column-level derived
// statistics (TopN thresholds, averages) and per-column scratch data. A
// factory passed to GetOrAdd may report "not found", in which case nothing is
// stored and the next access retries.
//
// # RowCache
//
// RowCache keys sub-caches by a row identity field. Rows without a usable
// identity are never cached: reads miss, GetOrAdd always calls the factory
// and writes are dropped.
//
// Neither type is safe for concurrent mutation. A grid has exactly one
// logical writer at a time.
package cache
