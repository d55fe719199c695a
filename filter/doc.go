// Package filter implements the column filter predicates.
//
// Three predicates are provided, each wrapped in a *column.Filter:
//
//   - Text: case-insensitive substring match, needle is a string
//   - PickExisting: set membership, needle is a []row.Value
//   - Number: numeric comparison, needle is a NumberSelection
//
// Predicates never fail. A needle of the wrong shape, or a haystack of the
// wrong kind, is simply not a match.
//
// The dataset-relative number methods (TopN, AboveAverage, BelowAverage)
// compute their statistic once per column and parameter and keep it in the
// grid cache until the data set is replaced.
package filter
