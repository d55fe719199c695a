// Package column turns declarative column specifications into the
// row-agnostic column definitions consumed by the grid pipeline.
//
// Every Definition exposes four value accessors:
//
//   - QuickFilterValue: text matched by the grid-wide quick filter
//   - SortValue: value ordered by the sort pass (optional)
//   - FilterValue: haystack handed to the column filter predicate
//   - UniqueValue: identity of the cell value (e.g. a person guid)
//
// Accessors are declared either as Go functions (Computed) or as
// text/template sources (Template) evaluated against a {{ .Row }} context.
// Both are resolved once by Build into a uniform ValueFunc.
//
// A Spec with Attributes set expands into one generated Definition per
// attribute descriptor.
package column
