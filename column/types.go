package column

import (
	"github.com/hupe1980/gridkit/cache"
	"github.com/hupe1980/gridkit/row"
)

// Kind selects the default accessors of a column.
type Kind string

const (
	// KindText is a plain text column (default).
	KindText Kind = "text"
	// KindNumber sorts by the numeric field value.
	KindNumber Kind = "number"
	// KindDate holds ISO-8601 strings and quick-filters on the short date.
	KindDate Kind = "date"
	// KindBoolean holds boolean values.
	KindBoolean Kind = "boolean"
	// KindBadge holds either a string or a {text, color} object.
	KindBadge Kind = "badge"
)

// FormatText is the fallback cell format reference.
const FormatText = "text"

// ValueFunc extracts a value from a row on behalf of a column.
type ValueFunc func(r row.Row, c *Definition) row.Value

// State is the grid data visible to filter predicates.
type State interface {
	// Rows returns the authoritative row set.
	Rows() []row.Row
	// Cache returns the grid-level cache for column statistics.
	Cache() *cache.Cache
	// RowCache returns the per-row cache.
	RowCache() *cache.RowCache
}

// MatchFunc reports whether haystack satisfies the filter selection needle.
type MatchFunc func(needle any, haystack row.Value, c *Definition, st State) bool

// Filter describes how a column is filtered.
type Filter struct {
	// Name identifies the predicate kind ("text", "pickExisting", "number").
	Name string
	// Component is an opaque reference to the filter UI.
	Component string
	// Matches is the predicate.
	Matches MatchFunc
}

// AttributeDescriptor describes one attribute expanded into a column.
type AttributeDescriptor struct {
	// Key is the attribute key. The generated column is named attr_<Key>.
	Key string `mapstructure:"key" json:"key" validate:"required"`
	// Name is the display title.
	Name string `mapstructure:"name" json:"name"`
	// FieldType is an opaque field type reference.
	FieldType string `mapstructure:"fieldType" json:"fieldType,omitempty"`
}

// FieldName returns the row field holding the attribute value.
func (a AttributeDescriptor) FieldName() string { return "attr_" + a.Key }

// Spec is the declarative description of a column.
type Spec struct {
	Name      string
	Title     string
	Field     string
	SortField string
	Kind      Kind
	Format    string
	Hidden    bool

	QuickFilterValue Accessor
	SortValue        Accessor
	FilterValue      Accessor
	UniqueValue      Accessor

	Filter *Filter
	Props  map[string]any

	// Attributes marks the spec as an attribute expansion. Name, Field and
	// accessors of the spec itself are ignored.
	Attributes []AttributeDescriptor
}

// Definition is a constructed column. It is immutable apart from its cache.
type Definition struct {
	Name   string
	Title  string
	Field  string
	Kind   Kind
	Format string
	Hidden bool
	Filter *Filter
	Props  map[string]any

	quickFilterValue ValueFunc
	sortValue        ValueFunc
	filterValue      ValueFunc
	uniqueValue      ValueFunc

	cache *cache.Cache
}

// QuickFilterValue returns the text the quick filter searches. Values that
// are neither strings nor numbers report false.
func (d *Definition) QuickFilterValue(r row.Row) (string, bool) {
	v := d.quickFilterValue(r, d)
	switch v.Kind {
	case row.KindString, row.KindNumber:
		return v.Text(), true
	default:
		return "", false
	}
}

// HasSortValue reports whether the column can be sorted.
func (d *Definition) HasSortValue() bool { return d.sortValue != nil }

// SortValue returns the value used for ordering. Columns without a sort
// accessor yield Undefined.
func (d *Definition) SortValue(r row.Row) row.Value {
	if d.sortValue == nil {
		return row.Undefined()
	}
	return d.sortValue(r, d)
}

// FilterValue returns the haystack handed to the column filter.
func (d *Definition) FilterValue(r row.Row) row.Value {
	return d.filterValue(r, d)
}

// UniqueValue returns the identity of the cell value.
func (d *Definition) UniqueValue(r row.Row) row.Value {
	return d.uniqueValue(r, d)
}

// Cache returns the column-private cache.
func (d *Definition) Cache() *cache.Cache { return d.cache }

// Prop returns a free-form property.
func (d *Definition) Prop(key string) (any, bool) {
	v, ok := d.Props[key]
	return v, ok
}
