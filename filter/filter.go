package filter

import (
	"strings"

	"github.com/hupe1980/gridkit/column"
	"github.com/hupe1980/gridkit/row"
)

var (
	// Text filters on a case-insensitive substring.
	Text = &column.Filter{Name: "text", Component: "textColumnFilter", Matches: TextMatches}

	// PickExisting filters on membership in a set of existing values.
	PickExisting = &column.Filter{Name: "pickExisting", Component: "pickExistingColumnFilter", Matches: PickExistingMatches}

	// Number filters numeric values.
	Number = &column.Filter{Name: "number", Component: "numberColumnFilter", Matches: NumberMatches}
)

// ByName returns a built-in filter by its stable name.
func ByName(name string) (*column.Filter, bool) {
	switch name {
	case Text.Name:
		return Text, true
	case PickExisting.Name:
		return PickExisting, true
	case Number.Name:
		return Number, true
	default:
		return nil, false
	}
}

// Defaults maps column kinds to the filter they get when none is declared.
func Defaults() map[column.Kind]*column.Filter {
	return map[column.Kind]*column.Filter{
		column.KindText:    Text,
		column.KindNumber:  Number,
		column.KindDate:    Text,
		column.KindBadge:   PickExisting,
		column.KindBoolean: PickExisting,
	}
}

// TextMatches reports whether haystack contains needle, ignoring case. An
// empty needle matches everything; a haystack that is not a string never
// matches.
func TextMatches(needle any, haystack row.Value, _ *column.Definition, _ column.State) bool {
	s, ok := needle.(string)
	if !ok {
		return false
	}
	if s == "" {
		return true
	}

	h, ok := haystack.AsString()
	if !ok || h == "" {
		return false
	}
	return strings.Contains(strings.ToLower(h), strings.ToLower(s))
}

// PickExistingMatches reports whether haystack is deep-equal to any of the
// selected values. An empty selection matches everything.
func PickExistingMatches(needle any, haystack row.Value, _ *column.Definition, _ column.State) bool {
	values, ok := selectionValues(needle)
	if !ok {
		return false
	}
	if len(values) == 0 {
		return true
	}
	for _, v := range values {
		if row.Equal(v, haystack) {
			return true
		}
	}
	return false
}

func selectionValues(needle any) ([]row.Value, bool) {
	switch x := needle.(type) {
	case []row.Value:
		return x, true
	case row.Value:
		return x.AsList()
	case []string:
		return row.Strings(x).List, true
	case []any:
		v, err := row.FromAny(x)
		if err != nil {
			return nil, false
		}
		return v.List, true
	default:
		return nil, false
	}
}
