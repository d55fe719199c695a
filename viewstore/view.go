package viewstore

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/gridkit/filter"
	"github.com/hupe1980/gridkit/row"
	"github.com/hupe1980/gridkit/state"
)

var (
	// ErrViewNotFound is returned when a view does not exist.
	ErrViewNotFound = errors.New("viewstore: view not found")
	// ErrConcurrentModification is returned when a view was saved by someone
	// else since it was loaded.
	ErrConcurrentModification = errors.New("viewstore: concurrent modification detected")
	// ErrInvalidView is returned for views that cannot be stored.
	ErrInvalidView = errors.New("viewstore: invalid view")
	// ErrInvalidSelection is returned for selections that cannot be turned
	// into a filter needle.
	ErrInvalidSelection = errors.New("viewstore: invalid selection")
)

// SelectionKind names the predicate a Selection is meant for.
type SelectionKind string

const (
	// SelectionText is a substring selection.
	SelectionText SelectionKind = "text"
	// SelectionPickExisting is a set of accepted values.
	SelectionPickExisting SelectionKind = "pickExisting"
	// SelectionNumber is a numeric comparison.
	SelectionNumber SelectionKind = "number"
)

// Selection is the serializable form of a column filter needle.
type Selection struct {
	Kind        SelectionKind `json:"kind"`
	Text        string        `json:"text,omitempty"`
	Values      []row.Value   `json:"values,omitempty"`
	Method      string        `json:"method,omitempty"`
	Value       *row.Value    `json:"value,omitempty"`
	SecondValue *row.Value    `json:"secondValue,omitempty"`
}

// TextSelection returns a text selection.
func TextSelection(text string) Selection {
	return Selection{Kind: SelectionText, Text: text}
}

// PickExistingSelection returns a selection accepting any of values.
func PickExistingSelection(values ...row.Value) Selection {
	return Selection{Kind: SelectionPickExisting, Values: values}
}

// NumberSelection returns the serializable form of a number needle.
func NumberSelection(sel filter.NumberSelection) Selection {
	s := Selection{Kind: SelectionNumber, Method: sel.Method.String()}
	if sel.Value.IsDefined() {
		v := sel.Value
		s.Value = &v
	}
	if sel.SecondValue.IsDefined() {
		v := sel.SecondValue
		s.SecondValue = &v
	}
	return s
}

// Needle converts the selection into the needle its predicate expects.
func (s Selection) Needle() (any, error) {
	switch s.Kind {
	case SelectionText:
		return s.Text, nil
	case SelectionPickExisting:
		if s.Values == nil {
			return []row.Value{}, nil
		}
		return s.Values, nil
	case SelectionNumber:
		method, err := filter.ParseNumberFilterMethod(s.Method)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSelection, err)
		}
		sel := filter.NumberSelection{Method: method}
		if s.Value != nil {
			sel.Value = *s.Value
		}
		if s.SecondValue != nil {
			sel.SecondValue = *s.SecondValue
		}
		return sel, nil
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidSelection, s.Kind)
	}
}

// SelectionFromNeedle converts a filter needle back into a Selection.
func SelectionFromNeedle(needle any) (Selection, error) {
	switch n := needle.(type) {
	case string:
		return TextSelection(n), nil
	case []row.Value:
		return PickExistingSelection(n...), nil
	case []string:
		vs := make([]row.Value, len(n))
		for i := range n {
			vs[i] = row.String(n[i])
		}
		return PickExistingSelection(vs...), nil
	case []any:
		vs := make([]row.Value, len(n))
		for i := range n {
			v, err := row.FromAny(n[i])
			if err != nil {
				return Selection{}, fmt.Errorf("%w: %w", ErrInvalidSelection, err)
			}
			vs[i] = v
		}
		return PickExistingSelection(vs...), nil
	case filter.NumberSelection:
		return NumberSelection(n), nil
	case *filter.NumberSelection:
		if n == nil {
			return Selection{}, fmt.Errorf("%w: nil number selection", ErrInvalidSelection)
		}
		return NumberSelection(*n), nil
	default:
		return Selection{}, fmt.Errorf("%w: unsupported needle %T", ErrInvalidSelection, needle)
	}
}

// Sort is the saved sort column and direction. An empty column means input
// order.
type Sort struct {
	Column    string          `json:"column,omitempty"`
	Direction state.Direction `json:"direction"`
}

// View is a saved grid view.
type View struct {
	Name        string               `json:"name"`
	QuickFilter string               `json:"quickFilter,omitempty"`
	Filters     map[string]Selection `json:"filters,omitempty"`
	Sort        Sort                 `json:"sort"`
	PageSize    int                  `json:"pageSize,omitempty"`
	Version     int64                `json:"version"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// Validate checks that the view can be stored.
func (v *View) Validate() error {
	if v == nil {
		return fmt.Errorf("%w: nil view", ErrInvalidView)
	}
	if err := validateName("view name", v.Name); err != nil {
		return err
	}
	if v.PageSize < 0 {
		return fmt.Errorf("%w: negative page size %d", ErrInvalidView, v.PageSize)
	}
	for col, sel := range v.Filters {
		if _, err := sel.Needle(); err != nil {
			return fmt.Errorf("filter %q: %w", col, err)
		}
	}
	return nil
}

// Needles converts every saved selection into its filter needle.
func (v *View) Needles() (map[string]any, error) {
	out := make(map[string]any, len(v.Filters))
	for col, sel := range v.Filters {
		n, err := sel.Needle()
		if err != nil {
			return nil, fmt.Errorf("filter %q: %w", col, err)
		}
		out[col] = n
	}
	return out, nil
}

func validateName(what, name string) error {
	if name == "" || strings.ContainsAny(name, "/\\") || name == "." || name == ".." {
		return fmt.Errorf("%w: bad %s %q", ErrInvalidView, what, name)
	}
	return nil
}
