package column

import (
	"time"

	"github.com/hupe1980/gridkit/row"
)

// shortDateLayout matches the culture-neutral short date shown in date cells.
const shortDateLayout = "1/2/2006"

func fieldValue(r row.Row, c *Definition) row.Value {
	return r.Get(c.Field)
}

func defaultQuickFilterValue(r row.Row, c *Definition) row.Value {
	v := r.Get(c.Field)
	if v.IsPrimitive() {
		return row.String(v.Text())
	}
	return row.Undefined()
}

func defaultUniqueValue(r row.Row, c *Definition) row.Value {
	v := r.Get(c.Field)
	switch {
	case v.IsPrimitive():
		return v
	case !v.IsDefined():
		return row.Undefined()
	default:
		return row.String(v.Key())
	}
}

// stringSortValue returns the stringified value of field. Null and undefined
// have no sort value.
func stringSortValue(field string) ValueFunc {
	return func(r row.Row, _ *Definition) row.Value {
		v := r.Get(field)
		if !v.IsDefined() || v.IsNull() {
			return row.Undefined()
		}
		return row.String(v.Text())
	}
}

func numberSortValue(field string) ValueFunc {
	return func(r row.Row, _ *Definition) row.Value {
		v := r.Get(field)
		if v.Kind != row.KindNumber {
			return row.Undefined()
		}
		return v
	}
}

func dateQuickFilterValue(r row.Row, c *Definition) row.Value {
	s, ok := r.Get(c.Field).AsString()
	if !ok {
		return row.Undefined()
	}
	t, ok := parseDate(s)
	if !ok {
		return row.Undefined()
	}
	return row.String(t.Format(shortDateLayout))
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// badgeText reads the text of a badge cell, which is either a plain string
// or an object carrying a text field.
func badgeText(v row.Value) row.Value {
	if v.IsPrimitive() {
		return row.String(v.Text())
	}
	obj, ok := v.AsObject()
	if !ok {
		return row.Undefined()
	}
	for _, key := range []string{"text", "Text"} {
		if t, ok := obj[key]; ok && t.IsPrimitive() {
			return row.String(t.Text())
		}
	}
	return row.Undefined()
}

func badgeQuickFilterValue(r row.Row, c *Definition) row.Value {
	return badgeText(r.Get(c.Field))
}

func attributeString(r row.Row, c *Definition) row.Value {
	s, ok := r.Get(c.Field).AsString()
	if !ok {
		return row.Undefined()
	}
	return row.String(s)
}
