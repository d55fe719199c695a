package row

import (
	"fmt"
	"time"

	gojson "github.com/goccy/go-json"
)

// FromAny converts a Go value into a typed Value.
//
// This exists as an adapter layer for decoded JSON, builder callbacks and
// other untyped input.
func FromAny(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case *Value:
		if x == nil {
			return Null(), nil
		}
		return *x, nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case *string:
		if x == nil {
			return Null(), nil
		}
		return String(*x), nil
	case float64:
		return Number(x), nil
	case float32:
		return Number(float64(x)), nil
	case int:
		return Number(float64(x)), nil
	case int8:
		return Number(float64(x)), nil
	case int16:
		return Number(float64(x)), nil
	case int32:
		return Number(float64(x)), nil
	case int64:
		return Number(float64(x)), nil
	case uint:
		return Number(float64(x)), nil
	case uint8:
		return Number(float64(x)), nil
	case uint16:
		return Number(float64(x)), nil
	case uint32:
		return Number(float64(x)), nil
	case uint64:
		return Number(float64(x)), nil
	case gojson.Number:
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("row: invalid number %q: %w", x, err)
		}
		return Number(f), nil
	case time.Time:
		return String(x.Format(time.RFC3339)), nil
	case *time.Time:
		if x == nil {
			return Null(), nil
		}
		return String(x.Format(time.RFC3339)), nil
	case []Value:
		return List(x...), nil
	case []string:
		return Strings(x), nil
	case []int:
		vs := make([]Value, len(x))
		for i := range x {
			vs[i] = Int(x[i])
		}
		return List(vs...), nil
	case []float64:
		vs := make([]Value, len(x))
		for i := range x {
			vs[i] = Number(x[i])
		}
		return List(vs...), nil
	case []any:
		vs := make([]Value, len(x))
		for i := range x {
			vv, err := FromAny(x[i])
			if err != nil {
				return Value{}, err
			}
			vs[i] = vv
		}
		return List(vs...), nil
	case map[string]Value:
		return Object(x), nil
	case map[string]any:
		obj := make(map[string]Value, len(x))
		for k, f := range x {
			vv, err := FromAny(f)
			if err != nil {
				return Value{}, err
			}
			obj[k] = vv
		}
		return Object(obj), nil
	case Row:
		return Object(map[string]Value(x)), nil
	default:
		return Value{}, fmt.Errorf("row: unsupported value type %T", v)
	}
}

// MustFromAny is like FromAny but panics on unsupported input.
func MustFromAny(v any) Value {
	vv, err := FromAny(v)
	if err != nil {
		panic(err)
	}
	return vv
}

// FromMap converts a legacy map[string]any record to a typed Row.
func FromMap(m map[string]any) (Row, error) {
	r := make(Row, len(m))
	for k, v := range m {
		vv, err := FromAny(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		r[k] = vv
	}
	return r, nil
}

// MustFromMap is like FromMap but panics on unsupported input.
func MustFromMap(m map[string]any) Row {
	r, err := FromMap(m)
	if err != nil {
		panic(err)
	}
	return r
}

// FromMaps converts a slice of maps.
func FromMaps(ms []map[string]any) ([]Row, error) {
	rows := make([]Row, len(ms))
	for i, m := range ms {
		r, err := FromMap(m)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		rows[i] = r
	}
	return rows, nil
}
