package row

import (
	"math"
	"strconv"

	gojson "github.com/goccy/go-json"
)

// Kind identifies the concrete type stored in a Value.
type Kind uint8

const (
	// KindUndefined is the zero Kind. It marks an absent field or an accessor
	// that produced no value.
	KindUndefined Kind = iota
	// KindNull represents an explicit null value.
	KindNull
	// KindString represents a string value.
	KindString
	// KindNumber represents a numeric value.
	KindNumber
	// KindBool represents a boolean value.
	KindBool
	// KindList represents a list of values.
	KindList
	// KindObject represents a nested field map.
	KindObject
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// Value is a small typed cell value.
//
// The zero Value is Undefined, so a lookup of a missing field and an accessor
// returning nothing share one representation.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
	B    bool
	List []Value
	Obj  map[string]Value
}

// Undefined returns the undefined Value.
func Undefined() Value { return Value{} }

// Null returns a null Value.
func Null() Value { return Value{Kind: KindNull} }

// String returns a string Value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Number returns a numeric Value.
func Number(f float64) Value { return Value{Kind: KindNumber, Num: f} }

// Int returns a numeric Value from an int.
func Int(i int) Value { return Value{Kind: KindNumber, Num: float64(i)} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{Kind: KindBool, B: b} }

// List returns a list Value.
func List(vs ...Value) Value { return Value{Kind: KindList, List: vs} }

// Object returns an object Value.
func Object(m map[string]Value) Value { return Value{Kind: KindObject, Obj: m} }

// Strings returns a list Value of strings.
func Strings(ss []string) Value {
	vs := make([]Value, len(ss))
	for i, s := range ss {
		vs[i] = String(s)
	}
	return List(vs...)
}

// IsDefined reports whether v holds anything other than Undefined.
func (v Value) IsDefined() bool { return v.Kind != KindUndefined }

// IsNull reports whether v is an explicit null.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// AsString returns the string if Kind is KindString.
func (v Value) AsString() (string, bool) {
	if v.Kind != KindString {
		return "", false
	}
	return v.Str, true
}

// AsNumber returns the number if Kind is KindNumber.
func (v Value) AsNumber() (float64, bool) {
	if v.Kind != KindNumber {
		return 0, false
	}
	return v.Num, true
}

// AsBool returns the boolean if Kind is KindBool.
func (v Value) AsBool() (bool, bool) {
	if v.Kind != KindBool {
		return false, false
	}
	return v.B, true
}

// AsList returns the list if Kind is KindList.
func (v Value) AsList() ([]Value, bool) {
	if v.Kind != KindList {
		return nil, false
	}
	return v.List, true
}

// AsObject returns the field map if Kind is KindObject.
func (v Value) AsObject() (map[string]Value, bool) {
	if v.Kind != KindObject {
		return nil, false
	}
	return v.Obj, true
}

// IsPrimitive reports whether v is a String or a Number.
func (v Value) IsPrimitive() bool {
	return v.Kind == KindString || v.Kind == KindNumber
}

// Text returns the stringified form used for display, sorting by text and
// quick filtering. Undefined and null yield "".
func (v Value) Text() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return formatNumber(v.Num)
	case KindBool:
		if v.B {
			return "true"
		}
		return "false"
	case KindList, KindObject:
		return v.Key()
	default:
		return ""
	}
}

// String implements fmt.Stringer.
func (v Value) String() string {
	if v.Kind == KindUndefined {
		return "undefined"
	}
	if v.Kind == KindNull {
		return "null"
	}
	return v.Text()
}

// Key returns a stable structural serialization of v. Object keys are
// emitted in sorted order so two equal objects always share a key.
func (v Value) Key() string {
	switch v.Kind {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindString:
		return strconv.Quote(v.Str)
	case KindNumber:
		return formatNumber(v.Num)
	case KindBool:
		return strconv.FormatBool(v.B)
	default:
		b, err := gojson.Marshal(v)
		if err != nil {
			return "invalid"
		}
		return string(b)
	}
}

// Interface converts v back into plain Go values.
func (v Value) Interface() any {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return v.Num
	case KindBool:
		return v.B
	case KindList:
		out := make([]any, len(v.List))
		for i := range v.List {
			out[i] = v.List[i].Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.Obj))
		for k, f := range v.Obj {
			out[k] = f.Interface()
		}
		return out
	default:
		return nil
	}
}

func formatNumber(f float64) string {
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	if math.IsNaN(f) {
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
