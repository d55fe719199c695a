package row

import (
	"bytes"

	gojson "github.com/goccy/go-json"
)

// MarshalJSON implements json.Marshaler. Undefined encodes as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindUndefined, KindNull:
		return []byte("null"), nil
	case KindString:
		return gojson.Marshal(v.Str)
	case KindNumber:
		return gojson.Marshal(v.Num)
	case KindBool:
		return gojson.Marshal(v.B)
	case KindList:
		if v.List == nil {
			return []byte("[]"), nil
		}
		return gojson.Marshal(v.List)
	default:
		if v.Obj == nil {
			return []byte("{}"), nil
		}
		return gojson.Marshal(v.Obj)
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = Null()
		return nil
	}
	var raw any
	if err := gojson.Unmarshal(data, &raw); err != nil {
		return err
	}
	vv, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = vv
	return nil
}

// UnmarshalJSON implements json.Unmarshaler. Explicit nulls decode to Null,
// absent fields stay absent.
func (r *Row) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := gojson.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded, err := FromMap(raw)
	if err != nil {
		return err
	}
	*r = decoded
	return nil
}
