package row

import "strings"

// Row is one grid record: a field name to Value map with no fixed schema.
type Row map[string]Value

// Get returns the value of field, or Undefined if the row has no such field.
func (r Row) Get(field string) Value {
	if r == nil || field == "" {
		return Undefined()
	}
	return r[field]
}

// Has reports whether the field is present.
func (r Row) Has(field string) bool {
	_, ok := r[field]
	return ok
}

// Clone creates a deep copy of the row.
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	clone := make(Row, len(r))
	for k, v := range r {
		clone[k] = v.clone()
	}
	return clone
}

// ToMap converts the row into a plain map.
func (r Row) ToMap() map[string]any {
	m := make(map[string]any, len(r))
	for k, v := range r {
		m[k] = v.Interface()
	}
	return m
}

func (v Value) clone() Value {
	switch v.Kind {
	case KindList:
		if len(v.List) == 0 {
			return v
		}
		list := make([]Value, len(v.List))
		for i := range v.List {
			list[i] = v.List[i].clone()
		}
		return Value{Kind: KindList, List: list}
	case KindObject:
		obj := make(map[string]Value, len(v.Obj))
		for k, f := range v.Obj {
			obj[k] = f.clone()
		}
		return Value{Kind: KindObject, Obj: obj}
	default:
		return v
	}
}

// Equal reports deep equality. Lists compare element-wise in order, objects
// compare field by field regardless of field order.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindUndefined, KindNull:
		return true
	case KindString:
		return a.Str == b.Str
	case KindNumber:
		return a.Num == b.Num
	case KindBool:
		return a.B == b.B
	case KindList:
		if len(a.List) != len(b.List) {
			return false
		}
		for i := range a.List {
			if !Equal(a.List[i], b.List[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.Obj) != len(b.Obj) {
			return false
		}
		for k, av := range a.Obj {
			bv, ok := b.Obj[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// kindRank orders mixed kinds: numbers first, then strings, then the rest.
func kindRank(k Kind) int {
	switch k {
	case KindNumber:
		return 0
	case KindString:
		return 1
	case KindBool:
		return 2
	case KindNull:
		return 3
	default:
		return 4
	}
}

// Compare orders two defined values. Numbers compare numerically, strings
// lexically, booleans false before true; mixed kinds fall back to kind rank
// and then to their structural keys.
func Compare(a, b Value) int {
	if a.Kind != b.Kind {
		ra, rb := kindRank(a.Kind), kindRank(b.Kind)
		if ra != rb {
			if ra < rb {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Key(), b.Key())
	}
	switch a.Kind {
	case KindNumber:
		switch {
		case a.Num < b.Num:
			return -1
		case a.Num > b.Num:
			return 1
		}
		return 0
	case KindString:
		return strings.Compare(a.Str, b.Str)
	case KindBool:
		switch {
		case a.B == b.B:
			return 0
		case !a.B:
			return -1
		}
		return 1
	case KindUndefined, KindNull:
		return 0
	default:
		return strings.Compare(a.Key(), b.Key())
	}
}
