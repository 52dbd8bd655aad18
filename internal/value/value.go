// Package value defines the dynamic document value gitdis decodes JSON,
// YAML, and XML payloads into. It is the uniform shape spec.md §3 calls
// Value: Null, Bool, Number, String, Array, Object, and Undefined — the
// variant a failed decode produces so the failure is still storable as a
// cache entry rather than propagating as an error (spec.md §7).
package value

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Kind identifies which Value variant is populated.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
	KindUndefined
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindUndefined:
		return "undefined"
	default:
		return "unknown"
	}
}

// Value is a dynamic, recursively typed document value. Exactly one of the
// typed fields is meaningful, selected by Kind; this mirrors a tagged union
// without the allocation overhead of an interface-per-node tree.
type Value struct {
	kind   Kind
	bool_  bool
	number decimal.Decimal
	str    string
	arr    []Value
	// obj preserves insertion order via keys, the way spec.md §3 requires
	// ("insertion-ordered for array indices, iteration order otherwise
	// unspecified" — we pick stable insertion order throughout since it
	// costs nothing and makes flatten output deterministic).
	obj     map[string]Value
	objKeys []string
}

// Null returns the Null variant.
func Null() Value { return Value{kind: KindNull} }

// Undefined returns the Undefined variant — the outcome of a failed decode.
func Undefined() Value { return Value{kind: KindUndefined} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, bool_: b} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, str: s} }

// NumberFromInt wraps an integer.
func NumberFromInt(n int64) Value {
	return Value{kind: KindNumber, number: decimal.NewFromInt(n)}
}

// NumberFromFloat wraps a float64.
func NumberFromFloat(f float64) Value {
	return Value{kind: KindNumber, number: decimal.NewFromFloat(f)}
}

// NumberFromString parses an arbitrary-precision decimal literal.
func NumberFromString(s string) (Value, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Value{}, err
	}
	return Value{kind: KindNumber, number: d}, nil
}

// Array wraps a slice of Values, preserving index order.
func Array(items []Value) Value {
	return Value{kind: KindArray, arr: items}
}

// NewObject returns an empty Object, ready for Set.
func NewObject() Value {
	return Value{kind: KindObject, obj: map[string]Value{}}
}

// Set adds or updates a member, recording first-seen insertion order.
func (v *Value) Set(key string, val Value) {
	if v.obj == nil {
		v.obj = map[string]Value{}
	}
	if _, exists := v.obj[key]; !exists {
		v.objKeys = append(v.objKeys, key)
	}
	v.obj[key] = val
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool      { return v.kind == KindNull }
func (v Value) IsUndefined() bool { return v.kind == KindUndefined }
func (v Value) IsObject() bool    { return v.kind == KindObject }
func (v Value) IsArray() bool     { return v.kind == KindArray }

// BoolValue returns the boolean payload; false if the Value isn't a Bool.
func (v Value) BoolValue() bool { return v.bool_ }

// StringValue returns the string payload; "" if the Value isn't a String.
func (v Value) StringValue() string { return v.str }

// NumberValue returns the decimal payload.
func (v Value) NumberValue() decimal.Decimal { return v.number }

// ArrayItems returns the array's elements in index order.
func (v Value) ArrayItems() []Value { return v.arr }

// ObjectKeys returns the object's member keys in insertion order.
func (v Value) ObjectKeys() []string { return v.objKeys }

// ObjectGet looks up a member by key.
func (v Value) ObjectGet(key string) (Value, bool) {
	if v.obj == nil {
		return Value{}, false
	}
	val, ok := v.obj[key]
	return val, ok
}

// Equal reports deep structural equality, used by OrderedCache.Insert to
// decide whether an insert is a true no-op (spec.md §4.1).
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull, KindUndefined:
		return true
	case KindBool:
		return v.bool_ == other.bool_
	case KindNumber:
		return v.number.Equal(other.number)
	case KindString:
		return v.str == other.str
	case KindArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.objKeys) != len(other.objKeys) {
			return false
		}
		for _, k := range v.objKeys {
			ov, ok := other.obj[k]
			if !ok || !v.obj[k].Equal(ov) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// MarshalJSON projects Value onto the natural JSON shape from spec.md §6:
// Undefined serializes as null, never appearing literally in a response.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull, KindUndefined:
		return []byte("null"), nil
	case KindBool:
		if v.bool_ {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	case KindNumber:
		return []byte(v.number.String()), nil
	case KindString:
		return marshalJSONString(v.str), nil
	case KindArray:
		out := []byte{'['}
		for i, item := range v.arr {
			if i > 0 {
				out = append(out, ',')
			}
			b, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			out = append(out, b...)
		}
		out = append(out, ']')
		return out, nil
	case KindObject:
		out := []byte{'{'}
		for i, k := range v.objKeys {
			if i > 0 {
				out = append(out, ',')
			}
			out = append(out, marshalJSONString(k)...)
			out = append(out, ':')
			b, err := v.obj[k].MarshalJSON()
			if err != nil {
				return nil, err
			}
			out = append(out, b...)
		}
		out = append(out, '}')
		return out, nil
	default:
		return nil, fmt.Errorf("value: unknown kind %v", v.kind)
	}
}

func marshalJSONString(s string) []byte {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	for _, r := range s {
		switch r {
		case '"':
			out = append(out, '\\', '"')
		case '\\':
			out = append(out, '\\', '\\')
		case '\n':
			out = append(out, '\\', 'n')
		case '\r':
			out = append(out, '\\', 'r')
		case '\t':
			out = append(out, '\\', 't')
		default:
			if r < 0x20 {
				out = append(out, []byte(fmt.Sprintf("\\u%04x", r))...)
			} else {
				out = append(out, []byte(string(r))...)
			}
		}
	}
	out = append(out, '"')
	return out
}

// SortedObjectKeys returns a copy of the object's keys sorted
// lexicographically, for callers that want deterministic output
// regardless of decoder iteration order.
func SortedObjectKeys(v Value) []string {
	keys := append([]string(nil), v.objKeys...)
	sort.Strings(keys)
	return keys
}
