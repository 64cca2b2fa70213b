package ostar

import "reflect"

// Kind is the variant tag of a Value
type Kind int

// Value kinds
const (
	KindNull     Kind = iota
	KindBool          // 1
	KindInt           // 2
	KindFloat         // 3
	KindString        // 4
	KindSequence      // 5
	KindMapping       // 6
	KindArray         // 7
	KindOpaque        // 8
)

var kindNames = [...]string{
	KindNull:     "null",
	KindBool:     "bool",
	KindInt:      "int",
	KindFloat:    "float",
	KindString:   "str",
	KindSequence: "sequence",
	KindMapping:  "mapping",
	KindArray:    "array",
	KindOpaque:   "opaque",
}

// String returns kind name
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Value is a value crossing the host/interpreter boundary.
//
// A Value is immutable once constructed. The zero Value is Nil.
type Value struct {
	kind  Kind
	num   int64
	flt   float64
	str   string
	items []Value
	elem  *Type
	m     *Mapping
	obj   interface{}
}

// Predefined helper values
var (
	Nil   = Value{}
	True  = Value{kind: KindBool, num: 1}
	False = Value{kind: KindBool}
)

// IntValue converts int64 to Value
func IntValue(i int64) Value { return Value{kind: KindInt, num: i} }

// FloatValue converts float64 to Value
func FloatValue(f float64) Value { return Value{kind: KindFloat, flt: f} }

// BoolValue converts bool to Value
func BoolValue(b bool) Value {
	if b {
		return True
	}
	return False
}

// StringValue converts string to Value
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// SequenceValue creates ordered sequence from items. Items are copied.
func SequenceValue(items ...Value) Value {
	return Value{kind: KindSequence, items: append([]Value(nil), items...)}
}

// MappingValue wraps m as Value. Nil mapping is treated as empty.
func MappingValue(m *Mapping) Value {
	if m == nil {
		m = emptyMapping()
	}
	return Value{kind: KindMapping, m: m}
}

// OpaqueValue passes host object x through the boundary untouched.
// OpaqueValue(nil) is Nil.
func OpaqueValue(x interface{}) Value {
	if x == nil {
		return Nil
	}
	if v, ok := x.(Value); ok {
		return v
	}
	return Value{kind: KindOpaque, obj: x}
}

// Kind returns variant of value
func (v Value) Kind() Kind { return v.kind }

// IsNil checks if value is Null
func (v Value) IsNil() bool { return v.kind == KindNull }

// IsScalar checks if value is Null, Bool, Int, Float or String
func (v Value) IsScalar() bool { return v.kind <= KindString }

// IsSequence checks if value is Sequence
func (v Value) IsSequence() bool { return v.kind == KindSequence }

// IsMapping checks if value is Mapping
func (v Value) IsMapping() bool { return v.kind == KindMapping }

// IsArray checks if value is native array
func (v Value) IsArray() bool { return v.kind == KindArray }

// IsOpaque checks if value is opaque host object
func (v Value) IsOpaque() bool { return v.kind == KindOpaque }

// Int returns integer held by value
func (v Value) Int() (int64, bool) { return v.num, v.kind == KindInt }

// Float64 returns float held by value
func (v Value) Float64() (float64, bool) { return v.flt, v.kind == KindFloat }

// Bool returns boolean held by value
func (v Value) Bool() (bool, bool) { return v.num != 0, v.kind == KindBool }

// Text returns string held by value
func (v Value) Text() (string, bool) { return v.str, v.kind == KindString }

// Opaque returns host object held by value
func (v Value) Opaque() (interface{}, bool) { return v.obj, v.kind == KindOpaque }

// Mapping returns mapping held by value, nil for other kinds
func (v Value) Mapping() *Mapping {
	if v.kind != KindMapping {
		return nil
	}
	return v.m
}

// Elem returns declared element type of native array
func (v Value) Elem() (Type, bool) {
	if v.kind != KindArray || v.elem == nil {
		return TypeAny, false
	}
	return *v.elem, true
}

// Items returns copy of sequence or array elements
func (v Value) Items() []Value {
	if v.kind != KindSequence && v.kind != KindArray {
		return nil
	}
	return append([]Value(nil), v.items...)
}

// Index returns n-th element of sequence or array, Nil when out of range
func (v Value) Index(n int) Value {
	if v.kind != KindSequence && v.kind != KindArray {
		return Nil
	}
	if n < 0 || n >= len(v.items) {
		return Nil
	}
	return v.items[n]
}

// Len returns length of sequence, array, mapping or string, 0 for other kinds
func (v Value) Len() int {
	switch v.kind {
	case KindSequence, KindArray:
		return len(v.items)
	case KindMapping:
		return v.m.Len()
	case KindString:
		return len(v.str)
	default:
		return 0
	}
}

// Truth returns false for Null, False, zero numbers and empty collections
func (v Value) Truth() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool, KindInt:
		return v.num != 0
	case KindFloat:
		return v.flt != 0
	case KindOpaque:
		return true
	default:
		return v.Len() > 0
	}
}

// Equal reports deep equality. Kinds must match, so Int(1) differs from Float(1).
// Opaque values are equal when they hold the same host object.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}

	switch v.kind {
	case KindNull:
		return true
	case KindBool, KindInt:
		return v.num == o.num
	case KindFloat:
		return v.flt == o.flt
	case KindString:
		return v.str == o.str
	case KindArray:
		if !v.elem.structEqual(o.elem) {
			return false
		}
		fallthrough
	case KindSequence:
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		return v.m.Equal(o.m)
	case KindOpaque:
		return sameObject(v.obj, o.obj)
	}
	return false
}

func sameObject(a, b interface{}) bool {
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	if comparableObject(a) && comparableObject(b) {
		return a == b
	}
	return false
}

// comparableObject reports whether x can be compared with == without panic.
// Interface fields are checked by their dynamic values.
func comparableObject(x interface{}) bool {
	return reflect.ValueOf(x).Comparable()
}
