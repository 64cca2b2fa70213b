package ostar

import (
	"errors"
	"reflect"
)

type tkind uint8

const (
	tAny tkind = iota
	tBool
	tInt
	tFloat
	tString
	tArray
	tOpaque
)

// Type describes host target of a conversion.
//
// Scalar types carry the exact Go type they produce, so
// FromDynamic(ToDynamic(x), TypeOf(x)) returns x unchanged.
type Type struct {
	kind tkind
	elem *Type
	host reflect.Type
}

var (
	anyType   = reflect.TypeOf((*interface{})(nil)).Elem()
	valueType = reflect.TypeOf(Value{})
)

// Predefined target types
var (
	TypeAny    = Type{kind: tAny, host: anyType}
	TypeBool   = Type{kind: tBool, host: reflect.TypeOf(false)}
	TypeInt    = Type{kind: tInt, host: reflect.TypeOf(int64(0))}
	TypeFloat  = Type{kind: tFloat, host: reflect.TypeOf(float64(0))}
	TypeString = Type{kind: tString, host: reflect.TypeOf("")}
)

// ArrayOf returns native array type with elements of type elem
func ArrayOf(elem Type) Type {
	e := elem
	return Type{kind: tArray, elem: &e, host: reflect.SliceOf(elem.GoType())}
}

// OpaqueOf returns opaque type matching host objects of the same Go type as sample
func OpaqueOf(sample interface{}) Type {
	return OpaqueType(reflect.TypeOf(sample))
}

// OpaqueType returns opaque type for host objects assignable to t
func OpaqueType(t reflect.Type) Type {
	if t == nil {
		t = anyType
	}
	return Type{kind: tOpaque, host: t}
}

// TypeOf returns type which converts dynamic values back to the Go type of x
func TypeOf(x interface{}) (Type, error) {
	if x == nil {
		return TypeAny, nil
	}
	return TypeFor(reflect.TypeOf(x))
}

// TypeFor returns type producing Go values of type t
func TypeFor(t reflect.Type) (Type, error) {
	if t == nil {
		return TypeAny, errors.New("nil reflect.Type")
	}

	if t == valueType {
		return Type{kind: tAny, host: valueType}, nil
	}

	if k, ok := scalarKind(t); ok {
		return Type{kind: k, host: t}, nil
	}

	switch t.Kind() {
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return TypeAny, nil
		}
		return OpaqueType(t), nil
	case reflect.Ptr:
		if k, ok := scalarKind(t.Elem()); ok {
			return Type{kind: k, host: t}, nil
		}
		return OpaqueType(t), nil
	case reflect.Slice, reflect.Array:
		elem, err := TypeFor(t.Elem())
		if err != nil {
			return TypeAny, err
		}
		return Type{kind: tArray, elem: &elem, host: t}, nil
	default:
		return OpaqueType(t), nil
	}
}

func scalarKind(t reflect.Type) (tkind, bool) {
	switch t.Kind() {
	case reflect.Bool:
		return tBool, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return tInt, true
	case reflect.Float32, reflect.Float64:
		return tFloat, true
	case reflect.String:
		return tString, true
	}
	return tAny, false
}

// GoType returns Go type of values produced for this type
func (t Type) GoType() reflect.Type {
	if t.host != nil {
		return t.host
	}
	return anyType
}

// Elem returns element type of array type
func (t Type) Elem() (Type, bool) {
	if t.kind != tArray || t.elem == nil {
		return TypeAny, false
	}
	return *t.elem, true
}

// IsAny checks if type accepts any value
func (t Type) IsAny() bool { return t.kind == tAny }

// IsArray checks if t is native array type
func (t Type) IsArray() bool { return t.kind == tArray }

// IsOpaque checks if t is opaque host object type
func (t Type) IsOpaque() bool { return t.kind == tOpaque }

// String returns type name as seen by scripts
func (t Type) String() string {
	switch t.kind {
	case tBool:
		return "bool"
	case tInt:
		return "int"
	case tFloat:
		return "float"
	case tString:
		return "str"
	case tArray:
		e, _ := t.Elem()
		return "array(" + e.String() + ")"
	case tOpaque:
		return "opaque(" + t.GoType().String() + ")"
	default:
		return "any"
	}
}

// structEqual compares type shapes, ignoring exact host scalar types
func (t *Type) structEqual(o *Type) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.kind != o.kind {
		return false
	}
	switch t.kind {
	case tArray:
		return t.elem.structEqual(o.elem)
	case tOpaque:
		return t.GoType() == o.GoType()
	}
	return true
}

// ParseType returns type for its script name: any, bool, int, float, str
func ParseType(name string) (Type, bool) {
	switch name {
	case "any", "":
		return TypeAny, true
	case "bool":
		return TypeBool, true
	case "int":
		return TypeInt, true
	case "float":
		return TypeFloat, true
	case "str", "string":
		return TypeString, true
	}
	return TypeAny, false
}

// conforms checks if v may be an element of array with element type t
func (t Type) conforms(v Value) bool {
	switch t.kind {
	case tAny:
		return true
	case tBool:
		return v.kind == KindBool
	case tInt:
		return v.kind == KindInt
	case tFloat:
		return v.kind == KindFloat
	case tString:
		return v.kind == KindString
	case tArray:
		return v.kind == KindArray && t.elem.structEqual(v.elem)
	case tOpaque:
		return v.kind == KindOpaque && reflect.TypeOf(v.obj).AssignableTo(t.GoType())
	}
	return false
}
