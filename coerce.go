package ostar

import (
	"errors"
	"math"
	"reflect"
)

// ToDynamic converts Go value to Value.
//
// Scalars, pointers to scalars and named scalar types convert to the matching
// scalar. Typed slices and arrays become native arrays, []interface{} and
// []Value become sequences. Go maps are rejected, use MapToMapping to lift
// them. Everything else passes through as opaque host object.
func ToDynamic(x interface{}) (Value, error) {
	switch v := x.(type) {
	case nil:
		return Nil, nil
	case Value:
		return v, nil
	case *Value:
		if v == nil {
			return Nil, nil
		}
		return *v, nil
	case *Mapping:
		return MappingValue(v), nil
	case Array:
		return v.toValue()
	case *Array:
		if v == nil {
			return Nil, nil
		}
		return v.toValue()
	case bool:
		return BoolValue(v), nil
	case int:
		return IntValue(int64(v)), nil
	case int64:
		return IntValue(v), nil
	case int32:
		return IntValue(int64(v)), nil
	case float64:
		return FloatValue(v), nil
	case string:
		return StringValue(v), nil
	case []Value:
		return SequenceValue(v...), nil
	case []interface{}:
		items := make([]Value, len(v))
		for i, item := range v {
			dv, err := ToDynamic(item)
			if err != nil {
				return Nil, err
			}
			items[i] = dv
		}
		return Value{kind: KindSequence, items: items}, nil
	}

	return reflectToDynamic(reflect.ValueOf(x), x)
}

func reflectToDynamic(rv reflect.Value, x interface{}) (Value, error) {
	t := rv.Type()

	switch t.Kind() {
	case reflect.Bool:
		return BoolValue(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return IntValue(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return Nil, EUnsupported(t.String(), "int", "%v overflows int64", u)
		}
		return IntValue(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return FloatValue(rv.Float()), nil
	case reflect.String:
		return StringValue(rv.String()), nil
	case reflect.Ptr:
		if _, ok := scalarKind(t.Elem()); !ok {
			return OpaqueValue(x), nil
		}
		if rv.IsNil() {
			return Nil, nil
		}
		return reflectToDynamic(rv.Elem(), rv.Elem().Interface())
	case reflect.Map:
		return Nil, EUnsupported(t.String(), "mapping", "Go map must be lifted with MapToMapping")
	case reflect.Slice, reflect.Array:
		if t.Elem() == anyType || t.Elem() == valueType {
			return listToSequence(rv)
		}
		return sliceToArray(rv)
	}

	return OpaqueValue(x), nil
}

func sliceToArray(rv reflect.Value) (Value, error) {
	elem, err := TypeFor(rv.Type().Elem())
	if err != nil {
		return Nil, err
	}

	items := make([]Value, rv.Len())
	for i := range items {
		item, err := ToDynamic(rv.Index(i).Interface())
		if err != nil {
			return Nil, err
		}
		items[i] = item
	}
	return ArrayValue(elem, items...)
}

// FromDynamic converts v to Go value described by t.
//
// Scalars must match target kind exactly, there is no implicit widening.
// Use Numeric for explicit numeric conversion. Opaque values are returned
// only for TypeAny and opaque targets.
func FromDynamic(v Value, t Type) (interface{}, error) {
	if t.kind == tAny {
		if t.host == valueType {
			return v, nil
		}
		return generic(v), nil
	}

	if v.kind == KindOpaque && t.kind != tOpaque {
		return nil, EUnsupported("opaque", t.String(), "host object %T", v.obj)
	}

	host := t.GoType()
	if v.kind == KindNull && t.kind != tArray && t.kind != tOpaque && host.Kind() == reflect.Ptr {
		return reflect.Zero(host).Interface(), nil
	}

	switch t.kind {
	case tBool:
		b, ok := v.Bool()
		if !ok {
			return nil, ETypeMismatch(v, t, "")
		}
		return hostScalar(reflect.ValueOf(b), host)
	case tInt:
		i, ok := v.Int()
		if !ok {
			return nil, ETypeMismatch(v, t, "")
		}
		return hostInt(v, i, t)
	case tFloat:
		f, ok := v.Float64()
		if !ok {
			return nil, ETypeMismatch(v, t, "")
		}
		base := baseType(host)
		if base.Kind() == reflect.Float32 && math.Abs(f) > math.MaxFloat32 && !math.IsInf(f, 0) {
			return nil, ETypeMismatch(v, t, "%v overflows %s", f, base)
		}
		return hostScalar(reflect.ValueOf(f), host)
	case tString:
		s, ok := v.Text()
		if !ok {
			return nil, ETypeMismatch(v, t, "")
		}
		return hostScalar(reflect.ValueOf(s), host)
	case tArray:
		return fromArray(v, t)
	case tOpaque:
		if v.kind != KindOpaque {
			return nil, ETypeMismatch(v, t, "")
		}
		if !reflect.TypeOf(v.obj).AssignableTo(host) {
			return nil, EUnsupported("opaque("+reflect.TypeOf(v.obj).String()+")", t.String(), "")
		}
		return v.obj, nil
	}

	return nil, EUnsupported(v.kind.String(), t.String(), "")
}

// generic returns value for untyped host handle
func generic(v Value) interface{} {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.num != 0
	case KindInt:
		return v.num
	case KindFloat:
		return v.flt
	case KindString:
		return v.str
	case KindOpaque:
		return v.obj
	}
	return v
}

func baseType(host reflect.Type) reflect.Type {
	if host.Kind() == reflect.Ptr {
		return host.Elem()
	}
	return host
}

// hostScalar converts primitive rv to host type, which may be named or pointer
func hostScalar(rv reflect.Value, host reflect.Type) (interface{}, error) {
	base := baseType(host)
	out := reflect.New(base)
	out.Elem().Set(rv.Convert(base))
	if host.Kind() == reflect.Ptr {
		return out.Interface(), nil
	}
	return out.Elem().Interface(), nil
}

func hostInt(v Value, i int64, t Type) (interface{}, error) {
	host := t.GoType()
	base := baseType(host)
	out := reflect.New(base)

	switch base.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if out.Elem().OverflowInt(i) {
			return nil, ETypeMismatch(v, t, "%d overflows %s", i, base)
		}
		out.Elem().SetInt(i)
	default:
		if i < 0 || out.Elem().OverflowUint(uint64(i)) {
			return nil, ETypeMismatch(v, t, "%d overflows %s", i, base)
		}
		out.Elem().SetUint(uint64(i))
	}

	if host.Kind() == reflect.Ptr {
		return out.Interface(), nil
	}
	return out.Elem().Interface(), nil
}

func fromArray(v Value, t Type) (interface{}, error) {
	elem, _ := t.Elem()

	switch v.kind {
	case KindArray:
		if !elem.IsAny() && !elem.structEqual(v.elem) {
			return nil, ETypeMismatch(v, t, "array holds %s elements", v.elem)
		}
	case KindSequence:
		for i, item := range v.items {
			if !elem.conforms(item) {
				return nil, ETypeMismatch(v, t, "element %d is %s", i, item.kind)
			}
		}
	default:
		return nil, ETypeMismatch(v, t, "")
	}

	host := t.GoType()
	n := len(v.items)

	var out reflect.Value
	if host.Kind() == reflect.Array {
		if host.Len() != n {
			return nil, ETypeMismatch(v, t, "expected %d elements, got %d", host.Len(), n)
		}
		out = reflect.New(host).Elem()
	} else {
		out = reflect.MakeSlice(host, n, n)
	}

	for i, item := range v.items {
		x, err := FromDynamic(item, elem)
		if err != nil {
			return nil, err
		}
		if x != nil {
			out.Index(i).Set(reflect.ValueOf(x))
		}
	}
	return out.Interface(), nil
}

// Numeric converts numeric value to int or float type t. Float to int
// truncates toward zero; NaN, infinities and out of range values fail.
func Numeric(v Value, t Type) (interface{}, error) {
	switch {
	case v.kind == KindInt && t.kind == tFloat:
		return FromDynamic(FloatValue(float64(v.num)), t)
	case v.kind == KindFloat && t.kind == tInt:
		f := math.Trunc(v.flt)
		if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return nil, ETypeMismatch(v, t, "%v out of range", v.flt)
		}
		return FromDynamic(IntValue(int64(f)), t)
	case (v.kind == KindInt || v.kind == KindFloat) && (t.kind == tInt || t.kind == tFloat):
		return FromDynamic(v, t)
	}
	return nil, ETypeMismatch(v, t, "not a numeric conversion")
}

// Scan stores v into variable pointed by ptr, using FromDynamic with type of
// the variable. *[]interface{} and *Map are filled with SequenceToList and
// MappingToMap.
func Scan(v Value, ptr interface{}) error {
	switch p := ptr.(type) {
	case *Value:
		*p = v
		return nil
	case *[]interface{}:
		list, err := SequenceToList(v)
		if err != nil {
			return err
		}
		*p = list
		return nil
	case *Map:
		m, err := MappingToMap(v)
		if err != nil {
			return err
		}
		*p = m
		return nil
	}

	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errors.New("scan destination must be non-nil pointer")
	}

	t, err := TypeFor(rv.Type().Elem())
	if err != nil {
		return err
	}

	x, err := FromDynamic(v, t)
	if err != nil {
		return err
	}

	dst := rv.Elem()
	if x == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}
	dst.Set(reflect.ValueOf(x))
	return nil
}
