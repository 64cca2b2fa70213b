package ostar

import (
	"math"
	"reflect"
	"testing"
)

type celsius float64

type sensor struct{ id int }

func TestToDynamicScalars(t *testing.T) {
	n := 7
	var nilInt *int

	tests := []struct {
		x    interface{}
		want Value
	}{
		{nil, Nil},
		{true, True},
		{42, IntValue(42)},
		{int8(-8), IntValue(-8)},
		{uint16(16), IntValue(16)},
		{uint64(math.MaxInt64), IntValue(math.MaxInt64)},
		{float32(0.5), FloatValue(0.5)},
		{3.25, FloatValue(3.25)},
		{celsius(21.5), FloatValue(21.5)},
		{"text", StringValue("text")},
		{&n, IntValue(7)},
		{nilInt, Nil},
		{[]interface{}{1, "a", nil}, SequenceValue(IntValue(1), StringValue("a"), Nil)},
		{[]Value{True}, SequenceValue(True)},
	}
	for _, tt := range tests {
		v, err := ToDynamic(tt.x)
		ExpectNilError(t, err)
		ExpectEql(t, v, tt.want)
	}
}

func TestToDynamicArrays(t *testing.T) {
	v, err := ToDynamic([]int{1, 2, 3})
	ExpectNilError(t, err)
	Expect(t, v.IsArray(), "[]int should be native array")
	elem, _ := v.Elem()
	ExpectEql(t, elem.String(), "int")

	v, err = ToDynamic([2]string{"a", "b"})
	ExpectNilError(t, err)
	ExpectEql(t, v.Repr(), `array(str, ["a", "b"])`)

	v, err = ToDynamic(NewArray(TypeFloat, 1.0, 2.0))
	ExpectNilError(t, err)
	ExpectEql(t, v.Repr(), "array(float, [1.0, 2.0])")

	_, err = ToDynamic(NewArray(TypeFloat, 1.0, "two"))
	ExpectErrIs(t, err, ErrTypeMismatch)

	_, err = ArrayValue(TypeInt, IntValue(1), FloatValue(2))
	ExpectErrIs(t, err, ErrTypeMismatch)
}

func TestToDynamicUnsupported(t *testing.T) {
	_, err := ToDynamic(map[string]int{"a": 1})
	ExpectErrIs(t, err, ErrUnsupportedConversion)

	_, err = ToDynamic(uint64(math.MaxUint64))
	ExpectErrIs(t, err, ErrUnsupportedConversion)

	_, err = ToDynamic([]interface{}{map[string]int{}})
	ExpectErrIs(t, err, ErrUnsupportedConversion)
}

func TestToDynamicOpaque(t *testing.T) {
	s := &sensor{id: 1}
	v, err := ToDynamic(s)
	ExpectNilError(t, err)
	Expect(t, v.IsOpaque(), "struct pointer should be opaque")

	x, ok := v.Opaque()
	Expect(t, ok && x == s, "opaque should hold same object")

	v, err = ToDynamic(sensor{id: 2})
	ExpectNilError(t, err)
	Expect(t, v.IsOpaque(), "struct should be opaque")

	ch := make(chan int)
	v, err = ToDynamic(ch)
	ExpectNilError(t, err)
	Expect(t, v.IsOpaque(), "channel should be opaque")
}

func TestFromDynamicExact(t *testing.T) {
	_, err := FromDynamic(IntValue(100), TypeString)
	ExpectErrIs(t, err, ErrTypeMismatch)

	_, err = FromDynamic(IntValue(1), TypeFloat)
	ExpectErrIs(t, err, ErrTypeMismatch)

	_, err = FromDynamic(FloatValue(1), TypeInt)
	ExpectErrIs(t, err, ErrTypeMismatch)

	_, err = FromDynamic(True, TypeInt)
	ExpectErrIs(t, err, ErrTypeMismatch)

	x, err := FromDynamic(IntValue(100), TypeAny)
	ExpectNilError(t, err)
	ExpectEql(t, x, int64(100))

	x, err = FromDynamic(StringValue("s"), TypeString)
	ExpectNilError(t, err)
	ExpectEql(t, x, "s")
}

func TestFromDynamicIntRange(t *testing.T) {
	i8, _ := TypeOf(int8(0))
	_, err := FromDynamic(IntValue(128), i8)
	ExpectErrIs(t, err, ErrTypeMismatch)

	x, err := FromDynamic(IntValue(-128), i8)
	ExpectNilError(t, err)
	ExpectEql(t, x, int8(-128))

	u, _ := TypeOf(uint(0))
	_, err = FromDynamic(IntValue(-1), u)
	ExpectErrIs(t, err, ErrTypeMismatch)

	f32, _ := TypeOf(float32(0))
	_, err = FromDynamic(FloatValue(math.MaxFloat64), f32)
	ExpectErrIs(t, err, ErrTypeMismatch)
}

func TestFromDynamicPointers(t *testing.T) {
	pt, err := TypeFor(reflect.TypeOf((*int)(nil)))
	ExpectNilError(t, err)

	x, err := FromDynamic(Nil, pt)
	ExpectNilError(t, err)
	Expect(t, x.(*int) == nil, "None should give nil pointer")

	x, err = FromDynamic(IntValue(5), pt)
	ExpectNilError(t, err)
	ExpectEql(t, *x.(*int), 5)

	_, err = FromDynamic(Nil, TypeInt)
	ExpectErrIs(t, err, ErrTypeMismatch)
}

func TestFromDynamicArrays(t *testing.T) {
	floats, err := ArrayValue(TypeFloat, FloatValue(1.5), FloatValue(2))
	ExpectNilError(t, err)

	_, err = FromDynamic(floats, ArrayOf(TypeInt))
	ExpectErrIs(t, err, ErrTypeMismatch)

	x, err := FromDynamic(floats, ArrayOf(TypeFloat))
	ExpectNilError(t, err)
	ExpectEql(t, x, []float64{1.5, 2})

	x, err = FromDynamic(floats, ArrayOf(TypeAny))
	ExpectNilError(t, err)
	ExpectEql(t, x, []interface{}{1.5, 2.0})

	// sequences convert when every element conforms
	x, err = FromDynamic(SequenceValue(IntValue(1), IntValue(2)), ArrayOf(TypeInt))
	ExpectNilError(t, err)
	ExpectEql(t, x, []int64{1, 2})

	_, err = FromDynamic(SequenceValue(IntValue(1), StringValue("2")), ArrayOf(TypeInt))
	ExpectErrIs(t, err, ErrTypeMismatch)

	fixed, _ := TypeOf([2]int{})
	x, err = FromDynamic(SequenceValue(IntValue(1), IntValue(2)), fixed)
	ExpectNilError(t, err)
	ExpectEql(t, x, [2]int{1, 2})

	_, err = FromDynamic(SequenceValue(IntValue(1)), fixed)
	ExpectErrIs(t, err, ErrTypeMismatch)

	_, err = FromDynamic(IntValue(1), ArrayOf(TypeInt))
	ExpectErrIs(t, err, ErrTypeMismatch)
}

func TestFromDynamicOpaque(t *testing.T) {
	s := &sensor{id: 3}
	v := OpaqueValue(s)

	x, err := FromDynamic(v, OpaqueOf(s))
	ExpectNilError(t, err)
	Expect(t, x.(*sensor) == s, "opaque should return same object")

	x, err = FromDynamic(v, TypeAny)
	ExpectNilError(t, err)
	Expect(t, x.(*sensor) == s, "any should return same object")

	_, err = FromDynamic(v, TypeString)
	ExpectErrIs(t, err, ErrUnsupportedConversion)

	_, err = FromDynamic(v, OpaqueOf(new(celsius)))
	ExpectErrIs(t, err, ErrUnsupportedConversion)

	_, err = FromDynamic(IntValue(1), OpaqueOf(s))
	ExpectErrIs(t, err, ErrTypeMismatch)
}

func TestRoundTrip(t *testing.T) {
	n := int16(-5)
	values := []interface{}{
		true, 1, int8(2), int32(3), int64(4), uint8(5), uint32(6), uint64(7),
		float32(1.25), 2.5, "str", celsius(-3), &n,
		[]int{1, 2}, []string{"a"}, [3]bool{true, false, true}, [][]float64{{1}, {2, 3}},
		&sensor{id: 4},
	}

	for _, x := range values {
		v, err := ToDynamic(x)
		ExpectNilError(t, err)

		typ, err := TypeOf(x)
		ExpectNilError(t, err)

		back, err := FromDynamic(v, typ)
		ExpectNilError(t, err)
		Expect(t, reflect.DeepEqual(back, x), "round trip of %T: got %v, want %v", x, back, x)
	}
}

func TestNumeric(t *testing.T) {
	x, err := Numeric(IntValue(3), TypeFloat)
	ExpectNilError(t, err)
	ExpectEql(t, x, 3.0)

	x, err = Numeric(FloatValue(-2.9), TypeInt)
	ExpectNilError(t, err)
	ExpectEql(t, x, int64(-2))

	x, err = Numeric(IntValue(3), TypeInt)
	ExpectNilError(t, err)
	ExpectEql(t, x, int64(3))

	_, err = Numeric(FloatValue(math.NaN()), TypeInt)
	ExpectErrIs(t, err, ErrTypeMismatch)

	_, err = Numeric(FloatValue(math.Inf(1)), TypeInt)
	ExpectErrIs(t, err, ErrTypeMismatch)

	_, err = Numeric(StringValue("1"), TypeInt)
	ExpectErrIs(t, err, ErrTypeMismatch)
}

func TestScan(t *testing.T) {
	var i int
	ExpectNilError(t, Scan(IntValue(9), &i))
	ExpectEql(t, i, 9)

	var s string
	ExpectErrIs(t, Scan(IntValue(9), &s), ErrTypeMismatch)

	var fs []float64
	ExpectNilError(t, Scan(SequenceValue(FloatValue(1), FloatValue(2)), &fs))
	ExpectEql(t, fs, []float64{1, 2})

	var list []interface{}
	ExpectNilError(t, Scan(SequenceValue(IntValue(1), Nil), &list))
	ExpectEql(t, list, []interface{}{int64(1), nil})

	var v Value
	ExpectNilError(t, Scan(StringValue("v"), &v))
	ExpectEql(t, v, StringValue("v"))

	p := new(int)
	ExpectNilError(t, Scan(Nil, &p))
	Expect(t, p == nil, "None should reset pointer")

	ExpectErr(t, Scan(IntValue(1), i), "non pointer destination should fail")
}
