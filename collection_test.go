package ostar

import (
	"testing"
)

func TestSequenceToList(t *testing.T) {
	inner, _ := NewMapping(Entry{StringValue("k"), IntValue(1)})
	v := SequenceValue(IntValue(1), FloatValue(2), SequenceValue(True), MappingValue(inner))

	list, err := SequenceToList(v)
	ExpectNilError(t, err)
	ExpectEql(t, list[:2], []interface{}{int64(1), 2.0})
	ExpectEql(t, list[2], SequenceValue(True))

	list, err = SequenceToList(v, Nested())
	ExpectNilError(t, err)
	ExpectEql(t, list, []interface{}{int64(1), 2.0, []interface{}{true}, Map{"k": int64(1)}})

	arr, _ := ArrayValue(TypeString, StringValue("a"))
	list, err = SequenceToList(arr)
	ExpectNilError(t, err)
	ExpectEql(t, list, []interface{}{"a"})

	_, err = SequenceToList(StringValue("abc"))
	ExpectErrIs(t, err, ErrTypeMismatch)
}

func TestMappingToMap(t *testing.T) {
	m, _ := NewMapping(
		Entry{StringValue("a"), IntValue(1)},
		Entry{IntValue(2), SequenceValue(StringValue("x"))},
		Entry{Nil, True},
	)

	out, err := MappingToMap(MappingValue(m))
	ExpectNilError(t, err)
	ExpectEql(t, len(out), 3)
	ExpectEql(t, out["a"], int64(1))
	ExpectEql(t, out[nil], true)
	ExpectEql(t, out[int64(2)], SequenceValue(StringValue("x")))

	out, err = MappingToMap(MappingValue(m), Nested())
	ExpectNilError(t, err)
	ExpectEql(t, out[int64(2)], []interface{}{"x"})

	// source is unchanged
	ExpectEql(t, m.Len(), 3)

	_, err = MappingToMap(SequenceValue())
	ExpectErrIs(t, err, ErrTypeMismatch)
}

func TestMappingToMapKeys(t *testing.T) {
	m, _ := NewMapping(Entry{SequenceValue(IntValue(1)), StringValue("seq")})

	_, err := MappingToMap(MappingValue(m), Nested())
	ExpectErrIs(t, err, ErrUnsupportedConversion)

	out, err := MappingToMap(MappingValue(m), KeysAsText())
	ExpectNilError(t, err)
	ExpectEql(t, out, Map{"[1]": "seq"})

	// 1 and "1" render to the same text, last one wins
	m, _ = NewMapping(Entry{IntValue(1), StringValue("a")}, Entry{StringValue("1"), StringValue("b")})
	out, err = MappingToMap(MappingValue(m), KeysAsText())
	ExpectNilError(t, err)
	ExpectEql(t, out, Map{"1": "b"})
}

func TestListToSequence(t *testing.T) {
	v, err := ListToSequence([]int{1, 2})
	ExpectNilError(t, err)
	Expect(t, v.IsSequence(), "typed slice should become sequence")
	ExpectEql(t, v, SequenceValue(IntValue(1), IntValue(2)))

	v, err = ListToSequence([0]string{})
	ExpectNilError(t, err)
	ExpectEql(t, v.Len(), 0)

	_, err = ListToSequence(1)
	ExpectErrIs(t, err, ErrUnsupportedConversion)

	_, err = ListToSequence([]interface{}{map[int]int{}})
	ExpectErrIs(t, err, ErrUnsupportedConversion)
}

func TestMapToMapping(t *testing.T) {
	v, err := MapToMapping(map[string]interface{}{
		"n":      1,
		"nested": map[string]int{"x": 1},
		"list":   []interface{}{map[int]bool{1: true}},
	})
	ExpectNilError(t, err)

	m := v.Mapping()
	ExpectEql(t, m.Len(), 3)

	nested, _ := m.Get(StringValue("nested"))
	Expect(t, nested.IsMapping(), "nested map should be lifted")

	list, _ := m.Get(StringValue("list"))
	Expect(t, list.Index(0).IsMapping(), "map in list should be lifted")

	_, err = MapToMapping([]int{1})
	ExpectErrIs(t, err, ErrUnsupportedConversion)

	_, err = MapToMapping(map[string]interface{}{"bad": uint64(1 << 63)})
	ExpectErrIs(t, err, ErrUnsupportedConversion)
}

func TestMapRoundTrip(t *testing.T) {
	in := Map{"a": int64(1), int64(2): "b", 2.5: true, false: nil}

	v, err := MapToMapping(in)
	ExpectNilError(t, err)

	out, err := MappingToMap(v)
	ExpectNilError(t, err)
	ExpectEql(t, out, in)
}

func TestLift(t *testing.T) {
	v, err := Lift(nil)
	ExpectNilError(t, err)
	Expect(t, v.IsNil(), "Lift(nil) should be None")

	v, err = Lift(map[string]string{"k": "v"})
	ExpectNilError(t, err)
	Expect(t, v.IsMapping(), "Lift should lift maps")

	v, err = Lift(5)
	ExpectNilError(t, err)
	ExpectEql(t, v, IntValue(5))
}
