package ostar

import (
	"reflect"
)

// Map is host map produced from Mapping values
type Map = map[interface{}]interface{}

// ConvOption changes collection conversion
type ConvOption func(*convConfig)

type convConfig struct {
	nested     bool
	keysAsText bool
}

// Nested converts nested sequences and mappings recursively into
// []interface{} and Map, instead of returning them as Value
func Nested() ConvOption {
	return func(c *convConfig) { c.nested = true }
}

// KeysAsText renders mapping keys to their text form. Distinct keys with
// the same text, like 1 and "1", collide and the last one wins.
func KeysAsText() ConvOption {
	return func(c *convConfig) { c.keysAsText = true }
}

func newConvConfig(opts []ConvOption) *convConfig {
	c := &convConfig{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SequenceToList converts sequence or native array to list of generic host values
func SequenceToList(v Value, opts ...ConvOption) ([]interface{}, error) {
	return sequenceToList(v, newConvConfig(opts))
}

func sequenceToList(v Value, c *convConfig) ([]interface{}, error) {
	if v.kind != KindSequence && v.kind != KindArray {
		return nil, ETypeMismatch(v, ArrayOf(TypeAny), "")
	}

	list := make([]interface{}, len(v.items))
	for i, item := range v.items {
		x, err := c.handle(item)
		if err != nil {
			return nil, err
		}
		list[i] = x
	}
	return list, nil
}

// MappingToMap converts mapping to host map. Source mapping is not changed.
// Keys which are not comparable in Go fail with ErrUnsupportedConversion.
func MappingToMap(v Value, opts ...ConvOption) (Map, error) {
	return mappingToMap(v, newConvConfig(opts))
}

func mappingToMap(v Value, c *convConfig) (Map, error) {
	if v.kind != KindMapping {
		return nil, castError(ErrTypeMismatch, v.kind.String(), "mapping", "")
	}

	entries := v.m.Entries()
	out := make(Map, len(entries))
	for _, e := range entries {
		var k interface{}
		if c.keysAsText {
			k = keyText(e.Key)
		} else {
			var err error
			if k, err = c.handle(e.Key); err != nil {
				return nil, err
			}
			if k != nil && !comparableObject(k) {
				return nil, EUnsupported(e.Key.kind.String(), "map key", "%s is not comparable in Go", reflect.TypeOf(k))
			}
		}

		val, err := c.handle(e.Value)
		if err != nil {
			return nil, err
		}
		out[k] = val
	}
	return out, nil
}

func keyText(k Value) string {
	if s, ok := k.Text(); ok {
		return s
	}
	return k.String()
}

func (c *convConfig) handle(v Value) (interface{}, error) {
	if c.nested {
		switch v.kind {
		case KindSequence, KindArray:
			return sequenceToList(v, c)
		case KindMapping:
			return mappingToMap(v, c)
		}
	}
	return FromDynamic(v, TypeAny)
}

// ListToSequence converts any Go slice or array to sequence
func ListToSequence(list interface{}) (Value, error) {
	rv := reflect.ValueOf(list)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return Nil, EUnsupported(kindOfHost(list), "sequence", "")
	}
	return listToSequence(rv)
}

func listToSequence(rv reflect.Value) (Value, error) {
	items := make([]Value, rv.Len())
	for i := range items {
		item, err := ToDynamic(rv.Index(i).Interface())
		if err != nil {
			return Nil, err
		}
		items[i] = item
	}
	return Value{kind: KindSequence, items: items}, nil
}

// MapToMapping lifts any Go map into mapping. Keys and values are converted
// with ToDynamic, nested Go maps are lifted too. Any failure aborts.
func MapToMapping(m interface{}) (Value, error) {
	rv := reflect.ValueOf(m)
	if rv.Kind() != reflect.Map {
		return Nil, EUnsupported(kindOfHost(m), "mapping", "")
	}
	return mapToMapping(rv)
}

func mapToMapping(rv reflect.Value) (Value, error) {
	out := emptyMapping()

	iter := rv.MapRange()
	for iter.Next() {
		k, err := Lift(iter.Key().Interface())
		if err != nil {
			return Nil, err
		}
		v, err := Lift(iter.Value().Interface())
		if err != nil {
			return Nil, err
		}
		if err := out.put(k, v); err != nil {
			return Nil, err
		}
	}
	return MappingValue(out), nil
}

// Lift converts x like ToDynamic, but also lifts Go maps into mappings,
// including maps nested in []interface{}
func Lift(x interface{}) (Value, error) {
	if x == nil {
		return Nil, nil
	}

	rv := reflect.ValueOf(x)
	switch {
	case rv.Kind() == reflect.Map:
		return mapToMapping(rv)
	case rv.Kind() == reflect.Slice && rv.Type().Elem() == anyType:
		items := make([]Value, rv.Len())
		for i := range items {
			item, err := Lift(rv.Index(i).Interface())
			if err != nil {
				return Nil, err
			}
			items[i] = item
		}
		return Value{kind: KindSequence, items: items}, nil
	}
	return ToDynamic(x)
}

func kindOfHost(x interface{}) string {
	if x == nil {
		return "nil"
	}
	return reflect.TypeOf(x).String()
}
