package ostar

import (
	"math"
	"strconv"
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Entry is single key/value pair of Mapping
type Entry struct {
	Key   Value
	Value Value
}

// Mapping is insertion ordered collection of key/value pairs.
// Keys are compared by value, with script rules: integral Float equals
// the same Int, Bool is distinct from Int.
type Mapping struct {
	m *linkedhashmap.Map
}

type entry struct {
	key Value
	val Value
}

// mapKey is comparable identity of a hashable Value
type mapKey struct {
	tag  byte
	text string
	x    interface{}
}

func emptyMapping() *Mapping {
	return &Mapping{m: linkedhashmap.New()}
}

// NewMapping builds mapping from entries in order. Repeated keys keep their
// first position and the last value.
func NewMapping(entries ...Entry) (*Mapping, error) {
	m := emptyMapping()
	for _, e := range entries {
		if err := m.put(e.Key, e.Value); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Mapping) put(k, v Value) error {
	key, err := keyOf(k)
	if err != nil {
		return err
	}

	if old, found := m.m.Get(key); found {
		k = old.(entry).key
	}
	m.m.Put(key, entry{key: k, val: v})
	return nil
}

// Len returns number of entries
func (m *Mapping) Len() int {
	if m == nil || m.m == nil {
		return 0
	}
	return m.m.Size()
}

// Get returns value stored under key k
func (m *Mapping) Get(k Value) (Value, bool) {
	if m.Len() == 0 {
		return Nil, false
	}

	key, err := keyOf(k)
	if err != nil {
		return Nil, false
	}

	e, found := m.m.Get(key)
	if !found {
		return Nil, false
	}
	return e.(entry).val, true
}

// Has checks if key k is present
func (m *Mapping) Has(k Value) bool {
	_, ok := m.Get(k)
	return ok
}

// Keys returns keys in insertion order
func (m *Mapping) Keys() []Value {
	keys := make([]Value, 0, m.Len())
	m.ForEach(func(k, _ Value) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// Values returns values in insertion order
func (m *Mapping) Values() []Value {
	values := make([]Value, 0, m.Len())
	m.ForEach(func(_, v Value) bool {
		values = append(values, v)
		return true
	})
	return values
}

// Entries returns snapshot of entries in insertion order
func (m *Mapping) Entries() []Entry {
	entries := make([]Entry, 0, m.Len())
	m.ForEach(func(k, v Value) bool {
		entries = append(entries, Entry{Key: k, Value: v})
		return true
	})
	return entries
}

// ForEach calls fn for every entry in insertion order until fn returns false
func (m *Mapping) ForEach(fn func(k, v Value) bool) {
	if m.Len() == 0 {
		return
	}

	it := m.m.Iterator()
	for it.Next() {
		e := it.Value().(entry)
		if !fn(e.key, e.val) {
			return
		}
	}
}

// Equal reports if both mappings hold equal key/value pairs, in any order
func (m *Mapping) Equal(o *Mapping) bool {
	if m.Len() != o.Len() {
		return false
	}

	equal := true
	m.ForEach(func(k, v Value) bool {
		ov, found := o.Get(k)
		equal = found && v.Equal(ov)
		return equal
	})
	return equal
}

// Hashable checks if v can be used as mapping key
func Hashable(v Value) bool {
	_, err := keyOf(v)
	return err == nil
}

func keyOf(v Value) (mapKey, error) {
	switch v.kind {
	case KindNull:
		return mapKey{tag: 'z'}, nil
	case KindBool:
		return mapKey{tag: 'b', text: strconv.FormatInt(v.num, 10)}, nil
	case KindInt:
		return mapKey{tag: 'n', text: strconv.FormatInt(v.num, 10)}, nil
	case KindFloat:
		if i, ok := integral(v.flt); ok {
			return mapKey{tag: 'n', text: strconv.FormatInt(i, 10)}, nil
		}
		return mapKey{tag: 'f', text: strconv.FormatFloat(v.flt, 'g', -1, 64)}, nil
	case KindString:
		return mapKey{tag: 's', text: v.str}, nil
	case KindSequence, KindArray:
		var sb strings.Builder
		for _, item := range v.items {
			if item.kind == KindOpaque || item.kind == KindMapping {
				return mapKey{}, EUnsupported(item.kind.String(), "key", "unhashable %s inside %s", item.kind, v.kind)
			}
			k, err := keyOf(item)
			if err != nil {
				return mapKey{}, err
			}
			sb.WriteByte(k.tag)
			sb.WriteString(strconv.Itoa(len(k.text)))
			sb.WriteByte(':')
			sb.WriteString(k.text)
		}
		tag := byte('t')
		if v.kind == KindArray {
			tag = 'a'
		}
		return mapKey{tag: tag, text: sb.String()}, nil
	case KindOpaque:
		if !comparableObject(v.obj) {
			return mapKey{}, EUnsupported("opaque", "key", "unhashable %T", v.obj)
		}
		return mapKey{tag: 'o', x: v.obj}, nil
	}
	return mapKey{}, EUnsupported(v.kind.String(), "key", "unhashable type: %s", v.kind)
}

// integral returns f as int64 when f holds an exact integer in int64 range
func integral(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}
