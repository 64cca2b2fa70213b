package ostar

import (
	"fmt"
	"hash/maphash"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"go.starlark.net/syntax"
)

var hashSeed = maphash.MakeSeed()

// fromStar converts Starlark value to Value. Values without own variant,
// like functions or big integers, are returned as opaque handles and
// convert back to the same Starlark value.
func fromStar(x starlark.Value) Value {
	return fromStarSeen(x, make(map[starlark.Value]bool))
}

func fromStarSeen(x starlark.Value, seen map[starlark.Value]bool) Value {
	switch x := x.(type) {
	case nil, starlark.NoneType:
		return Nil
	case starlark.Bool:
		return BoolValue(bool(x))
	case starlark.Int:
		if i, ok := x.Int64(); ok {
			return IntValue(i)
		}
		return OpaqueValue(x)
	case starlark.Float:
		return FloatValue(float64(x))
	case starlark.String:
		return StringValue(string(x))
	case starlark.Tuple:
		items := make([]Value, len(x))
		for i, item := range x {
			items[i] = fromStarSeen(item, seen)
		}
		return Value{kind: KindSequence, items: items}
	case *starlark.List:
		// cyclic list is kept as handle at the point of repetition
		if seen[x] {
			return OpaqueValue(x)
		}
		seen[x] = true
		defer delete(seen, x)

		items := make([]Value, x.Len())
		for i := range items {
			items[i] = fromStarSeen(x.Index(i), seen)
		}
		return Value{kind: KindSequence, items: items}
	case *starlark.Set:
		items := make([]Value, 0, x.Len())
		iter := x.Iterate()
		defer iter.Done()
		var item starlark.Value
		for iter.Next(&item) {
			items = append(items, fromStarSeen(item, seen))
		}
		return Value{kind: KindSequence, items: items}
	case *starlark.Dict:
		if seen[x] {
			return OpaqueValue(x)
		}
		seen[x] = true
		defer delete(seen, x)

		m := emptyMapping()
		for _, kv := range x.Items() {
			if err := m.put(fromStarSeen(kv[0], seen), fromStarSeen(kv[1], seen)); err != nil {
				return OpaqueValue(x)
			}
		}
		return MappingValue(m)
	case *hostArray:
		return x.v
	case *hostOpaque:
		return x.v
	case *hostFunc:
		return OpaqueValue(x.fn)
	}
	return OpaqueValue(x)
}

// toStar converts Value to Starlark value. Sequences become mutable lists,
// mappings dicts; native arrays and host objects are wrapped. Mapping keys
// the engine can't hash are errors.
func toStar(v Value) (starlark.Value, error) {
	switch v.kind {
	case KindBool:
		return starlark.Bool(v.num != 0), nil
	case KindInt:
		return starlark.MakeInt64(v.num), nil
	case KindFloat:
		return starlark.Float(v.flt), nil
	case KindString:
		return starlark.String(v.str), nil
	case KindSequence:
		elems := make([]starlark.Value, len(v.items))
		for i, item := range v.items {
			x, err := toStar(item)
			if err != nil {
				return nil, err
			}
			elems[i] = x
		}
		return starlark.NewList(elems), nil
	case KindArray:
		return &hostArray{v: v}, nil
	case KindMapping:
		return toStarDict(v.m)
	case KindOpaque:
		switch obj := v.obj.(type) {
		case starlark.Value:
			return obj, nil
		case *Function:
			return &hostFunc{fn: obj}, nil
		case *Module:
			members, err := toStringDict(obj.Members)
			if err != nil {
				return nil, fmt.Errorf("module '%s': %w", obj.Name, err)
			}
			return &starlarkstruct.Module{Name: obj.Name, Members: members}, nil
		}
		return &hostOpaque{v: v}, nil
	}
	return starlark.None, nil
}

func toStarDict(m *Mapping) (*starlark.Dict, error) {
	d := starlark.NewDict(m.Len())
	var err error
	m.ForEach(func(k, val Value) bool {
		var sk, sv starlark.Value
		if sk, err = toStarKey(k); err != nil {
			return false
		}
		if sv, err = toStar(val); err != nil {
			return false
		}
		if err = d.SetKey(sk, sv); err != nil {
			err = EUnsupported(k.kind.String(), "dict key", "%v", err)
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func toStarKey(k Value) (starlark.Value, error) {
	if k.kind != KindSequence {
		return toStar(k)
	}
	t := make(starlark.Tuple, len(k.items))
	for i, item := range k.items {
		x, err := toStarKey(item)
		if err != nil {
			return nil, err
		}
		t[i] = x
	}
	return t, nil
}

func hashOf(x interface{}) (uint32, error) {
	if !comparableObject(x) {
		return 0, fmt.Errorf("unhashable type: %T", x)
	}
	h := maphash.Comparable(hashSeed, x)
	return uint32(h ^ h>>32), nil
}

// hostFunc makes *Function callable from scripts
type hostFunc struct {
	fn *Function
}

var _ starlark.Callable = (*hostFunc)(nil)

func (f *hostFunc) String() string        { return f.fn.String() }
func (f *hostFunc) Type() string          { return "builtin_function_or_method" }
func (f *hostFunc) Freeze()               {}
func (f *hostFunc) Truth() starlark.Bool  { return starlark.True }
func (f *hostFunc) Hash() (uint32, error) { return hashOf(f.fn) }
func (f *hostFunc) Name() string          { return f.fn.Name }

func (f *hostFunc) CallInternal(_ *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	a := Args{Positional: make([]Value, len(args))}
	for i, arg := range args {
		a.Positional[i] = fromStar(arg)
	}
	for _, kw := range kwargs {
		a.Keywords = append(a.Keywords, Entry{Key: fromStar(kw[0]), Value: fromStar(kw[1])})
	}

	ret, err := f.fn.Fn(a)
	if err != nil {
		return nil, err
	}
	return toStar(ret)
}

// hostOpaque wraps host object, exposing its capabilities as attributes
type hostOpaque struct {
	v Value
}

var (
	_ starlark.HasAttrs   = (*hostOpaque)(nil)
	_ starlark.Comparable = (*hostOpaque)(nil)
)

func (o *hostOpaque) String() string        { return o.v.Repr() }
func (o *hostOpaque) Type() string          { return "opaque" }
func (o *hostOpaque) Freeze()               {}
func (o *hostOpaque) Truth() starlark.Bool  { return starlark.True }
func (o *hostOpaque) Hash() (uint32, error) { return hashOf(o.v.obj) }

func (o *hostOpaque) Attr(name string) (starlark.Value, error) {
	c, ok := CapabilityOf(o.v, name)
	if !ok {
		return nil, nil
	}
	return &hostFunc{fn: &Function{Name: name, Fn: c.Fn}}, nil
}

func (o *hostOpaque) AttrNames() []string { return Methods(o.v) }

func (o *hostOpaque) CompareSameType(op syntax.Token, y starlark.Value, _ int) (bool, error) {
	eq := o.v.Equal(y.(*hostOpaque).v)
	switch op {
	case syntax.EQL:
		return eq, nil
	case syntax.NEQ:
		return !eq, nil
	}
	return false, fmt.Errorf("%s %s %s not implemented", o.Type(), op, y.Type())
}

// hostArray is immutable native array, indexable and sliceable by scripts
type hostArray struct {
	v Value
}

var (
	_ starlark.Sliceable  = (*hostArray)(nil)
	_ starlark.Iterable   = (*hostArray)(nil)
	_ starlark.HasAttrs   = (*hostArray)(nil)
	_ starlark.Comparable = (*hostArray)(nil)
)

func (a *hostArray) String() string       { return a.v.Repr() }
func (a *hostArray) Type() string         { return "array" }
func (a *hostArray) Freeze()              {}
func (a *hostArray) Truth() starlark.Bool { return starlark.Bool(a.Len() > 0) }
func (a *hostArray) Len() int             { return len(a.v.items) }

func (a *hostArray) Hash() (uint32, error) {
	t := make(starlark.Tuple, len(a.v.items))
	for i, item := range a.v.items {
		x, err := toStarKey(item)
		if err != nil {
			return 0, err
		}
		t[i] = x
	}
	return t.Hash()
}

// Index returns element i. Element that has no Starlark form stays host handle.
func (a *hostArray) Index(i int) starlark.Value {
	x, err := toStar(a.v.items[i])
	if err != nil {
		return &hostOpaque{v: a.v.items[i]}
	}
	return x
}

func (a *hostArray) Slice(start, end, step int) starlark.Value {
	return &hostArray{v: a.v.Slice(start, end, step)}
}

func (a *hostArray) Iterate() starlark.Iterator { return &arrayIterator{a: a} }

func (a *hostArray) Attr(name string) (starlark.Value, error) {
	if name == "elem" {
		return starlark.String(a.v.elem.String()), nil
	}
	return nil, nil
}

func (a *hostArray) AttrNames() []string { return []string{"elem"} }

func (a *hostArray) CompareSameType(op syntax.Token, y starlark.Value, _ int) (bool, error) {
	eq := a.v.Equal(y.(*hostArray).v)
	switch op {
	case syntax.EQL:
		return eq, nil
	case syntax.NEQ:
		return !eq, nil
	}
	return false, fmt.Errorf("%s %s %s not implemented", a.Type(), op, y.Type())
}

type arrayIterator struct {
	a *hostArray
	i int
}

func (it *arrayIterator) Next(p *starlark.Value) bool {
	if it.i >= it.a.Len() {
		return false
	}
	*p = it.a.Index(it.i)
	it.i++
	return true
}

func (it *arrayIterator) Done() {}
