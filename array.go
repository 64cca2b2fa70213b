package ostar

// Array is host native array with declared element type.
// Binding an Array with items not matching Elem fails with ErrTypeMismatch.
type Array struct {
	Elem  Type
	Items []interface{}
}

// NewArray creates host native array
func NewArray(elem Type, items ...interface{}) Array {
	return Array{Elem: elem, Items: items}
}

// ArrayValue creates native array value from items of type elem
func ArrayValue(elem Type, items ...Value) (Value, error) {
	for i, item := range items {
		if !elem.conforms(item) {
			return Nil, ETypeMismatch(item, elem, "array element %d", i)
		}
	}

	e := elem
	return Value{kind: KindArray, elem: &e, items: append([]Value(nil), items...)}, nil
}

func (a Array) toValue() (Value, error) {
	items := make([]Value, len(a.Items))
	for i, x := range a.Items {
		v, err := ToDynamic(x)
		if err != nil {
			return Nil, err
		}
		items[i] = v
	}
	return ArrayValue(a.Elem, items...)
}

// Slice returns elements in [start, end) with step, keeping the kind
// and element type of v. Bounds must be already clamped by the caller.
func (v Value) Slice(start, end, step int) Value {
	if v.kind != KindSequence && v.kind != KindArray {
		return Nil
	}

	var out []Value
	if step == 1 {
		if start < end {
			out = append(out, v.items[start:end]...)
		}
	} else {
		sign := signum(step)
		for i := start; signum(end-i) == sign; i += step {
			out = append(out, v.items[i])
		}
	}
	return Value{kind: v.kind, elem: v.elem, items: out}
}

func signum(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
