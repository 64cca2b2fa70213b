package ostar

import "fmt"

// Args holds arguments of a script call to a host function
type Args struct {
	Positional []Value
	Keywords   []Entry
}

// ArgsOf builds Args from positional values
func ArgsOf(items ...Value) Args {
	return Args{Positional: items}
}

// Len returns number of positional arguments
func (a Args) Len() int { return len(a.Positional) }

// Item returns positional argument at index, or Nil if index is invalid.
// Negative index counts from the end.
func (a Args) Item(index int) Value {
	l := len(a.Positional)

	if index < 0 {
		index += l
	}
	if index < 0 || index >= l {
		return Nil
	}

	return a.Positional[index]
}

// Kwarg returns keyword argument by name
func (a Args) Kwarg(name string) (Value, bool) {
	for _, kw := range a.Keywords {
		if s, _ := kw.Key.Text(); s == name {
			return kw.Value, true
		}
	}
	return Nil, false
}

func (a Args) require(index int) (Value, error) {
	if index >= len(a.Positional) || index < -len(a.Positional) {
		return Nil, fmt.Errorf("missing argument %d, got %d arguments", index, len(a.Positional))
	}
	return a.Item(index), nil
}

// Text returns string argument at index
func (a Args) Text(index int) (string, error) {
	v, err := a.require(index)
	if err != nil {
		return "", err
	}
	s, ok := v.Text()
	if !ok {
		return "", ETypeMismatch(v, TypeString, "argument %d", index)
	}
	return s, nil
}

// Int returns integer argument at index
func (a Args) Int(index int) (int64, error) {
	v, err := a.require(index)
	if err != nil {
		return 0, err
	}
	i, ok := v.Int()
	if !ok {
		return 0, ETypeMismatch(v, TypeInt, "argument %d", index)
	}
	return i, nil
}

// Float returns numeric argument at index as float64. Int arguments are
// converted with Numeric.
func (a Args) Float(index int) (float64, error) {
	v, err := a.require(index)
	if err != nil {
		return 0, err
	}
	f, err := Numeric(v, TypeFloat)
	if err != nil {
		return 0, err
	}
	return f.(float64), nil
}

// Intf returns generic host value of positional arguments
func (a Args) Intf() []interface{} {
	ret := make([]interface{}, len(a.Positional))
	for i, v := range a.Positional {
		ret[i] = generic(v)
	}
	return ret
}
