package ostar

import (
	"errors"
	"fmt"
	"reflect"
	"unicode"
)

// SnakeCase converts a string into snake_case, as used for capability names
// ideas based on stoewer/go-strcase, but using unicode package
func SnakeCase(s string) string {
	buffer := make([]rune, 0, len(s)+5)

	var prev rune
	var curr rune
	for _, next := range s {
		if unicode.IsUpper(curr) {
			if unicode.IsLower(prev) || (prev != 0 && unicode.IsUpper(prev) && unicode.IsLower(next)) {
				buffer = append(buffer, '_')
			}
			buffer = append(buffer, unicode.ToLower(curr))
		} else if curr != 0 {
			buffer = append(buffer, curr)
		}
		prev = curr
		curr = next
	}

	if len(s) > 0 {
		if unicode.IsUpper(curr) && unicode.IsLower(prev) && prev != 0 {
			buffer = append(buffer, '_')
		}
		buffer = append(buffer, unicode.ToLower(curr))
	}

	return string(buffer)
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// GoFunc wraps Go function fn as Func. Arguments are converted with
// FromDynamic to parameter types, results with ToDynamic. Trailing error
// result is returned as error, several other results as sequence.
func GoFunc(fn interface{}) (Func, error) {
	f := reflect.ValueOf(fn)
	if f.Kind() != reflect.Func {
		return nil, errors.New("GoFunc expects Go function")
	}

	ft := f.Type()
	in := make([]Type, ft.NumIn())
	for i := range in {
		pt := ft.In(i)
		if ft.IsVariadic() && i == ft.NumIn()-1 {
			pt = pt.Elem()
		}
		t, err := TypeFor(pt)
		if err != nil {
			return nil, err
		}
		in[i] = t
	}

	return func(args Args) (Value, error) {
		params, err := callParams(ft, in, args)
		if err != nil {
			return Nil, err
		}
		return callResults(f.Call(params))
	}, nil
}

func callParams(ft reflect.Type, in []Type, args Args) ([]reflect.Value, error) {
	argc := args.Len()
	fixed := len(in)
	if ft.IsVariadic() {
		fixed--
	}
	if argc < fixed || (!ft.IsVariadic() && argc > fixed) {
		return nil, fmt.Errorf("expected %v parameters, supplied %v", fixed, argc)
	}

	params := make([]reflect.Value, argc)
	for i := 0; i < argc; i++ {
		idx, pt := i, ft.In(min(i, len(in)-1))
		if i >= fixed {
			idx, pt = len(in)-1, pt.Elem()
		}

		x, err := FromDynamic(args.Item(i), in[idx])
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		if x == nil {
			params[i] = reflect.Zero(pt)
			continue
		}
		params[i] = reflect.ValueOf(x)
	}
	return params, nil
}

func callResults(result []reflect.Value) (Value, error) {
	if n := len(result); n > 0 && result[n-1].Type() == errorType {
		if err := result[n-1].Interface(); err != nil {
			return Nil, err.(error)
		}
		result = result[:n-1]
	}

	switch len(result) {
	case 0:
		return Nil, nil
	case 1:
		return ToDynamic(result[0].Interface())
	}

	items := make([]Value, len(result))
	for i, r := range result {
		v, err := ToDynamic(r.Interface())
		if err != nil {
			return Nil, err
		}
		items[i] = v
	}
	return SequenceValue(items...), nil
}
