package ostar

import (
	"fmt"
	"strconv"
	"strings"
)

func init() {
	// Host side print helpers, writing to session output
	Gem("console", func(s *Session) (map[string]Value, error) {
		return map[string]Value{
			"puts":   FuncValue("puts", s.printPuts),
			"p":      FuncValue("p", s.printP),
			"printf": FuncValue("printf", s.printPrintf),
		}, nil
	})
}

func (s *Session) printPuts(args Args) (Value, error) {
	for _, arg := range args.Positional {
		str := arg.String()
		if strings.HasSuffix(str, "\n") {
			fmt.Fprint(s.out, str)
			continue
		}
		fmt.Fprintln(s.out, str)
	}
	if args.Len() == 0 {
		fmt.Fprintln(s.out)
	}
	return Nil, nil
}

func (s *Session) printP(args Args) (Value, error) {
	for _, arg := range args.Positional {
		fmt.Fprintln(s.out, arg.Repr())
	}

	switch args.Len() {
	case 0:
		return Nil, nil
	case 1:
		return args.Item(0), nil
	default:
		return SequenceValue(args.Positional...), nil
	}
}

func (s *Session) printPrintf(args Args) (Value, error) {
	format, err := args.Text(0)
	if err != nil {
		return Nil, err
	}

	params := make([]interface{}, 0, args.Len())
	for _, arg := range args.Positional[1:] {
		params = append(params, generic(arg))
	}
	fmt.Fprintf(s.out, format, params...)
	return Nil, nil
}

// String returns text of string values and script representation of others
func (v Value) String() string {
	if v.kind == KindString {
		return v.str
	}
	return v.Repr()
}

// Repr returns value as it is written in scripts
func (v Value) Repr() string {
	var sb strings.Builder
	v.writeRepr(&sb)
	return sb.String()
}

func (v Value) writeRepr(sb *strings.Builder) {
	switch v.kind {
	case KindNull:
		sb.WriteString("None")
	case KindBool:
		if v.num != 0 {
			sb.WriteString("True")
		} else {
			sb.WriteString("False")
		}
	case KindInt:
		sb.WriteString(strconv.FormatInt(v.num, 10))
	case KindFloat:
		sb.WriteString(formatFloat(v.flt))
	case KindString:
		sb.WriteString(strconv.Quote(v.str))
	case KindSequence:
		writeItems(sb, v.items)
	case KindArray:
		sb.WriteString("array(")
		sb.WriteString(v.elem.String())
		sb.WriteString(", ")
		writeItems(sb, v.items)
		sb.WriteByte(')')
	case KindMapping:
		sb.WriteByte('{')
		first := true
		v.m.ForEach(func(k, val Value) bool {
			if !first {
				sb.WriteString(", ")
			}
			first = false
			k.writeRepr(sb)
			sb.WriteString(": ")
			val.writeRepr(sb)
			return true
		})
		sb.WriteByte('}')
	case KindOpaque:
		if s, ok := v.obj.(fmt.Stringer); ok {
			sb.WriteString(s.String())
			return
		}
		fmt.Fprintf(sb, "<%T>", v.obj)
	}
}

func writeItems(sb *strings.Builder, items []Value) {
	sb.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		item.writeRepr(sb)
	}
	sb.WriteByte(']')
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if strings.ContainsAny(s, ".eIN") {
		return s
	}
	return s + ".0"
}
