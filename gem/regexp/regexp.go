// Package regexp implements regexp gem with Go regexp package.
//
// compile(source, options) returns regexp object, match results are match
// objects with group, groups, begin, end, pre_match, post_match and
// named_captures capabilities.
package regexp

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/oruby/ostar"
)

// regex options
const (
	IgnoreCase = 1
	Extended   = 2
	Multiline  = 4
)

func init() {
	ostar.Gem("regexp", func(*ostar.Session) (map[string]ostar.Value, error) {
		return map[string]ostar.Value{
			"IGNORECASE": ostar.IntValue(IgnoreCase),
			"EXTENDED":   ostar.IntValue(Extended),
			"MULTILINE":  ostar.IntValue(Multiline),
			"compile":    ostar.FuncValue("compile", regexCompile),
			"match":      ostar.FuncValue("match", regexMatchString),
			"quote":      ostar.FuncValue("quote", regexQuote),
			"escape":     ostar.FuncValue("escape", regexQuote),
			"union":      ostar.FuncValue("union", regexUnion),
		}, nil
	})
}

var extendedSpace = regexp.MustCompile("(?m)(^\\s+|\\s+$| *#.*(\\z|$)|\\n)")

func cleanExtended(s string, options int64) string {
	if options&Extended == 0 {
		return s
	}

	// Remove leading whitespace
	// Remove the first unescaped `#`, and everything that follows
	// any preceding unescaped spaces,
	// and then remove trailing whitespace on each line, including linebreaks
	return extendedSpace.ReplaceAllString(s, "")
}

func sourceWithOptions(reg string, options int64) string {
	y := ""
	n := "-"

	if options&IgnoreCase > 0 {
		y += "i"
	} else {
		n += "i"
	}
	if options&Multiline > 0 {
		y += "ms"
	} else {
		n += "ms"
	}
	if n == "-" {
		n = ""
	}

	return fmt.Sprintf("(?%v%v)%v", y, n, cleanExtended(reg, options))
}

// Regexp is compiled expression exposed to scripts
type Regexp struct {
	re      *regexp.Regexp
	source  string
	options int64
}

// Compile compiles source with IgnoreCase, Extended and Multiline options
func Compile(source string, options int64) (*Regexp, error) {
	re, err := regexp.Compile(sourceWithOptions(source, options))
	if err != nil {
		return nil, err
	}
	return &Regexp{re: re, source: source, options: options}, nil
}

// Go returns compiled Go expression
func (r *Regexp) Go() *regexp.Regexp { return r.re }

// String returns expression as /source/flags
func (r *Regexp) String() string {
	y := ""
	if r.options&Multiline > 0 {
		y += "m"
	}
	if r.options&IgnoreCase > 0 {
		y += "i"
	}
	if r.options&Extended > 0 {
		y += "x"
	}
	return fmt.Sprintf("/%v/%v", r.source, y)
}

// Capabilities implements ostar.Object interface
func (r *Regexp) Capabilities() []ostar.Capability {
	return []ostar.Capability{
		ostar.Method("Match", r.match),
		ostar.Method("Test", r.test),
		ostar.Method("FindAll", r.findAll),
		ostar.Method("Replace", r.replace),
		ostar.Method("Split", r.split),
		ostar.Method("Source", func(ostar.Args) (ostar.Value, error) { return ostar.StringValue(r.source), nil }),
		ostar.Method("Casefold", func(ostar.Args) (ostar.Value, error) { return ostar.BoolValue(r.options&IgnoreCase > 0), nil }),
		ostar.Method("Names", r.names),
		ostar.Method("ToS", r.toS),
	}
}

func regexCompile(args ostar.Args) (ostar.Value, error) {
	source, err := args.Text(0)
	if err != nil {
		return ostar.Nil, err
	}

	var options int64
	switch v := args.Item(1); v.Kind() {
	case ostar.KindNull:
	case ostar.KindBool:
		if v.Truth() {
			options = IgnoreCase
		}
	default:
		if options, err = args.Int(1); err != nil {
			return ostar.Nil, err
		}
	}

	r, err := Compile(source, options)
	if err != nil {
		return ostar.Nil, err
	}
	return ostar.OpaqueValue(r), nil
}

func regexMatchString(args ostar.Args) (ostar.Value, error) {
	pattern, err := args.Text(0)
	if err != nil {
		return ostar.Nil, err
	}
	s, err := args.Text(1)
	if err != nil {
		return ostar.Nil, err
	}

	matched, err := regexp.MatchString(pattern, s)
	if err != nil {
		return ostar.Nil, err
	}
	return ostar.BoolValue(matched), nil
}

func regexQuote(args ostar.Args) (ostar.Value, error) {
	s, err := args.Text(0)
	if err != nil {
		return ostar.Nil, err
	}
	return ostar.StringValue(regexp.QuoteMeta(s)), nil
}

// regexUnion joins quoted strings and regexp sources with "|"
func regexUnion(args ostar.Args) (ostar.Value, error) {
	ret := make([]string, 0, args.Len())
	for i := 0; i < args.Len(); i++ {
		v := args.Item(i)
		if s, ok := v.Text(); ok {
			ret = append(ret, regexp.QuoteMeta(s))
			continue
		}
		if x, ok := v.Opaque(); ok {
			if r, ok := x.(*Regexp); ok {
				ret = append(ret, "("+r.re.String()+")")
				continue
			}
		}
		return ostar.Nil, ostar.EUnsupported(v.Kind().String(), "regexp", "regexp or string expected")
	}

	src := strings.Join(ret, "|")
	if len(ret) == 0 {
		// matches nothing
		src = `[^\x00-\x{10FFFF}]`
	}

	re, err := regexp.Compile(src)
	if err != nil {
		return ostar.Nil, err
	}
	return ostar.OpaqueValue(&Regexp{re: re, source: src}), nil
}

// subject returns text and start position arguments
func subject(args ostar.Args) (string, int, error) {
	s, err := args.Text(0)
	if err != nil {
		return "", 0, err
	}

	pos := 0
	if args.Len() > 1 {
		p, err := args.Int(1)
		if err != nil {
			return "", 0, err
		}
		pos = int(p)
	}
	if pos < 0 {
		pos += len(s)
	}
	if pos < 0 || pos > len(s) {
		return "", 0, fmt.Errorf("position %d out of range", pos)
	}
	return s, pos, nil
}

// match returns match object or None
func (r *Regexp) match(args ostar.Args) (ostar.Value, error) {
	s, pos, err := subject(args)
	if err != nil {
		return ostar.Nil, err
	}

	m := newMatch(r.re, s, pos)
	if m == nil {
		return ostar.Nil, nil
	}
	return ostar.OpaqueValue(m), nil
}

func (r *Regexp) test(args ostar.Args) (ostar.Value, error) {
	s, pos, err := subject(args)
	if err != nil {
		return ostar.Nil, err
	}
	return ostar.BoolValue(r.re.MatchString(s[pos:])), nil
}

func count(args ostar.Args, index int) (int, error) {
	if args.Len() <= index {
		return -1, nil
	}
	n, err := args.Int(index)
	return int(n), err
}

func (r *Regexp) findAll(args ostar.Args) (ostar.Value, error) {
	s, err := args.Text(0)
	if err != nil {
		return ostar.Nil, err
	}
	n, err := count(args, 1)
	if err != nil {
		return ostar.Nil, err
	}
	return ostar.ListToSequence(r.re.FindAllString(s, n))
}

// replace replaces matches with template, where $1 or ${name} expand to groups
func (r *Regexp) replace(args ostar.Args) (ostar.Value, error) {
	s, err := args.Text(0)
	if err != nil {
		return ostar.Nil, err
	}
	repl, err := args.Text(1)
	if err != nil {
		return ostar.Nil, err
	}
	return ostar.StringValue(r.re.ReplaceAllString(s, repl)), nil
}

func (r *Regexp) split(args ostar.Args) (ostar.Value, error) {
	s, err := args.Text(0)
	if err != nil {
		return ostar.Nil, err
	}
	n, err := count(args, 1)
	if err != nil {
		return ostar.Nil, err
	}
	return ostar.ListToSequence(r.re.Split(s, n))
}

func (r *Regexp) names(ostar.Args) (ostar.Value, error) {
	names := r.re.SubexpNames()
	ret := make([]string, 0, len(names))
	for idx, name := range names {
		if idx == 0 || name == "" {
			continue
		}
		ret = append(ret, name)
	}
	return ostar.ListToSequence(ret)
}

func (r *Regexp) toS(ostar.Args) (ostar.Value, error) {
	y := ""
	n := "-"

	if r.options&Multiline > 0 {
		y += "m"
	} else {
		n += "m"
	}
	if r.options&IgnoreCase > 0 {
		y += "i"
	} else {
		n += "i"
	}
	if r.options&Extended > 0 {
		y += "x"
	} else {
		n += "x"
	}
	if n == "-" {
		n = ""
	}

	return ostar.StringValue(fmt.Sprintf("(?%v%v:%v)", y, n, r.source)), nil
}
