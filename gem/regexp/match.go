package regexp

import (
	"fmt"
	"regexp"

	"github.com/oruby/ostar"
)

// Match is result of successful regexp match
type Match struct {
	re    *regexp.Regexp
	s     string
	index []int
}

func newMatch(re *regexp.Regexp, s string, pos int) *Match {
	index := re.FindStringSubmatchIndex(s[pos:])
	if index == nil {
		return nil
	}
	for i := range index {
		if index[i] >= 0 {
			index[i] += pos
		}
	}
	return &Match{re: re, s: s, index: index}
}

// Size returns number of groups, including whole match
func (m *Match) Size() int { return len(m.index) / 2 }

// Group returns text of group i, and false if group did not participate
func (m *Match) Group(i int) (string, bool) {
	if i < 0 || i >= m.Size() || m.index[2*i] < 0 {
		return "", false
	}
	return m.s[m.index[2*i]:m.index[2*i+1]], true
}

// String returns matched text
func (m *Match) String() string {
	s, _ := m.Group(0)
	return s
}

// Capabilities implements ostar.Object interface
func (m *Match) Capabilities() []ostar.Capability {
	return []ostar.Capability{
		ostar.Method("Group", m.group),
		ostar.Method("Groups", m.groups),
		ostar.Method("Begin", m.offset(0)),
		ostar.Method("End", m.offset(1)),
		ostar.Method("PreMatch", func(ostar.Args) (ostar.Value, error) {
			return ostar.StringValue(m.s[:m.index[0]]), nil
		}),
		ostar.Method("PostMatch", func(ostar.Args) (ostar.Value, error) {
			return ostar.StringValue(m.s[m.index[1]:]), nil
		}),
		ostar.Method("NamedCaptures", m.namedCaptures),
		ostar.Method("Size", func(ostar.Args) (ostar.Value, error) {
			return ostar.IntValue(int64(m.Size())), nil
		}),
	}
}

// groupIndex resolves group argument, number or name, default 0
func (m *Match) groupIndex(args ostar.Args) (int, error) {
	v := args.Item(0)
	switch v.Kind() {
	case ostar.KindNull:
		return 0, nil
	case ostar.KindString:
		name, _ := v.Text()
		if i := m.re.SubexpIndex(name); i >= 0 {
			return i, nil
		}
		return 0, fmt.Errorf("undefined group name '%s'", name)
	}

	i, err := args.Int(0)
	if err != nil {
		return 0, err
	}
	if i < 0 || int(i) >= m.Size() {
		return 0, fmt.Errorf("index %d out of matches", i)
	}
	return int(i), nil
}

func (m *Match) groupValue(i int) ostar.Value {
	if s, ok := m.Group(i); ok {
		return ostar.StringValue(s)
	}
	return ostar.Nil
}

func (m *Match) group(args ostar.Args) (ostar.Value, error) {
	i, err := m.groupIndex(args)
	if err != nil {
		return ostar.Nil, err
	}
	return m.groupValue(i), nil
}

// groups returns captures without whole match
func (m *Match) groups(ostar.Args) (ostar.Value, error) {
	items := make([]ostar.Value, 0, m.Size()-1)
	for i := 1; i < m.Size(); i++ {
		items = append(items, m.groupValue(i))
	}
	return ostar.SequenceValue(items...), nil
}

func (m *Match) offset(end int) ostar.Func {
	return func(args ostar.Args) (ostar.Value, error) {
		i, err := m.groupIndex(args)
		if err != nil {
			return ostar.Nil, err
		}
		if m.index[2*i] < 0 {
			return ostar.Nil, nil
		}
		return ostar.IntValue(int64(m.index[2*i+end])), nil
	}
}

func (m *Match) namedCaptures(ostar.Args) (ostar.Value, error) {
	var entries []ostar.Entry
	for i, name := range m.re.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		entries = append(entries, ostar.Entry{Key: ostar.StringValue(name), Value: m.groupValue(i)})
	}

	h, err := ostar.NewMapping(entries...)
	if err != nil {
		return ostar.Nil, err
	}
	return ostar.MappingValue(h), nil
}
