package regexp

import (
	"testing"

	"github.com/oruby/ostar"
	"github.com/oruby/ostar/gem/assert"
)

func check(t *testing.T, desc, code string) {
	t.Helper()

	s, err := ostar.New(ostar.WithModules("regexp"))
	assert.NilError(t, err)
	defer s.Close()

	assert.True(t, s, desc, code)
}

func TestRegexpConsts(t *testing.T) {
	check(t, "regexp constants", `regexp.IGNORECASE == 1 and regexp.EXTENDED == 2 and regexp.MULTILINE == 4`)
}

func TestRegexp_Compile(t *testing.T) {
	check(t, "compile", `regexp.compile(".*") != None`)
	check(t, "compile", `regexp.compile(".*", regexp.MULTILINE).source() == ".*"`)
	check(t, "str", `str(regexp.compile("a+", regexp.IGNORECASE)) == "/a+/i"`)
	check(t, "to_s", `regexp.compile("a+", regexp.MULTILINE).to_s() == "(?m-ix:a+)"`)
}

func TestRegexp_CompileError(t *testing.T) {
	s, err := ostar.New(ostar.WithModules("regexp"))
	assert.NilError(t, err)
	defer s.Close()

	_, err = s.Eval(`regexp.compile("(")`)
	assert.Error(t, err, "expected compile error")
	assert.ErrorIs(t, err, ostar.ErrScript)
}

func TestRegexp(t *testing.T) {
	check(t, "test", `regexp.compile("(https?://[^/]+)[-a-zA-Z0-9./]+").test("http://example.com")`)
	check(t, "test", `not regexp.compile("(https?://[^/]+)[-a-zA-Z0-9./]+").test("htt://example.com")`)
	check(t, "casefold", `regexp.compile("a", regexp.IGNORECASE | regexp.EXTENDED).casefold()`)
	check(t, "casefold", `regexp.compile("a", True).casefold()`)
	check(t, "casefold", `not regexp.compile("a", regexp.MULTILINE).casefold()`)
	check(t, "ignore case", `regexp.compile("abc", regexp.IGNORECASE).test("xABCx")`)
	check(t, "extended", `regexp.compile("ab  # comment", regexp.EXTENDED).test("ab")`)
}

func TestRegexp_Match(t *testing.T) {
	s, err := ostar.New(ostar.WithModules("regexp"))
	assert.NilError(t, err)
	defer s.Close()

	err = s.Exec(`
re = regexp.compile("(?P<scheme>https?)://(?P<host>[^/]+)(/x)?")
m = re.match("see https://example.com/path")
none = re.match("nothing here")
`)
	assert.NilError(t, err)

	assert.True(t, s, "no match", `none == None`)
	assert.True(t, s, "group", `m.group() == "https://example.com"`)
	assert.True(t, s, "group", `m.group(2) == "example.com"`)
	assert.True(t, s, "group name", `m.group("scheme") == "https"`)
	assert.True(t, s, "groups", `m.groups() == ["https", "example.com", None]`)
	assert.True(t, s, "begin", `m.begin() == 4 and m.end(1) == 9`)
	assert.True(t, s, "begin missing", `m.begin(3) == None`)
	assert.True(t, s, "pre", `m.pre_match() == "see " and m.post_match() == "/path"`)
	assert.True(t, s, "size", `m.size() == 4`)
	assert.True(t, s, "names", `re.names() == ["scheme", "host"]`)
	assert.True(t, s, "position", `re.match("http://a.b http://c.d", 5).group("host") == "c.d"`)

	caps, err := s.Eval(`m.named_captures()`)
	assert.NilError(t, err)
	got, err := ostar.MappingToMap(caps)
	assert.NilError(t, err)
	assert.Equal(t, got, ostar.Map{"scheme": "https", "host": "example.com"})

	_, err = s.Eval(`m.group("port")`)
	assert.Error(t, err, "expected undefined group error")
}

func TestRegexp_FindReplaceSplit(t *testing.T) {
	s, err := ostar.New(ostar.WithModules("regexp"))
	assert.NilError(t, err)
	defer s.Close()

	err = s.Exec(`
digits = regexp.compile("[0-9]+")
all = digits.find_all("a1 b22 c333")
two = digits.find_all("a1 b22 c333", 2)
replaced = digits.replace("a1 b22", "<$0>")
parts = regexp.compile(",\\s*").split("a, b,c")
`)
	assert.NilError(t, err)

	list, err := s.ReadList("all")
	assert.EqualE(t, list, err, []interface{}{"1", "22", "333"})

	list, err = s.ReadList("two")
	assert.EqualE(t, list, err, []interface{}{"1", "22"})

	replaced, err := ostar.ReadAs[string](s, "replaced")
	assert.EqualE(t, replaced, err, "a<1> b<22>")

	parts, err := ostar.ReadAs[[]string](s, "parts")
	assert.EqualE(t, parts, err, []string{"a", "b", "c"})
}

func TestRegexp_ModuleFunctions(t *testing.T) {
	check(t, "match", `regexp.match("^a.c$", "abc")`)
	check(t, "match", `not regexp.match("^a.c$", "abcd")`)
	check(t, "quote", `regexp.quote("a.b*c") == "a\\.b\\*c"`)
	check(t, "escape", `regexp.escape("[x]") == "\\[x\\]"`)
	check(t, "union", `regexp.union("a.b", regexp.compile("c+")).test("ccc")`)
	check(t, "union", `not regexp.union("a.b").test("axb")`)
	check(t, "union empty", `not regexp.union().test("")`)
}

func TestRegexp_UnionArgument(t *testing.T) {
	s, err := ostar.New(ostar.WithModules("regexp"))
	assert.NilError(t, err)
	defer s.Close()

	_, err = s.Eval(`regexp.union(1)`)
	assert.ErrorIs(t, err, ostar.ErrUnsupportedConversion)
}
