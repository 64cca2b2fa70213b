package ostar

import (
	"strings"
	"testing"
)

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest(strings.NewReader(`
sessions:
  - name: a
    modules: [math, json]
    search_path: [scripts]
    preload: [init.star]
    max_steps: 10
    bindings:
      limit: 3
`))
	ExpectNilError(t, err)
	ExpectEql(t, len(m.Sessions), 1)

	c := m.Sessions[0]
	ExpectEql(t, c.Name, "a")
	ExpectEql(t, c.Modules, []string{"math", "json"})
	ExpectEql(t, c.SearchPath, []string{"scripts"})
	ExpectEql(t, c.Preload, []string{"init.star"})
	ExpectEql(t, c.MaxSteps, uint64(10))
	ExpectEql(t, c.Bindings, map[string]interface{}{"limit": 3})
	ExpectEql(t, len(c.Options()), 6)
}

func TestParseManifestErrors(t *testing.T) {
	_, err := ParseManifest(strings.NewReader("sessions:\n  - name: a\n    colour: red\n"))
	ExpectErr(t, err, "unknown field should fail")

	_, err = ParseManifest(strings.NewReader("sessions:\n  - modules: [math]\n"))
	ExpectErr(t, err, "session without name should fail")

	_, err = ParseManifest(strings.NewReader("sessions:\n  - name: a\n  - name: a\n"))
	ExpectErrIs(t, err, ErrSessionExists)
}

func TestLoadManifestMissing(t *testing.T) {
	_, err := LoadManifest("testdata/missing.yaml")
	ExpectErrIs(t, err, ErrIO)
}

func TestConfigDefaults(t *testing.T) {
	c := newConfig(nil)
	ExpectEql(t, c.name, "main")
	Expect(t, c.logger != nil, "default logger should be set")
	Expect(t, c.loader != nil, "default loader should be set")

	c = newConfig([]Option{
		WithBindings(map[string]interface{}{"b": 1}),
		WithBindings(map[string]interface{}{"a": 2}),
	})
	ExpectEql(t, c.bindingNames(), []string{"a", "b"})
}
