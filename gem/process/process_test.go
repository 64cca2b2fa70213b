package process

import (
	"os"
	"testing"

	"github.com/oruby/ostar"
	"github.com/oruby/ostar/gem/assert"
)

func TestGlobals(t *testing.T) {
	s, err := ostar.New(ostar.WithModules("process"))
	assert.NilError(t, err)
	defer s.Close()

	v, err := s.Eval("process.pid()")
	assert.NilError(t, err)
	pid, _ := v.Int()
	assert.Equal(t, pid, int64(os.Getpid()))

	v, err = s.Eval("process.ppid()")
	assert.NilError(t, err)
	ppid, _ := v.Int()
	assert.Equal(t, ppid, int64(os.Getppid()))

	assert.True(t, s, "uid", "process.uid() >= 0")
}

func TestUname(t *testing.T) {
	s, err := ostar.New()
	assert.NilError(t, err)
	defer s.Close()

	err = s.Exec(`
load("process", "uname")
u = uname()
`)
	assert.NilError(t, err)

	m, err := s.ReadMap("u")
	assert.NilError(t, err)
	for _, key := range []string{"sysname", "nodename", "release", "version", "machine"} {
		_, ok := m[key]
		assert.Expect(t, ok, "uname should have '%s'", key)
	}
	assert.Expect(t, m["sysname"] != "", "sysname should not be empty")
}

func TestArgumentCheck(t *testing.T) {
	s, err := ostar.New(ostar.WithModules("process"))
	assert.NilError(t, err)
	defer s.Close()

	_, err = s.Eval(`process.pid(1)`)
	assert.ErrorIs(t, err, ostar.ErrScript)

	_, err = s.Eval(`process.getsid("self")`)
	assert.ErrorIs(t, err, ostar.ErrTypeMismatch)
}
