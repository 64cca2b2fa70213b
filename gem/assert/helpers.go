// Package assert holds test helpers shared by gem tests
package assert

import (
	"errors"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/oruby/ostar"
)

// Expect is simple testing function which raises error if condition is not met
func Expect(t *testing.T, to bool, eformat string, args ...interface{}) {
	t.Helper()
	if !to {
		t.Errorf(eformat, args...)
	}
}

// Include expects v1 to equal one of values in
func Include(t *testing.T, v1 interface{}, in ...interface{}) {
	t.Helper()

	for _, v2 := range in {
		if cmp.Equal(v1, v2) {
			return
		}
	}
	t.Errorf("Expected '%v' to be in %v", v1, in)
}

// Equal expects both arguments to be equal, reporting cmp.Diff otherwise
func Equal(t *testing.T, got, want interface{}) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

// EqualE expects err to be nil and got to equal want
func EqualE(t *testing.T, got interface{}, err error, want interface{}) {
	t.Helper()
	NilError(t, err)
	Equal(t, got, want)
}

// Nil should be used to check returned Go error.
func Nil(t *testing.T, i error, eformat string, args ...interface{}) {
	t.Helper()
	Expect(t, i == nil, eformat, args...)
}

// NilError should be used to check returned Go error.
// Test fails if there is error.
func NilError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Error: %v", err)
	}
}

// Error expects Go error to be non-nil
func Error(t *testing.T, i error, eformat string, args ...interface{}) {
	t.Helper()
	Expect(t, i != nil, eformat, args...)
}

// ErrorIs expects err to match target with errors.Is
func ErrorIs(t *testing.T, err, target error) {
	t.Helper()
	Expect(t, errors.Is(err, target), "Expected error '%v' to be '%v'", err, target)
}

// True evaluates expr in session and expects truthy result
func True(t *testing.T, s *ostar.Session, desc, expr string) {
	t.Helper()

	v, err := s.Eval(expr)
	if err != nil {
		t.Fatal(desc, ": ", err)
	}
	if !v.Truth() {
		t.Error(desc, ": result =", v.Repr())
	}
}

// Is64bit function returns true if go runtime is 64 bit
func Is64bit() bool { return strings.Contains(runtime.GOARCH, "64") }
