package ostar

import (
	"errors"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Pending is used to singnal that test is waiting to be coded
func Pending(t *testing.T, s string) {
	t.Helper()
	t.Log("Pending: ", s)
}

// Expect is simple testing function which raises error if condition is not met
func Expect(t *testing.T, condition bool, eformat string, args ...interface{}) {
	t.Helper()
	if !condition {
		t.Errorf(eformat, args...)
	}
}

// ExpectEql expects both arguments to be equal, reporting cmp.Diff otherwise.
// Values are compared with their Equal method.
func ExpectEql(t *testing.T, got, want interface{}) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

// ExpectNil should be used to check returned Go error.
func ExpectNil(t *testing.T, i error, eformat string, args ...interface{}) {
	t.Helper()
	Expect(t, i == nil, eformat, args...)
}

// ExpectNilError should be used to check returned Go error.
// Test fails if there is error.
func ExpectNilError(t *testing.T, i error) {
	t.Helper()
	if i != nil {
		t.Fatalf("Error: %v", i)
	}
}

// ExpectErr should be used to check if Go error is raised.
func ExpectErr(t *testing.T, i error, eformat string, args ...interface{}) {
	t.Helper()
	Expect(t, i != nil, eformat, args...)
}

// ExpectErrIs checks error chain of err for target
func ExpectErrIs(t *testing.T, err, target error) {
	t.Helper()
	Expect(t, errors.Is(err, target), "Expected error '%v' to be '%v'", err, target)
}

// newSession creates session closed at the end of the test
func newSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	s, err := New(opts...)
	ExpectNilError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// Support function which returns true if go runtime is 64 bit.
func Go64bit() bool { return strings.Contains(runtime.GOARCH, "64") }
