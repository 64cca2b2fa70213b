package ostar

import (
	"errors"
	"fmt"
)

// Error kinds, usable with errors.Is
var (
	ErrTypeMismatch          = errors.New("TypeMismatch")
	ErrUnsupportedConversion = errors.New("UnsupportedConversion")
	ErrScript                = errors.New("ScriptError")
	ErrName                  = errors.New("NameError")
	ErrClosedSession         = errors.New("ClosedSessionError")
	ErrIO                    = errors.New("IoError")
)

// CastError is returned when value can't be converted to requested type.
// It unwraps to ErrTypeMismatch or ErrUnsupportedConversion.
type CastError struct {
	err  error
	From string
	To   string
	msg  string
}

func castError(err error, from, to, format string, args ...interface{}) error {
	return &CastError{err: err, From: from, To: to, msg: fmt.Sprintf(format, args...)}
}

// ETypeMismatch returns CastError of ErrTypeMismatch kind
func ETypeMismatch(v Value, to Type, format string, args ...interface{}) error {
	return castError(ErrTypeMismatch, v.kind.String(), to.String(), format, args...)
}

// EUnsupported returns CastError of ErrUnsupportedConversion kind
func EUnsupported(from, to string, format string, args ...interface{}) error {
	return castError(ErrUnsupportedConversion, from, to, format, args...)
}

// Error implements error interface
func (e *CastError) Error() string {
	s := fmt.Sprintf("%v: %s to %s", e.err, e.From, e.To)
	if e.msg != "" {
		s += ": " + e.msg
	}
	return s
}

// Unwrap returns error kind
func (e *CastError) Unwrap() error { return e.err }

// ScriptError is raised by engine while executing script text.
// Error returns engine message verbatim.
type ScriptError struct {
	Msg       string
	Backtrace string
	cause     error
}

// Error implements error interface
func (e *ScriptError) Error() string { return e.Msg }

// Unwrap returns ErrScript and the engine error, so host errors returned
// from Go functions called by the script stay reachable with errors.Is
func (e *ScriptError) Unwrap() []error {
	if e.cause == nil {
		return []error{ErrScript}
	}
	return []error{ErrScript, e.cause}
}

// NameError is returned when reading unbound name
type NameError struct {
	Name string
}

// Error implements error interface
func (e *NameError) Error() string {
	return fmt.Sprintf("NameError: name '%s' is not defined", e.Name)
}

// Unwrap returns ErrName
func (e *NameError) Unwrap() error { return ErrName }

// IOError is returned when script file can't be read
type IOError struct {
	Path string
	Err  error
}

// Error implements error interface
func (e *IOError) Error() string {
	return fmt.Sprintf("IoError: %s: %v", e.Path, e.Err)
}

// Unwrap returns ErrIO and the underlying file error
func (e *IOError) Unwrap() []error { return []error{ErrIO, e.Err} }

func closedError(op string) error {
	return fmt.Errorf("%s: %w", op, ErrClosedSession)
}
