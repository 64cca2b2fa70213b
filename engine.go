package ostar

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// Engine is interpreter instance owning one namespace.
//
// Exec and ExecFile report script faults as *ScriptError, unreadable files
// as *IOError. An Engine is not safe for concurrent use.
type Engine interface {
	Exec(filename, src string) error
	ExecFile(path string) error
	Eval(expr string) (Value, error)
	Set(name string, v Value) error
	Get(name string) (Value, bool)
	Names() []string
	Close() error
}

// EngineConfig is passed to engine factory by New
type EngineConfig struct {
	Name     string
	Output   io.Writer
	Loader   Loader
	Logger   *slog.Logger
	MaxSteps uint64

	// Modules resolves gem members for script load() statements.
	// found is false when there is no module with given name.
	Modules func(name string) (members map[string]Value, found bool, err error)
}

// EngineFunc creates engine for a session
type EngineFunc func(cfg EngineConfig) (Engine, error)

// Loader resolves script path to script text
type Loader interface {
	Load(path string) ([]byte, error)
}

// LoaderFunc implements Loader with plain function
type LoaderFunc func(path string) ([]byte, error)

// Load implements Loader interface
func (f LoaderFunc) Load(path string) ([]byte, error) { return f(path) }

// FileLoader reads scripts from file system. Relative paths are searched
// in Paths first, then relative to working directory.
type FileLoader struct {
	Paths []string
}

// Load implements Loader interface. Errors are *IOError.
func (l FileLoader) Load(path string) ([]byte, error) {
	if !filepath.IsAbs(path) {
		for _, dir := range l.Paths {
			src, err := os.ReadFile(filepath.Join(dir, path))
			if err == nil {
				return src, nil
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, &IOError{Path: path, Err: err}
			}
		}
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	return src, nil
}

func loadScript(l Loader, path string) ([]byte, error) {
	src, err := l.Load(path)
	if err == nil {
		return src, nil
	}

	var ioErr *IOError
	if errors.As(err, &ioErr) {
		return nil, err
	}
	return nil, &IOError{Path: path, Err: err}
}
