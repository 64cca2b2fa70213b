package ostar

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	starjson "go.starlark.net/lib/json"
	starmath "go.starlark.net/lib/math"
	startime "go.starlark.net/lib/time"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"go.starlark.net/syntax"
)

func init() {
	Gem("json", starlarkGem(starjson.Module))
	Gem("math", starlarkGem(starmath.Module))
	Gem("time", starlarkGem(startime.Module))
}

// starlarkGem exposes Starlark library module as gem
func starlarkGem(m *starlarkstruct.Module) func(*Session) (map[string]Value, error) {
	return func(*Session) (map[string]Value, error) {
		members := make(map[string]Value, len(m.Members))
		for name, v := range m.Members {
			members[name] = OpaqueValue(v)
		}
		return members, nil
	}
}

// StarlarkOptions returns dialect options used by Starlark engine: sets,
// while loops, top level control flow, global reassignment and recursion
// are enabled, load() binds globals.
func StarlarkOptions() *syntax.FileOptions {
	return &syntax.FileOptions{
		Set:               true,
		While:             true,
		TopLevelControl:   true,
		GlobalReassign:    true,
		LoadBindsGlobally: true,
		Recursion:         true,
	}
}

type loadEntry struct {
	globals starlark.StringDict
	err     error
}

type starEngine struct {
	name     string
	globals  starlark.StringDict
	opts     *syntax.FileOptions
	out      io.Writer
	loader   Loader
	modules  func(string) (map[string]Value, bool, error)
	maxSteps uint64
	log      *slog.Logger

	// nil entry marks module being loaded
	loaded map[string]*loadEntry
}

var _ Engine = (*starEngine)(nil)

// NewStarlark creates Starlark engine. It is default engine of New.
func NewStarlark(cfg EngineConfig) (Engine, error) {
	e := &starEngine{
		name:     cfg.Name,
		globals:  make(starlark.StringDict),
		opts:     StarlarkOptions(),
		out:      cfg.Output,
		loader:   cfg.Loader,
		modules:  cfg.Modules,
		maxSteps: cfg.MaxSteps,
		log:      cfg.Logger,
		loaded:   make(map[string]*loadEntry),
	}

	if e.out == nil {
		e.out = io.Discard
	}
	if e.loader == nil {
		e.loader = FileLoader{}
	}
	if e.log == nil {
		e.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e, nil
}

func (e *starEngine) newThread(name string) *starlark.Thread {
	thread := &starlark.Thread{
		Name:  name,
		Print: func(_ *starlark.Thread, msg string) { fmt.Fprintln(e.out, msg) },
		Load:  e.load,
	}
	if e.maxSteps > 0 {
		thread.SetMaxExecutionSteps(e.maxSteps)
	}
	return thread
}

func (e *starEngine) load(_ *starlark.Thread, module string) (starlark.StringDict, error) {
	if e.modules != nil {
		members, found, err := e.modules(module)
		if err != nil {
			return nil, err
		}
		if found {
			return toStringDict(members)
		}
	}

	entry, ok := e.loaded[module]
	if ok {
		if entry == nil {
			return nil, fmt.Errorf("cycle in load graph")
		}
		return entry.globals, entry.err
	}

	e.log.Debug("load script", "engine", e.name, "module", module)

	e.loaded[module] = nil
	src, err := loadScript(e.loader, module)
	var globals starlark.StringDict
	if err == nil {
		globals, err = starlark.ExecFileOptions(e.opts, e.newThread("load "+module), module, src, nil)
	}
	e.loaded[module] = &loadEntry{globals: globals, err: err}
	return globals, err
}

// Exec runs src as chunk of the session namespace. Chunks rebind the
// shared globals, which stay unfrozen.
func (e *starEngine) Exec(filename, src string) error {
	return e.exec(filename, src)
}

func (e *starEngine) exec(filename string, src interface{}) error {
	if e.globals == nil {
		return closedError("exec")
	}

	f, err := e.opts.Parse(filename, src, 0)
	if err != nil {
		return scriptError(err)
	}

	// Globals assigned before failure are kept
	if err := starlark.ExecREPLChunk(f, e.newThread(e.name), e.globals); err != nil {
		return scriptError(err)
	}
	return nil
}

func (e *starEngine) ExecFile(path string) error {
	if e.globals == nil {
		return closedError("exec file")
	}

	src, err := loadScript(e.loader, path)
	if err != nil {
		return err
	}
	return e.exec(path, src)
}

func (e *starEngine) Eval(expr string) (Value, error) {
	if e.globals == nil {
		return Nil, closedError("eval")
	}

	v, err := starlark.EvalOptions(e.opts, e.newThread(e.name), "<eval>", expr, e.globals)
	if err != nil {
		return Nil, scriptError(err)
	}
	return fromStar(v), nil
}

func (e *starEngine) Set(name string, v Value) error {
	if e.globals == nil {
		return closedError("set")
	}
	if !isIdentifier(name) {
		return fmt.Errorf("invalid name '%s'", name)
	}

	x, err := toStar(v)
	if err != nil {
		return fmt.Errorf("set '%s': %w", name, err)
	}
	e.globals[name] = x
	return nil
}

func (e *starEngine) Get(name string) (Value, bool) {
	x, ok := e.globals[name]
	if !ok {
		return Nil, false
	}
	return fromStar(x), true
}

func (e *starEngine) Names() []string {
	names := make([]string, 0, len(e.globals))
	for name := range e.globals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *starEngine) Close() error {
	e.globals = nil
	e.loaded = nil
	return nil
}

func toStringDict(members map[string]Value) (starlark.StringDict, error) {
	d := make(starlark.StringDict, len(members))
	for name, v := range members {
		x, err := toStar(v)
		if err != nil {
			return nil, fmt.Errorf("member '%s': %w", name, err)
		}
		d[name] = x
	}
	return d, nil
}

func scriptError(err error) error {
	var evalErr *starlark.EvalError
	if errors.As(err, &evalErr) {
		return &ScriptError{Msg: evalErr.Error(), Backtrace: evalErr.Backtrace(), cause: err}
	}
	return &ScriptError{Msg: err.Error(), cause: err}
}
