package ostar

import (
	"fmt"
	"io"
	"log/slog"
)

// State of a session
type State int

// Session states
const (
	StateOpen State = iota
	StateClosed
)

func (s State) String() string {
	if s == StateOpen {
		return "open"
	}
	return "closed"
}

// Session owns one interpreter engine and its namespace.
//
// A Session is not safe for concurrent use. Different sessions never share
// names and may be used from different goroutines.
type Session struct {
	name   string
	engine Engine
	log    *slog.Logger
	out    io.Writer
	state  State

	features map[string]map[string]Value
	required map[string]struct{}
	atExit   []func()
}

// New creates session with engine from options, Starlark by default.
// When initialization fails the engine is closed before returning.
func New(opts ...Option) (*Session, error) {
	c := newConfig(opts)

	s := &Session{
		name:     c.name,
		log:      c.logger,
		out:      c.output,
		features: make(map[string]map[string]Value),
		required: make(map[string]struct{}),
	}

	e, err := c.engine(EngineConfig{
		Name:     c.name,
		Output:   c.output,
		Loader:   c.loader,
		Logger:   c.logger,
		MaxSteps: c.maxSteps,
		Modules:  s.gem,
	})
	if err != nil {
		return nil, fmt.Errorf("session '%s': %w", c.name, err)
	}
	s.engine = e

	if err := s.init(c); err != nil {
		_ = s.Close()
		return nil, err
	}

	s.log.Debug("session open", "session", s.name)
	return s, nil
}

// NewWithEngine creates session around existing engine
func NewWithEngine(e Engine, opts ...Option) (*Session, error) {
	return New(append(opts, WithEngine(func(EngineConfig) (Engine, error) { return e, nil }))...)
}

func (s *Session) init(c *config) error {
	for _, name := range c.modules {
		if _, err := s.Require(name); err != nil {
			return err
		}
	}

	for _, name := range c.bindingNames() {
		v, err := Lift(c.bindings[name])
		if err != nil {
			return fmt.Errorf("binding '%s': %w", name, err)
		}
		if err := s.engine.Set(name, v); err != nil {
			return err
		}
	}

	for _, path := range c.preload {
		if err := s.ExecFile(path); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) check(op string) error {
	if s.state == StateClosed {
		return closedError(op)
	}
	return nil
}

// Name returns session name
func (s *Session) Name() string { return s.name }

// State returns session state
func (s *Session) State() State { return s.state }

// Logger returns session logger
func (s *Session) Logger() *slog.Logger { return s.log }

// Output returns writer of script output
func (s *Session) Output() io.Writer { return s.out }

// Exec executes script text in session namespace
func (s *Session) Exec(script string) error {
	if err := s.check("exec"); err != nil {
		return err
	}

	s.log.Debug("exec", "session", s.name, "size", len(script))
	return s.engine.Exec("<"+s.name+">", script)
}

// ExecFile executes script file. Unreadable file fails with *IOError.
func (s *Session) ExecFile(path string) error {
	if err := s.check("exec file"); err != nil {
		return err
	}

	s.log.Debug("exec file", "session", s.name, "path", path)
	return s.engine.ExecFile(path)
}

// Eval evaluates expression in session namespace
func (s *Session) Eval(expr string) (Value, error) {
	if err := s.check("eval"); err != nil {
		return Nil, err
	}
	return s.engine.Eval(expr)
}

// Bind converts x with ToDynamic and binds it to name, replacing previous
// value. Go maps fail here and must be lifted with MapToMapping first.
func (s *Session) Bind(name string, x interface{}) error {
	if err := s.check("bind"); err != nil {
		return err
	}

	v, err := ToDynamic(x)
	if err != nil {
		return fmt.Errorf("bind '%s': %w", name, err)
	}

	s.log.Debug("bind", "session", s.name, "name", name, "kind", v.Kind())
	return s.engine.Set(name, v)
}

// DefineFunc binds Go function fn as script function name
func (s *Session) DefineFunc(name string, fn Func) error {
	return s.Bind(name, FuncValue(name, fn))
}

// Read returns value bound to name
func (s *Session) Read(name string) (Value, error) {
	if err := s.check("read"); err != nil {
		return Nil, err
	}

	v, ok := s.engine.Get(name)
	if !ok {
		return Nil, &NameError{Name: name}
	}

	s.log.Debug("read", "session", s.name, "name", name, "kind", v.Kind())
	return v, nil
}

// ReadTyped reads name and converts it with FromDynamic
func (s *Session) ReadTyped(name string, t Type) (interface{}, error) {
	v, err := s.Read(name)
	if err != nil {
		return nil, err
	}
	return FromDynamic(v, t)
}

// Scan reads name into variable pointed by ptr
func (s *Session) Scan(name string, ptr interface{}) error {
	v, err := s.Read(name)
	if err != nil {
		return err
	}
	return Scan(v, ptr)
}

// ReadList reads sequence or native array as list of generic host values
func (s *Session) ReadList(name string, opts ...ConvOption) ([]interface{}, error) {
	v, err := s.Read(name)
	if err != nil {
		return nil, err
	}
	return SequenceToList(v, opts...)
}

// ReadMap reads mapping as host map
func (s *Session) ReadMap(name string, opts ...ConvOption) (Map, error) {
	v, err := s.Read(name)
	if err != nil {
		return nil, err
	}
	return MappingToMap(v, opts...)
}

// ReadAs reads name as Go value of type T
func ReadAs[T any](s *Session, name string) (T, error) {
	var out T
	err := s.Scan(name, &out)
	return out, err
}

// Names returns sorted names bound in session namespace
func (s *Session) Names() []string {
	if s.state == StateClosed {
		return nil
	}
	return s.engine.Names()
}

// AtExit registers fn to be called on Close, in reverse order.
// Closed session fails with ErrClosedSession and fn is not registered.
func (s *Session) AtExit(fn func()) error {
	if err := s.check("at exit"); err != nil {
		return err
	}
	s.atExit = append(s.atExit, fn)
	return nil
}

// Close releases session resources. Closing closed session is not an error.
func (s *Session) Close() error {
	if s.state == StateClosed {
		return nil
	}
	s.state = StateClosed

	for i := len(s.atExit) - 1; i >= 0; i-- {
		s.atExit[i]()
	}
	s.atExit = nil
	s.features = nil
	s.required = nil

	s.log.Debug("session closed", "session", s.name)
	if s.engine == nil {
		return nil
	}
	return s.engine.Close()
}
