package ostar

import (
	"errors"
	"fmt"
)

// GemFunc initializes gem for session and returns module members
type GemFunc func(s *Session) (map[string]Value, error)

var gems = make(map[string]GemFunc)

// Gem register makes a gem available by the provided name.
// If Register is called twice with the same name it panics.
func Gem(name string, initFn GemFunc) {
	if name == "" {
		panic("error - empty name not allowed")
	}

	if _, dup := gems[name]; dup {
		panic("gem register called twice for gem " + name)
	}
	gems[name] = initFn
}

// GemExists checks if gem is registered
func GemExists(name string) bool {
	_, exists := gems[name]
	return exists
}

func init() {
	Gem("array", func(*Session) (map[string]Value, error) {
		return map[string]Value{"array": FuncValue("array", arrayNew)}, nil
	})
}

// arrayNew implements array(type, items) for scripts.
// type is one of "any", "bool", "int", "float", "str".
func arrayNew(args Args) (Value, error) {
	name, err := args.Text(0)
	if err != nil {
		return Nil, err
	}

	elem, ok := ParseType(name)
	if !ok {
		return Nil, fmt.Errorf("array: unknown element type '%s'", name)
	}

	items := args.Item(1)
	switch items.Kind() {
	case KindNull:
		return ArrayValue(elem)
	case KindSequence, KindArray:
		return ArrayValue(elem, items.items...)
	}
	return Nil, ETypeMismatch(items, ArrayOf(elem), "array items")
}

// gem returns members of gem initialized for the session
func (s *Session) gem(name string) (map[string]Value, bool, error) {
	if s.state == StateClosed {
		return nil, false, closedError("load")
	}
	if members, loaded := s.features[name]; loaded {
		return members, true, nil
	}

	initFn, exists := gems[name]
	if !exists {
		return nil, false, nil
	}

	members, err := initFn(s)
	if err != nil {
		return nil, true, fmt.Errorf("gem '%s': %w", name, err)
	}
	if members == nil {
		members = map[string]Value{}
	}
	s.features[name] = members
	return members, true, nil
}

// Require inits gem and binds it to session namespace as module named
// after the gem. It returns false if gem was already required.
func (s *Session) Require(name string) (bool, error) {
	if err := s.check("require"); err != nil {
		return false, err
	}
	if name == "" {
		return false, errors.New("error - empty")
	}

	if s.bound(name) {
		return false, nil
	}

	members, exists, err := s.gem(name)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, fmt.Errorf("error loading '%v'", name)
	}

	s.log.Debug("require", "session", s.name, "gem", name)
	if err := s.engine.Set(name, ModuleValue(name, members)); err != nil {
		return false, err
	}
	s.required[name] = struct{}{}
	return true, nil
}

func (s *Session) bound(name string) bool {
	_, ok := s.required[name]
	return ok
}

// FeatureExists checks if gem is registered or already loaded in session
func (s *Session) FeatureExists(name string) bool {
	if GemExists(name) {
		return true
	}
	_, exists := s.features[name]
	return exists
}
