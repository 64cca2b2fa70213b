package ostar

import "sort"

// Func is Go function callable from scripts
type Func func(args Args) (Value, error)

// Function is named host function. Opaque values holding *Function are
// callable by scripts.
type Function struct {
	Name string
	Fn   Func
}

// FuncValue returns callable opaque value for fn
func FuncValue(name string, fn Func) Value {
	return OpaqueValue(&Function{Name: name, Fn: fn})
}

// Call calls function with positional args
func (f *Function) Call(args ...Value) (Value, error) {
	return f.Fn(ArgsOf(args...))
}

// String returns function name as printed by scripts
func (f *Function) String() string { return "<function " + f.Name + ">" }

// Capability is named operation of host object, visible to scripts as attribute
type Capability struct {
	Name string
	Fn   Func
}

// Object is host object exposing capabilities to scripts.
// The list is fixed by the object, there is no reflection over its methods.
type Object interface {
	Capabilities() []Capability
}

// Method returns capability with Go method name converted to snake_case,
// so Method("QueryRow", fn) is called as obj.query_row() from scripts
func Method(goName string, fn Func) Capability {
	return Capability{Name: SnakeCase(goName), Fn: fn}
}

// Methods returns sorted capability names of opaque host object
func Methods(v Value) []string {
	obj, ok := v.Opaque()
	if !ok {
		return nil
	}

	o, ok := obj.(Object)
	if !ok {
		return nil
	}

	caps := o.Capabilities()
	names := make([]string, len(caps))
	for i, c := range caps {
		names[i] = c.Name
	}
	sort.Strings(names)
	return names
}

// CapabilityOf finds capability of opaque host object by name
func CapabilityOf(v Value, name string) (Capability, bool) {
	obj, ok := v.Opaque()
	if !ok {
		return Capability{}, false
	}

	if o, ok := obj.(Object); ok {
		for _, c := range o.Capabilities() {
			if c.Name == name {
				return c, true
			}
		}
	}
	return Capability{}, false
}

// Module is named collection of values, bound to scripts as module with
// members accessed as attributes
type Module struct {
	Name    string
	Members map[string]Value
}

// ModuleValue returns opaque module value
func ModuleValue(name string, members map[string]Value) Value {
	return OpaqueValue(&Module{Name: name, Members: members})
}

// String returns module name as printed by scripts
func (m *Module) String() string { return "<module " + m.Name + ">" }
