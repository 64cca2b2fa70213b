package ostar

import (
	"errors"
	"fmt"
	"testing"
)

type thermostat struct {
	target float64
}

func (th *thermostat) String() string { return fmt.Sprintf("<thermostat %v>", th.target) }

func (th *thermostat) Capabilities() []Capability {
	return []Capability{
		Method("SetTarget", func(args Args) (Value, error) {
			f, err := args.Float(0)
			if err != nil {
				return Nil, err
			}
			th.target = f
			return Nil, nil
		}),
		Method("Target", func(Args) (Value, error) { return FloatValue(th.target), nil }),
	}
}

func TestMethods(t *testing.T) {
	th := &thermostat{target: 20}
	v := OpaqueValue(th)

	ExpectEql(t, Methods(v), []string{"set_target", "target"})
	ExpectEql(t, Methods(IntValue(1)), []string(nil))
	ExpectEql(t, Methods(OpaqueValue(&sensor{})), []string(nil))

	c, ok := CapabilityOf(v, "target")
	Expect(t, ok, "target capability should exist")
	ret, err := c.Fn(Args{})
	ExpectNilError(t, err)
	ExpectEql(t, ret, FloatValue(20))

	_, ok = CapabilityOf(v, "Target")
	Expect(t, !ok, "capabilities use snake_case names")
}

func TestObjectFromScript(t *testing.T) {
	s := newSession(t)
	th := &thermostat{target: 20}
	ExpectNilError(t, s.Bind("th", th))

	ExpectNilError(t, s.Exec("th.set_target(22)"))
	ExpectEql(t, th.target, 22.0)

	v, err := s.Eval("th.target() + 0.5")
	ExpectNilError(t, err)
	ExpectEql(t, v, FloatValue(22.5))

	v, err = s.Eval("str(th)")
	ExpectNilError(t, err)
	ExpectEql(t, v, StringValue("<thermostat 22>"))

	v, err = s.Eval(`dir(th)`)
	ExpectNilError(t, err)
	ExpectEql(t, v, SequenceValue(StringValue("set_target"), StringValue("target")))

	_, err = s.Eval(`th.set_target("hot")`)
	ExpectErrIs(t, err, ErrTypeMismatch)

	_, err = s.Eval(`th.missing()`)
	ExpectErrIs(t, err, ErrScript)
}

func TestFunction(t *testing.T) {
	f := &Function{Name: "sum", Fn: func(args Args) (Value, error) {
		var n int64
		for i := range args.Positional {
			x, err := args.Int(i)
			if err != nil {
				return Nil, err
			}
			n += x
		}
		return IntValue(n), nil
	}}

	v, err := f.Call(IntValue(1), IntValue(2))
	ExpectNilError(t, err)
	ExpectEql(t, v, IntValue(3))
	ExpectEql(t, f.String(), "<function sum>")

	_, err = f.Call(StringValue("1"))
	ExpectErrIs(t, err, ErrTypeMismatch)
}

func TestModuleValue(t *testing.T) {
	s := newSession(t)

	mod := ModuleValue("greenhouse", map[string]Value{
		"zones": IntValue(3),
		"name":  FuncValue("name", func(Args) (Value, error) { return StringValue("north"), nil }),
	})
	ExpectNilError(t, s.Bind("gh", mod))

	v, err := s.Eval("gh.zones * 2")
	ExpectNilError(t, err)
	ExpectEql(t, v, IntValue(6))

	v, err = s.Eval("gh.name()")
	ExpectNilError(t, err)
	ExpectEql(t, v, StringValue("north"))
}

func TestArgs(t *testing.T) {
	a := ArgsOf(IntValue(1), StringValue("s"), FloatValue(2.5))

	ExpectEql(t, a.Len(), 3)
	ExpectEql(t, a.Item(-1), FloatValue(2.5))
	ExpectEql(t, a.Item(3), Nil)

	f, err := a.Float(0)
	ExpectNilError(t, err)
	ExpectEql(t, f, 1.0)

	_, err = a.Int(1)
	ExpectErrIs(t, err, ErrTypeMismatch)

	_, err = a.Text(5)
	ExpectErr(t, err, "missing argument should fail")

	ExpectEql(t, a.Intf(), []interface{}{int64(1), "s", 2.5})

	var ce *CastError
	_, err = a.Text(0)
	Expect(t, errors.As(err, &ce) && ce.To == "str", "expected cast to str, got %v", err)
}
