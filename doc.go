// Package ostar embeds Starlark interpreter sessions in Go programs and
// converts values between Go and scripts.
//
// To get started, create a session with New:
//
//	s, err := ostar.New()
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
// Go values are bound with Bind and read back with Read, ReadTyped, Scan,
// ReadList and ReadMap:
//
//	s.Bind("limit", 10)
//	s.Exec(`items = [x * 2 for x in range(limit)]`)
//
//	items, _ := s.ReadList("items")          // []interface{}{int64(0), int64(2), ...}
//	n, _ := ostar.ReadAs[int](s, "limit")    // 10
//
// Every value crossing the boundary is a Value: Null, Bool, Int, Float and
// String scalars, Sequence, Mapping (insertion ordered), native Array with
// a declared element Type, or Opaque host object passed through untouched.
// Conversions never widen silently: an Int read as float fails with
// ErrTypeMismatch, use Numeric for explicit conversion.
//
// Go maps have no order and are not bound directly. Lift them with
// MapToMapping:
//
//	m, _ := ostar.MapToMapping(map[string]int{"a": 1})
//	s.Bind("conf", m)
//
// Go functions are exposed with DefineFunc, Go objects implementing Object
// expose their Capabilities as attributes. Gems are host modules, registered
// with Gem, loaded by scripts with load("name", "member") or bound by host
// with Require.
//
// Sessions are isolated from each other. Registry holds named sessions,
// optionally declared in YAML manifest.
package ostar
