package runtime

import "github.com/wgscript/wgscript/values"

// ActionValue is the values.Value variant produced when a dotted name
// resolves to a registered builtin action rather than a scope variable
// (spec §4.2/§4.3: `std.log` used as a callee). It lives here rather than
// in package values for the same reason graph's entity value types do:
// it wraps a live collaborator (Action), not primitive state.
type ActionValue struct{ V Action }

// Kind implements values.Value.
func (v ActionValue) Kind() values.Kind { return values.KindAction }

// String implements values.Value.
func (v ActionValue) String() string { return "<action>" }

// Copy implements values.Value. Actions are shared, not copied.
func (v ActionValue) Copy() values.Value { return v }
