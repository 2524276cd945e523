// Package values implements the dynamically-typed value model the
// interpreter operates on: a tagged sum of scalars, an ordered list, and an
// insertion-ordered string-keyed map. The graph-native variants (a single
// entity reference and a deduplicated, ordered entity set) and the action
// handle are implemented in packages graph and runtime; only their Kind
// tags are defined here.
//
// This mirrors the shape of a dynamically-typed language's runtime value
// rather than a statically-unified one: there is no
// compile-time type checker here, so every variant must be prepared to
// fail at the point of use instead of being ruled out ahead of time.
package values

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tags which variant a Value holds.
type Kind int

// The value kinds the language supports. KindNull is the zero Kind so an
// unset Kind field reads as Null rather than as a silently wrong variant.
const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindBool
	KindString
	KindList
	KindMap
	KindEntityRef
	KindEntitySet
	KindAction
)

// String names a Kind for error messages and debug output.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindEntityRef:
		return "entity"
	case KindEntitySet:
		return "entity-set"
	case KindAction:
		return "action"
	default:
		return "unknown"
	}
}

// Value is implemented by every concrete variant. It intentionally carries
// no arithmetic or comparison methods of its own: those depend on
// cross-kind coercion rules (spec §4.3, e.g. bool-vs-int chained
// comparisons) that belong to the interpreter's operator dispatch, not to
// the value model.
type Value interface {
	fmt.Stringer
	Kind() Kind
	Copy() Value
}

// Null is the result of statements and of absent values.
type Null struct{}

// Kind implements Value.
func (Null) Kind() Kind { return KindNull }

// String implements Value.
func (Null) String() string { return "null" }

// Copy implements Value.
func (Null) Copy() Value { return Null{} }

// Int is a signed 64-bit integer value.
type Int struct{ V int64 }

// Kind implements Value.
func (v Int) Kind() Kind { return KindInt }

// String implements Value.
func (v Int) String() string { return strconv.FormatInt(v.V, 10) }

// Copy implements Value.
func (v Int) Copy() Value { return Int{V: v.V} }

// Float is a 64-bit floating-point value.
type Float struct{ V float64 }

// Kind implements Value.
func (v Float) Kind() Kind { return KindFloat }

// String implements Value.
func (v Float) String() string { return strconv.FormatFloat(v.V, 'g', -1, 64) }

// Copy implements Value.
func (v Float) Copy() Value { return Float{V: v.V} }

// Bool is a boolean value.
type Bool struct{ V bool }

// Kind implements Value.
func (v Bool) Kind() Kind { return KindBool }

// String implements Value.
func (v Bool) String() string { return strconv.FormatBool(v.V) }

// Copy implements Value.
func (v Bool) Copy() Value { return Bool{V: v.V} }

// Str is a string value.
type Str struct{ V string }

// Kind implements Value.
func (v Str) Kind() Kind { return KindString }

// String implements Value.
func (v Str) String() string { return v.V }

// Copy implements Value.
func (v Str) Copy() Value { return Str{V: v.V} }

// List is an ordered sequence of Values. Lists are reference types: Copy
// performs a deep copy (each element is copied with its own Copy) so that
// `a := b` on two list-typed variables does not alias the backing slice or
// nested containers, matching the scope-variable write-back
// semantics in spec §4.1.
type List struct{ V []Value }

// NewList builds a List from the given elements.
func NewList(elems ...Value) *List {
	return &List{V: append([]Value{}, elems...)}
}

// Kind implements Value.
func (v *List) Kind() Kind { return KindList }

// String implements Value.
func (v *List) String() string {
	parts := make([]string, len(v.V))
	for i, e := range v.V {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Copy implements Value. Elements are copied recursively.
func (v *List) Copy() Value {
	out := make([]Value, len(v.V))
	for i, e := range v.V {
		out[i] = e.Copy()
	}
	return &List{V: out}
}

// Len returns the number of elements (backs the `.length` built-in).
func (v *List) Len() int { return len(v.V) }

// OrderedMap is a string-keyed mapping that preserves insertion order,
// matching spec §3's "insertion-ordered mapping from String to Value".
type OrderedMap struct {
	keys []string
	m    map[string]Value
}

// NewOrderedMap returns an empty OrderedMap.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{m: make(map[string]Value)}
}

// Get returns the value at key and whether it was present.
func (o *OrderedMap) Get(key string) (Value, bool) {
	v, ok := o.m[key]
	return v, ok
}

// Set assigns key to v, appending key to the insertion order if it is new.
func (o *OrderedMap) Set(key string, v Value) {
	if _, ok := o.m[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.m[key] = v
}

// Delete removes key if present.
func (o *OrderedMap) Delete(key string) {
	if _, ok := o.m[key]; !ok {
		return
	}
	delete(o.m, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// Has reports whether key is present.
func (o *OrderedMap) Has(key string) bool {
	_, ok := o.m[key]
	return ok
}

// Keys returns the keys in insertion order.
func (o *OrderedMap) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of keys.
func (o *OrderedMap) Len() int { return len(o.keys) }

// Copy returns a deep copy preserving insertion order.
func (o *OrderedMap) Copy() *OrderedMap {
	out := NewOrderedMap()
	for _, k := range o.keys {
		out.Set(k, o.m[k].Copy())
	}
	return out
}

// Map wraps an OrderedMap as a Value.
type Map struct{ V *OrderedMap }

// NewMap builds an empty Map value.
func NewMap() *Map { return &Map{V: NewOrderedMap()} }

// Kind implements Value.
func (v *Map) Kind() Kind { return KindMap }

// String implements Value.
func (v *Map) String() string {
	parts := make([]string, 0, v.V.Len())
	for _, k := range v.V.Keys() {
		val, _ := v.V.Get(k)
		parts = append(parts, fmt.Sprintf("%q: %s", k, val.String()))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Copy implements Value.
func (v *Map) Copy() Value { return &Map{V: v.V.Copy()} }

// Truthy implements the language's truthiness rule used by `if`, `while`,
// and logical short-circuit: zero/empty/false/null values are falsy,
// everything else is truthy. KindEntityRef/KindEntitySet values are
// defined in the graph package (to avoid values importing graph); they
// implement the optional truthyAware interface below so Truthy can still
// handle them without a dependency edge.
func Truthy(v Value) bool {
	switch t := v.(type) {
	case nil:
		return false
	case Null:
		return false
	case Int:
		return t.V != 0
	case Float:
		return t.V != 0
	case Bool:
		return t.V
	case Str:
		return t.V != ""
	case *List:
		return len(t.V) > 0
	case *Map:
		return t.V.Len() > 0
	default:
		if ta, ok := v.(truthyAware); ok {
			return ta.Truthy()
		}
		return false
	}
}

// truthyAware is implemented by Value variants defined outside this
// package (graph.EntityRefValue, graph.EntitySetValue) whose truthiness
// depends on state this package can't see.
type truthyAware interface {
	Truthy() bool
}
