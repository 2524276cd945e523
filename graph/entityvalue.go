package graph

import (
	"strings"

	"github.com/wgscript/wgscript/values"
)

// EntityRefValue is the values.Value variant naming a single live graph
// entity (spec §3's EntityRef). It lives here, not in package values,
// because it wraps Entity directly rather than an opaque handle string:
// every EntityRef the interpreter ever produces comes from an already-
// resolved entity (the current node, a spawned node, an edge endpoint),
// never from a bare id that needs a separate store lookup, so there is no
// need for values to know about a graph store at all.
type EntityRefValue struct{ V Entity }

// Kind implements values.Value.
func (v EntityRefValue) Kind() values.Kind { return values.KindEntityRef }

// String implements values.Value.
func (v EntityRefValue) String() string {
	if v.V == nil {
		return "null"
	}
	return v.V.JID()
}

// Copy implements values.Value. Entities are reference identities, not
// copied values: Copy returns v unchanged, same as the teacher's
// reference-type Value variants.
func (v EntityRefValue) Copy() values.Value { return v }

// Truthy implements the optional interface values.Truthy consults: a nil
// entity reference is falsy, any live entity is truthy.
func (v EntityRefValue) Truthy() bool { return v.V != nil }

// EntitySet is an ordered, duplicate-free collection of entities,
// deduplicated by jid, supporting the set algebra spec §3 requires (union,
// intersection, filter). Filter's predicate is supplied by the caller
// (interp) since it needs live attribute lookups this package can't do on
// its own.
type EntitySet struct {
	order []Entity
	has   map[string]bool
}

// NewEntitySet builds a set from the given entities, in order, dropping
// duplicates (by jid) after the first occurrence.
func NewEntitySet(entities ...Entity) *EntitySet {
	s := &EntitySet{has: make(map[string]bool)}
	for _, e := range entities {
		s.Add(e)
	}
	return s
}

// Add appends e if its jid is not already present. Returns true if added.
func (s *EntitySet) Add(e Entity) bool {
	if e == nil || s.has[e.JID()] {
		return false
	}
	s.has[e.JID()] = true
	s.order = append(s.order, e)
	return true
}

// Contains reports whether an entity with e's jid is a member.
func (s *EntitySet) Contains(e Entity) bool { return e != nil && s.has[e.JID()] }

// Entities returns the members in insertion order.
func (s *EntitySet) Entities() []Entity {
	out := make([]Entity, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of members.
func (s *EntitySet) Len() int { return len(s.order) }

// Union returns a new set with s's members first, then other's new members.
func (s *EntitySet) Union(other *EntitySet) *EntitySet {
	out := NewEntitySet(s.order...)
	if other != nil {
		for _, e := range other.order {
			out.Add(e)
		}
	}
	return out
}

// Intersect returns a new set with only members present in both s and
// other, preserving s's order.
func (s *EntitySet) Intersect(other *EntitySet) *EntitySet {
	out := NewEntitySet()
	if other == nil {
		return out
	}
	for _, e := range s.order {
		if other.Contains(e) {
			out.Add(e)
		}
	}
	return out
}

// Filter returns a new set containing only the members for which keep
// returns true, preserving order.
func (s *EntitySet) Filter(keep func(Entity) bool) *EntitySet {
	out := NewEntitySet()
	for _, e := range s.order {
		if keep(e) {
			out.Add(e)
		}
	}
	return out
}

// EntitySetValue wraps an EntitySet as a values.Value.
type EntitySetValue struct{ V *EntitySet }

// Kind implements values.Value.
func (v *EntitySetValue) Kind() values.Kind { return values.KindEntitySet }

// String implements values.Value.
func (v *EntitySetValue) String() string {
	parts := make([]string, 0, v.V.Len())
	for _, e := range v.V.Entities() {
		parts = append(parts, e.JID())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Copy implements values.Value. The set wrapper is copied; the member
// entities are reference identities and are not deep-copied.
func (v *EntitySetValue) Copy() values.Value { return &EntitySetValue{V: v.V.Union(NewEntitySet())} }

// Truthy implements the optional interface values.Truthy consults.
func (v *EntitySetValue) Truthy() bool { return v.V.Len() > 0 }
