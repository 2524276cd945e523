// Package place implements the Place and Scope types at the heart of the
// evaluator (spec.md §3, §4.1): every expression result is a Place — a
// Value plus an optional back-reference to where it came from — so that
// assignment, compound-assignment, and plain reads can all treat the left
// side of an expression uniformly, without a separate l-value grammar.
package place

import (
	"fmt"

	"github.com/wgscript/wgscript/graph"
	"github.com/wgscript/wgscript/values"
)

// BindingKind tags which origin a Place's Binding refers to.
type BindingKind int

// The binding origins a Place can carry.
const (
	BindNone BindingKind = iota
	BindScope
	BindMap
	BindList
)

// Binding is the back-reference half of a Place: enough information to
// write a new value to the slot the Place's value was read from.
type Binding struct {
	Kind BindingKind

	Scope *Scope
	Name  string

	Map *values.OrderedMap
	Key string

	List  *values.List
	Index int
}

// Place is the evaluator's uniform result (spec §3, §4.1).
type Place struct {
	Value   values.Value
	Binding *Binding
}

// Of wraps a bare r-value with no back-reference.
func Of(v values.Value) *Place { return &Place{Value: v} }

// InScope builds a Place bound to a scope variable.
func InScope(s *Scope, name string, v values.Value) *Place {
	return &Place{Value: v, Binding: &Binding{Kind: BindScope, Scope: s, Name: name}}
}

// InMap builds a Place bound to a mapping slot.
func InMap(m *values.OrderedMap, key string, v values.Value) *Place {
	return &Place{Value: v, Binding: &Binding{Kind: BindMap, Map: m, Key: key}}
}

// InList builds a Place bound to a list slot.
func InList(l *values.List, index int, v values.Value) *Place {
	return &Place{Value: v, Binding: &Binding{Kind: BindList, List: l, Index: index}}
}

// Assignable reports whether this Place has a back-reference, i.e. whether
// an explicit `=`/compound-assign against it should succeed rather than
// raise NotAssignable (spec §4.1).
func (p *Place) Assignable() bool { return p != nil && p.Binding != nil }

// ReadBack resolves the current value at the Place's origin. For an
// unbound Place this is just p.Value. Spec §3 invariant 2 requires that
// reading the back-reference immediately after writing returns the written
// value, which holds here since Write updates the same underlying storage
// ReadBack reads from.
func (p *Place) ReadBack() values.Value {
	if p == nil {
		return values.Null{}
	}
	if p.Binding == nil {
		return p.Value
	}
	switch p.Binding.Kind {
	case BindScope:
		if v, ok := p.Binding.Scope.Vars[p.Binding.Name]; ok {
			return v
		}
	case BindMap:
		if v, ok := p.Binding.Map.Get(p.Binding.Key); ok {
			return v
		}
	case BindList:
		if p.Binding.Index >= 0 && p.Binding.Index < len(p.Binding.List.V) {
			return p.Binding.List.V[p.Binding.Index]
		}
	}
	return p.Value
}

// Write propagates v back to the Place's origin (spec §4.1). An unbound
// Place only updates its own Value and nothing else, matching "write is a
// no-op for r-values"; callers that need NotAssignable semantics for explicit
// assignment must check Assignable() first.
func (p *Place) Write(v values.Value) error {
	p.Value = v
	if p.Binding == nil {
		return nil
	}
	switch p.Binding.Kind {
	case BindScope:
		p.Binding.Scope.Vars[p.Binding.Name] = v
	case BindMap:
		p.Binding.Map.Set(p.Binding.Key, v)
	case BindList:
		if p.Binding.Index < 0 || p.Binding.Index >= len(p.Binding.List.V) {
			return fmt.Errorf("index %d out of range (len %d)", p.Binding.Index, len(p.Binding.List.V))
		}
		p.Binding.List.V[p.Binding.Index] = v
	}
	return nil
}

// Scope is a linked chain of name->value bindings plus the owning entity
// whose attribute table serves as the innermost lookup scope (spec §3).
type Scope struct {
	Parent *Scope
	HasObj graph.Entity
	Vars   map[string]values.Value

	// AbilityTables are ability lookup tables contributed by enclosing
	// entities for unqualified ability lookup (spec §3).
	AbilityTables []graph.AbilityTable
}

// New returns an empty Scope chained off parent, owned by hasObj (which
// may be nil for scopes with no owning entity, e.g. a bare top-level
// expression).
func New(parent *Scope, hasObj graph.Entity) *Scope {
	return &Scope{Parent: parent, HasObj: hasObj, Vars: make(map[string]values.Value)}
}

// Copy makes a shallow copy of the Scope's own bindings (not of the values
// they hold), matching the teacher's Scope.Copy idiom (lang/interfaces/ast.go):
// changing the copy's binding set must not affect the original.
func (s *Scope) Copy() *Scope {
	if s == nil {
		return nil
	}
	vars := make(map[string]values.Value, len(s.Vars))
	for k, v := range s.Vars {
		vars[k] = v
	}
	return &Scope{
		Parent:        s.Parent,
		HasObj:        s.HasObj,
		Vars:          vars,
		AbilityTables: append([]graph.AbilityTable{}, s.AbilityTables...),
	}
}

// Resolve constructs a Place for name (spec §4.1): it searches this
// scope's local Vars, then the owning entity's context, then repeats up
// the parent chain. If create is true (assign_mode) and name is found
// nowhere, a fresh binding is created in this (innermost) scope rather
// than failing.
func (s *Scope) Resolve(name string, create bool) (*Place, error) {
	for sc := s; sc != nil; sc = sc.Parent {
		if _, ok := sc.Vars[name]; ok {
			return InScope(sc, name, sc.Vars[name]), nil
		}
		if sc.HasObj != nil {
			if v, ok := sc.HasObj.Context().Get(name); ok {
				return InMap(sc.HasObj.Context(), name, v), nil
			}
		}
	}
	if !create {
		return nil, fmt.Errorf("undefined name %q", name)
	}
	s.Vars[name] = values.Null{}
	return InScope(s, name, values.Null{}), nil
}

// LookupAbility searches this scope's AbilityTables, then its parent
// chain, for an ability named name (spec §3).
func (s *Scope) LookupAbility(name string) (*graph.Ability, bool) {
	for sc := s; sc != nil; sc = sc.Parent {
		for _, tbl := range sc.AbilityTables {
			if a, ok := tbl.GetByName(name); ok {
				return a, true
			}
		}
	}
	return nil, false
}
