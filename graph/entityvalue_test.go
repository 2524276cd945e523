package graph_test

import (
	"testing"

	"github.com/wgscript/wgscript/graph"
	"github.com/wgscript/wgscript/graph/memstore"
	"github.com/wgscript/wgscript/values"
)

func TestEntityRefValueTruthyAndString(t *testing.T) {
	nilRef := graph.EntityRefValue{}
	if nilRef.Truthy() {
		t.Errorf("EntityRefValue{}.Truthy(): expected false for a nil entity")
	}
	if nilRef.String() != "null" {
		t.Errorf("EntityRefValue{}.String(): expected null, actual %s", nilRef.String())
	}

	n := memstore.NewNode("person")
	ref := graph.EntityRefValue{V: n}
	if !ref.Truthy() {
		t.Errorf("EntityRefValue{V: n}.Truthy(): expected true for a live entity")
	}
	if ref.String() != n.JID() {
		t.Errorf("EntityRefValue.String(): expected %s, actual %s", n.JID(), ref.String())
	}
	if ref.Kind() != values.KindEntityRef {
		t.Errorf("EntityRefValue.Kind(): expected KindEntityRef, actual %v", ref.Kind())
	}
}

func TestEntitySetDedupesByJID(t *testing.T) {
	a := memstore.NewNode("a")
	s := graph.NewEntitySet(a, a)
	if s.Len() != 1 {
		t.Errorf("NewEntitySet(a, a): expected 1 member after dedup, actual %d", s.Len())
	}
	if added := s.Add(a); added {
		t.Errorf("Add(a) a second time: expected false, already a member")
	}
	if !s.Contains(a) {
		t.Errorf("Contains(a): expected true")
	}
}

func TestEntitySetUnionAndIntersect(t *testing.T) {
	a := memstore.NewNode("a")
	b := memstore.NewNode("b")
	c := memstore.NewNode("c")

	s1 := graph.NewEntitySet(a, b)
	s2 := graph.NewEntitySet(b, c)

	u := s1.Union(s2)
	if u.Len() != 3 {
		t.Errorf("Union: expected 3 members, actual %d", u.Len())
	}

	i := s1.Intersect(s2)
	if i.Len() != 1 || !i.Contains(b) {
		t.Errorf("Intersect: expected just [b], actual len %d contains(b)=%v", i.Len(), i.Contains(b))
	}
}

func TestEntitySetFilter(t *testing.T) {
	a := memstore.NewNode("keep")
	b := memstore.NewNode("drop")
	s := graph.NewEntitySet(a, b)

	filtered := s.Filter(func(e graph.Entity) bool { return e.Name() == "keep" })
	if filtered.Len() != 1 || !filtered.Contains(a) {
		t.Errorf("Filter(name==keep): expected [a], actual members %v", filtered.Entities())
	}
}

func TestEntitySetValueTruthyAndCopy(t *testing.T) {
	empty := &graph.EntitySetValue{V: graph.NewEntitySet()}
	if empty.Truthy() {
		t.Errorf("EntitySetValue{}.Truthy(): expected false for an empty set")
	}

	a := memstore.NewNode("a")
	withMember := &graph.EntitySetValue{V: graph.NewEntitySet(a)}
	if !withMember.Truthy() {
		t.Errorf("EntitySetValue with a member.Truthy(): expected true")
	}

	cp := withMember.Copy().(*graph.EntitySetValue)
	if cp.V == withMember.V {
		t.Errorf("EntitySetValue.Copy(): expected a new *EntitySet wrapper, got the same pointer")
	}
	if cp.V.Len() != 1 || !cp.V.Contains(a) {
		t.Errorf("EntitySetValue.Copy(): expected the copy to contain the same members")
	}
}

func TestValuesTruthyDelegatesToGraphVariants(t *testing.T) {
	if values.Truthy(graph.EntityRefValue{}) {
		t.Errorf("values.Truthy(EntityRefValue{}): expected false")
	}
	a := memstore.NewNode("a")
	if !values.Truthy(graph.EntityRefValue{V: a}) {
		t.Errorf("values.Truthy(EntityRefValue{V: a}): expected true")
	}
}
