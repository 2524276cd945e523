// Package memstore is a reference, in-memory implementation of the
// graph.Entity/Node/Edge/Walker interfaces (spec.md §3, §6). It exists so
// the interpreter core can be exercised end-to-end without a real host
// graph store, the way mgmt's engine/local backs its engine interfaces
// for local testing. Grounded on pgraph/pgraph.go's adjacency-map idiom
// (Graph{Adjacency map[*Vertex]map[*Vertex]*Edge}), adapted here from an
// undirected resource-dependency map to directed/bidirected typed edges
// kept as slices on each node (inbound/outbound/bidirected), matching the
// external interface list in spec §6.
package memstore

import (
	"sort"

	"github.com/google/uuid"
	"github.com/sanity-io/litter"

	"github.com/wgscript/wgscript/graph"
	"github.com/wgscript/wgscript/values"
)

// AbilityTable is the reference graph.AbilityTable: an insertion-ordered
// lookup by name.
type AbilityTable struct {
	order []string
	m     map[string]*graph.Ability
}

// NewAbilityTable returns an empty AbilityTable.
func NewAbilityTable() *AbilityTable {
	return &AbilityTable{m: make(map[string]*graph.Ability)}
}

// GetByName implements graph.AbilityTable.
func (t *AbilityTable) GetByName(name string) (*graph.Ability, bool) {
	a, ok := t.m[name]
	return a, ok
}

// Add implements graph.AbilityTable.
func (t *AbilityTable) Add(a *graph.Ability) {
	if _, ok := t.m[a.Name]; !ok {
		t.order = append(t.order, a.Name)
	}
	t.m[a.Name] = a
}

// All implements graph.AbilityTable.
func (t *AbilityTable) All() []*graph.Ability {
	out := make([]*graph.Ability, 0, len(t.order))
	for _, n := range t.order {
		out = append(out, t.m[n])
	}
	return out
}

// entity is the common fields behind Node, Edge, and Walker.
type entity struct {
	jid      string
	name     string
	jtype    graph.JType
	context  *values.OrderedMap
	activity *AbilityTable
	entry    *AbilityTable
	exit     *AbilityTable
	anchor   string
}

func newEntity(name string, jtype graph.JType) entity {
	return entity{
		jid:      uuid.NewString(),
		name:     name,
		jtype:    jtype,
		context:  values.NewOrderedMap(),
		activity: NewAbilityTable(),
		entry:    NewAbilityTable(),
		exit:     NewAbilityTable(),
	}
}

// JID implements graph.Entity.
func (e *entity) JID() string { return e.jid }

// Name implements graph.Entity.
func (e *entity) Name() string { return e.name }

// JType implements graph.Entity.
func (e *entity) JType() graph.JType { return e.jtype }

// Context implements graph.Entity.
func (e *entity) Context() *values.OrderedMap { return e.context }

// ActivityActions implements graph.Entity.
func (e *entity) ActivityActions() graph.AbilityTable { return e.activity }

// EntryActions implements graph.Entity.
func (e *entity) EntryActions() graph.AbilityTable { return e.entry }

// ExitActions implements graph.Entity.
func (e *entity) ExitActions() graph.AbilityTable { return e.exit }

// Anchor implements graph.Entity.
func (e *entity) Anchor() string { return e.anchor }

// SetAnchor implements graph.Entity. Anchors are immutable once set (spec
// §3 invariant 4).
func (e *entity) SetAnchor(name string) bool {
	if e.anchor != "" {
		return false
	}
	e.anchor = name
	return true
}

// Serialize implements graph.Entity.
func (e *entity) Serialize(detailed bool) (map[string]interface{}, error) {
	private := map[string]bool{}
	if pv, ok := e.context.Get(graph.PrivateAttr); ok {
		if lst, ok := pv.(*values.List); ok {
			for _, v := range lst.V {
				if s, ok := v.(values.Str); ok {
					private[s.V] = true
				}
			}
		}
	}
	ctx := map[string]interface{}{}
	for _, k := range e.context.Keys() {
		if k == graph.PrivateAttr {
			continue
		}
		if !detailed && private[k] {
			continue
		}
		v, _ := e.context.Get(k)
		ctx[k] = jsonize(v)
	}
	doc := map[string]interface{}{
		"jid":    e.jid,
		"name":   e.name,
		"j_type": e.jtype.String(),
		"context": ctx,
	}
	if detailed {
		doc["_debug"] = litter.Sdump(ctx)
	}
	return doc, nil
}

func jsonize(v values.Value) interface{} {
	switch t := v.(type) {
	case nil:
		return nil
	case values.Null:
		return nil
	case values.Int:
		return t.V
	case values.Float:
		return t.V
	case values.Bool:
		return t.V
	case values.Str:
		return t.V
	case *values.List:
		out := make([]interface{}, len(t.V))
		for i, e := range t.V {
			out[i] = jsonize(e)
		}
		return out
	case *values.Map:
		out := map[string]interface{}{}
		for _, k := range t.V.Keys() {
			vv, _ := t.V.Get(k)
			out[k] = jsonize(vv)
		}
		return out
	case graph.EntityRefValue:
		if t.V == nil {
			return nil
		}
		return t.V.JID()
	case *graph.EntitySetValue:
		out := make([]string, 0, t.V.Len())
		for _, e := range t.V.Entities() {
			out = append(out, e.JID())
		}
		return out
	default:
		return nil
	}
}

// Node is the reference graph.Node implementation.
type Node struct {
	entity
	out []*Edge
	in  []*Edge
	bi  []*Edge
}

// NewNode returns a fresh node of the given architype name.
func NewNode(name string) *Node {
	return &Node{entity: newEntity(name, graph.JTypeNode)}
}

// OutboundEdges implements graph.Node.
func (n *Node) OutboundEdges() []graph.Edge { return edgeSlice(n.out) }

// InboundEdges implements graph.Node.
func (n *Node) InboundEdges() []graph.Edge { return edgeSlice(n.in) }

// BidirectedEdges implements graph.Node.
func (n *Node) BidirectedEdges() []graph.Edge { return edgeSlice(n.bi) }

func edgeSlice(es []*Edge) []graph.Edge {
	out := make([]graph.Edge, len(es))
	for i, e := range es {
		out[i] = e
	}
	return out
}

// AttachedEdges implements graph.Node: every edge incident to n, optionally
// restricted to those also touching other.
func (n *Node) AttachedEdges(other graph.Node) []graph.Edge {
	all := append([]*Edge{}, n.out...)
	all = append(all, n.in...)
	all = append(all, n.bi...)
	if other == nil {
		return edgeSlice(dedupEdges(all))
	}
	out := make([]*Edge, 0, len(all))
	for _, e := range all {
		if e.from == other || e.to == other {
			out = append(out, e)
		}
	}
	return edgeSlice(dedupEdges(out))
}

func dedupEdges(es []*Edge) []*Edge {
	seen := map[*Edge]bool{}
	out := make([]*Edge, 0, len(es))
	for _, e := range es {
		if seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}

func asNode(n graph.Node) *Node {
	if mn, ok := n.(*Node); ok {
		return mn
	}
	return nil
}

func asEdge(e graph.Edge) *Edge {
	if me, ok := e.(*Edge); ok {
		return me
	}
	return nil
}

// AttachOutbound implements graph.Node: attaches edge from n to other.
func (n *Node) AttachOutbound(other graph.Node, e graph.Edge) error {
	on, me := asNode(other), asEdge(e)
	me.from, me.to = n, on
	n.out = append(n.out, me)
	on.in = append(on.in, me)
	return nil
}

// AttachInbound implements graph.Node: attaches edge from other to n.
func (n *Node) AttachInbound(other graph.Node, e graph.Edge) error {
	on, me := asNode(other), asEdge(e)
	me.from, me.to = on, n
	on.out = append(on.out, me)
	n.in = append(n.in, me)
	return nil
}

// AttachBidirected implements graph.Node.
func (n *Node) AttachBidirected(other graph.Node, e graph.Edge) error {
	on, me := asNode(other), asEdge(e)
	me.from, me.to = n, on
	me.bidirected = true
	n.bi = append(n.bi, me)
	on.bi = append(on.bi, me)
	return nil
}

// DetachEdges implements graph.Node: removes the given edges (or, if
// edges is empty, every edge) between n and other.
func (n *Node) DetachEdges(other graph.Node, edges []graph.Edge) error {
	on := asNode(other)
	match := map[*Edge]bool{}
	for _, e := range edges {
		if me := asEdge(e); me != nil {
			match[me] = true
		}
	}
	keep := func(es []*Edge, partner *Node) []*Edge {
		out := es[:0:0]
		for _, e := range es {
			touches := (e.from == partner || e.to == partner)
			if touches && (len(match) == 0 || match[e]) {
				continue
			}
			out = append(out, e)
		}
		return out
	}
	n.out = keep(n.out, on)
	n.in = keep(n.in, on)
	n.bi = keep(n.bi, on)
	on.out = keep(on.out, n)
	on.in = keep(on.in, n)
	on.bi = keep(on.bi, n)
	return nil
}

// Edge is the reference graph.Edge implementation.
type Edge struct {
	entity
	from, to   *Node
	bidirected bool
}

// NewEdge returns a fresh, unattached edge of the given architype name.
func NewEdge(name string) *Edge {
	if name == "" {
		name = "generic"
	}
	return &Edge{entity: newEntity(name, graph.JTypeEdge)}
}

// ToNode implements graph.Edge.
func (e *Edge) ToNode() graph.Node { return e.to }

// FromNode implements graph.Edge.
func (e *Edge) FromNode() graph.Node { return e.from }

// Bidirected implements graph.Edge.
func (e *Edge) Bidirected() bool { return e.bidirected }

// Walker is the reference graph.Walker implementation. Priming, running,
// and destroying a walker requires driving the interpreter, which this
// package deliberately does not depend on (graph must not import interp,
// since interp imports graph) — RunFunc is supplied by whatever wires the
// Scheduler together (interp's tests do this with the fakeScheduler in
// interp/graphref_test.go).
type Walker struct {
	entity
	location graph.Entity
	report   []values.Value

	// RunFunc executes the walker's stored body against w.location. Left
	// nil, Run is a no-op.
	RunFunc func(w *Walker) error
}

// NewWalker returns a fresh walker of the given architype name.
func NewWalker(name string) *Walker {
	return &Walker{entity: newEntity(name, graph.JTypeWalker)}
}

// Location returns the entity the walker was last primed at.
func (w *Walker) Location() graph.Entity { return w.location }

// AppendReport appends a value to the walker's report buffer.
func (w *Walker) AppendReport(v values.Value) { w.report = append(w.report, v) }

// Prime implements graph.Walker.
func (w *Walker) Prime(location graph.Entity) error {
	w.location = location
	return nil
}

// Run implements graph.Walker.
func (w *Walker) Run() error {
	if w.RunFunc == nil {
		return nil
	}
	return w.RunFunc(w)
}

// Report implements graph.Walker.
func (w *Walker) Report() []values.Value { return append([]values.Value{}, w.report...) }

// AnchorValue implements graph.Walker: returns the value of the walker's
// anchor attribute, if one was declared and is present in context.
func (w *Walker) AnchorValue() (values.Value, bool) {
	if w.anchor == "" {
		return values.Null{}, false
	}
	return w.context.Get(w.anchor)
}

// Destroy implements graph.Walker.
func (w *Walker) Destroy() error { return nil }

// SortedByJID returns entities sorted by jid, useful for deterministic
// test output (mirrors pgraph.GetVerticesSorted's "sort by String()" idiom).
func SortedByJID(es []graph.Entity) []graph.Entity {
	out := append([]graph.Entity{}, es...)
	sort.Slice(out, func(i, j int) bool { return out[i].JID() < out[j].JID() })
	return out
}
