package interp

import (
	"github.com/wgscript/wgscript/ast"
	"github.com/wgscript/wgscript/graph"
	"github.com/wgscript/wgscript/place"
	"github.com/wgscript/wgscript/values"
)

// entityRef wraps a graph.Entity as a values.Value, or Null for a nil
// entity (spec §3's EntityRef).
func entityRef(e graph.Entity) values.Value {
	if e == nil {
		return values.Null{}
	}
	return graph.EntityRefValue{V: e}
}

// asEntity unwraps a values.Value back into the graph.Entity it names, or
// nil if v isn't an entity reference.
func (ip *Interpreter) asEntity(v values.Value) graph.Entity {
	switch t := v.(type) {
	case graph.EntityRefValue:
		return t.V
	default:
		return nil
	}
}

func asNode(e graph.Entity) graph.Node {
	n, _ := e.(graph.Node)
	return n
}

// rejectWrongCtx raises ForbiddenContext if got is a spawn_ctx/filter_ctx
// node of the wrong kind for this position (SPEC_FULL.md §4 "filter_ctx
// position errors", grounded on interp.py's "Filtering not allowed here"
// / "Assigning values not allowed here" rt_errors). Returns true if got
// was rejected.
func (ip *Interpreter) rejectWrongCtx(node *ast.Node, got *ast.Node, wantFilter bool) bool {
	if got == nil {
		return false
	}
	if wantFilter && got.Name == ast.NSpawnCtx {
		ip.fail(ErrForbiddenContext, node, "assigning values not allowed here")
		return true
	}
	if !wantFilter && got.Name == ast.NFilterCtx {
		ip.fail(ErrForbiddenContext, node, "filtering not allowed here")
		return true
	}
	return false
}

// RunNodeEdgeRef dispatches a node_edge_ref atom base (spec §4.4): the
// read-mode node/edge/walker/graph reference forms.
func (ip *Interpreter) RunNodeEdgeRef(node *ast.Node) *place.Place {
	if node == nil || len(node.Kids) == 0 {
		return place.Of(values.Null{})
	}
	ref := node.Kid(0)
	switch ref.Name {
	case ast.NEdgeTo, ast.NEdgeFrom, ast.NEdgeAny:
		return ip.RunEdgeRef(ref)
	case ast.NNodeRef:
		return ip.RunNodeRef(ref)
	case ast.NWalkerRef:
		return ip.RunWalkerRef(ref)
	case ast.NGraphRef:
		return ip.RunGraphRef(ref)
	default:
		ip.fail(ErrUnsupportedOperation, ref, "unrecognized node_edge_ref form %q", ref.Name)
		return place.Of(values.Null{})
	}
}

// viableNodes returns the candidate set a bare node_ref traverses: the
// current node plus every node directly attached to it. The original
// source's viable_nodes() draws from a whole-graph traversal scope this
// module has no equivalent access point for; restricting
// to the local neighborhood keeps node_ref useful without requiring a
// store-wide entity listing interface.
func (ip *Interpreter) viableNodes() []graph.Entity {
	if ip.Here == nil {
		return nil
	}
	here, ok := ip.Here.(graph.Node)
	if !ok {
		return nil
	}
	out := []graph.Entity{here}
	for _, e := range here.AttachedEdges(nil) {
		if e.ToNode() != nil && e.ToNode() != here {
			out = append(out, e.ToNode())
		}
		if e.FromNode() != nil && e.FromNode() != here {
			out = append(out, e.FromNode())
		}
	}
	return out
}

// RunNodeRef implements a bare `node::Name` reference (spec §4.4): the
// viable node set optionally filtered by architype name and filter_ctx.
func (ip *Interpreter) RunNodeRef(node *ast.Node) *place.Place {
	set := graph.NewEntitySet(ip.viableNodes()...)
	var name string
	if n := node.Kid(0); n != nil {
		name = n.TokenText()
	}
	fc := node.Kid(1)
	if ip.rejectWrongCtx(node, fc, true) {
		return place.Of(&graph.EntitySetValue{V: graph.NewEntitySet()})
	}
	set = set.Filter(func(e graph.Entity) bool {
		if name != "" && e.Name() != name {
			return false
		}
		if fc != nil && fc.Name == ast.NFilterCtx {
			return ip.RunFilterCtx(fc, e)
		}
		return true
	})
	return place.Of(&graph.EntitySetValue{V: set})
}

// RunEdgeRef implements `-->`/`<--`/`<-->` read-mode traversal from the
// current node (spec §4.4): the resulting value is the set of nodes
// reached across matching edges, optionally filtered by architype name
// and filter_ctx (applied against each crossed edge's context).
func (ip *Interpreter) RunEdgeRef(node *ast.Node) *place.Place {
	here, ok := ip.Here.(graph.Node)
	if !ok {
		ip.fail(ErrForbiddenContext, node, "edge reference used outside a node context")
		return place.Of(values.Null{})
	}
	var edges []graph.Edge
	switch node.Name {
	case ast.NEdgeTo:
		edges = append(edges, here.OutboundEdges()...)
		edges = append(edges, here.BidirectedEdges()...)
	case ast.NEdgeFrom:
		edges = append(edges, here.InboundEdges()...)
		edges = append(edges, here.BidirectedEdges()...)
	default:
		edges = append(edges, here.OutboundEdges()...)
		edges = append(edges, here.InboundEdges()...)
		edges = append(edges, here.BidirectedEdges()...)
	}

	var name string
	if n := node.Kid(0); n != nil {
		name = n.TokenText()
	}
	fc := node.Kid(1)
	if ip.rejectWrongCtx(node, fc, true) {
		return place.Of(&graph.EntitySetValue{V: graph.NewEntitySet()})
	}
	set := graph.NewEntitySet()
	for _, e := range edges {
		if name != "" && e.Name() != name {
			continue
		}
		if fc != nil && fc.Name == ast.NFilterCtx {
			if !ip.RunFilterCtx(fc, e) {
				continue
			}
		}
		other := e.ToNode()
		if other == here {
			other = e.FromNode()
		}
		if other != nil {
			set.Add(other)
		}
	}
	return place.Of(&graph.EntitySetValue{V: set})
}

// RunWalkerRef implements a bare `walker::Name` reference by spawning a
// fresh walker of that architype at the current location (spec §4.6).
func (ip *Interpreter) RunWalkerRef(node *ast.Node) *place.Place {
	if ip.Machine.Scheduler == nil {
		ip.fail(ErrForbiddenContext, node, "no walker scheduler configured")
		return place.Of(values.Null{})
	}
	name := node.Kid(0).TokenText()
	w, err := ip.Machine.Scheduler.SpawnWalker(name, ip.Here)
	if err != nil {
		ip.fail(ErrArchetypeMismatch, node, "%s", err)
		return place.Of(values.Null{})
	}
	return place.Of(entityRef(w))
}

// RunGraphRef implements a bare `graph::Name` reference by materializing
// the named subgraph's root node (spec §4.6).
func (ip *Interpreter) RunGraphRef(node *ast.Node) *place.Place {
	if ip.Machine.Registry == nil {
		ip.fail(ErrForbiddenContext, node, "no archetype registry configured")
		return place.Of(values.Null{})
	}
	name := node.Kid(0).TokenText()
	root, err := ip.Machine.Registry.RunArchitype(name, graph.JTypeGraph, ip.Here)
	if err != nil {
		ip.fail(ErrArchetypeMismatch, node, "%s", err)
		return place.Of(values.Null{})
	}
	e, ok := root.(graph.Entity)
	if !ok {
		ip.fail(ErrArchetypeMismatch, node, "graph architype %q did not return an entity", name)
		return place.Of(values.Null{})
	}
	return place.Of(entityRef(e))
}

// RunConnect implements the connect operator `a ++> b` / `a <++ b` /
// `a <++> b`, with an optional leading `NOT` (spec §4.3, §4.4, §8's
// connect-then-disconnect property): a leading NOT detaches every edge of
// the given kind between every pair in A×B instead of attaching a fresh
// one. Both operands are normalized to entity sets (wrapping a lone
// node), and the left operand's Place is returned so connect chains left
// to right.
func (ip *Interpreter) RunConnect(node *ast.Node) *place.Place {
	kids := node.Kids
	negate := false
	if len(kids) > 0 && kids[0].Name == ast.TNot {
		negate = true
		kids = kids[1:]
	}

	leftPlace := ip.RunExpression(kids[0])
	spec := kids[1]
	rightVal := ip.RunExpression(kids[2]).ReadBack()

	lefts := ip.entitiesOf(leftPlace.ReadBack())
	rights := ip.entitiesOf(rightVal)

	var edgeName string
	if n := spec.Kid(0); n != nil {
		edgeName = n.TokenText()
	}

	for _, l := range lefts {
		ln := asNode(l)
		if ln == nil {
			ip.fail(ErrTypeError, node, "connect operand is not a node")
			continue
		}
		for _, r := range rights {
			rn := asNode(r)
			if rn == nil {
				ip.fail(ErrTypeError, node, "connect operand is not a node")
				continue
			}
			if negate {
				ip.disconnectOne(node, ln, rn, edgeName)
				continue
			}
			ip.connectOne(node, spec, ln, rn, edgeName)
		}
	}
	return leftPlace
}

// disconnectOne removes every edge named edgeName (or, if edgeName is
// empty, every edge) between ln and rn (spec §4.3's NOT-connect form).
func (ip *Interpreter) disconnectOne(node *ast.Node, ln, rn graph.Node, edgeName string) {
	var toRemove []graph.Edge
	for _, e := range ln.AttachedEdges(rn) {
		if edgeName == "" || e.Name() == edgeName {
			toRemove = append(toRemove, e)
		}
	}
	if edgeName != "" && len(toRemove) == 0 {
		// A named-edge detach with nothing matching removes nothing; an
		// empty slice would otherwise read as memstore's "detach every
		// edge" sentinel.
		return
	}
	if err := ln.DetachEdges(rn, toRemove); err != nil {
		ip.fail(ErrUnsupportedOperation, node, "%s", err)
	}
}

func (ip *Interpreter) connectOne(node, spec *ast.Node, ln, rn graph.Node, edgeName string) {
	if ip.Machine.Registry == nil {
		ip.fail(ErrForbiddenContext, node, "no archetype registry configured for connect")
		return
	}
	raw, err := ip.Machine.Registry.RunArchitype(edgeName, graph.JTypeEdge, ln)
	if err != nil {
		ip.fail(ErrArchetypeMismatch, node, "%s", err)
		return
	}
	e, ok := raw.(graph.Edge)
	if !ok {
		ip.fail(ErrArchetypeMismatch, node, "edge architype %q did not return an edge", edgeName)
		return
	}
	if ctx := spec.Kid(1); ip.rejectWrongCtx(node, ctx, false) {
		return
	} else if ctx != nil && ctx.Name == ast.NSpawnCtx {
		ip.RunSpawnCtx(ctx, e)
	}
	switch spec.Name {
	case ast.NEdgeTo:
		ln.AttachOutbound(rn, e)
	case ast.NEdgeFrom:
		ln.AttachInbound(rn, e)
	default:
		ln.AttachBidirected(rn, e)
	}
}

// entitiesOf flattens a single EntityRef or an EntitySet into a plain
// slice, the uniform shape RunConnect and spawn attach need.
func (ip *Interpreter) entitiesOf(v values.Value) []graph.Entity {
	switch t := v.(type) {
	case graph.EntityRefValue:
		if t.V == nil {
			return nil
		}
		return []graph.Entity{t.V}
	case *graph.EntitySetValue:
		return t.V.Entities()
	default:
		return nil
	}
}

// RunSpawn implements `spawn [location] spawn_object` (spec §4.6). When
// the location expression evaluates to an entity set, the spawn is
// broadcast element-wise and the expression returns a list of per-element
// results, per spec §4.6's last paragraph.
func (ip *Interpreter) RunSpawn(node *ast.Node) *place.Place {
	var location graph.Entity = ip.Here
	obj := node.Kid(0)
	if len(node.Kids) > 1 {
		locVal := ip.RunExpression(node.Kid(0)).ReadBack()
		obj = node.Kid(1)
		if set, ok := locVal.(*graph.EntitySetValue); ok {
			out := make([]values.Value, 0, set.V.Len())
			for _, e := range set.V.Entities() {
				out = append(out, ip.RunSpawnObject(obj, e).ReadBack())
			}
			return place.Of(&values.List{V: out})
		}
		location = ip.asEntity(locVal)
	}
	return ip.RunSpawnObject(obj, location)
}

// RunSpawnObject dispatches node_spawn/walker_spawn/graph_spawn.
func (ip *Interpreter) RunSpawnObject(node *ast.Node, location graph.Entity) *place.Place {
	child := node.Kid(0)
	switch child.Name {
	case ast.NNodeSpawn:
		return ip.RunNodeSpawn(child, location)
	case ast.NWalkerSpawn:
		return ip.RunWalkerSpawn(child, location)
	case ast.NGraphSpawn:
		return ip.RunGraphSpawn(child, location)
	default:
		ip.fail(ErrUnsupportedOperation, node, "unrecognized spawn_object form %q", child.Name)
		return place.Of(values.Null{})
	}
}

// RunNodeSpawn implements `spawn --> node::Name(ctx)` (spec §4.6): builds
// the new node from the registry, applies its spawn_ctx, and — if an
// edge_ref prefix is present — attaches it to location across a freshly
// spawned edge in the given direction.
func (ip *Interpreter) RunNodeSpawn(node *ast.Node, location graph.Entity) *place.Place {
	var edgeSpec *ast.Node
	nodeRef := node.Kid(0)
	idx := 1
	if nodeRef.Name != ast.NNodeRef {
		edgeSpec = nodeRef
		nodeRef = node.Kid(1)
		idx = 2
	}

	name := nodeRef.Kid(0).TokenText()
	raw, err := ip.Machine.Registry.RunArchitype(name, graph.JTypeNode, location)
	if err != nil {
		ip.fail(ErrArchetypeMismatch, node, "%s", err)
		return place.Of(values.Null{})
	}
	newNode, ok := raw.(graph.Node)
	if !ok {
		ip.fail(ErrArchetypeMismatch, node, "node architype %q did not return a node", name)
		return place.Of(values.Null{})
	}

	if ctx := node.Kid(idx); ip.rejectWrongCtx(node, ctx, false) {
		return place.Of(entityRef(newNode))
	} else if ctx != nil && ctx.Name == ast.NSpawnCtx {
		ip.RunSpawnCtx(ctx, newNode)
	}

	if edgeSpec != nil {
		locNode := asNode(location)
		if locNode == nil {
			ip.fail(ErrTypeError, node, "spawn location is not a node")
			return place.Of(entityRef(newNode))
		}
		var edgeName string
		if n := edgeSpec.Kid(0); n != nil {
			edgeName = n.TokenText()
		}
		rawEdge, err := ip.Machine.Registry.RunArchitype(edgeName, graph.JTypeEdge, locNode)
		if err != nil {
			ip.fail(ErrArchetypeMismatch, node, "%s", err)
			return place.Of(entityRef(newNode))
		}
		e, ok := rawEdge.(graph.Edge)
		if !ok {
			ip.fail(ErrArchetypeMismatch, node, "edge architype %q did not return an edge", edgeName)
			return place.Of(entityRef(newNode))
		}
		if ec := edgeSpec.Kid(1); ip.rejectWrongCtx(node, ec, false) {
			return place.Of(entityRef(newNode))
		} else if ec != nil && ec.Name == ast.NSpawnCtx {
			ip.RunSpawnCtx(ec, e)
		}
		switch edgeSpec.Name {
		case ast.NEdgeTo:
			locNode.AttachOutbound(newNode, e)
		case ast.NEdgeFrom:
			locNode.AttachInbound(newNode, e)
		default:
			locNode.AttachBidirected(newNode, e)
		}
	}
	return place.Of(entityRef(newNode))
}

// RunWalkerSpawn implements `spawn walker::Name(ctx)` (spec §4.6): the
// Scheduler creates the walker, which is then primed at location, given
// its spawn_ctx, run to completion, its reports folded into the caller's
// report buffer, and finally destroyed. The expression's own result is
// the walker's anchor value, not the walker itself — callers that want
// the walker handle use a plain `walker::Name` node_edge_ref instead.
func (ip *Interpreter) RunWalkerSpawn(node *ast.Node, location graph.Entity) *place.Place {
	if ip.Machine.Scheduler == nil {
		ip.fail(ErrForbiddenContext, node, "no walker scheduler configured")
		return place.Of(values.Null{})
	}
	name := node.Kid(0).TokenText()
	w, err := ip.Machine.Scheduler.SpawnWalker(name, location)
	if err != nil {
		ip.fail(ErrArchetypeMismatch, node, "%s", err)
		return place.Of(values.Null{})
	}
	if err := w.Prime(location); err != nil {
		ip.fail(ErrUnsupportedOperation, node, "could not prime walker %q: %s", name, err)
		return place.Of(values.Null{})
	}
	if ctx := node.Kid(1); ip.rejectWrongCtx(node, ctx, false) {
		return place.Of(values.Null{})
	} else if ctx != nil && ctx.Name == ast.NSpawnCtx {
		ip.RunSpawnCtx(ctx, w)
	}
	if err := w.Run(); err != nil {
		ip.fail(ErrUnsupportedOperation, node, "walker %q run failed: %s", name, err)
	}
	ip.Report = append(ip.Report, w.Report()...)
	anchor, ok := w.AnchorValue()
	if !ok || anchor == nil {
		anchor = values.Null{}
	}
	if err := w.Destroy(); err != nil {
		ip.warn(node, "walker %q destroy failed: %s", name, err)
	}
	return place.Of(anchor)
}

// RunGraphSpawn implements `spawn graph::Name` (spec §4.6).
func (ip *Interpreter) RunGraphSpawn(node *ast.Node, location graph.Entity) *place.Place {
	name := node.Kid(0).TokenText()
	raw, err := ip.Machine.Registry.RunArchitype(name, graph.JTypeGraph, location)
	if err != nil {
		ip.fail(ErrArchetypeMismatch, node, "%s", err)
		return place.Of(values.Null{})
	}
	e, ok := raw.(graph.Entity)
	if !ok {
		ip.fail(ErrArchetypeMismatch, node, "graph architype %q did not return an entity", name)
		return place.Of(values.Null{})
	}
	return place.Of(entityRef(e))
}

// RunSpawnCtx applies a spawn_ctx's spawn_assign children to target's
// context (spec §4.6). A node/edge target may only be assigned an
// attribute it already declared via `has`; walkers are exempt since
// they're free to pick up arbitrary context at spawn time.
func (ip *Interpreter) RunSpawnCtx(node *ast.Node, target graph.Entity) {
	for _, sa := range node.Kids {
		name := sa.Kid(0).TokenText()
		val := ip.RunExpression(sa.Kid(1)).ReadBack()
		if _, exists := target.Context().Get(name); !exists && target.JType() != graph.JTypeWalker {
			ip.fail(ErrForbiddenContext, sa, "%q not present in object", name)
			continue
		}
		target.Context().Set(name, val)
	}
}

// RunFilterCtx evaluates a filter_ctx's filter_compare children against
// candidate's context, AND-ing every clause (spec §4.4).
func (ip *Interpreter) RunFilterCtx(node *ast.Node, candidate graph.Entity) bool {
	for _, fc := range node.Kids {
		if !ip.runFilterCompare(fc, candidate) {
			return false
		}
	}
	return true
}

func (ip *Interpreter) runFilterCompare(node *ast.Node, candidate graph.Entity) bool {
	name := node.Kid(0).TokenText()
	op := node.Kid(1).TokenText()
	want := ip.RunExpression(node.Kid(2)).ReadBack()
	have, ok := candidate.Context().Get(name)
	if !ok {
		have = values.Null{}
	}
	return ip.compareOp(node, op, have, want)
}
