package interp

import (
	"fmt"
	"testing"

	"github.com/wgscript/wgscript/ast"
	"github.com/wgscript/wgscript/graph"
	"github.com/wgscript/wgscript/graph/memstore"
	"github.com/wgscript/wgscript/values"
)

// fakeRegistry is a minimal runtime.ArchetypeRegistry backed by memstore,
// standing in for a real host graph store the way the teacher's test
// doubles stand in for its engine/resources collaborators. declare lists
// context keys every fresh node starts with (as Null), standing in for an
// architype's has-declarations.
type fakeRegistry struct {
	declare []string
}

func (f fakeRegistry) RunArchitype(name string, kind graph.JType, caller graph.Entity) (interface{}, error) {
	switch kind {
	case graph.JTypeNode:
		n := memstore.NewNode(name)
		for _, attr := range f.declare {
			n.Context().Set(attr, values.Null{})
		}
		return n, nil
	case graph.JTypeEdge:
		return memstore.NewEdge(name), nil
	case graph.JTypeGraph:
		return memstore.NewNode(name), nil
	default:
		return nil, fmt.Errorf("fakeRegistry: unsupported kind %v", kind)
	}
}

// fakeScheduler is a minimal runtime.Scheduler backed by memstore.Walker.
type fakeScheduler struct {
	runFunc func(w *memstore.Walker) error
}

func (f fakeScheduler) SpawnWalker(name string, caller graph.Entity) (graph.Walker, error) {
	w := memstore.NewWalker(name)
	w.RunFunc = f.runFunc
	return w, nil
}

func newWiredInterp() *Interpreter {
	ip, _ := newTestInterp()
	ip.Machine.Registry = fakeRegistry{}
	ip.Machine.Scheduler = fakeScheduler{}
	return ip
}

func nodeRefNode(name string, filterCtx *ast.Node) *ast.Node {
	kids := []*ast.Node{ast.Leaf(ast.TName, name)}
	if filterCtx != nil {
		kids = append(kids, filterCtx)
	}
	return ast.New(ast.NNodeRef, kids...)
}

func spawnCtxNode(assigns ...*ast.Node) *ast.Node {
	return ast.New(ast.NSpawnCtx, assigns...)
}

func spawnAssign(name string, v values.Value) *ast.Node {
	return ast.New(ast.NSpawnAssign, ast.Leaf(ast.TName, name), litExpr(v))
}

func TestRunNodeSpawnAppliesSpawnCtx(t *testing.T) {
	ip := newWiredInterp()
	ip.Machine.Registry = fakeRegistry{declare: []string{"color"}}
	nodeSpawn := ast.New(ast.NNodeSpawn, nodeRefNode("widget", nil), spawnCtxNode(spawnAssign("color", values.Str{V: "red"})))

	p := ip.RunNodeSpawn(nodeSpawn, nil)
	ref, ok := p.ReadBack().(graph.EntityRefValue)
	if !ok {
		t.Fatalf("spawn node::widget(color=\"red\"): expected an EntityRefValue, actual %T", p.ReadBack())
	}
	got, _ := ref.V.Context().Get("color")
	if got != (values.Str{V: "red"}) {
		t.Errorf("spawn_ctx color=\"red\": expected context[color]==red, actual %v", got)
	}
}

func TestRunNodeSpawnRejectsFilterCtxInSpawnPosition(t *testing.T) {
	ip := newWiredInterp()
	filterCtx := ast.New(ast.NFilterCtx)
	nodeSpawn := ast.New(ast.NNodeSpawn, nodeRefNode("widget", nil), filterCtx)

	errs := ip.Machine.Errors
	ip.RunNodeSpawn(nodeSpawn, nil)
	if errs.Errors() == nil {
		t.Errorf("spawn node::widget with a filter_ctx in spawn position: expected a ForbiddenContext error")
	}
}

func TestRunNodeSpawnWithEdgeAttachesToLocation(t *testing.T) {
	ip := newWiredInterp()
	loc := memstore.NewNode("origin")
	ip.Here = loc

	edgeSpec := ast.New(ast.NEdgeTo, ast.Leaf(ast.TName, "likes"))
	nodeSpawn := ast.New(ast.NNodeSpawn, edgeSpec, nodeRefNode("widget", nil))

	p := ip.RunNodeSpawn(nodeSpawn, loc)
	ref := p.ReadBack().(graph.EntityRefValue)
	newNode := ref.V.(graph.Node)

	found := false
	for _, e := range loc.OutboundEdges() {
		if e.ToNode() == newNode {
			found = true
		}
	}
	if !found {
		t.Errorf("spawn --> node::widget: expected a fresh outbound edge from origin to the new node")
	}
}

func TestRunWalkerSpawnFullLifecycle(t *testing.T) {
	var ranAt graph.Entity
	ip := newTestInterp2(func(w *memstore.Walker) error {
		ranAt = w.Location()
		w.AppendReport(values.Str{V: "done"})
		return nil
	})
	loc := memstore.NewNode("origin")

	walkerSpawn := ast.New(ast.NWalkerSpawn, ast.Leaf(ast.TName, "visitor"), spawnCtxNode(spawnAssign("greeting", values.Str{V: "hi"})))
	p := ip.RunWalkerSpawn(walkerSpawn, loc)

	if ranAt != loc {
		t.Errorf("walker spawn: expected Prime/Run to see the spawn location, actual %v", ranAt)
	}
	if len(ip.Report) != 1 || ip.Report[0] != (values.Str{V: "done"}) {
		t.Errorf("walker spawn: expected the walker's report folded into the caller's, actual %v", ip.Report)
	}
	// AnchorValue is false (no anchor declared), so the expression result
	// should be Null, not the walker itself.
	if p.ReadBack().Kind() != values.KindNull {
		t.Errorf("walker spawn with no declared anchor: expected a Null result, actual %v", p.ReadBack())
	}
}

// newTestInterp2 is a small variant of newTestInterp wired with a fake
// Scheduler whose spawned walkers run runFunc, for exercising
// RunWalkerSpawn's full prime/run/report/anchor/destroy lifecycle.
func newTestInterp2(runFunc func(w *memstore.Walker) error) *Interpreter {
	ip, _ := newTestInterp()
	ip.Machine.Scheduler = fakeScheduler{runFunc: runFunc}
	return ip
}

func TestRunConnectAttachesEdge(t *testing.T) {
	ip := newWiredInterp()
	a := memstore.NewNode("a")
	b := memstore.NewNode("b")
	ip.Scope.Vars["a"] = graph.EntityRefValue{V: a}
	ip.Scope.Vars["b"] = graph.EntityRefValue{V: b}

	connect := ast.New(ast.NConnect, nameExpr("a"), ast.New(ast.NEdgeTo, ast.Leaf(ast.TName, "likes")), nameExpr("b"))
	ip.RunConnect(connect)

	if len(a.OutboundEdges()) != 1 || a.OutboundEdges()[0].ToNode() != b {
		t.Errorf("a ++> b: expected exactly one outbound edge from a to b")
	}
}

func TestRunConnectNegatedDetaches(t *testing.T) {
	ip := newWiredInterp()
	a := memstore.NewNode("a")
	b := memstore.NewNode("b")
	e := memstore.NewEdge("likes")
	a.AttachOutbound(b, e)
	ip.Scope.Vars["a"] = graph.EntityRefValue{V: a}
	ip.Scope.Vars["b"] = graph.EntityRefValue{V: b}

	connect := ast.New(ast.NConnect, ast.Leaf(ast.TNot, ast.TNot), nameExpr("a"), ast.New(ast.NEdgeTo, ast.Leaf(ast.TName, "likes")), nameExpr("b"))
	ip.RunConnect(connect)

	if len(a.OutboundEdges()) != 0 {
		t.Errorf("NOT a ++> b: expected the edge to be detached, actual %d remaining", len(a.OutboundEdges()))
	}
}

func TestRunNodeRefFiltersByName(t *testing.T) {
	ip := newWiredInterp()
	here := memstore.NewNode("hub")
	cat := memstore.NewNode("cat")
	cat.Context().Set("age", values.Int{V: 2})
	dog := memstore.NewNode("dog")
	e1 := memstore.NewEdge("generic")
	e2 := memstore.NewEdge("generic")
	here.AttachOutbound(cat, e1)
	here.AttachOutbound(dog, e2)
	ip.Here = here

	ref := nodeRefNode("cat", nil)
	p := ip.RunNodeRef(ref)
	set := p.ReadBack().(*graph.EntitySetValue)
	if set.V.Len() != 1 || set.V.Entities()[0] != cat {
		t.Errorf("node::cat from hub: expected exactly [cat], actual %d entities", set.V.Len())
	}
}

func TestRunEdgeRefOutbound(t *testing.T) {
	ip := newWiredInterp()
	here := memstore.NewNode("hub")
	other := memstore.NewNode("leaf")
	e := memstore.NewEdge("generic")
	here.AttachOutbound(other, e)
	ip.Here = here

	p := ip.RunEdgeRef(ast.New(ast.NEdgeTo))
	set := p.ReadBack().(*graph.EntitySetValue)
	if set.V.Len() != 1 || set.V.Entities()[0] != other {
		t.Errorf("--> from hub: expected exactly [leaf], actual %d entities", set.V.Len())
	}
}

func TestRunSpawnBroadcastsOverEntitySet(t *testing.T) {
	ip := newWiredInterp()
	a := memstore.NewNode("a")
	b := memstore.NewNode("b")
	set := &graph.EntitySetValue{V: graph.NewEntitySet(a, b)}
	ip.Scope.Vars["targets"] = set

	spawnObj := ast.New(ast.NSpawnObject, ast.New(ast.NNodeSpawn, nodeRefNode("widget", nil)))
	spawn := ast.New(ast.NSpawn, nameExpr("targets"), spawnObj)
	p := ip.RunSpawn(spawn)

	lst, ok := p.ReadBack().(*values.List)
	if !ok || lst.Len() != 2 {
		t.Fatalf("spawn targets --> node::widget: expected a 2-element list, actual %v", p.ReadBack())
	}
	for _, v := range lst.V {
		if _, ok := v.(graph.EntityRefValue); !ok {
			t.Errorf("spawn broadcast element: expected an EntityRefValue, actual %T", v)
		}
	}
}
