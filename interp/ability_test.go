package interp

import (
	"testing"

	"github.com/wgscript/wgscript/ast"
	"github.com/wgscript/wgscript/graph"
	"github.com/wgscript/wgscript/graph/memstore"
	"github.com/wgscript/wgscript/values"
)

// fakeAction is a minimal runtime.Action for exercising the "ability bound
// directly to a host action" branch of bodyToNode/CallAbility.
type fakeAction struct {
	called bool
	ret    values.Value
}

func (f *fakeAction) Trigger(args []values.Value) (values.Value, error) {
	f.called = true
	return f.ret, nil
}

func reportBody(v values.Value) *ast.Node {
	return ast.New(ast.NCodeBlock, ast.New(ast.NReportAction, litExpr(v)))
}

func TestCallAbilityRunsActivityAction(t *testing.T) {
	ip, _ := newTestInterp()
	nd := memstore.NewNode("widget")
	nd.ActivityActions().Add(&graph.Ability{Name: "greet", Event: "activity", Body: reportBody(values.Str{V: "hi"})})
	ip.Here = nd

	if err := ip.CallAbility(nd, "greet", nil); err != nil {
		t.Fatalf("CallAbility(greet): unexpected error %s", err)
	}
	if len(ip.Report) != 1 || ip.Report[0] != (values.Str{V: "hi"}) {
		t.Errorf("CallAbility(greet): expected the callee's report folded in, actual %v", ip.Report)
	}
}

func TestCallAbilityPrefersActivityOverEntryExit(t *testing.T) {
	ip, _ := newTestInterp()
	nd := memstore.NewNode("widget")
	nd.EntryActions().Add(&graph.Ability{Name: "greet", Event: "entry", Body: reportBody(values.Str{V: "wrong"})})
	nd.ActivityActions().Add(&graph.Ability{Name: "greet", Event: "activity", Body: reportBody(values.Str{V: "right"})})
	ip.Here = nd

	if err := ip.CallAbility(nd, "greet", nil); err != nil {
		t.Fatalf("CallAbility(greet): unexpected error %s", err)
	}
	if len(ip.Report) != 1 || ip.Report[0] != (values.Str{V: "right"}) {
		t.Errorf("CallAbility(greet): expected the activity ability to win over entry, actual %v", ip.Report)
	}
}

func TestCallAbilityFallsBackToEntry(t *testing.T) {
	ip, _ := newTestInterp()
	nd := memstore.NewNode("widget")
	nd.EntryActions().Add(&graph.Ability{Name: "setup", Event: "entry", Body: reportBody(values.Str{V: "entered"})})
	ip.Here = nd

	if err := ip.CallAbility(nd, "setup", nil); err != nil {
		t.Fatalf("CallAbility(setup): unexpected error %s", err)
	}
	if len(ip.Report) != 1 || ip.Report[0] != (values.Str{V: "entered"}) {
		t.Errorf("CallAbility(setup): expected the entry ability to run, actual %v", ip.Report)
	}
}

func TestCallAbilityFallsBackToExit(t *testing.T) {
	ip, _ := newTestInterp()
	nd := memstore.NewNode("widget")
	nd.ExitActions().Add(&graph.Ability{Name: "teardown", Event: "exit", Body: reportBody(values.Str{V: "left"})})
	ip.Here = nd

	if err := ip.CallAbility(nd, "teardown", nil); err != nil {
		t.Fatalf("CallAbility(teardown): unexpected error %s", err)
	}
	if len(ip.Report) != 1 || ip.Report[0] != (values.Str{V: "left"}) {
		t.Errorf("CallAbility(teardown): expected the exit ability to run, actual %v", ip.Report)
	}
}

func TestCallAbilityMissingAbilityReturnsError(t *testing.T) {
	ip, _ := newTestInterp()
	nd := memstore.NewNode("widget")

	if err := ip.CallAbility(nd, "nope", nil); err == nil {
		t.Errorf("CallAbility(nope) on a node with no such ability: expected an error")
	}
}

func TestCallAbilityTriggersHostAction(t *testing.T) {
	ip, _ := newTestInterp()
	nd := memstore.NewNode("widget")
	action := &fakeAction{ret: values.Int{V: 42}}
	nd.ActivityActions().Add(&graph.Ability{Name: "native", Event: "activity", Body: action})

	if err := ip.CallAbility(nd, "native", nil); err != nil {
		t.Fatalf("CallAbility(native): unexpected error %s", err)
	}
	if !action.called {
		t.Errorf("CallAbility(native): expected the bound host action's Trigger to run")
	}
	if len(ip.Report) != 0 {
		t.Errorf("CallAbility(native): a host-action ability shouldn't run RunCodeBlock, report should stay empty, actual %v", ip.Report)
	}
}

func TestCallAbilityPropagatesStopHost(t *testing.T) {
	ip, _ := newTestInterp()
	nd := memstore.NewNode("widget")
	stop := &ast.Node{Name: ast.NCtrlStmt, Token: "KW_STOP"}
	body := ast.New(ast.NCodeBlock, stop)
	nd.ActivityActions().Add(&graph.Ability{Name: "disengage", Event: "activity", Body: body})

	if err := ip.CallAbility(nd, "disengage", nil); err != nil {
		t.Fatalf("CallAbility(disengage): unexpected error %s", err)
	}
	if ip.Stopped != StopHost {
		t.Errorf("CallAbility(disengage): expected the callee's stop to propagate to the caller, actual %v", ip.Stopped)
	}
}

func TestCallAbilityNestedScopeDoesNotLeakVars(t *testing.T) {
	ip, _ := newTestInterp()
	nd := memstore.NewNode("widget")
	assign := ast.New(ast.NExpression, ast.New(ast.NAssignment, nameAtom("local"), litExpr(values.Int{V: 1})))
	body := ast.New(ast.NCodeBlock, ast.New(ast.NStatement, assign))
	nd.ActivityActions().Add(&graph.Ability{Name: "setlocal", Event: "activity", Body: body})

	if err := ip.CallAbility(nd, "setlocal", nil); err != nil {
		t.Fatalf("CallAbility(setlocal): unexpected error %s", err)
	}
	if _, ok := ip.Scope.Vars["local"]; ok {
		t.Errorf("CallAbility(setlocal): the callee's scope should be isolated, 'local' leaked into the caller's scope")
	}
}

func TestBodyToNodeHandlesASTNodeAndIR(t *testing.T) {
	n := reportBody(values.Str{V: "x"})
	got, action, err := bodyToNode(&graph.Ability{Name: "a", Body: n})
	if err != nil || action != nil || got != n {
		t.Errorf("bodyToNode(*ast.Node body): expected the node back unchanged, actual %v, %v, %v", got, action, err)
	}

	ir, err := ast.ToIR(n)
	if err != nil {
		t.Fatalf("ast.ToIR: unexpected error %s", err)
	}
	got2, action2, err2 := bodyToNode(&graph.Ability{Name: "a", Body: ir})
	if err2 != nil || action2 != nil || got2 == nil || got2.Name != n.Name {
		t.Errorf("bodyToNode(ast.IR body): expected a decoded equivalent node, actual %v, %v, %v", got2, action2, err2)
	}
}

func TestBodyToNodeNilBodyIsAnError(t *testing.T) {
	if _, _, err := bodyToNode(&graph.Ability{Name: "a"}); err == nil {
		t.Errorf("bodyToNode(nil body): expected an error")
	}
}
