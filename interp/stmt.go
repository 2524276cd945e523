package interp

import (
	"github.com/wgscript/wgscript/ast"
	"github.com/wgscript/wgscript/graph"
	"github.com/wgscript/wgscript/values"
)

// RunCodeBlock executes a code_block's statements in order, stopping
// early if a statement leaves behind a Stopped or LoopCtrl signal (spec
// §4.5): every statement boundary is a check point, not just loop tops,
// so `skip`/`stop`/`break`/`continue` unwind out of nested blocks
// immediately rather than only at the next loop iteration.
func (ip *Interpreter) RunCodeBlock(node *ast.Node) {
	if node == nil {
		return
	}
	for _, stmt := range node.Kids {
		ip.RunStatement(stmt)
		if ip.Stopped != StopNone || ip.LoopCtrl != LoopNone {
			return
		}
	}
}

// RunStatement dispatches a single statement production.
func (ip *Interpreter) RunStatement(node *ast.Node) {
	if node == nil {
		return
	}
	stmt := node
	if node.Name == ast.NStatement {
		stmt = node.Kid(0)
	}
	if stmt == nil {
		return
	}
	switch stmt.Name {
	case ast.NExpression, ast.NAssignment, ast.NCopyAssign, ast.NIncAssign, ast.NConnect, ast.NLogical:
		ip.RunExpression(stmt)
	case ast.NIfStmt:
		ip.RunIfStmt(stmt)
	case ast.NForToStmt:
		ip.RunForToStmt(stmt)
	case ast.NForInStmt:
		ip.RunForInStmt(stmt)
	case ast.NWhileStmt:
		ip.RunWhileStmt(stmt)
	case ast.NCtrlStmt:
		ip.RunCtrlStmt(stmt)
	case ast.NReportAction:
		ip.RunReportAction(stmt)
	case ast.NAttrStmt:
		ip.RunAttrStmt(stmt)
	case ast.NHasStmt:
		ip.RunHasStmt(stmt)
	case ast.NCanStmt:
		ip.RunCanStmt(stmt)
	case ast.NCodeBlock:
		ip.RunCodeBlock(stmt)
	case ast.NNodeCtxBlock:
		ip.RunNodeCtxBlock(stmt)
	default:
		ip.fail(ErrUnsupportedOperation, stmt, "unrecognized statement %q", stmt.Name)
	}
}

// RunNodeCtxBlock implements `node_ctx_block: name_list code_block`
// (SPEC_FULL.md §4 "node_ctx_block", grounded on interp.py's
// run_node_ctx_block): the block only runs if the current node's
// architype name matches one of the listed names, and runs at most once
// even if the name appears twice in the list (matching the original's
// first-match-wins, return-immediately loop).
func (ip *Interpreter) RunNodeCtxBlock(node *ast.Node) {
	if ip.Here == nil {
		return
	}
	for _, name := range ip.RunNameList(node.Kid(0)) {
		if ip.Here.Name() == name {
			ip.RunCodeBlock(node.Kid(1))
			return
		}
	}
}

// RunIfStmt implements if/elif/else chains (spec §4.5).
func (ip *Interpreter) RunIfStmt(node *ast.Node) {
	cond := ip.RunExpression(node.Kid(0))
	if values.Truthy(cond.ReadBack()) {
		ip.RunCodeBlock(node.Kid(1))
		return
	}
	for _, clause := range node.Kids[2:] {
		switch clause.Name {
		case ast.NElifStmt:
			if ip.RunElifStmt(clause) {
				return
			}
		case ast.NElseStmt:
			ip.RunElseStmt(clause)
			return
		}
	}
}

// RunElifStmt evaluates one elif clause, running its body and returning
// true if its condition held.
func (ip *Interpreter) RunElifStmt(node *ast.Node) bool {
	cond := ip.RunExpression(node.Kid(0))
	if !values.Truthy(cond.ReadBack()) {
		return false
	}
	ip.RunCodeBlock(node.Kid(1))
	return true
}

// RunElseStmt runs an else clause's body unconditionally.
func (ip *Interpreter) RunElseStmt(node *ast.Node) {
	ip.RunCodeBlock(node.Kid(0))
}

// runLoopBody executes one loop iteration's body and folds LoopCtrl back
// into the caller's decision of whether to keep iterating (spec §4.5):
// `continue` clears the signal and proceeds, `break` clears it and stops,
// any Stopped state stops immediately without being cleared (it's not a
// loop-local signal).
func (ip *Interpreter) runLoopBody(node *ast.Node) (shouldBreak bool) {
	ip.RunCodeBlock(node)
	if ip.Stopped != StopNone {
		return true
	}
	switch ip.LoopCtrl {
	case LoopBreak:
		ip.LoopCtrl = LoopNone
		return true
	case LoopContinue:
		ip.LoopCtrl = LoopNone
		return false
	default:
		return false
	}
}

// RunForToStmt implements `for init to cond by step {}` (spec §4.5). A
// deliberate departure from the original source: that implementation logs
// an error on loop-limit overshoot but never actually stops the loop,
// which this module treats as a bug rather than a behavior to preserve
// (spec's redesigned cancellation invariant) — here, overshooting
// LoopLimit terminates the loop immediately with a warning.
func (ip *Interpreter) RunForToStmt(node *ast.Node) {
	ip.RunExpression(node.Kid(0))
	cond, body := node.Kid(1), node.Kid(3)
	step := node.Kid(2)
	iterations := 0
	for values.Truthy(ip.RunExpression(cond).ReadBack()) {
		if iterations >= ip.Machine.LoopLimit {
			ip.warn(node, "for loop exceeded loop limit %d, terminating", ip.Machine.LoopLimit)
			return
		}
		iterations++
		if ip.runLoopBody(body) {
			return
		}
		ip.RunExpression(step)
	}
}

// RunForInStmt implements `for name in expr {}` (spec §4.5). Iteration is
// bounded to min(len(list), LoopLimit) rather than checked after the fact,
// since the list length is already known up front.
func (ip *Interpreter) RunForInStmt(node *ast.Node) {
	names := ip.RunNameList(node.Kid(0))
	iterable := ip.RunExpression(node.Kid(1)).ReadBack()
	body := node.Kid(2)

	var elems []values.Value
	switch t := iterable.(type) {
	case *values.List:
		elems = t.V
	case *values.Map:
		for _, k := range t.V.Keys() {
			elems = append(elems, values.Str{V: k})
		}
	case *graph.EntitySetValue:
		for _, e := range t.V.Entities() {
			elems = append(elems, entityRef(e))
		}
	default:
		ip.fail(ErrTypeError, node, "value of kind %s is not iterable", iterable.Kind())
		return
	}

	limit := len(elems)
	if ip.Machine.LoopLimit < limit {
		limit = ip.Machine.LoopLimit
		ip.warn(node, "for-in loop truncated to loop limit %d (iterable had %d elements)", ip.Machine.LoopLimit, len(elems))
	}
	for i := 0; i < limit; i++ {
		if len(names) > 0 {
			p, _ := ip.Scope.Resolve(names[0], true)
			p.Write(elems[i])
		}
		if ip.runLoopBody(body) {
			return
		}
	}
}

// RunWhileStmt implements `while cond {}` (spec §4.5), with the same
// immediate-termination loop-limit policy as RunForToStmt.
func (ip *Interpreter) RunWhileStmt(node *ast.Node) {
	cond, body := node.Kid(0), node.Kid(1)
	iterations := 0
	for values.Truthy(ip.RunExpression(cond).ReadBack()) {
		if iterations >= ip.Machine.LoopLimit {
			ip.warn(node, "while loop exceeded loop limit %d, terminating", ip.Machine.LoopLimit)
			return
		}
		iterations++
		if ip.runLoopBody(body) {
			return
		}
	}
}

// RunCtrlStmt implements break/continue/skip/stop (spec §4.5). The
// control token is carried in node.Token.
func (ip *Interpreter) RunCtrlStmt(node *ast.Node) {
	switch node.Token {
	case ast.TBreak:
		ip.LoopCtrl = LoopBreak
	case ast.TContinue:
		ip.LoopCtrl = LoopContinue
	case ast.TSkip:
		ip.Stopped = StopSkip
	default:
		ip.Stopped = StopHost
	}
}

// RunReportAction implements `report expr` (spec §4.5, §6): the evaluated
// value is appended to the walker activation's report buffer, deep-
// serialized so graph-native values survive outside the interpreter.
func (ip *Interpreter) RunReportAction(node *ast.Node) {
	v := ip.RunExpression(node.Kid(0)).ReadBack()
	sv, err := ip.DeepSerialize(v)
	if err != nil {
		ip.fail(ErrNotSerializable, node, "%s", err)
		return
	}
	ip.Report = append(ip.Report, sv)
}

// RunAttrStmt implements a private/anchor modifier statement applying to
// one or more following has_assigns — handled inline by RunHasStmt, so
// this direct dispatch path only covers a bare attr_stmt used outside a
// has_stmt, which the grammar does not produce; kept for completeness of
// the statement switch.
func (ip *Interpreter) RunAttrStmt(node *ast.Node) {
	ip.fail(ErrUnsupportedOperation, node, "attr_stmt used outside has_stmt")
}

// RunHasStmt implements `has [private|anchor] name [= expr], ...` (spec
// §4.2): a flat stream of marker leaves and has_assign nodes, where a
// marker applies only to the has_assign that follows it; both markers
// reset after each has_assign (mirroring the original source's
// kid-stream walk).
func (ip *Interpreter) RunHasStmt(node *ast.Node) {
	private, anchor := false, false
	for _, k := range node.Kids {
		switch k.Name {
		case ast.TPrivate:
			private = true
		case ast.TAnchor:
			anchor = true
		case ast.NHasAssign:
			ip.runHasAssign(k, private, anchor)
			private, anchor = false, false
		}
	}
}

// runHasAssign declares one has-variable, optionally defaulting its value
// and marking it private/anchor on the owning entity.
func (ip *Interpreter) runHasAssign(node *ast.Node, private, anchor bool) {
	name := node.Kid(0).TokenText()
	var val values.Value = values.Null{}
	if len(node.Kids) > 1 {
		val = ip.RunExpression(node.Kid(1)).ReadBack()
	}
	if ip.Scope.HasObj != nil {
		if _, exists := ip.Scope.HasObj.Context().Get(name); !exists {
			ip.Scope.HasObj.Context().Set(name, val)
		}
		if private {
			markPrivate(ip.Scope.HasObj, name)
		}
		if anchor {
			ip.Scope.HasObj.SetAnchor(name)
		}
		return
	}
	ip.Scope.Vars[name] = val
}

func markPrivate(e graph.Entity, name string) {
	ctx := e.Context()
	lst, ok := ctx.Get(graph.PrivateAttr)
	l, isList := lst.(*values.List)
	if !ok || !isList {
		l = values.NewList()
	}
	for _, v := range l.V {
		if s, ok := v.(values.Str); ok && s.V == name {
			return
		}
	}
	l.V = append(l.V, values.Str{V: name})
	ctx.Set(graph.PrivateAttr, l)
}

// RunCanStmt implements `can name [with event_clause] { code_block }`
// declarations (spec §4.2): each clause registers an Ability on the
// owning entity's matching ability table (entry/exit/activity).
func (ip *Interpreter) RunCanStmt(node *ast.Node) {
	for _, clause := range node.Kids {
		ip.runCanClause(clause)
	}
}

func (ip *Interpreter) runCanClause(node *ast.Node) {
	if ip.Scope.HasObj == nil {
		ip.fail(ErrForbiddenContext, node, "can statement used outside an entity context")
		return
	}
	name := node.Kid(0).TokenText()
	event := ast.TActivity
	if ev := node.Kid(1); ev != nil && ev.Name == ast.NEventClause {
		event = ip.RunEventClause(ev)
	}
	if event != ast.TActivity && ip.Scope.HasObj.JType() != graph.JTypeNode {
		ip.warn(node, "entry/exit abilities are only valid on nodes, degrading %q to activity", name)
		event = ast.TActivity
	}
	var body interface{}
	if code := node.Kid(2); code != nil {
		ir, err := ast.ToIR(code)
		if err != nil {
			ip.fail(ErrNotSerializable, node, "could not store ability body: %s", err)
			return
		}
		body = ir
	}
	ability := &graph.Ability{Name: name, Event: event, Body: body}
	switch event {
	case ast.TEntry:
		ip.Scope.HasObj.EntryActions().Add(ability)
	case ast.TExit:
		ip.Scope.HasObj.ExitActions().Add(ability)
	default:
		ip.Scope.HasObj.ActivityActions().Add(ability)
	}
}

// RunEventClause returns the trigger event token ("entry"/"exit") a can
// clause's `with` attaches, defaulting callers fall back to activity.
func (ip *Interpreter) RunEventClause(node *ast.Node) string {
	if node == nil || len(node.Kids) == 0 {
		return ast.TActivity
	}
	return node.Kid(0).Name
}
