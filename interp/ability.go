package interp

import (
	"github.com/wgscript/wgscript/ast"
	"github.com/wgscript/wgscript/errwrap"
	"github.com/wgscript/wgscript/graph"
	"github.com/wgscript/wgscript/place"
	"github.com/wgscript/wgscript/runtime"
)

// CallAbility invokes the ability named name on nd (spec §4.2, §4.6's
// `node::ability()` call form): it runs the body in a fresh Interpreter
// that shares the Machine and the caller's visitor, over a new scope
// chained to the caller's and owned by nd. Names the callee creates and
// its break/continue state stay inside it; its report values are appended
// to the caller's report, and a StopHost in the callee stops the caller
// too.
func (ip *Interpreter) CallAbility(nd graph.Entity, name string, callSite *ast.Node) error {
	ability, ok := nd.ActivityActions().GetByName(name)
	if !ok {
		ability, ok = nd.EntryActions().GetByName(name)
	}
	if !ok {
		ability, ok = nd.ExitActions().GetByName(name)
	}
	if !ok {
		return errwrap.Errorf("entity %q has no ability named %q", nd.Name(), name)
	}

	body, action, err := bodyToNode(ability)
	if err != nil {
		return err
	}
	if action != nil {
		_, err := action.Trigger(nil)
		return err
	}

	scope := place.New(ip.Scope, nd)
	scope.AbilityTables = append(scope.AbilityTables, nd.ActivityActions(), nd.EntryActions(), nd.ExitActions())
	nested := ip.nested(scope, nd, ip.Visitor)
	nested.RunCodeBlock(body)
	ip.Report = append(ip.Report, nested.Report...)
	if nested.Stopped == StopHost {
		ip.Stopped = StopHost
	}
	return nil
}

// bodyToNode decodes an Ability's Body into either a runnable code_block
// node, or — for an ability bound directly to a registered host action
// rather than stored Jac source, an extension beyond what the original
// source's call_ability does (see DESIGN.md) — the runtime.Action to
// trigger instead.
func bodyToNode(a *graph.Ability) (*ast.Node, runtime.Action, error) {
	switch b := a.Body.(type) {
	case nil:
		return nil, nil, errwrap.Errorf("ability %q has no body", a.Name)
	case ast.IR:
		n, err := ast.FromIR(b)
		if err != nil {
			return nil, nil, errwrap.Wrapf(err, "ability %q", a.Name)
		}
		return n, nil, nil
	case *ast.Node:
		return b, nil, nil
	case runtime.Action:
		return nil, b, nil
	default:
		return nil, nil, errwrap.Errorf("ability %q has an unrecognized body type %T", a.Name, a.Body)
	}
}
