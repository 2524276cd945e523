// Package runtime defines the small interfaces the interpreter core uses
// to reach its external collaborators (spec.md §6): the architype
// registry, the walker scheduler, the builtin-action table, and the
// error/warning sink. None of these are implemented by the core itself —
// a host wires in concrete implementations (graph store, scheduler,
// action table) the way mgmt's lang/interpret.Interpreter is handed a
// pre-built interfaces.Table rather than building one.
package runtime

import (
	"github.com/wgscript/wgscript/ast"
	"github.com/wgscript/wgscript/graph"
	"github.com/wgscript/wgscript/values"
)

// ArchetypeRegistry materializes a new node, edge, or graph value from a
// named template (spec §6: "run_architype(name, kind, caller)").
type ArchetypeRegistry interface {
	// RunArchitype returns a graph.Node or graph.Edge for kind Node/Edge,
	// or a subgraph root graph.Node for kind Graph.
	RunArchitype(name string, kind graph.JType, caller graph.Entity) (interface{}, error)
}

// Scheduler primes and drives walkers to completion on behalf of `spawn`
// (spec §4.6, §6).
type Scheduler interface {
	SpawnWalker(name string, caller graph.Entity) (graph.Walker, error)
}

// Action is a callable host action resolved from a dotted name (spec §4.2,
// §6).
type Action interface {
	Trigger(args []values.Value) (values.Value, error)
}

// ActionRegistry resolves dotted built-in action names (e.g. "std.log") to
// callable handles (spec §6).
type ActionRegistry interface {
	// GetBuiltinAction returns nil, nil if the name isn't registered —
	// not a hard error here; the interpreter reports an UndefinedName
	// when a dotted name resolves to nothing else.
	GetBuiltinAction(dotted string, node *ast.Node) (Action, error)
}

// ErrorSink is the runtime error/warning collaborator (spec §6, §7): every
// runtime error is logged and recovered from, never panicked.
type ErrorSink interface {
	RTError(message string, node *ast.Node)
	RTWarn(message string, node *ast.Node)
	// RTCheckType logs (via RTError) and returns false if value's kind is
	// not among accepted; otherwise returns true.
	RTCheckType(value values.Value, accepted []values.Kind, node *ast.Node) bool
	// Errors returns every error accumulated so far, aggregated with
	// errwrap.Append, or nil if none were reported.
	Errors() error
}
