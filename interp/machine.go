// Package interp is the tree-walking evaluator at the center of the
// module (spec.md §4, §9): it walks an *ast.Node produced by a (non-
// existent, out of scope) parser and carries out every statement and
// expression production against a graph.Entity-backed scope chain.
//
// The split mirrors mgmt's engine/graph.Engine vs per-resource Txn split:
// Machine holds the collaborators shared across an entire run (the
// archetype registry, scheduler, action table, error sink, loop-limit
// policy), while Interpreter holds the per-activation state (the current
// scope, the walker's current/visitor node, control-flow signals, and the
// report buffer) that a nested ability call gets its own fresh copy of.
package interp

import (
	"github.com/davecgh/go-spew/spew"

	"github.com/wgscript/wgscript/graph"
	"github.com/wgscript/wgscript/place"
	"github.com/wgscript/wgscript/runtime"
	"github.com/wgscript/wgscript/values"
)

// Machine holds the collaborators an entire interpretation run shares,
// independent of which statement or ability is currently executing.
type Machine struct {
	Registry runtime.ArchetypeRegistry
	Scheduler runtime.Scheduler
	Actions   runtime.ActionRegistry
	Errors    runtime.ErrorSink

	// LoopLimit bounds for/while iteration counts (spec §4.5's redesigned
	// cancellation invariant: a loop that would exceed this terminates
	// with a warning instead of spinning forever, unlike the original
	// source's for/while loops, which only log and never stop).
	LoopLimit int

	// Debug gates the Place/Value trace lines emitted around assignment
	// and call sites, the same on/off switch the teacher's
	// Interpreter.Debug field is.
	Debug bool

	// Logf receives informational trace lines, the same shape the
	// teacher's Interpreter.Logf field uses. Defaults to a no-op.
	Logf func(format string, v ...interface{})
}

// trace logs a spew dump of v under label iff Debug is set, used at
// assignment and call sites to make otherwise-opaque dynamic values
// inspectable during development (mirrors the teacher's Debug-gated
// tracing, see DESIGN.md).
func (m *Machine) trace(label string, v interface{}) {
	if !m.Debug {
		return
	}
	m.logf("%s: %s", label, spew.Sdump(v))
}

// NewMachine returns a Machine with sane defaults (a 10000-iteration loop
// limit, a no-op Logf) for the given collaborators.
func NewMachine(registry runtime.ArchetypeRegistry, sched runtime.Scheduler, actions runtime.ActionRegistry, errs runtime.ErrorSink) *Machine {
	return &Machine{
		Registry:  registry,
		Scheduler: sched,
		Actions:   actions,
		Errors:    errs,
		LoopLimit: 10000,
		Logf:      func(string, ...interface{}) {},
	}
}

func (m *Machine) logf(format string, v ...interface{}) {
	if m.Logf != nil {
		m.Logf(format, v...)
	}
}

// StopState is the "should control flow unwind" signal spec §4.5 requires
// code_block and every loop body to check at each statement boundary.
type StopState int

// The stop states a running activation can be in.
const (
	StopNone StopState = iota
	// StopSkip is the walker's `skip` statement: stop executing the
	// current node's activity, keep the walker positioned where a
	// driver left it. It sticks until a driver resets it before the next
	// node visit (spec §4.5, §5) — the core never clears it on its own.
	StopSkip
	// StopHost unwinds all the way out of the walker's run (`disengage`
	// in the original source is renamed stop/destroy context per spec
	// §4.5).
	StopHost
)

// LoopCtrl is the break/continue signal threaded through for/while bodies.
type LoopCtrl int

// The loop-control states a statement can leave behind.
const (
	LoopNone LoopCtrl = iota
	LoopBreak
	LoopContinue
)

// Interpreter is one activation's worth of evaluator state: the active
// scope chain, the walker's current position, and the control-flow
// signals statements leave behind for their enclosing block to observe.
// A fresh Interpreter is built for every nested ability call (CallAbility)
// so that the callee starts with its own control-flow state and report
// buffer, much as interp.py gets from separate Python stack frames;
// CallAbility then carries the callee's report and a StopHost back to the
// caller.
type Interpreter struct {
	Machine *Machine

	Scope *place.Scope

	// Here is the node or edge the walker is currently positioned at (the
	// `here` builtin). Visitor is the walker itself (the `visitor`
	// builtin). Both may be nil outside a walker context (e.g. evaluating
	// a bare expression in a test).
	Here    graph.Entity
	Visitor graph.Entity

	Stopped  StopState
	LoopCtrl LoopCtrl

	// AssignMode mirrors interp.py's assign_mode flag: when true, a
	// dotted-name atom that resolves to nothing creates the name in the
	// innermost scope instead of raising UndefinedName (spec §4.1's
	// "create on first assignment" rule).
	AssignMode bool

	// Report accumulates values produced by `report` statements for the
	// current walker activation (spec §4.5, §6).
	Report []values.Value
}

// New returns a fresh Interpreter sharing machine, rooted at scope, walking
// here on behalf of visitor.
func New(machine *Machine, scope *place.Scope, here, visitor graph.Entity) *Interpreter {
	return &Interpreter{
		Machine: machine,
		Scope:   scope,
		Here:    here,
		Visitor: visitor,
	}
}

// nested returns a fresh Interpreter sharing ip's Machine but with its own
// scope, control-flow state, and report buffer — used by CallAbility, which
// decides what the callee carries back (its report and a StopHost).
func (ip *Interpreter) nested(scope *place.Scope, here, visitor graph.Entity) *Interpreter {
	return New(ip.Machine, scope, here, visitor)
}
