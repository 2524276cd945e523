package runtime

import (
	"fmt"

	"github.com/sanity-io/litter"

	"github.com/wgscript/wgscript/ast"
	"github.com/wgscript/wgscript/errwrap"
	"github.com/wgscript/wgscript/values"
)

// BasicErrorSink is the reference ErrorSink: it logs through a Logf field
// (the same shape mgmt's lang/interpret.Interpreter and lang/interfaces.Data
// use, see DESIGN.md) and accumulates every reported error with
// errwrap.Append so a driver can inspect the whole activation's worth of
// recoverable failures at once (spec §7).
type BasicErrorSink struct {
	// Logf receives one line per error or warning. Defaults to a no-op
	// if left nil.
	Logf func(format string, v ...interface{})

	err error
}

// NewBasicErrorSink returns a BasicErrorSink logging through logf. A nil
// logf is replaced with a no-op.
func NewBasicErrorSink(logf func(format string, v ...interface{})) *BasicErrorSink {
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}
	return &BasicErrorSink{Logf: logf}
}

// RTError implements ErrorSink.
func (s *BasicErrorSink) RTError(message string, node *ast.Node) {
	s.Logf("runtime error: %s (at %q)", message, textOf(node))
	s.err = errwrap.Append(s.err, fmt.Errorf("%s (at %q)", message, textOf(node)))
}

// RTWarn implements ErrorSink. Warnings are tagged distinctly in the log
// and, unlike RTError, are not accumulated into Errors().
func (s *BasicErrorSink) RTWarn(message string, node *ast.Node) {
	s.Logf("runtime warning: %s (at %q)", message, textOf(node))
}

// RTCheckType implements ErrorSink.
func (s *BasicErrorSink) RTCheckType(value values.Value, accepted []values.Kind, node *ast.Node) bool {
	var kind values.Kind
	if value != nil {
		kind = value.Kind()
	}
	for _, k := range accepted {
		if value != nil && kind == k {
			return true
		}
	}
	s.RTError(fmt.Sprintf("expected one of %v, got %s: %s", accepted, kind, litter.Sdump(value)), node)
	return false
}

// Errors implements ErrorSink.
func (s *BasicErrorSink) Errors() error { return s.err }

func textOf(node *ast.Node) string {
	if node == nil {
		return ""
	}
	return node.Text()
}
