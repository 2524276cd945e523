package interp

import (
	"fmt"

	"github.com/wgscript/wgscript/ast"
)

// ErrKind tags the recoverable runtime error categories spec §7 names.
// These are never returned as Go errors from the Run* methods (a single
// walker's or test's runtime mistake must not abort an entire batch) —
// every occurrence is routed through fail, which logs via Machine.Errors;
// the calling Run* method then returns its own fallback value (usually
// values.Null{}) so evaluation can keep going, the same recovery policy
// the teacher's errwrap-wrapped RTError calls use.
type ErrKind int

// The runtime error categories spec §7 names.
const (
	ErrUndefinedName ErrKind = iota
	ErrTypeError
	ErrIndexError
	ErrNotAssignable
	ErrArityError
	ErrArchetypeMismatch
	ErrUnsupportedOperation
	ErrLoopLimitExceeded
	ErrNotSerializable
	ErrMissingAbility
	ErrForbiddenContext
)

// String names an ErrKind for log lines.
func (k ErrKind) String() string {
	switch k {
	case ErrUndefinedName:
		return "undefined-name"
	case ErrTypeError:
		return "type-error"
	case ErrIndexError:
		return "index-error"
	case ErrNotAssignable:
		return "not-assignable"
	case ErrArityError:
		return "arity-error"
	case ErrArchetypeMismatch:
		return "archetype-mismatch"
	case ErrUnsupportedOperation:
		return "unsupported-operation"
	case ErrLoopLimitExceeded:
		return "loop-limit-exceeded"
	case ErrNotSerializable:
		return "not-serializable"
	case ErrMissingAbility:
		return "missing-ability"
	case ErrForbiddenContext:
		return "forbidden-context"
	default:
		return "error"
	}
}

// fail reports a recoverable runtime error against node. It returns
// nothing; the caller follows it with its own fallback result (usually a
// Place holding values.Null{}) instead of a second error-handling path
// (mirrors interp.py's pattern of logging via self.rt_error and then
// falling through with a None result).
func (ip *Interpreter) fail(kind ErrKind, node *ast.Node, format string, args ...interface{}) {
	ip.Machine.Errors.RTError(fmt.Sprintf("[%s] %s", kind, fmt.Sprintf(format, args...)), node)
}

// warn reports a recoverable runtime warning against node.
func (ip *Interpreter) warn(node *ast.Node, format string, args ...interface{}) {
	ip.Machine.Errors.RTWarn(fmt.Sprintf(format, args...), node)
}
