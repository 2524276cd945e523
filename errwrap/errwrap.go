// Package errwrap contains small error helpers used across this module. It
// exists so that callers never have to special-case nil errors when
// threading a chain of wraps or when accumulating more than one recoverable
// runtime error from a single walker activation.
package errwrap

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Wrapf adds a new error onto an existing chain of errors. If err is nil,
// nil is returned unchanged, so this is safe to call unconditionally on the
// result of any fallible operation.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// Errorf constructs a fresh error carrying a stack trace, for call sites
// that have no existing error to wrap but still want the same annotated
// chain Wrapf produces further up the call stack.
func Errorf(format string, args ...interface{}) error {
	return errors.Errorf(format, args...)
}

// Append safely appends err onto reterr. Either argument may be nil. This
// is the primitive behind accumulating recoverable runtime errors (spec
// §7): a driver can keep calling Append across an entire walker activation
// and inspect everything that went wrong at the end instead of only the
// last failure.
func Append(reterr, err error) error {
	if reterr == nil {
		return err
	}
	if err == nil {
		return reterr
	}
	return multierror.Append(reterr, err)
}

// String returns the error's message, or "" if err is nil.
func String(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
