package runtime

import (
	"fmt"
	"strings"
	"testing"

	"github.com/wgscript/wgscript/ast"
	"github.com/wgscript/wgscript/values"
)

func TestBasicErrorSinkAccumulatesErrors(t *testing.T) {
	var lines []string
	s := NewBasicErrorSink(func(format string, v ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, v...))
	})

	if s.Errors() != nil {
		t.Fatalf("Errors(): expected nil before any failures")
	}

	n := ast.Leaf(ast.TInt, "1")
	s.RTError("boom", n)
	s.RTError("bang", n)

	if s.Errors() == nil {
		t.Fatalf("Errors(): expected a non-nil aggregated error after two RTError calls")
	}
	if got := s.Errors().Error(); !strings.Contains(got, "boom") || !strings.Contains(got, "bang") {
		t.Errorf("Errors(): expected both messages present, got %q", got)
	}
	if len(lines) != 2 {
		t.Errorf("Logf: expected 2 lines logged, actual %d", len(lines))
	}
}

func TestBasicErrorSinkWarnDoesNotAccumulate(t *testing.T) {
	s := NewBasicErrorSink(nil)
	s.RTWarn("careful", nil)
	if s.Errors() != nil {
		t.Errorf("Errors(): a warning alone should not produce an accumulated error")
	}
}

func TestRTCheckType(t *testing.T) {
	s := NewBasicErrorSink(nil)

	if !s.RTCheckType(values.Int{V: 1}, []values.Kind{values.KindInt, values.KindFloat}, nil) {
		t.Errorf("RTCheckType(Int, [Int Float]): expected true")
	}
	if s.Errors() != nil {
		t.Errorf("RTCheckType matching: expected no accumulated error")
	}

	if s.RTCheckType(values.Str{V: "x"}, []values.Kind{values.KindInt}, nil) {
		t.Errorf("RTCheckType(Str, [Int]): expected false")
	}
	if s.Errors() == nil {
		t.Errorf("RTCheckType mismatch: expected an accumulated error")
	}
}

func TestNewBasicErrorSinkNilLogfIsNoop(t *testing.T) {
	s := NewBasicErrorSink(nil)
	s.RTError("x", nil) // must not panic
	if s.Errors() == nil {
		t.Errorf("Errors(): expected the error to still be accumulated even with a nil Logf")
	}
}
