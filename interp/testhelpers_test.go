package interp

import (
	"strconv"

	"github.com/wgscript/wgscript/ast"
	"github.com/wgscript/wgscript/place"
	"github.com/wgscript/wgscript/runtime"
	"github.com/wgscript/wgscript/values"
)

// newTestInterp returns a bare Interpreter with a BasicErrorSink so tests
// can assert on accumulated runtime errors without a real host graph store.
func newTestInterp() (*Interpreter, *runtime.BasicErrorSink) {
	errs := runtime.NewBasicErrorSink(nil)
	m := NewMachine(nil, nil, nil, errs)
	s := place.New(nil, nil)
	return New(m, s, nil, nil), errs
}

// litLeaf builds the token leaf a literal atom wraps.
func litLeaf(v values.Value) *ast.Node {
	switch t := v.(type) {
	case values.Int:
		return ast.Leaf(ast.TInt, strconv.FormatInt(t.V, 10))
	case values.Float:
		return ast.Leaf(ast.TFloat, strconv.FormatFloat(t.V, 'g', -1, 64))
	case values.Bool:
		return ast.Leaf(ast.TBool, strconv.FormatBool(t.V))
	case values.Str:
		return ast.Leaf(ast.TString, `"`+t.V+`"`)
	default:
		return ast.Leaf(ast.TString, "")
	}
}

func litAtom(v values.Value) *ast.Node { return ast.New(ast.NAtom, litLeaf(v)) }

func nameAtom(name string) *ast.Node {
	return ast.New(ast.NAtom, ast.New(ast.NDottedName, ast.Leaf(ast.TName, name)))
}

// termOf wraps an atom up through func_call/power/factor so it can stand in
// wherever RunTerm's single-kid fallthrough expects an operand.
func termOf(atom *ast.Node) *ast.Node {
	return ast.New(ast.NTerm, ast.New(ast.NFactor, ast.New(ast.NPower, ast.New(ast.NFuncCall, atom))))
}

func arithOf(term *ast.Node) *ast.Node  { return ast.New(ast.NArithmetic, term) }
func compareOf(arith *ast.Node) *ast.Node { return ast.New(ast.NCompare, arith) }
func logicalOf(compare *ast.Node) *ast.Node { return ast.New(ast.NLogical, compare) }

// litExpr/nameExpr build a full logical-level expression node (the shape
// RunExpression/RunStatement expect) around a literal or a plain name.
func litExpr(v values.Value) *ast.Node { return logicalOf(compareOf(arithOf(termOf(litAtom(v))))) }
func nameExpr(name string) *ast.Node   { return logicalOf(compareOf(arithOf(termOf(nameAtom(name))))) }
