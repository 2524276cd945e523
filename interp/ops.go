package interp

import (
	"math"
	"strings"

	"github.com/wgscript/wgscript/ast"
	"github.com/wgscript/wgscript/graph"
	"github.com/wgscript/wgscript/values"
)

// asNumber coerces v to a float64 for arithmetic, the way the teacher's
// operators.go switches on types.Kind rather than hand-rolling per-pair
// coercion tables. Bool is treated as 0/1 (spec §4.3: arithmetic on bools
// is permitted and numeric, matching the dynamically-typed source
// language). ok is false for any kind arithmetic can't touch.
func asNumber(v values.Value) (float64, bool) {
	switch t := v.(type) {
	case values.Int:
		return float64(t.V), true
	case values.Float:
		return t.V, true
	case values.Bool:
		if t.V {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// isFloaty reports whether v is a Float, so that int op int stays Int (a
// Bool operand counts as an Int here) but anything touching a Float
// promotes to Float, matching ordinary dynamic-language numeric towers.
func isFloaty(v values.Value) bool {
	_, ok := v.(values.Float)
	return ok
}

func numResult(a, b values.Value, f float64) values.Value {
	if isFloaty(a) || isFloaty(b) {
		return values.Float{V: f}
	}
	return values.Int{V: int64(f)}
}

// opAdd implements `+`: numeric addition, string concatenation, or list
// concatenation, mirroring interp.py's run_arithmetic PLUS branch.
func (ip *Interpreter) opAdd(node *ast.Node, a, b values.Value) values.Value {
	if as, ok := a.(values.Str); ok {
		if bs, ok := b.(values.Str); ok {
			return values.Str{V: as.V + bs.V}
		}
	}
	if al, ok := a.(*values.List); ok {
		if bl, ok := b.(*values.List); ok {
			out := append([]values.Value{}, al.V...)
			out = append(out, bl.V...)
			return &values.List{V: out}
		}
	}
	an, aok := asNumber(a)
	bn, bok := asNumber(b)
	if !aok || !bok {
		ip.fail(ErrTypeError, node, "unsupported operand types for +: %s and %s", a.Kind(), b.Kind())
		return values.Null{}
	}
	return numResult(a, b, an+bn)
}

// opSub implements `-`.
func (ip *Interpreter) opSub(node *ast.Node, a, b values.Value) values.Value {
	an, aok := asNumber(a)
	bn, bok := asNumber(b)
	if !aok || !bok {
		ip.fail(ErrTypeError, node, "unsupported operand types for -: %s and %s", a.Kind(), b.Kind())
		return values.Null{}
	}
	return numResult(a, b, an-bn)
}

// opMul implements `*`: numeric multiplication, or string/list repetition
// by an int count (spec §4.3).
func (ip *Interpreter) opMul(node *ast.Node, a, b values.Value) values.Value {
	if as, ok := a.(values.Str); ok {
		if bi, ok := b.(values.Int); ok {
			return values.Str{V: strings.Repeat(as.V, maxInt(0, int(bi.V)))}
		}
	}
	if al, ok := a.(*values.List); ok {
		if bi, ok := b.(values.Int); ok {
			out := make([]values.Value, 0, len(al.V)*maxInt(0, int(bi.V)))
			for i := int64(0); i < bi.V; i++ {
				out = append(out, al.V...)
			}
			return &values.List{V: out}
		}
	}
	an, aok := asNumber(a)
	bn, bok := asNumber(b)
	if !aok || !bok {
		ip.fail(ErrTypeError, node, "unsupported operand types for *: %s and %s", a.Kind(), b.Kind())
		return values.Null{}
	}
	return numResult(a, b, an*bn)
}

// opDiv implements `/`: int / int truncates toward zero like a host
// integer division, and either operand being a Float promotes the
// result to floating-point division (spec §4.3).
func (ip *Interpreter) opDiv(node *ast.Node, a, b values.Value) values.Value {
	an, aok := asNumber(a)
	bn, bok := asNumber(b)
	if !aok || !bok {
		ip.fail(ErrTypeError, node, "unsupported operand types for /: %s and %s", a.Kind(), b.Kind())
		return values.Null{}
	}
	if bn == 0 {
		ip.fail(ErrTypeError, node, "division by zero")
		return values.Null{}
	}
	if !isFloaty(a) && !isFloaty(b) {
		return values.Int{V: int64(an) / int64(bn)}
	}
	return values.Float{V: an / bn}
}

// opMod implements `%`.
func (ip *Interpreter) opMod(node *ast.Node, a, b values.Value) values.Value {
	an, aok := asNumber(a)
	bn, bok := asNumber(b)
	if !aok || !bok {
		ip.fail(ErrTypeError, node, "unsupported operand types for %%: %s and %s", a.Kind(), b.Kind())
		return values.Null{}
	}
	if bn == 0 {
		ip.fail(ErrTypeError, node, "modulo by zero")
		return values.Null{}
	}
	return numResult(a, b, math.Mod(an, bn))
}

// opPow implements `**`.
func (ip *Interpreter) opPow(node *ast.Node, a, b values.Value) values.Value {
	an, aok := asNumber(a)
	bn, bok := asNumber(b)
	if !aok || !bok {
		ip.fail(ErrTypeError, node, "unsupported operand types for **: %s and %s", a.Kind(), b.Kind())
		return values.Null{}
	}
	return numResult(a, b, math.Pow(an, bn))
}

// opNeg implements unary `-`.
func (ip *Interpreter) opNeg(node *ast.Node, a values.Value) values.Value {
	an, ok := asNumber(a)
	if !ok {
		ip.fail(ErrTypeError, node, "unsupported operand type for unary -: %s", a.Kind())
		return values.Null{}
	}
	if isFloaty(a) {
		return values.Float{V: -an}
	}
	return values.Int{V: -int64(an)}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// valuesEqual implements `==`/`!=` (spec §4.3): numeric kinds compare by
// value across Int/Float/Bool, strings and entity refs compare by
// identity/content, lists and maps compare structurally.
func valuesEqual(a, b values.Value) bool {
	an, aok := asNumber(a)
	bn, bok := asNumber(b)
	if aok && bok {
		return an == bn
	}
	if as, ok := a.(values.Str); ok {
		bs, ok := b.(values.Str)
		return ok && as.V == bs.V
	}
	if _, ok := a.(values.Null); ok {
		_, ok2 := b.(values.Null)
		return ok2
	}
	if al, ok := a.(*values.List); ok {
		bl, ok := b.(*values.List)
		if !ok || len(al.V) != len(bl.V) {
			return false
		}
		for i := range al.V {
			if !valuesEqual(al.V[i], bl.V[i]) {
				return false
			}
		}
		return true
	}
	if am, ok := a.(*values.Map); ok {
		bm, ok := b.(*values.Map)
		if !ok || am.V.Len() != bm.V.Len() {
			return false
		}
		for _, k := range am.V.Keys() {
			av, _ := am.V.Get(k)
			bv, ok := bm.V.Get(k)
			if !ok || !valuesEqual(av, bv) {
				return false
			}
		}
		return true
	}
	if ar, ok := a.(graph.EntityRefValue); ok {
		br, ok := b.(graph.EntityRefValue)
		if !ok {
			return false
		}
		if ar.V == nil || br.V == nil {
			return ar.V == nil && br.V == nil
		}
		return ar.V.JID() == br.V.JID()
	}
	return a == b
}

// orderCompare implements `<`/`<=`/`>`/`>=`: numeric kinds compare by
// value, strings lexicographically. ok is false for any other pairing
// (spec §4.3: ordering comparisons on unsupported kinds are a type
// error).
func orderCompare(a, b values.Value) (cmp int, ok bool) {
	an, aok := asNumber(a)
	bn, bok := asNumber(b)
	if aok && bok {
		switch {
		case an < bn:
			return -1, true
		case an > bn:
			return 1, true
		default:
			return 0, true
		}
	}
	if as, ok := a.(values.Str); ok {
		if bs, ok := b.(values.Str); ok {
			return strings.Compare(as.V, bs.V), true
		}
	}
	return 0, false
}

// membership implements `in`/`not in` (spec §4.3): substring test for
// strings, element test for lists, key test for maps.
func membership(needle, haystack values.Value) (found, ok bool) {
	switch h := haystack.(type) {
	case values.Str:
		n, isStr := needle.(values.Str)
		if !isStr {
			return false, false
		}
		return strings.Contains(h.V, n.V), true
	case *values.List:
		for _, e := range h.V {
			if valuesEqual(needle, e) {
				return true, true
			}
		}
		return false, true
	case *values.Map:
		n, isStr := needle.(values.Str)
		if !isStr {
			return false, false
		}
		return h.V.Has(n.V), true
	default:
		return false, false
	}
}
