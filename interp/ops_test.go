package interp

import (
	"testing"

	"github.com/wgscript/wgscript/graph/memstore"
	"github.com/wgscript/wgscript/values"
)

func TestOpAddNumericPromotesToFloat(t *testing.T) {
	ip, errs := newTestInterp()

	if got := ip.opAdd(nil, values.Int{V: 1}, values.Int{V: 2}); got != (values.Int{V: 3}) {
		t.Errorf("1 + 2: expected Int(3), actual %v", got)
	}
	if got := ip.opAdd(nil, values.Int{V: 1}, values.Float{V: 2.5}); got != (values.Float{V: 3.5}) {
		t.Errorf("1 + 2.5: expected Float(3.5), actual %v", got)
	}
	if errs.Errors() != nil {
		t.Errorf("opAdd on valid numeric operands should not report an error, got %s", errs.Errors())
	}
}

func TestOpAddStringAndListConcat(t *testing.T) {
	ip, _ := newTestInterp()

	if got := ip.opAdd(nil, values.Str{V: "foo"}, values.Str{V: "bar"}); got != (values.Str{V: "foobar"}) {
		t.Errorf(`"foo" + "bar": expected foobar, actual %v`, got)
	}

	l := ip.opAdd(nil, values.NewList(values.Int{V: 1}), values.NewList(values.Int{V: 2}))
	list, ok := l.(*values.List)
	if !ok || list.Len() != 2 {
		t.Errorf("[1] + [2]: expected a 2-element list, actual %v", l)
	}
}

func TestOpAddTypeMismatchReportsError(t *testing.T) {
	ip, errs := newTestInterp()
	got := ip.opAdd(nil, values.Str{V: "x"}, values.Int{V: 1})
	if got.Kind() != values.KindNull {
		t.Errorf("incompatible opAdd operands: expected Null result, actual %v", got)
	}
	if errs.Errors() == nil {
		t.Errorf("incompatible opAdd operands: expected a reported error")
	}
}

func TestOpDivIntTruncates(t *testing.T) {
	ip, _ := newTestInterp()
	if got := ip.opDiv(nil, values.Int{V: 5}, values.Int{V: 2}); got != (values.Int{V: 2}) {
		t.Errorf("5 / 2: expected Int(2) (int / int truncates), actual %v", got)
	}
	if got := ip.opDiv(nil, values.Int{V: -5}, values.Int{V: 2}); got != (values.Int{V: -2}) {
		t.Errorf("-5 / 2: expected Int(-2), actual %v", got)
	}
}

func TestOpDivFloatPromotes(t *testing.T) {
	ip, _ := newTestInterp()
	if got := ip.opDiv(nil, values.Float{V: 5}, values.Int{V: 2}); got != (values.Float{V: 2.5}) {
		t.Errorf("5.0 / 2: expected Float(2.5), actual %v", got)
	}
	if got := ip.opDiv(nil, values.Int{V: 5}, values.Float{V: 2}); got != (values.Float{V: 2.5}) {
		t.Errorf("5 / 2.0: expected Float(2.5), actual %v", got)
	}
}

func TestOpDivByZero(t *testing.T) {
	ip, errs := newTestInterp()
	ip.opDiv(nil, values.Int{V: 1}, values.Int{V: 0})
	if errs.Errors() == nil {
		t.Errorf("division by zero: expected a reported error")
	}
}

func TestOpModAndPow(t *testing.T) {
	ip, _ := newTestInterp()
	if got := ip.opMod(nil, values.Int{V: 7}, values.Int{V: 3}); got != (values.Int{V: 1}) {
		t.Errorf("7 %% 3: expected Int(1), actual %v", got)
	}
	if got := ip.opPow(nil, values.Int{V: 2}, values.Int{V: 10}); got != (values.Int{V: 1024}) {
		t.Errorf("2 ** 10: expected Int(1024), actual %v", got)
	}
}

func TestOpNeg(t *testing.T) {
	ip, _ := newTestInterp()
	if got := ip.opNeg(nil, values.Int{V: 5}); got != (values.Int{V: -5}) {
		t.Errorf("-5: expected Int(-5), actual %v", got)
	}
	if got := ip.opNeg(nil, values.Float{V: 1.5}); got != (values.Float{V: -1.5}) {
		t.Errorf("-1.5: expected Float(-1.5), actual %v", got)
	}
}

func TestBoolCoercedToNumberForArithmetic(t *testing.T) {
	ip, _ := newTestInterp()
	got := ip.opAdd(nil, values.Bool{V: true}, values.Int{V: 1})
	if got != (values.Int{V: 2}) {
		t.Errorf("true + 1: expected Int(2) (bool coerces to 1), actual %v", got)
	}
}

func TestValuesEqualAcrossNumericKinds(t *testing.T) {
	if !valuesEqual(values.Int{V: 1}, values.Bool{V: true}) {
		t.Errorf("1 == true: expected true under numeric coercion")
	}
	if !valuesEqual(values.Int{V: 1}, values.Float{V: 1.0}) {
		t.Errorf("1 == 1.0: expected true")
	}
	if valuesEqual(values.Str{V: "1"}, values.Int{V: 1}) {
		t.Errorf(`"1" == 1: expected false, strings never coerce to numbers`)
	}
}

func TestValuesEqualEntityRefByJID(t *testing.T) {
	n1 := memstore.NewNode("a")
	n2 := memstore.NewNode("a")
	if valuesEqual(entityRef(n1), entityRef(n2)) {
		t.Errorf("two distinct nodes of the same name: expected inequality by jid")
	}
	if !valuesEqual(entityRef(n1), entityRef(n1)) {
		t.Errorf("the same node reference twice: expected equality")
	}
}

func TestOrderCompareStringsLexicographic(t *testing.T) {
	cmp, ok := orderCompare(values.Str{V: "a"}, values.Str{V: "b"})
	if !ok || cmp >= 0 {
		t.Errorf(`orderCompare("a", "b"): expected (<0, true), actual (%d, %v)`, cmp, ok)
	}
}

func TestOrderCompareUnsupportedKind(t *testing.T) {
	if _, ok := orderCompare(values.NewList(), values.NewList()); ok {
		t.Errorf("orderCompare(list, list): expected ok=false, lists are not orderable")
	}
}

func TestMembership(t *testing.T) {
	if found, ok := membership(values.Str{V: "ell"}, values.Str{V: "hello"}); !found || !ok {
		t.Errorf(`"ell" in "hello": expected (true, true), actual (%v, %v)`, found, ok)
	}
	l := values.NewList(values.Int{V: 1}, values.Int{V: 2})
	if found, ok := membership(values.Int{V: 2}, l); !found || !ok {
		t.Errorf("2 in [1, 2]: expected (true, true), actual (%v, %v)", found, ok)
	}
	if found, _ := membership(values.Int{V: 3}, l); found {
		t.Errorf("3 in [1, 2]: expected false")
	}
	m := values.NewMap()
	m.V.Set("k", values.Int{V: 1})
	if found, ok := membership(values.Str{V: "k"}, m); !found || !ok {
		t.Errorf(`"k" in {k: 1}: expected (true, true), actual (%v, %v)`, found, ok)
	}
}
