package interp

import (
	"github.com/wgscript/wgscript/ast"
	"github.com/wgscript/wgscript/place"
	"github.com/wgscript/wgscript/runtime"
	"github.com/wgscript/wgscript/values"
)

// RunExpression dispatches to whichever production the expression wraps
// (spec §4.3's expression precedence chain, rooted here the way
// interp.py's run_expression dispatches on kid[0].name).
func (ip *Interpreter) RunExpression(node *ast.Node) *place.Place {
	if node == nil {
		return place.Of(values.Null{})
	}
	child := node
	if node.Name == ast.NExpression {
		child = node.Kid(0)
	}
	if child == nil {
		return place.Of(values.Null{})
	}
	switch child.Name {
	case ast.NAssignment:
		return ip.RunAssignment(child)
	case ast.NCopyAssign:
		return ip.RunCopyAssign(child)
	case ast.NIncAssign:
		return ip.RunIncAssign(child)
	case ast.NConnect:
		return ip.RunConnect(child)
	case ast.NLogical:
		return ip.RunLogical(child)
	default:
		return ip.RunLogical(child)
	}
}

// lvaluePlace resolves an atom node as an assignment target: assign_mode
// is set for the duration of the lookup so an undefined name is created
// rather than raising UndefinedName (spec §4.1).
func (ip *Interpreter) lvaluePlace(node *ast.Node) *place.Place {
	prev := ip.AssignMode
	ip.AssignMode = true
	defer func() { ip.AssignMode = prev }()
	return ip.RunAtom(node)
}

// RunAssignment implements plain `=`, right-associative so `a = b = 1`
// assigns to both (spec §4.1).
func (ip *Interpreter) RunAssignment(node *ast.Node) *place.Place {
	lhs := ip.lvaluePlace(node.Kid(0))
	rhs := ip.RunExpression(node.Kid(1))
	val := rhs.ReadBack()
	if !lhs.Assignable() {
		ip.fail(ErrNotAssignable, node, "left-hand side is not assignable")
		return rhs
	}
	if err := lhs.Write(val); err != nil {
		ip.fail(ErrIndexError, node, "%s", err)
	}
	ip.Machine.trace("assign", val)
	return lhs
}

// RunCopyAssign implements `:=`: the right-hand side is deep-copied before
// binding, so the new name does not alias the source list/map (spec
// §4.1's "copy assign" form).
func (ip *Interpreter) RunCopyAssign(node *ast.Node) *place.Place {
	lhs := ip.lvaluePlace(node.Kid(0))
	rhs := ip.RunExpression(node.Kid(1))
	val := rhs.ReadBack().Copy()
	if !lhs.Assignable() {
		ip.fail(ErrNotAssignable, node, "left-hand side is not assignable")
		return place.Of(val)
	}
	if err := lhs.Write(val); err != nil {
		ip.fail(ErrIndexError, node, "%s", err)
	}
	return lhs
}

// RunIncAssign implements `+=`/`-=`/`*=`/`/=` (spec §4.3). The operator is
// carried in node.Token.
func (ip *Interpreter) RunIncAssign(node *ast.Node) *place.Place {
	lhs := ip.lvaluePlace(node.Kid(0))
	if !lhs.Assignable() {
		ip.fail(ErrNotAssignable, node, "left-hand side is not assignable")
		return lhs
	}
	rhs := ip.RunExpression(node.Kid(1)).ReadBack()
	cur := lhs.ReadBack()
	var result values.Value
	switch node.Token {
	case ast.TPlusEq:
		result = ip.opAdd(node, cur, rhs)
	case ast.TMinusEq:
		result = ip.opSub(node, cur, rhs)
	case ast.TMulEq:
		result = ip.opMul(node, cur, rhs)
	case ast.TDivEq:
		result = ip.opDiv(node, cur, rhs)
	default:
		ip.fail(ErrUnsupportedOperation, node, "unrecognized compound-assign operator %q", node.Token)
		return lhs
	}
	if err := lhs.Write(result); err != nil {
		ip.fail(ErrIndexError, node, "%s", err)
	}
	return lhs
}

// RunLogical implements `and`/`or` with lazy (Python/JS-style)
// short-circuit: the result is the last operand actually evaluated, not
// coerced to Bool (spec §4.3). A Null operand is simply falsy; an operand
// that yields no Place at all (nil) is reported as UnsupportedOperation
// and the expression evaluates to Null.
func (ip *Interpreter) RunLogical(node *ast.Node) *place.Place {
	cur := ip.RunCompare(node.Kid(0))
	for i := 1; i+1 < len(node.Kids); i += 2 {
		if cur == nil {
			ip.fail(ErrUnsupportedOperation, node, "logical operand produced no value")
			return place.Of(values.Null{})
		}
		opTok := node.Kid(i).TokenText()
		truthy := values.Truthy(cur.ReadBack())
		if opTok == ast.TAnd && !truthy {
			return cur
		}
		if opTok == ast.TOr && truthy {
			return cur
		}
		cur = ip.RunCompare(node.Kid(i + 1))
	}
	return cur
}

// RunCompare implements the chained comparison `a < b < c`, left-folding
// each successive application's Bool result back in as the new left
// operand (spec §4.3, faithfully reproducing the original source's
// run_compare loop).
func (ip *Interpreter) RunCompare(node *ast.Node) *place.Place {
	if len(node.Kids) == 1 {
		return ip.RunArithmetic(node.Kid(0))
	}
	left := ip.RunArithmetic(node.Kid(0)).ReadBack()
	var result values.Value = values.Bool{V: true}
	for i := 1; i+1 < len(node.Kids); i += 2 {
		op := node.Kid(i).TokenText()
		right := ip.RunArithmetic(node.Kid(i + 1)).ReadBack()
		result = values.Bool{V: ip.compareOp(node.Kid(i), op, left, right)}
		left = result
	}
	return place.Of(result)
}

func (ip *Interpreter) compareOp(node *ast.Node, op string, a, b values.Value) bool {
	switch op {
	case ast.TEq:
		return valuesEqual(a, b)
	case ast.TNe:
		return !valuesEqual(a, b)
	case ast.TLt, ast.TLte, ast.TGt, ast.TGte:
		cmp, ok := orderCompare(a, b)
		if !ok {
			ip.fail(ErrTypeError, node, "cannot order-compare %s and %s", a.Kind(), b.Kind())
			return false
		}
		switch op {
		case ast.TLt:
			return cmp < 0
		case ast.TLte:
			return cmp <= 0
		case ast.TGt:
			return cmp > 0
		default:
			return cmp >= 0
		}
	case ast.TIn, ast.TNotIn:
		found, ok := membership(a, b)
		if !ok {
			ip.fail(ErrTypeError, node, "unsupported container type for %q: %s", op, b.Kind())
			return false
		}
		if op == ast.TNotIn {
			return !found
		}
		return found
	default:
		ip.fail(ErrUnsupportedOperation, node, "unrecognized comparison operator %q", op)
		return false
	}
}

// RunArithmetic implements `+`/`-`, left-folded across a flattened
// production (spec §4.3).
func (ip *Interpreter) RunArithmetic(node *ast.Node) *place.Place {
	if len(node.Kids) == 1 {
		return ip.RunTerm(node.Kid(0))
	}
	cur := ip.RunTerm(node.Kid(0)).ReadBack()
	for i := 1; i+1 < len(node.Kids); i += 2 {
		op := node.Kid(i).TokenText()
		rhs := ip.RunTerm(node.Kid(i + 1)).ReadBack()
		switch op {
		case ast.TPlus:
			cur = ip.opAdd(node.Kid(i), cur, rhs)
		case ast.TMinus:
			cur = ip.opSub(node.Kid(i), cur, rhs)
		default:
			ip.fail(ErrUnsupportedOperation, node.Kid(i), "unrecognized arithmetic operator %q", op)
		}
	}
	return place.Of(cur)
}

// RunTerm implements `*`/`/`/`%`.
func (ip *Interpreter) RunTerm(node *ast.Node) *place.Place {
	if len(node.Kids) == 1 {
		return ip.RunFactor(node.Kid(0))
	}
	cur := ip.RunFactor(node.Kid(0)).ReadBack()
	for i := 1; i+1 < len(node.Kids); i += 2 {
		op := node.Kid(i).TokenText()
		rhs := ip.RunFactor(node.Kid(i + 1)).ReadBack()
		switch op {
		case ast.TMul:
			cur = ip.opMul(node.Kid(i), cur, rhs)
		case ast.TDiv:
			cur = ip.opDiv(node.Kid(i), cur, rhs)
		case ast.TMod:
			cur = ip.opMod(node.Kid(i), cur, rhs)
		default:
			ip.fail(ErrUnsupportedOperation, node.Kid(i), "unrecognized term operator %q", op)
		}
	}
	return place.Of(cur)
}

// RunFactor implements unary `-` and `not`, and falls through to power.
func (ip *Interpreter) RunFactor(node *ast.Node) *place.Place {
	if len(node.Kids) == 1 {
		return ip.RunPower(node.Kid(0))
	}
	opTok := node.Kid(0).TokenText()
	operand := ip.RunFactor(node.Kid(1)).ReadBack()
	switch node.Kid(0).Name {
	case ast.TNot:
		return place.Of(values.Bool{V: !values.Truthy(operand)})
	case ast.TMinus:
		return place.Of(ip.opNeg(node, operand))
	default:
		ip.fail(ErrUnsupportedOperation, node, "unrecognized unary operator %q", opTok)
		return place.Of(values.Null{})
	}
}

// RunPower implements right-associative `**`.
func (ip *Interpreter) RunPower(node *ast.Node) *place.Place {
	if len(node.Kids) == 1 {
		return ip.RunFuncCall(node.Kid(0))
	}
	base := ip.RunFuncCall(node.Kid(0)).ReadBack()
	exp := ip.RunPower(node.Kid(1)).ReadBack()
	return place.Of(ip.opPow(node, base, exp))
}

// RunFuncCall dispatches the three call shapes spec §4.2/§4.6 define:
// a bare atom passthrough, a parenthesized call `name(args)`, or an
// ability invocation `node::ability(args)`.
func (ip *Interpreter) RunFuncCall(node *ast.Node) *place.Place {
	if len(node.Kids) == 1 {
		return ip.RunAtom(node.Kid(0))
	}
	if node.Kid(1) != nil && node.Kid(1).Name == ast.NExprList {
		calleePlace := ip.RunAtom(node.Kid(0))
		args := ip.RunExprList(node.Kid(1))
		return ip.invoke(node, calleePlace.ReadBack(), args)
	}
	// Ability invocation: node.Kid(0) optional receiver atom (nil means
	// `visitor`/`here` per context), node.Kid(1) the ability name leaf,
	// node.Kid(2) an optional spawn_ctx of preset args (ignored by
	// CallAbility's nested interpreter, which reads has-vars from scope).
	var receiver values.Value
	if recv := node.Kid(0); recv != nil {
		receiver = ip.RunAtom(recv).ReadBack()
	} else {
		receiver = ip.hereOrVisitor()
	}
	nd := ip.asEntity(receiver)
	if nd == nil {
		ip.fail(ErrTypeError, node, "ability call target is not a node/edge/walker")
		return place.Of(values.Null{})
	}
	name := node.Kid(1).TokenText()
	if err := ip.CallAbility(nd, name, node); err != nil {
		ip.fail(ErrMissingAbility, node, "%s", err)
	}
	return place.Of(values.Null{})
}

func (ip *Interpreter) hereOrVisitor() values.Value {
	if ip.Here != nil {
		return entityRef(ip.Here)
	}
	return values.Null{}
}

// invoke calls a resolved callee (an action value) with args, matching
// interp.py's run_func_call paren-call branch.
func (ip *Interpreter) invoke(node *ast.Node, callee values.Value, args []values.Value) *place.Place {
	act, ok := callee.(runtime.ActionValue)
	if !ok {
		ip.fail(ErrTypeError, node, "value of kind %s is not callable", callee.Kind())
		return place.Of(values.Null{})
	}
	ip.Machine.trace("call args", args)
	result, err := act.V.Trigger(args)
	if err != nil {
		ip.fail(ErrArityError, node, "%s", err)
		return place.Of(values.Null{})
	}
	if result == nil {
		result = values.Null{}
	}
	return place.Of(result)
}

// RunExprList evaluates a comma-separated expr_list into argument values.
func (ip *Interpreter) RunExprList(node *ast.Node) []values.Value {
	if node == nil {
		return nil
	}
	out := make([]values.Value, 0, len(node.Kids))
	for _, k := range node.Kids {
		out = append(out, ip.RunExpression(k).ReadBack())
	}
	return out
}

// RunNameList evaluates a name_list (has_stmt's comma-separated variable
// names) into plain strings.
func (ip *Interpreter) RunNameList(node *ast.Node) []string {
	if node == nil {
		return nil
	}
	out := make([]string, 0, len(node.Kids))
	for _, k := range node.Kids {
		out = append(out, k.TokenText())
	}
	return out
}

// RunListVal evaluates a list_val literal.
func (ip *Interpreter) RunListVal(node *ast.Node) *place.Place {
	out := make([]values.Value, 0, len(node.Kids))
	for _, k := range node.Kids {
		out = append(out, ip.RunExpression(k).ReadBack())
	}
	return place.Of(&values.List{V: out})
}

// RunDictVal evaluates a dict_val literal of kv_pair children.
func (ip *Interpreter) RunDictVal(node *ast.Node) *place.Place {
	m := values.NewOrderedMap()
	for _, kv := range node.Kids {
		key := ip.RunExpression(kv.Kid(0)).ReadBack()
		val := ip.RunExpression(kv.Kid(1)).ReadBack()
		ks, ok := key.(values.Str)
		if !ok {
			ip.fail(ErrTypeError, kv, "dict key must be a string, got %s", key.Kind())
			continue
		}
		m.Set(ks.V, val)
	}
	return place.Of(&values.Map{V: m})
}
