package interp

import (
	"strconv"
	"strings"

	"github.com/wgscript/wgscript/ast"
	"github.com/wgscript/wgscript/place"
	"github.com/wgscript/wgscript/runtime"
	"github.com/wgscript/wgscript/values"
)

// RunAtom evaluates an atom production: a base value (literal, name,
// parenthesized expression, spawn, node/edge/walker/graph ref, list, dict,
// or deref) followed by zero or more func_built_in/index suffixes applied
// left to right. This flattens interp.py's left-recursive
// `atom : atom DOT func_built_in | atom index+ | ...` grammar into a base
// plus a sibling suffix list (spec §9).
func (ip *Interpreter) RunAtom(node *ast.Node) *place.Place {
	if node == nil || len(node.Kids) == 0 {
		return place.Of(values.Null{})
	}
	p := ip.runAtomBase(node.Kid(0))
	for _, suffix := range node.Kids[1:] {
		switch {
		case isFuncBuiltin(suffix.Name):
			p = ip.RunFuncBuiltin(suffix, p)
		case suffix.Name == ast.NIndex:
			p = ip.runIndex(suffix, p)
		default:
			ip.fail(ErrUnsupportedOperation, suffix, "unrecognized atom suffix %q", suffix.Name)
		}
	}
	return p
}

// runAtomBase evaluates the leading, non-suffixed part of an atom.
func (ip *Interpreter) runAtomBase(node *ast.Node) *place.Place {
	if node == nil {
		return place.Of(values.Null{})
	}
	switch node.Name {
	case ast.TInt:
		n, err := strconv.ParseInt(node.TokenText(), 0, 64)
		if err != nil {
			ip.fail(ErrTypeError, node, "malformed int literal %q", node.TokenText())
			return place.Of(values.Null{})
		}
		return place.Of(values.Int{V: n})
	case ast.TFloat:
		f, err := strconv.ParseFloat(node.TokenText(), 64)
		if err != nil {
			ip.fail(ErrTypeError, node, "malformed float literal %q", node.TokenText())
			return place.Of(values.Null{})
		}
		return place.Of(values.Float{V: f})
	case ast.TString:
		return place.Of(values.Str{V: unquoteJacString(node.TokenText())})
	case ast.TBool:
		return place.Of(values.Bool{V: node.TokenText() == "true"})
	case ast.NDottedName:
		return ip.RunDottedName(node)
	case ast.NExpression:
		return ip.RunExpression(node)
	case ast.NSpawn:
		return ip.RunSpawn(node)
	case ast.NNodeEdgeRef:
		return ip.RunNodeEdgeRef(node)
	case ast.NListVal:
		return ip.RunListVal(node)
	case ast.NDictVal:
		return ip.RunDictVal(node)
	case ast.NDeref:
		return ip.RunExpression(node.Kid(0))
	case ast.NFuncCall:
		return ip.RunFuncCall(node)
	default:
		ip.fail(ErrUnsupportedOperation, node, "unrecognized atom base %q", node.Name)
		return place.Of(values.Null{})
	}
}

// unquoteJacString strips the surrounding quotes from a string literal's
// token text and resolves the handful of backslash escapes the grammar
// supports.
func unquoteJacString(tok string) string {
	if len(tok) >= 2 && (tok[0] == '"' || tok[0] == '\'') {
		tok = tok[1 : len(tok)-1]
	}
	var b strings.Builder
	for i := 0; i < len(tok); i++ {
		if tok[i] == '\\' && i+1 < len(tok) {
			i++
			switch tok[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '\\':
				b.WriteByte('\\')
			case '"':
				b.WriteByte('"')
			case '\'':
				b.WriteByte('\'')
			default:
				b.WriteByte(tok[i])
			}
			continue
		}
		b.WriteByte(tok[i])
	}
	return b.String()
}

// runIndex applies a single `[expr]` suffix to base, producing a Place
// bound back into the underlying List/Map so further index/func_built_in
// suffixes, or an enclosing assignment, can write through it (spec §4.1).
func (ip *Interpreter) runIndex(node *ast.Node, base *place.Place) *place.Place {
	idxPlace := ip.RunExpression(node.Kid(0))
	idx := idxPlace.ReadBack()

	switch container := base.ReadBack().(type) {
	case *values.List:
		i, ok := idx.(values.Int)
		if !ok {
			ip.fail(ErrTypeError, node, "list index must be an int, got %s", idx.Kind())
			return place.Of(values.Null{})
		}
		pos := int(i.V)
		if pos < 0 {
			pos += len(container.V)
		}
		if pos < 0 || pos >= len(container.V) {
			ip.fail(ErrIndexError, node, "list index %d out of range (len %d)", i.V, len(container.V))
			return place.Of(values.Null{})
		}
		return place.InList(container, pos, container.V[pos])
	case *values.Map:
		key, ok := idx.(values.Str)
		if !ok {
			ip.fail(ErrTypeError, node, "map key must be a string, got %s", idx.Kind())
			return place.Of(values.Null{})
		}
		v, ok := container.V.Get(key.V)
		if !ok {
			v = values.Null{}
		}
		return place.InMap(container.V, key.V, v)
	case values.Str:
		i, ok := idx.(values.Int)
		if !ok {
			ip.fail(ErrTypeError, node, "string index must be an int, got %s", idx.Kind())
			return place.Of(values.Null{})
		}
		pos := int(i.V)
		if pos < 0 {
			pos += len(container.V)
		}
		if pos < 0 || pos >= len(container.V) {
			ip.fail(ErrIndexError, node, "string index %d out of range (len %d)", i.V, len(container.V))
			return place.Of(values.Null{})
		}
		return place.Of(values.Str{V: string(container.V[pos])})
	default:
		ip.fail(ErrTypeError, node, "value of kind %s is not indexable", base.ReadBack().Kind())
		return place.Of(values.Null{})
	}
}

// RunDottedName resolves a dotted_name atom base. A single-component name
// is a plain variable lookup (falling back to a registered builtin action
// if scope lookup fails and we're not in assign mode); a multi-component
// name is always a builtin action reference (spec §4.2/§4.6, e.g.
// `std.log`), since ordinary attribute access goes through index/
// func_built_in suffixes instead.
func (ip *Interpreter) RunDottedName(node *ast.Node) *place.Place {
	parts := make([]string, len(node.Kids))
	for i, k := range node.Kids {
		parts[i] = k.TokenText()
	}
	dotted := strings.Join(parts, ".")

	if len(parts) == 1 {
		p, err := ip.Scope.Resolve(parts[0], ip.AssignMode)
		if err == nil {
			return p
		}
		if act := ip.resolveAction(dotted, node); act != nil {
			return place.Of(*act)
		}
		ip.fail(ErrUndefinedName, node, "undefined name %q", parts[0])
		return place.Of(values.Null{})
	}

	if act := ip.resolveAction(dotted, node); act != nil {
		return place.Of(*act)
	}
	ip.fail(ErrUndefinedName, node, "no builtin action named %q", dotted)
	return place.Of(values.Null{})
}

// resolveAction looks dotted up in the Machine's ActionRegistry, returning
// nil if it isn't registered (a speculative lookup, not a hard failure;
// the caller decides which error to report).
func (ip *Interpreter) resolveAction(dotted string, node *ast.Node) *values.Value {
	if ip.Machine.Actions == nil {
		return nil
	}
	act, err := ip.Machine.Actions.GetBuiltinAction(dotted, node)
	if err != nil || act == nil {
		return nil
	}
	var v values.Value = runtime.ActionValue{V: act}
	return &v
}
