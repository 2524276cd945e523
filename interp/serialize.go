package interp

import (
	"fmt"
	"sort"

	"github.com/wgscript/wgscript/ast"
	"github.com/wgscript/wgscript/graph"
	"github.com/wgscript/wgscript/place"
	"github.com/wgscript/wgscript/runtime"
	"github.com/wgscript/wgscript/values"
)

// DeepSerialize converts v into a values.Value tree with no graph-native
// variants left in it (spec §4.5, §6: a walker's `report` buffer must
// survive outside the interpreter, e.g. across a process boundary), by
// replacing every EntityRefValue/EntitySetValue with the Map/List shape
// Entity.Serialize already produces for JSON documents, recursing through
// plain lists and maps so a reported container of entities is handled the
// same way the original source's report_deep_serialize walks a nested
// jac_set/list/dict value.
func (ip *Interpreter) DeepSerialize(v values.Value) (values.Value, error) {
	switch t := v.(type) {
	case graph.EntityRefValue:
		if t.V == nil {
			return values.Null{}, nil
		}
		doc, err := t.V.Serialize(false)
		if err != nil {
			return nil, err
		}
		return valueFromDoc(doc), nil
	case *graph.EntitySetValue:
		out := make([]values.Value, 0, t.V.Len())
		for _, e := range t.V.Entities() {
			doc, err := e.Serialize(false)
			if err != nil {
				return nil, err
			}
			out = append(out, valueFromDoc(doc))
		}
		return &values.List{V: out}, nil
	case *values.List:
		out := make([]values.Value, len(t.V))
		for i, e := range t.V {
			sv, err := ip.DeepSerialize(e)
			if err != nil {
				return nil, err
			}
			out[i] = sv
		}
		return &values.List{V: out}, nil
	case *values.Map:
		m := values.NewOrderedMap()
		for _, k := range t.V.Keys() {
			vv, _ := t.V.Get(k)
			sv, err := ip.DeepSerialize(vv)
			if err != nil {
				return nil, err
			}
			m.Set(k, sv)
		}
		return &values.Map{V: m}, nil
	case runtime.ActionValue:
		return nil, fmt.Errorf("action values are not serializable")
	default:
		return v, nil
	}
}

// valueFromDoc converts a generic JSON-ish document (as produced by
// graph.Entity.Serialize) back into a values.Value tree.
func valueFromDoc(doc interface{}) values.Value {
	switch d := doc.(type) {
	case nil:
		return values.Null{}
	case string:
		return values.Str{V: d}
	case bool:
		return values.Bool{V: d}
	case int:
		return values.Int{V: int64(d)}
	case int64:
		return values.Int{V: d}
	case float64:
		return values.Float{V: d}
	case []string:
		out := make([]values.Value, len(d))
		for i, s := range d {
			out[i] = values.Str{V: s}
		}
		return &values.List{V: out}
	case []interface{}:
		out := make([]values.Value, len(d))
		for i, e := range d {
			out[i] = valueFromDoc(e)
		}
		return &values.List{V: out}
	case map[string]interface{}:
		keys := make([]string, 0, len(d))
		for k := range d {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := values.NewOrderedMap()
		for _, k := range keys {
			m.Set(k, valueFromDoc(d[k]))
		}
		return &values.Map{V: m}
	default:
		return values.Null{}
	}
}

// isFuncBuiltin reports whether name is one of the func_built_in dot
// keywords RunFuncBuiltin dispatches on. A func_built_in suffix node's
// Name is the specific keyword itself (ast.TLength, ast.TDestroy, ...)
// rather than the generic ast.NFuncBuiltin production name, so RunAtom
// uses this set, not a literal NFuncBuiltin comparison, to recognize one.
func isFuncBuiltin(name string) bool {
	switch name {
	case ast.TLength, ast.TKeys, ast.TContext, ast.TInfo, ast.TDetails, ast.TDestroy, ast.TEdge, ast.TNode:
		return true
	default:
		return false
	}
}

// RunFuncBuiltin applies a single `.builtin` suffix to base (spec §4.2,
// §6's entity introspection builtins: length, keys, context, info,
// details, destroy, plus .node and .edge, which project a node, an edge
// or an entity set onto nodes or edges).
func (ip *Interpreter) RunFuncBuiltin(node *ast.Node, base *place.Place) *place.Place {
	v := base.ReadBack()
	switch node.Name {
	case ast.TLength:
		switch t := v.(type) {
		case *values.List:
			return place.Of(values.Int{V: int64(t.Len())})
		case *values.Map:
			return place.Of(values.Int{V: int64(t.V.Len())})
		case values.Str:
			return place.Of(values.Int{V: int64(len(t.V))})
		case *graph.EntitySetValue:
			return place.Of(values.Int{V: int64(t.V.Len())})
		default:
			ip.fail(ErrTypeError, node, "value of kind %s has no length", v.Kind())
			return place.Of(values.Null{})
		}
	case ast.TKeys:
		m, ok := v.(*values.Map)
		if !ok {
			ip.fail(ErrTypeError, node, "value of kind %s has no keys", v.Kind())
			return place.Of(values.Null{})
		}
		keys := m.V.Keys()
		out := make([]values.Value, len(keys))
		for i, k := range keys {
			out[i] = values.Str{V: k}
		}
		return place.Of(&values.List{V: out})
	case ast.TContext:
		e := ip.asEntity(v)
		if e == nil {
			ip.fail(ErrTypeError, node, "value of kind %s has no context", v.Kind())
			return place.Of(values.Null{})
		}
		m := values.NewOrderedMap()
		for _, k := range e.Context().Keys() {
			if k == graph.PrivateAttr {
				continue
			}
			vv, _ := e.Context().Get(k)
			m.Set(k, vv)
		}
		return place.Of(&values.Map{V: m})
	case ast.TInfo, ast.TDetails:
		e := ip.asEntity(v)
		if e == nil {
			ip.fail(ErrTypeError, node, "value of kind %s cannot be serialized", v.Kind())
			return place.Of(values.Null{})
		}
		doc, err := e.Serialize(node.Name == ast.TDetails)
		if err != nil {
			ip.fail(ErrNotSerializable, node, "%s", err)
			return place.Of(values.Null{})
		}
		return place.Of(valueFromDoc(doc))
	case ast.TDestroy:
		return ip.runDotDestroy(node, base)
	case ast.TEdge:
		return ip.runDotEdge(node, v)
	case ast.TNode:
		return ip.runDotNode(node, v)
	default:
		ip.fail(ErrUnsupportedOperation, node, "unrecognized builtin %q", node.Name)
		return place.Of(values.Null{})
	}
}

// runDotDestroy implements `x.destroy(i)` (spec §4.3): removes element i
// from list x in place and returns the same Place, grounded on
// interp.py's run_func_built_in KW_DESTROY branch (`del atom_res.value[idx]`).
func (ip *Interpreter) runDotDestroy(node *ast.Node, base *place.Place) *place.Place {
	lst, ok := base.ReadBack().(*values.List)
	if !ok {
		ip.fail(ErrTypeError, node, "cannot destroy an index from value of kind %s, not a list", base.ReadBack().Kind())
		return base
	}
	idxVal := ip.RunExpression(node.Kid(0)).ReadBack()
	idx, ok := idxVal.(values.Int)
	if !ok {
		ip.fail(ErrTypeError, node, "destroy index must be an int, got %s", idxVal.Kind())
		return base
	}
	i := int(idx.V)
	if i < 0 || i >= len(lst.V) {
		ip.fail(ErrIndexError, node, "destroy index %d out of range (len %d)", i, len(lst.V))
		return base
	}
	lst.V = append(lst.V[:i], lst.V[i+1:]...)
	return base
}

// runDotEdge implements `x.edge` (spec §4.3): projects a node to the
// edges it shares with the current node, passes an edge through
// unchanged, and projects an entity set member-wise, grounded on
// interp.py's run_func_built_in KW_EDGE branch.
func (ip *Interpreter) runDotEdge(node *ast.Node, v values.Value) *place.Place {
	here, hereIsNode := ip.Here.(graph.Node)
	edgesWith := func(n graph.Node) []graph.Entity {
		if !hereIsNode {
			return nil
		}
		out := make([]graph.Entity, 0)
		for _, e := range here.AttachedEdges(n) {
			out = append(out, e)
		}
		return out
	}
	switch t := v.(type) {
	case graph.EntityRefValue:
		switch t.V.(type) {
		case graph.Edge:
			return place.Of(v)
		case graph.Node:
			return place.Of(&graph.EntitySetValue{V: graph.NewEntitySet(edgesWith(t.V.(graph.Node))...)})
		default:
			ip.fail(ErrTypeError, node, "cannot get edges from value of kind %s", v.Kind())
			return place.Of(values.Null{})
		}
	case *graph.EntitySetValue:
		out := graph.NewEntitySet()
		for _, member := range t.V.Entities() {
			switch m := member.(type) {
			case graph.Edge:
				out.Add(m)
			case graph.Node:
				for _, e := range edgesWith(m) {
					out.Add(e)
				}
			}
		}
		return place.Of(&graph.EntitySetValue{V: out})
	default:
		ip.fail(ErrTypeError, node, "cannot get edges from value of kind %s", v.Kind())
		return place.Of(values.Null{})
	}
}

// runDotNode implements `x.node` (spec §4.3): passes a node through
// unchanged, projects an edge to its endpoint nodes, and projects an
// entity set member-wise, grounded on interp.py's run_func_built_in
// KW_NODE branch.
func (ip *Interpreter) runDotNode(node *ast.Node, v values.Value) *place.Place {
	endpoints := func(e graph.Edge) []graph.Entity {
		var out []graph.Entity
		if e.ToNode() != nil {
			out = append(out, e.ToNode())
		}
		if e.FromNode() != nil {
			out = append(out, e.FromNode())
		}
		return out
	}
	switch t := v.(type) {
	case graph.EntityRefValue:
		switch e := t.V.(type) {
		case graph.Node:
			return place.Of(v)
		case graph.Edge:
			return place.Of(&graph.EntitySetValue{V: graph.NewEntitySet(endpoints(e)...)})
		default:
			ip.fail(ErrTypeError, node, "cannot get nodes from value of kind %s", v.Kind())
			return place.Of(values.Null{})
		}
	case *graph.EntitySetValue:
		out := graph.NewEntitySet()
		for _, member := range t.V.Entities() {
			switch m := member.(type) {
			case graph.Edge:
				for _, n := range endpoints(m) {
					out.Add(n)
				}
			case graph.Node:
				out.Add(m)
			}
		}
		return place.Of(&graph.EntitySetValue{V: out})
	default:
		ip.fail(ErrTypeError, node, "cannot get nodes from value of kind %s", v.Kind())
		return place.Of(values.Null{})
	}
}
