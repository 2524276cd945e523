// Package ast defines the opaque AST node the interpreter walks, plus an
// IR round-trip pair used to store ability bodies inside graph entities.
//
// The parser and AST/IR converters are explicitly out of this module's
// scope (spec.md §1): this package only defines the shape the interpreter
// consumes and the identity-preserving serialization the graph store
// needs in order to stash a `can` block's body as data on an entity and
// hand it back unchanged later.
package ast

import (
	"bytes"
	"encoding/gob"

	"github.com/wgscript/wgscript/errwrap"
)

// Node is the interpreter's sole AST representation: a grammar production
// name, its ordered children, and — for leaves — the literal token text.
// The evaluator dispatches purely on Name (spec §3, §9: "Dynamic dispatch
// on AST name... replace reflection with a tagged AST enum and exhaustive
// match").
type Node struct {
	Name  string
	Kids  []*Node
	Token string
}

// New builds a Node with the given name and children.
func New(name string, kids ...*Node) *Node {
	return &Node{Name: name, Kids: kids}
}

// Leaf builds a token-bearing Node with no children.
func Leaf(name, token string) *Node {
	return &Node{Name: name, Token: token}
}

// TokenText returns the leaf's literal text.
func (n *Node) TokenText() string {
	if n == nil {
		return ""
	}
	return n.Token
}

// Kid returns the i'th child, or nil if out of range.
func (n *Node) Kid(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Kids) {
		return nil
	}
	return n.Kids[i]
}

// Text reconstructs a rough source-text rendering of the subtree, used only
// for error messages (spec §6's `rt_error(message, ast_node)` needs
// something human-readable to quote).
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	if len(n.Kids) == 0 {
		return n.Token
	}
	out := ""
	for i, k := range n.Kids {
		if i > 0 {
			out += " "
		}
		out += k.Text()
	}
	return out
}

// IR is the opaque, serializable form of a Node subtree, suitable for
// storing inside an entity's ability table and reconstituting later. It is
// intentionally just a byte blob: callers must not depend on its internal
// shape, only on FromIR(ToIR(n)) reproducing an equivalent tree.
type IR []byte

// ToIR serializes a Node subtree. gob is used rather than a third-party
// serializer because no example library in this module's dependency
// tree offers a generic identity-preserving codec for an arbitrary
// recursive Go struct, and gob is the standard, idiomatic choice for
// exact round-tripping of Go values that never leave the process (see
// DESIGN.md).
func ToIR(n *Node) (IR, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(n); err != nil {
		return nil, errwrap.Wrapf(err, "could not encode ast node to ir")
	}
	return buf.Bytes(), nil
}

// FromIR reconstructs the Node subtree previously produced by ToIR.
func FromIR(ir IR) (*Node, error) {
	var n Node
	if err := gob.NewDecoder(bytes.NewReader(ir)).Decode(&n); err != nil {
		return nil, errwrap.Wrapf(err, "could not decode ast node from ir")
	}
	return &n, nil
}
