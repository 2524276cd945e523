// Package graph defines the interfaces the interpreter core consumes from
// the host graph store (spec.md §3, §6). The store itself — persistence,
// identifier allocation, the architype registry — is an external
// collaborator; this package only fixes the shape the core depends on.
// See graph/memstore for a reference in-memory implementation used by
// tests.
package graph

import "github.com/wgscript/wgscript/values"

// JType tags what kind of entity a value is.
type JType int

// The entity kinds the language distinguishes.
const (
	JTypeNode JType = iota
	JTypeEdge
	JTypeWalker
	JTypeGraph
)

// String names a JType for error messages.
func (j JType) String() string {
	switch j {
	case JTypeNode:
		return "node"
	case JTypeEdge:
		return "edge"
	case JTypeWalker:
		return "walker"
	case JTypeGraph:
		return "graph"
	default:
		return "unknown"
	}
}

// PrivateAttr is the reserved context key holding the list of attribute
// names considered non-public (spec §3 invariant 3).
const PrivateAttr = "_private"

// Ability is a named, stored code block (or a registered built-in action
// reference) attached to an entity, along with its trigger timing and an
// optional preset input/output IR fragment (spec §4.2).
type Ability struct {
	Name   string
	Event  string // "entry", "exit", or "activity"
	Body   interface{}   // the ast.IR for a stored code block, or nil for a builtin
	Preset interface{}   // preset_in_out IR fragment, or nil
	Access []string      // optional explicit access list
}

// AbilityTable is an ordered lookup of Abilities by name, contributed by an
// entity for unqualified ability lookup from nested scopes (spec §3's
// Scope "list of ability tables").
type AbilityTable interface {
	GetByName(name string) (*Ability, bool)
	Add(a *Ability)
	All() []*Ability
}

// Entity is the common surface of nodes, edges, walkers, and graphs (spec
// §3, §6).
type Entity interface {
	JID() string
	Name() string
	JType() JType
	Context() *values.OrderedMap
	ActivityActions() AbilityTable
	EntryActions() AbilityTable
	ExitActions() AbilityTable
	// Anchor returns the entity's anchor attribute name, or "" if unset.
	Anchor() string
	// SetAnchor sets the anchor iff one is not already set (spec §3
	// invariant 4: anchors are immutable once set). Returns false if an
	// anchor was already present (a no-op, not an error).
	SetAnchor(name string) bool
	// Serialize renders the entity as a JSON-able document (spec §6:
	// "entity.serialize(detailed)"). detailed=true includes private
	// attributes plus a debug dump of the context; detailed=false omits
	// private attributes. The private-attribute list itself is never
	// included.
	Serialize(detailed bool) (map[string]interface{}, error)
}

// Node is a graph entity with edges.
type Node interface {
	Entity
	OutboundEdges() []Edge
	InboundEdges() []Edge
	BidirectedEdges() []Edge
	// AttachedEdges returns all edges incident to this node, optionally
	// restricted to those also incident to other (spec §6).
	AttachedEdges(other Node) []Edge
	AttachOutbound(other Node, edge Edge) error
	AttachInbound(other Node, edge Edge) error
	AttachBidirected(other Node, edge Edge) error
	DetachEdges(other Node, edges []Edge) error
}

// Edge is a graph entity connecting two nodes.
type Edge interface {
	Entity
	ToNode() Node
	FromNode() Node
	// Bidirected reports whether this edge was attached without a
	// direction (spec §4.4: "edge_any is permissive... bidirected edges
	// are included in both to and from views").
	Bidirected() bool
}

// Walker is a mobile program handle as seen by the scheduler interface
// (spec §6). It embeds Entity since walkers are themselves entities with a
// context, abilities, and a jid.
type Walker interface {
	Entity
	Prime(location Entity) error
	Run() error
	Report() []values.Value
	AnchorValue() (values.Value, bool)
	Destroy() error
}
