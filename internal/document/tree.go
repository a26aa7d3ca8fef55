package document

import (
	"github.com/inamate/pathsvg/internal/geom"
	"github.com/inamate/pathsvg/internal/typeid"
)

// NodeID addresses a node inside a Tree arena.
type NodeID int

// NodeKind tells which payload of a Node is set.
type NodeKind int

const (
	KindGroup NodeKind = iota
	KindShape
	KindText
)

func (k NodeKind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindShape:
		return "shape"
	case KindText:
		return "text"
	}
	return "unknown"
}

// Node is one arena entry. Groups carry children, shapes and text carry
// their payload and no children.
type Node struct {
	ID        string
	Kind      NodeKind
	Transform geom.Matrix2D
	Shape     *ShapeNode
	Text      *TextRun
	Children  []NodeID
}

// Tree is an arena of nodes rooted at Root. Nodes refer to each other only
// by index, so the tree can be moved or copied without shared ownership.
type Tree struct {
	Nodes []Node
	Root  NodeID
}

// Node returns the node with the given id.
func (t *Tree) Node(id NodeID) *Node {
	return &t.Nodes[id]
}

func (t *Tree) addGroup(transform geom.Matrix2D) NodeID {
	return t.add(Node{ID: typeid.NewGroupID(), Kind: KindGroup, Transform: transform})
}

func (t *Tree) add(n Node) NodeID {
	t.Nodes = append(t.Nodes, n)
	return NodeID(len(t.Nodes) - 1)
}

func (t *Tree) appendChild(parent, child NodeID) {
	t.Nodes[parent].Children = append(t.Nodes[parent].Children, child)
}

func (t *Tree) addDocumentNode(dn DocumentNode) NodeID {
	switch n := dn.(type) {
	case ShapeNode:
		return t.add(Node{ID: n.ID, Kind: KindShape, Transform: n.Transform, Shape: &n})
	case TextRun:
		return t.add(Node{ID: n.ID, Kind: KindText, Transform: n.Transform, Text: &n})
	}
	panic("document: unknown node type")
}

// Walk visits the tree depth-first in paint order. The world transform
// passed to fn already includes the node's own transform. Returning false
// skips the node's children.
func (t *Tree) Walk(fn func(id NodeID, n *Node, world geom.Matrix2D, depth int) bool) {
	if len(t.Nodes) == 0 {
		return
	}
	t.walk(t.Root, geom.Identity(), 0, fn)
}

func (t *Tree) walk(id NodeID, parent geom.Matrix2D, depth int, fn func(NodeID, *Node, geom.Matrix2D, int) bool) {
	n := &t.Nodes[id]
	world := parent.Multiply(n.Transform)
	if !fn(id, n, world, depth) {
		return
	}
	for _, child := range n.Children {
		t.walk(child, world, depth+1, fn)
	}
}

// Shapes returns every shape node in paint order.
func (t *Tree) Shapes() []*ShapeNode {
	var out []*ShapeNode
	t.Walk(func(_ NodeID, n *Node, _ geom.Matrix2D, _ int) bool {
		if n.Kind == KindShape {
			out = append(out, n.Shape)
		}
		return true
	})
	return out
}

// Content returns the group holding the document's nodes: the only child
// of the root group.
func (t *Tree) Content() *Node {
	root := t.Node(t.Root)
	if len(root.Children) == 0 {
		return root
	}
	return t.Node(root.Children[0])
}
