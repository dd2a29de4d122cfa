package tree

import (
	"errors"
	"slices"
)

var (
	// ErrUnknownNode is returned when a handle does not belong to the arena.
	ErrUnknownNode = errors.New("unknown node")

	// ErrHasParent is returned by [Arena.Append] when the child is already
	// attached somewhere. Every non-root node has exactly one parent.
	ErrHasParent = errors.New("node already has a parent")

	// ErrRootChild is returned by [Arena.Append] when the child is the root.
	ErrRootChild = errors.New("root cannot be a child")

	// ErrCycle is returned by [Arena.Append] when the parent lies inside the
	// child's own subtree.
	ErrCycle = errors.New("append would create a cycle")

	// SkipChildren can be returned from a [Arena.Walk] callback to skip the
	// descendants of the current node.
	SkipChildren = errors.New("skip children")
)

// NodeID is a stable handle to a node inside one [Arena].
type NodeID int

// NoNode is the zero handle meaning "no node".
const NoNode NodeID = -1

// Source is the read-only view a display layer needs to browse a tree.
type Source interface {
	// Root returns the root handle, or NoNode for an empty tree.
	Root() NodeID
	// Label returns the text of a node.
	Label(id NodeID) string
	// Children returns the ordered children of a node.
	Children(id NodeID) []NodeID
}

type node struct {
	label    string
	parent   NodeID
	children []NodeID
}

// Arena owns every node of a tree. The zero value is not usable; call [New].
type Arena struct {
	nodes []node
	root  NodeID
	first map[string]NodeID // label -> earliest node carrying it
}

// New creates an empty arena with no root.
func New() *Arena {
	return &Arena{root: NoNode}
}

// NewNode appends a detached node and returns its handle.
func (a *Arena) NewNode(label string) NodeID {
	a.nodes = append(a.nodes, node{label: label, parent: NoNode})
	id := NodeID(len(a.nodes) - 1)
	if a.first == nil {
		a.first = make(map[string]NodeID)
	}
	if _, seen := a.first[label]; !seen {
		a.first[label] = id
	}
	return id
}

// SetRoot designates the root node. It returns ErrUnknownNode for a foreign
// handle and ErrHasParent if the node is already attached.
func (a *Arena) SetRoot(id NodeID) error {
	if !a.Contains(id) {
		return ErrUnknownNode
	}
	if a.nodes[id].parent != NoNode {
		return ErrHasParent
	}
	a.root = id
	return nil
}

// Append attaches child as the last child of parent.
func (a *Arena) Append(parent, child NodeID) error {
	if !a.Contains(parent) || !a.Contains(child) {
		return ErrUnknownNode
	}
	if child == a.root {
		return ErrRootChild
	}
	if a.nodes[child].parent != NoNode {
		return ErrHasParent
	}
	for p := parent; p != NoNode; p = a.nodes[p].parent {
		if p == child {
			return ErrCycle
		}
	}
	a.nodes[child].parent = parent
	a.nodes[parent].children = append(a.nodes[parent].children, child)
	return nil
}

// Root returns the root handle, or NoNode if none was set.
func (a *Arena) Root() NodeID { return a.root }

// Len returns the number of nodes in the arena, attached or not.
func (a *Arena) Len() int { return len(a.nodes) }

// Contains reports whether id is a valid handle for this arena.
func (a *Arena) Contains(id NodeID) bool {
	return id >= 0 && int(id) < len(a.nodes)
}

// Label returns the node's text, or "" for an unknown handle.
func (a *Arena) Label(id NodeID) string {
	if !a.Contains(id) {
		return ""
	}
	return a.nodes[id].label
}

// Children returns a copy of the node's ordered children.
func (a *Arena) Children(id NodeID) []NodeID {
	if !a.Contains(id) {
		return nil
	}
	return slices.Clone(a.nodes[id].children)
}

// ChildCount returns the number of children without copying them.
func (a *Arena) ChildCount(id NodeID) int {
	if !a.Contains(id) {
		return 0
	}
	return len(a.nodes[id].children)
}

// Parent returns the node's parent. The root and detached nodes have none.
func (a *Arena) Parent(id NodeID) (NodeID, bool) {
	if !a.Contains(id) || a.nodes[id].parent == NoNode {
		return NoNode, false
	}
	return a.nodes[id].parent, true
}

// Depth returns the number of edges between id and the top of its tree.
func (a *Arena) Depth(id NodeID) int {
	d := 0
	for p, ok := a.Parent(id); ok; p, ok = a.Parent(p) {
		d++
	}
	return d
}

// IsAncestor reports whether anc is a strict ancestor of id.
func (a *Arena) IsAncestor(anc, id NodeID) bool {
	for p, ok := a.Parent(id); ok; p, ok = a.Parent(p) {
		if p == anc {
			return true
		}
	}
	return false
}

// Find returns the first node, in creation order, whose label equals label.
func (a *Arena) Find(label string) (NodeID, bool) {
	id, ok := a.first[label]
	if !ok {
		return NoNode, false
	}
	return id, true
}

// Walk visits the tree depth-first in pre-order starting at the root.
// The callback receives each node with its depth (root = 0). Returning
// SkipChildren prunes the current subtree; any other error stops the walk
// and is returned.
func (a *Arena) Walk(fn func(id NodeID, depth int) error) error {
	if a.root == NoNode {
		return nil
	}
	type frame struct {
		id    NodeID
		depth int
	}
	stack := []frame{{a.root, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if err := fn(f.id, f.depth); err != nil {
			if errors.Is(err, SkipChildren) {
				continue
			}
			return err
		}
		kids := a.nodes[f.id].children
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{kids[i], f.depth + 1})
		}
	}
	return nil
}

// Height returns the depth of the deepest node reachable from the root.
func (a *Arena) Height() int {
	h := 0
	_ = a.Walk(func(_ NodeID, depth int) error {
		h = max(h, depth)
		return nil
	})
	return h
}

var _ Source = (*Arena)(nil)
