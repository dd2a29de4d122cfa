package tree

import (
	"maps"
	"strings"
)

// DefaultMarker is the suffix "cargo tree" appends to repeated subtrees.
const DefaultMarker = " (*)"

// Referencer reports non-owning back-references between nodes.
type Referencer interface {
	Target(id NodeID) (NodeID, bool)
}

// FoldedView resolves duplicate-marker leaves to the subtree they refer to.
// It never mutates the underlying arena.
type FoldedView struct {
	arena   *Arena
	marker  string
	targets map[NodeID]NodeID
}

// Fold builds a FoldedView over a. Every leaf whose label ends with marker is
// matched against the first node, in creation order, labeled with the
// unmarked text. Leaves without a match, or whose match is the leaf itself or
// one of its ancestors, stay ordinary leaves.
func Fold(a *Arena, marker string) *FoldedView {
	if marker == "" {
		marker = DefaultMarker
	}
	v := &FoldedView{arena: a, marker: marker, targets: make(map[NodeID]NodeID)}

	for i := range a.nodes {
		id := NodeID(i)
		if a.ChildCount(id) > 0 {
			continue
		}
		orig, ok := strings.CutSuffix(a.Label(id), marker)
		if !ok {
			continue
		}
		t, ok := a.Find(orig)
		if !ok || t == id || a.IsAncestor(t, id) {
			continue
		}
		v.targets[id] = t
	}
	return v
}

// Arena returns the underlying arena.
func (v *FoldedView) Arena() *Arena { return v.arena }

// Marker returns the suffix used to detect duplicates.
func (v *FoldedView) Marker() string { return v.marker }

// Root returns the arena's root.
func (v *FoldedView) Root() NodeID { return v.arena.Root() }

// Label returns the node's label as drawn, marker included.
func (v *FoldedView) Label(id NodeID) string { return v.arena.Label(id) }

// Children returns the referenced node's children for a resolved marker leaf
// and the node's own children otherwise.
func (v *FoldedView) Children(id NodeID) []NodeID {
	if t, ok := v.targets[id]; ok {
		return v.arena.Children(t)
	}
	return v.arena.Children(id)
}

// Target returns the node a marker leaf refers to.
func (v *FoldedView) Target(id NodeID) (NodeID, bool) {
	t, ok := v.targets[id]
	return t, ok
}

// Refs returns a copy of all resolved marker → target pairs.
func (v *FoldedView) Refs() map[NodeID]NodeID {
	return maps.Clone(v.targets)
}

var (
	_ Source     = (*FoldedView)(nil)
	_ Referencer = (*FoldedView)(nil)
)
