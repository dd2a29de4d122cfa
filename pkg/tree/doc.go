// Package tree provides an append-only arena of labeled nodes that stores a
// single rooted tree reconstructed from a text drawing.
//
// # Overview
//
// Nodes live in an [Arena] and are referenced by [NodeID] handles, never by
// pointer. Parent and child links are arena indices, so a node can know both
// its parent and its children without reference cycles, and "append child"
// is a pure index operation. Nodes are never removed: a handle stays valid for
// the lifetime of its arena.
//
//	a := tree.New()
//	root := a.NewNode("root")
//	a.SetRoot(root)
//	child := a.NewNode("a")
//	_ = a.Append(root, child)
//
// # Display
//
// Display layers (the TUI, the HTTP API, the exporters) only need three
// read-only operations, captured by [Source]: the root handle, the label of a
// node and its ordered children. [Arena] implements Source directly.
//
// # Duplicate Folding
//
// Tools such as "cargo tree" print a subtree once and mark later occurrences
// with a suffix like " (*)". [Fold] layers a [FoldedView] over an arena that
// resolves each marked leaf to the first node carrying the unmarked label and
// exposes that node's children under the marker. The children are shared, not
// copied: the arena is left untouched and its node count does not change.
//
// # Concurrency
//
// An Arena is not safe for concurrent mutation. Once built it is read-only
// and can be shared freely between goroutines, as can a FoldedView.
package tree
