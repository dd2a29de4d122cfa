// Package io provides import and export of reconstructed trees.
//
// # JSON Format
//
// Trees are written as a flat node list in arena order. Handles are the
// array positions, so a reader can rebuild an identical arena:
//
//	{
//	  "root": 0,
//	  "nodes": [
//	    {"id": 0, "label": "app", "children": [1, 3]},
//	    {"id": 1, "label": "serde", "parent": 0, "children": [2]},
//	    {"id": 2, "label": "serde_derive", "parent": 1},
//	    {"id": 3, "label": "serde (*)", "parent": 0, "ref": 1}
//	  ]
//	}
//
// The optional "ref" field records a duplicate-marker back-reference when a
// [tree.Referencer] is supplied to [WriteJSON]. It is informational: readers
// rebuild references by folding the arena again.
//
// # Text Format
//
// [WriteText] re-serializes a tree as a box-drawing listing. With the same
// connector style, the output parses back into an isomorphic tree using
// treeparse.DefaultPattern, provided labels do not begin with whitespace or
// contain newlines.
package io
