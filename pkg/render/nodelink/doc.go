// Package nodelink renders trees as node-link diagrams.
//
// # Usage
//
// Convert a tree to DOT format, then render to SVG or PNG:
//
//	dot := nodelink.ToDOT(arena, refs, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// refs may be nil. When it is a folded view, each resolved duplicate marker
// gets a dashed edge to the node it refers to.
//
// # Options
//
//   - Detailed: node labels also show the handle and depth
//   - MaxLabel: labels wider than this many terminal cells are truncated
//   - Horizontal: lay the tree out left to right instead of top down
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz], which embeds Graphviz as
// WebAssembly, so no external binaries are required.
package nodelink
