// Package render turns reconstructed trees into diagrams.
//
// The [nodelink] subpackage draws a tree as a top-down node-link diagram with
// Graphviz. Folded duplicate markers are drawn as dashed back-reference edges
// to the subtree they stand for.
//
//	dot := nodelink.ToDOT(arena, folded, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [nodelink]: github.com/matzehuels/treetui/pkg/render/nodelink
package render
