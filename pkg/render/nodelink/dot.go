package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/treetui/pkg/tree"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed appends the node handle and depth to each label.
	Detailed bool
	// MaxLabel truncates labels to this many terminal cells. Zero disables
	// truncation.
	MaxLabel int
	// Horizontal uses rankdir=LR.
	Horizontal bool
}

// ToDOT converts a tree to Graphviz DOT source. Nodes appear in pre-order and
// parent edges precede reference edges.
func ToDOT(a *tree.Arena, refs tree.Referencer, opts Options) string {
	var buf bytes.Buffer
	rankdir := "TB"
	if opts.Horizontal {
		rankdir = "LR"
	}
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	var order []tree.NodeID
	_ = a.Walk(func(id tree.NodeID, depth int) error {
		order = append(order, id)
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(a.Label(id), id, depth, opts))}
		if id == a.Root() {
			attrs = append(attrs, "fillcolor=lightyellow")
		}
		if refs != nil {
			if _, ok := refs.Target(id); ok {
				attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
			}
		}
		fmt.Fprintf(&buf, "  %s [%s];\n", nodeName(id), strings.Join(attrs, ", "))
		return nil
	})

	buf.WriteString("\n")
	for _, id := range order {
		for _, c := range a.Children(id) {
			fmt.Fprintf(&buf, "  %s -> %s;\n", nodeName(id), nodeName(c))
		}
	}
	if refs != nil {
		for _, id := range order {
			if t, ok := refs.Target(id); ok {
				fmt.Fprintf(&buf, "  %s -> %s [style=dashed, color=grey40, constraint=false];\n", nodeName(id), nodeName(t))
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeName(id tree.NodeID) string {
	return "n" + strconv.Itoa(int(id))
}

func fmtLabel(label string, id tree.NodeID, depth int, opts Options) string {
	if opts.MaxLabel > 0 {
		label = runewidth.Truncate(label, opts.MaxLabel, "…")
	}
	if !opts.Detailed {
		return label
	}
	return fmt.Sprintf("%s\n#%d depth %d", label, id, depth)
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	data, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(data), nil
}

// RenderPNG renders DOT source to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-based svg header with a plain
// viewBox so the diagram scales in browsers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
