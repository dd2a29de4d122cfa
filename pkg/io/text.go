package io

import (
	"bufio"
	"fmt"
	"io"

	"github.com/matzehuels/treetui/pkg/tree"
)

// TextStyle holds the four glyph runs of a box-drawing listing. Pipe and
// Blank must have the same rune width as Branch and Last.
type TextStyle struct {
	Branch string // connector of a child with later siblings
	Last   string // connector of the last child
	Pipe   string // continuation under a non-last ancestor
	Blank  string // continuation under a last ancestor
}

var (
	// StyleCompact matches treeparse.DefaultPattern with two-rune connectors.
	StyleCompact = TextStyle{Branch: "├─ ", Last: "└─ ", Pipe: "│  ", Blank: "   "}

	// StyleTree mimics the output of the "tree" command.
	StyleTree = TextStyle{Branch: "├── ", Last: "└── ", Pipe: "│   ", Blank: "    "}
)

// WriteText writes src as a box-drawing listing, root label first.
//
// Nodes reached again through a back-reference on the current path are
// printed but not expanded, so folded views with mutual references
// terminate.
func WriteText(w io.Writer, src tree.Source, style TextStyle) error {
	root := src.Root()
	if root == tree.NoNode {
		return nil
	}
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, src.Label(root)); err != nil {
		return err
	}
	onPath := map[tree.NodeID]bool{root: true}
	if err := writeChildren(bw, src, root, "", style, onPath); err != nil {
		return err
	}
	return bw.Flush()
}

func writeChildren(w *bufio.Writer, src tree.Source, id tree.NodeID, prefix string, style TextStyle, onPath map[tree.NodeID]bool) error {
	kids := src.Children(id)
	for i, c := range kids {
		last := i == len(kids)-1
		conn, cont := style.Branch, style.Pipe
		if last {
			conn, cont = style.Last, style.Blank
		}
		if _, err := fmt.Fprintf(w, "%s%s%s\n", prefix, conn, src.Label(c)); err != nil {
			return err
		}
		if onPath[c] {
			continue
		}
		onPath[c] = true
		if err := writeChildren(w, src, c, prefix+cont, style, onPath); err != nil {
			return err
		}
		delete(onPath, c)
	}
	return nil
}
