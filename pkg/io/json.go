package io

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/matzehuels/treetui/pkg/tree"
)

type document struct {
	Root  tree.NodeID `json:"root"`
	Nodes []node      `json:"nodes"`
}

type node struct {
	ID       tree.NodeID   `json:"id"`
	Label    string        `json:"label"`
	Parent   *tree.NodeID  `json:"parent,omitempty"`
	Children []tree.NodeID `json:"children,omitempty"`
	Ref      *tree.NodeID  `json:"ref,omitempty"`
}

func toDocument(a *tree.Arena, refs tree.Referencer) document {
	doc := document{Root: a.Root(), Nodes: make([]node, a.Len())}
	for i := range doc.Nodes {
		id := tree.NodeID(i)
		n := node{ID: id, Label: a.Label(id), Children: a.Children(id)}
		if p, ok := a.Parent(id); ok {
			n.Parent = &p
		}
		if refs != nil {
			if t, ok := refs.Target(id); ok {
				n.Ref = &t
			}
		}
		doc.Nodes[i] = n
	}
	return doc
}

// Marshal encodes a compactly. refs may be nil.
func Marshal(a *tree.Arena, refs tree.Referencer) ([]byte, error) {
	return json.Marshal(toDocument(a, refs))
}

// Unmarshal decodes data produced by [Marshal] or [WriteJSON].
func Unmarshal(data []byte) (*tree.Arena, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return fromDocument(doc)
}

// WriteJSON encodes a as indented JSON and writes it to w.
// If refs is non-nil, resolved duplicate markers carry a "ref" field.
func WriteJSON(w io.Writer, a *tree.Arena, refs tree.Referencer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toDocument(a, refs)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a tree from r.
//
// Node ids must equal their position in the list, every child must name its
// parent, and the root must have no parent. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*tree.Arena, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return fromDocument(doc)
}

func fromDocument(doc document) (*tree.Arena, error) {
	a := tree.New()
	for i, n := range doc.Nodes {
		if n.ID != tree.NodeID(i) {
			return nil, fmt.Errorf("node %d: id %d out of order", i, n.ID)
		}
		a.NewNode(n.Label)
	}
	if len(doc.Nodes) == 0 {
		return a, nil
	}
	if err := a.SetRoot(doc.Root); err != nil {
		return nil, fmt.Errorf("root %d: %w", doc.Root, err)
	}
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if !a.Contains(c) {
				return nil, fmt.Errorf("node %d child %d: %w", n.ID, c, tree.ErrUnknownNode)
			}
			if p := doc.Nodes[c].Parent; p == nil || *p != n.ID {
				return nil, fmt.Errorf("node %d child %d: parent mismatch", n.ID, c)
			}
			if err := a.Append(n.ID, c); err != nil {
				return nil, fmt.Errorf("node %d child %d: %w", n.ID, c, err)
			}
		}
	}
	return a, nil
}

// ExportJSON writes a tree to a JSON file at path.
func ExportJSON(a *tree.Arena, refs tree.Referencer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(f, a, refs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ImportJSON reads a tree from a JSON file at path.
func ImportJSON(path string) (*tree.Arena, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
