package treeparse

import (
	"strings"

	"github.com/matzehuels/treetui/pkg/errors"
	"github.com/matzehuels/treetui/pkg/tree"
)

// RootPlaceholder labels the synthetic root when no heading line was seen.
const RootPlaceholder = "<...>"

// Options controls tree reconstruction.
type Options struct {
	// SkipLines discards this many leading lines before classification.
	SkipLines int
	// Heading uses the last non-blank, non-node line before the first node
	// line as the root label.
	Heading bool
	// FoldDuplicates makes [Result.View] resolve duplicate-marker leaves.
	FoldDuplicates bool
	// Marker is the duplicate suffix; empty means [tree.DefaultMarker].
	Marker string
}

// Stats counts what happened to the input lines.
type Stats struct {
	Lines       int `json:"lines"`        // lines seen, skipped ones included
	Skipped     int `json:"skipped"`      // lines discarded by SkipLines
	Nodes       int `json:"nodes"`        // node lines turned into nodes
	Ignored     int `json:"ignored"`      // non-node lines that did not become the heading
	GroupMisses int `json:"group_misses"` // matches dropped because a configured group was missing
}

// Result is a finished parse.
type Result struct {
	Arena *tree.Arena
	Stats Stats

	folded *tree.FoldedView
}

// Root returns the root handle.
func (r *Result) Root() tree.NodeID { return r.Arena.Root() }

// Folded returns the duplicate-folding view, or nil when folding is off.
func (r *Result) Folded() *tree.FoldedView { return r.folded }

// View returns the source a display layer should browse: the folded view
// when folding is enabled, the plain arena otherwise.
func (r *Result) View() tree.Source {
	if r.folded != nil {
		return r.folded
	}
	return r.Arena
}

// Builder folds lines into a tree one at a time. It is single-use and not
// safe for concurrent use.
type Builder struct {
	cls  *Classifier
	opts Options

	arena   *tree.Arena
	columns map[int]tree.NodeID

	heading  string
	line     int
	stats    Stats
	err      error
	finished bool
}

var errFinished = errors.New(errors.ErrCodeInternal, "builder already finished")

// NewBuilder returns a builder that classifies lines with cls.
func NewBuilder(cls *Classifier, opts Options) *Builder {
	return &Builder{
		cls:     cls,
		opts:    opts,
		arena:   tree.New(),
		columns: make(map[int]tree.NodeID),
	}
}

// Add processes the next input line. Once Add returns an error every later
// call returns the same error.
func (b *Builder) Add(line string) error {
	if b.finished {
		return errFinished
	}
	if b.err != nil {
		return b.err
	}
	b.line++
	b.stats.Lines++
	if b.line <= b.opts.SkipLines {
		b.stats.Skipped++
		return nil
	}

	l, res := b.cls.classify(line)
	if res != matched {
		if res == groupMissing {
			b.stats.GroupMisses++
		}
		b.other(line)
		return nil
	}

	if b.arena.Root() == tree.NoNode {
		b.plantRoot(l.Anchor)
	}
	parent, ok := b.columns[l.Anchor]
	if !ok {
		b.err = &DanglingAnchorError{Line: b.line, Column: l.Anchor, Text: line}
		return b.err
	}

	n := b.arena.NewNode(l.Text)
	if err := b.arena.Append(parent, n); err != nil {
		b.err = errors.Wrap(errors.ErrCodeInternal, err, "line %d", b.line)
		return b.err
	}
	b.columns[l.Data] = n
	b.stats.Nodes++
	return nil
}

// other handles a line that is not a node line.
func (b *Builder) other(line string) {
	if b.arena.Root() == tree.NoNode && b.opts.Heading {
		if h := strings.TrimSpace(line); h != "" {
			// A later heading replaces an earlier one.
			if b.heading != "" {
				b.stats.Ignored++
			}
			b.heading = h
			return
		}
	}
	b.stats.Ignored++
}

// plantRoot creates the root and registers it under the first node's anchor
// column so that every top-level line finds it.
func (b *Builder) plantRoot(anchor int) {
	label := b.heading
	if label == "" {
		label = RootPlaceholder
	}
	root := b.arena.NewNode(label)
	_ = b.arena.SetRoot(root)
	b.columns[anchor] = root
}

// Finish returns the built tree. It fails with ErrEmptyInput when no node
// line was seen and with the first Add error otherwise.
func (b *Builder) Finish() (*Result, error) {
	if b.finished {
		return nil, errFinished
	}
	b.finished = true
	b.columns = nil

	if b.err != nil {
		return nil, b.err
	}
	if b.arena.Root() == tree.NoNode {
		return nil, ErrEmptyInput
	}

	res := &Result{Arena: b.arena, Stats: b.stats}
	if b.opts.FoldDuplicates {
		res.folded = tree.Fold(b.arena, b.opts.Marker)
	}
	return res, nil
}
