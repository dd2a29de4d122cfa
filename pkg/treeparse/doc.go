// Package treeparse rebuilds a [tree.Arena] from the lines of a text tree
// drawing such as the output of "tree" or "cargo tree".
//
// # How It Works
//
// A [Classifier] applies a regular expression to each line. The configured
// anchor group marks where the line's connector begins (the anchor column);
// the label starts either at a data group or right after the anchor span (the
// data column). Columns are counted in runes, so multi-byte box-drawing glyphs
// do not skew offsets.
//
// A [Builder] folds classified lines into the arena. It keeps one map from
// column to the most recent node whose label began at that column. A new
// line's parent is whatever node is registered under its anchor column; the
// new node is then registered under its own data column, shadowing earlier
// nodes there. No depth counter or stack is needed:
//
//	root
//	├─ a        anchor 0 → root,  registers a at column 3
//	│  └─ b     anchor 3 → a,     registers b at column 6
//	└─ c        anchor 0 → root,  registers c at column 3
//
// # Roots and Headings
//
// With [Options.Heading] enabled, the last non-blank line before the first
// node line becomes the root label, so a command echo above the tree's own
// heading is passed over. Otherwise, or when no such line exists, the
// root is labeled [RootPlaceholder].
//
// # Errors
//
// Parsing fails hard rather than guessing: input without any node line yields
// [ErrEmptyInput], and a line whose anchor column was never registered yields
// a [*DanglingAnchorError] naming the line. No partial tree is returned.
//
// # Usage
//
//	res, err := treeparse.Parse(ctx, os.Stdin, treeparse.DefaultConfig(), treeparse.Options{Heading: true})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Arena.Len(), "nodes")
package treeparse
