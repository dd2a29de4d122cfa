// Package pipeline connects input normalization, parsing, caching and output
// rendering so that the CLI and the HTTP API behave identically.
//
// # Stages
//
//  1. Normalize: strip ANSI escape sequences (colored "cargo tree" output)
//  2. Parse: rebuild the tree with the selected profile, or load it from cache
//  3. Render: write JSON, text, DOT, SVG or PNG
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Parse(ctx, input, pipeline.Options{Profile: profile})
//	if err != nil {
//	    return err
//	}
//	out, err := runner.Render(ctx, res, pipeline.RenderOptions{Format: pipeline.FormatSVG})
//
// Cache entries hold the arena only. Duplicate folding happens after load, so
// one entry serves a profile with and without folding.
package pipeline

import (
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treetui/pkg/config"
	"github.com/matzehuels/treetui/pkg/errors"
	tio "github.com/matzehuels/treetui/pkg/io"
	"github.com/matzehuels/treetui/pkg/tree"
	"github.com/matzehuels/treetui/pkg/treeparse"
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatText = "text"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// Text styles accepted by RenderOptions.Style.
const (
	StyleCompact = "compact"
	StyleTree    = "tree"
)

// Formats lists the supported output formats.
var Formats = []string{FormatJSON, FormatText, FormatDOT, FormatSVG, FormatPNG}

// DefaultTTL is how long parsed trees stay cached.
const DefaultTTL = 24 * time.Hour

// ValidateFormat checks if the format is supported.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s (must be one of %v)", format, Formats)
	}
	return nil
}

// TextStyle maps a style name to its glyphs.
func TextStyle(name string) (tio.TextStyle, error) {
	switch name {
	case "", StyleCompact:
		return tio.StyleCompact, nil
	case StyleTree:
		return tio.StyleTree, nil
	}
	return tio.TextStyle{}, errors.New(errors.ErrCodeInvalidFormat, "invalid text style: %s (must be compact or tree)", name)
}

// Options configures a parse.
type Options struct {
	// Profile supplies pattern, groups and builder settings.
	Profile config.Profile
	// Refresh bypasses the cache read; the result is still written back.
	Refresh bool
	// Logger overrides the runner's logger.
	Logger *log.Logger
}

// Validate checks the profile.
func (o Options) Validate() error {
	return o.Profile.Validate()
}

// Result is a parsed tree with its provenance.
type Result struct {
	Arena     *tree.Arena
	Folded    *tree.FoldedView // nil unless the profile folds duplicates
	Stats     treeparse.Stats
	InputHash string
	CacheHit  bool
	Duration  time.Duration
}

// View returns the folded view when present and the arena otherwise.
func (r *Result) View() tree.Source {
	if r.Folded != nil {
		return r.Folded
	}
	return r.Arena
}

// Refs returns the back-references of the folded view, or nil.
func (r *Result) Refs() tree.Referencer {
	if r.Folded != nil {
		return r.Folded
	}
	return nil
}

// Import loads a tree previously written as JSON (see [FormatJSON]). Saved
// refs are dropped; folding is recomputed when the profile asks for it.
func Import(path string, p config.Profile) (*Result, error) {
	start := time.Now()
	a, err := tio.ImportJSON(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "import tree")
	}
	if a.Root() == tree.NoNode {
		return nil, treeparse.ErrEmptyInput
	}
	res := &Result{Arena: a, Stats: treeparse.Stats{Nodes: a.Len() - 1}}
	if p.FoldDuplicates {
		res.Folded = tree.Fold(a, p.Marker)
	}
	res.Duration = time.Since(start)
	return res, nil
}

// RenderOptions selects the output of [Runner.Render].
type RenderOptions struct {
	Format     string
	Style      string // text only: compact or tree
	Detailed   bool   // diagrams only
	MaxLabel   int    // diagrams only
	Horizontal bool   // diagrams only
}

// Validate checks format and style.
func (o RenderOptions) Validate() error {
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if _, err := TextStyle(o.Style); err != nil {
		return err
	}
	if o.MaxLabel < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max label must not be negative")
	}
	return nil
}
