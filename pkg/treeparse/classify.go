package treeparse

import (
	"regexp"
	"unicode/utf8"

	"github.com/matzehuels/treetui/pkg/errors"
)

// DefaultPattern matches the connector run of "├─ "/"└─ " style drawings,
// optionally preceded by vertical bars and indentation.
const DefaultPattern = `[│\s]*([├└]─*\s*)`

// Config selects how a line is split into anchor and data.
type Config struct {
	// Pattern is the regular expression identifying connector runs.
	Pattern string
	// AnchorGroup is the capture group whose start is the anchor column.
	AnchorGroup int
	// DataGroup is the capture group holding the label. Zero means the label
	// is everything after the anchor group.
	DataGroup int
}

// DefaultConfig returns the configuration for "├─"/"└─" drawings.
func DefaultConfig() Config {
	return Config{Pattern: DefaultPattern, AnchorGroup: 1}
}

// Line is the classification of a node line.
type Line struct {
	Anchor int    // rune column where the connector begins
	Data   int    // rune column where the label begins
	Text   string // label
}

// Classifier turns raw lines into [Line] values.
// It is safe for concurrent use.
type Classifier struct {
	re     *regexp.Regexp
	anchor int
	data   int
}

// NewClassifier compiles cfg. It fails with INVALID_PATTERN when the pattern
// does not compile or a group index is negative.
func NewClassifier(cfg Config) (*Classifier, error) {
	if cfg.Pattern == "" {
		return nil, errors.New(errors.ErrCodeInvalidPattern, "pattern cannot be empty")
	}
	re, err := regexp.Compile(cfg.Pattern)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPattern, err, "compile %q", cfg.Pattern)
	}
	if cfg.AnchorGroup < 0 || cfg.DataGroup < 0 {
		return nil, errors.New(errors.ErrCodeInvalidPattern, "capture group indexes must not be negative")
	}
	return &Classifier{re: re, anchor: cfg.AnchorGroup, data: cfg.DataGroup}, nil
}

// Classify reports whether line is a node line and, if so, where its anchor
// and label begin. A match whose configured group did not participate, or
// does not exist, counts as no match.
func (c *Classifier) Classify(line string) (Line, bool) {
	l, res := c.classify(line)
	return l, res == matched
}

type outcome int

const (
	noMatch outcome = iota
	groupMissing
	matched
)

func (c *Classifier) classify(line string) (Line, outcome) {
	if line == "" {
		return Line{}, noMatch
	}
	loc := c.re.FindStringSubmatchIndex(line)
	if loc == nil {
		return Line{}, noMatch
	}
	as, ae, ok := group(loc, c.anchor)
	if !ok {
		return Line{}, groupMissing
	}

	ds, de := ae, len(line)
	if c.data > 0 {
		if ds, de, ok = group(loc, c.data); !ok {
			return Line{}, groupMissing
		}
	}

	return Line{
		Anchor: utf8.RuneCountInString(line[:as]),
		Data:   utf8.RuneCountInString(line[:ds]),
		Text:   line[ds:de],
	}, matched
}

// group returns the byte span of capture group n, if it took part in the match.
func group(loc []int, n int) (start, end int, ok bool) {
	if 2*n+1 >= len(loc) || loc[2*n] < 0 {
		return 0, 0, false
	}
	return loc[2*n], loc[2*n+1], true
}
