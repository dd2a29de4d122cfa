package treeparse

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/matzehuels/treetui/pkg/errors"
)

// MaxLineSize is the longest input line Parse accepts.
const MaxLineSize = 1 << 20

// Parse reads r line by line and rebuilds the drawn tree.
//
// Trailing carriage returns are dropped. The context is checked between
// lines; a cancelled parse returns ctx.Err() and no tree.
func Parse(ctx context.Context, r io.Reader, cfg Config, opts Options) (*Result, error) {
	cls, err := NewClassifier(cfg)
	if err != nil {
		return nil, err
	}
	if opts.SkipLines < 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "skip lines must not be negative")
	}

	b := NewBuilder(cls, opts)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := b.Add(strings.TrimSuffix(sc.Text(), "\r")); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read input")
	}
	return b.Finish()
}

// ParseLines is Parse over an in-memory slice of lines.
func ParseLines(lines []string, cfg Config, opts Options) (*Result, error) {
	cls, err := NewClassifier(cfg)
	if err != nil {
		return nil, err
	}
	b := NewBuilder(cls, opts)
	for _, line := range lines {
		if err := b.Add(line); err != nil {
			return nil, err
		}
	}
	return b.Finish()
}
