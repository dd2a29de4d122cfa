package treeparse

import (
	"fmt"

	"github.com/matzehuels/treetui/pkg/errors"
)

// ErrEmptyInput is returned when no line produced a node, so no root exists.
var ErrEmptyInput = errors.New(errors.ErrCodeEmptyInput, "empty tree: no line matched the node pattern")

// DanglingAnchorError reports a node line whose anchor column has no
// registered ancestor.
type DanglingAnchorError struct {
	Line   int    // 1-based line number in the input, skipped lines included
	Column int    // anchor column that had no registrant
	Text   string // raw line
}

// Error implements the error interface.
func (e *DanglingAnchorError) Error() string {
	return fmt.Sprintf("dangling node at line %d (column %d): %s", e.Line, e.Column, e.Text)
}

// Code returns the structured error code for this error.
func (e *DanglingAnchorError) Code() errors.Code {
	return errors.ErrCodeDanglingAnchor
}
