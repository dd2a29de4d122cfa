package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// errNoInput is returned when stdin is a terminal and no file was named.
var errNoInput = errors.New("no input: pipe a drawn tree into treetui or name a file")

// readInput returns the contents of the named file, or of in when the name
// is empty or "-". A terminal on stdin means nothing was piped in.
func readInput(in io.Reader, name string) ([]byte, error) {
	if name != "" && name != "-" {
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
		return data, nil
	}
	if isTerminal(in) {
		return nil, errNoInput
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return data, nil
}

// isTerminal reports whether v is a file attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// argOrEmpty returns the first argument, if any.
func argOrEmpty(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
