package pipeline

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Normalize removes ANSI escape sequences and a leading byte order mark.
func Normalize(input []byte) string {
	s := strings.TrimPrefix(string(input), "\ufeff")
	if !strings.Contains(s, "\x1b") {
		return s
	}
	return ansi.Strip(s)
}
