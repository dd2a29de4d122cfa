package treeparse

import (
	"context"
	stderrors "errors"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/treetui/pkg/errors"
	"github.com/matzehuels/treetui/pkg/tree"
)

// shape renders a parsed tree as "depth:label" entries in pre-order.
func shape(src tree.Source) []string {
	var out []string
	var walk func(id tree.NodeID, depth int)
	walk = func(id tree.NodeID, depth int) {
		out = append(out, strings.Repeat(".", depth)+src.Label(id))
		for _, c := range src.Children(id) {
			walk(c, depth+1)
		}
	}
	walk(src.Root(), 0)
	return out
}

func mustParse(t *testing.T, input string, opts Options) *Result {
	t.Helper()
	res, err := Parse(context.Background(), strings.NewReader(input), DefaultConfig(), opts)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return res
}

func TestParseScenario(t *testing.T) {
	input := "root\n├─ a\n│  └─ b\n└─ c\n"
	res := mustParse(t, input, Options{Heading: true})

	want := []string{"root", ".a", "..b", ".c"}
	if got := shape(res.Arena); !slices.Equal(got, want) {
		t.Errorf("shape = %v, want %v", got, want)
	}
	if res.Arena.Len() != 4 {
		t.Errorf("Len() = %d, want 4", res.Arena.Len())
	}

	c, _ := NewClassifier(DefaultConfig())
	a, _ := c.Classify("├─ a")
	b, _ := c.Classify("│  └─ b")
	if a.Data != b.Anchor {
		t.Errorf("a.Data = %d, b.Anchor = %d; want equal", a.Data, b.Anchor)
	}
}

func TestParseRootLabel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  Options
		want  string
	}{
		{"heading", "root\n├─ a\n", Options{Heading: true}, "root"},
		{"heading trimmed", "   my project  \n├─ a\n", Options{Heading: true}, "my project"},
		{"last non-blank heading wins", "\nfirst\nsecond\n├─ a\n", Options{Heading: true}, "second"},
		{"blank line keeps heading", "first\n\n├─ a\n", Options{Heading: true}, "first"},
		{"command echo above heading", "$ cargo tree -p app\napp v0.1.0\n├─ a\n", Options{Heading: true}, "app v0.1.0"},
		{"heading disabled", "root\n├─ a\n", Options{}, RootPlaceholder},
		{"no heading line", "├─ a\n└─ b\n", Options{Heading: true}, RootPlaceholder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := mustParse(t, tt.input, tt.opts)
			if got := res.Arena.Label(res.Root()); got != tt.want {
				t.Errorf("root label = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseSyntheticRootOnFirstLine(t *testing.T) {
	res := mustParse(t, "├─ a\n│  └─ b\n└─ c\n", Options{})

	want := []string{RootPlaceholder, ".a", "..b", ".c"}
	if got := shape(res.Arena); !slices.Equal(got, want) {
		t.Errorf("shape = %v, want %v", got, want)
	}
	if res.Arena.Len() != res.Stats.Nodes+1 {
		t.Errorf("Len() = %d, want nodes+1 = %d", res.Arena.Len(), res.Stats.Nodes+1)
	}
}

func TestParseColumnShadowing(t *testing.T) {
	input := strings.Join([]string{
		"root",
		"├─ a",
		"│  ├─ a1",
		"│  └─ a2",
		"│     └─ a2x",
		"├─ b",
		"│  └─ b1",
		"└─ c",
		"   └─ c1",
	}, "\n")
	res := mustParse(t, input, Options{Heading: true})

	want := []string{"root", ".a", "..a1", "..a2", "...a2x", ".b", "..b1", ".c", "..c1"}
	if got := shape(res.Arena); !slices.Equal(got, want) {
		t.Errorf("shape = %v, want %v", got, want)
	}
}

func TestParseSkipLinesAndFooter(t *testing.T) {
	input := "$ cargo tree\nwarning: noise\napp v0.1.0\n├─ a\n└─ b\n\n2 packages\n"
	res := mustParse(t, input, Options{SkipLines: 2, Heading: true})

	if got := res.Arena.Label(res.Root()); got != "app v0.1.0" {
		t.Errorf("root label = %q", got)
	}
	want := Stats{Lines: 7, Skipped: 2, Nodes: 2, Ignored: 2}
	if res.Stats != want {
		t.Errorf("Stats = %+v, want %+v", res.Stats, want)
	}
}

func TestParseHeadingCountsReplacedLines(t *testing.T) {
	input := "$ cargo tree\nwarning: noise\n\napp v0.1.0\n├─ a\n└─ b\n"
	res := mustParse(t, input, Options{Heading: true})

	if got := res.Arena.Label(res.Root()); got != "app v0.1.0" {
		t.Errorf("root label = %q", got)
	}
	want := Stats{Lines: 6, Nodes: 2, Ignored: 3}
	if res.Stats != want {
		t.Errorf("Stats = %+v, want %+v", res.Stats, want)
	}
}

func TestParseCRLF(t *testing.T) {
	res := mustParse(t, "root\r\n├─ a\r\n└─ b\r\n", Options{Heading: true})
	if got := shape(res.Arena); !slices.Equal(got, []string{"root", ".a", ".b"}) {
		t.Errorf("shape = %v", got)
	}
}

func TestParseEmptyInput(t *testing.T) {
	for _, input := range []string{"", "just a heading\n\nand text\n"} {
		_, err := Parse(context.Background(), strings.NewReader(input), DefaultConfig(), Options{Heading: true})
		if !stderrors.Is(err, ErrEmptyInput) {
			t.Errorf("Parse(%q) error = %v, want ErrEmptyInput", input, err)
		}
		if !errors.Is(err, errors.ErrCodeEmptyInput) {
			t.Errorf("Parse(%q) code = %v", input, errors.GetCode(err))
		}
	}
}

func TestParseDanglingAnchor(t *testing.T) {
	input := "root\n├─ a\n│        └─ stray\n└─ c\n"
	res, err := Parse(context.Background(), strings.NewReader(input), DefaultConfig(), Options{Heading: true})
	if res != nil {
		t.Error("no partial tree may be returned")
	}

	var dangling *DanglingAnchorError
	if !stderrors.As(err, &dangling) {
		t.Fatalf("error = %v, want *DanglingAnchorError", err)
	}
	if dangling.Line != 3 {
		t.Errorf("Line = %d, want 3", dangling.Line)
	}
	if dangling.Column != 9 {
		t.Errorf("Column = %d, want 9", dangling.Column)
	}
	if dangling.Text != "│        └─ stray" {
		t.Errorf("Text = %q", dangling.Text)
	}
	if !errors.Is(err, errors.ErrCodeDanglingAnchor) {
		t.Errorf("code = %v, want DANGLING_ANCHOR", errors.GetCode(err))
	}
}

func TestParseDanglingCountsSkippedLines(t *testing.T) {
	input := "skip me\nroot\n├─ a\n      └─ x\n"
	_, err := Parse(context.Background(), strings.NewReader(input), DefaultConfig(), Options{SkipLines: 1, Heading: true})

	var dangling *DanglingAnchorError
	if !stderrors.As(err, &dangling) || dangling.Line != 4 {
		t.Errorf("error = %v, want dangling at line 4", err)
	}
}

func TestParseGroupMissIsSoft(t *testing.T) {
	cfg := Config{Pattern: `[│\s]*([├└]─ )(?:(\w+)|\*)`, AnchorGroup: 1, DataGroup: 2}
	input := "root\n├─ a\n├─ *\n└─ b\n"

	res, err := Parse(context.Background(), strings.NewReader(input), cfg, Options{Heading: true})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := shape(res.Arena); !slices.Equal(got, []string{"root", ".a", ".b"}) {
		t.Errorf("shape = %v", got)
	}
	if res.Stats.GroupMisses != 1 {
		t.Errorf("GroupMisses = %d, want 1", res.Stats.GroupMisses)
	}
}

func TestParseFoldDuplicates(t *testing.T) {
	input := strings.Join([]string{
		"app v0.1.0",
		"├── serde v1.0.0",
		"│   └── serde_derive v1.0.0",
		"└── toml v0.8.0",
		"    ├── serde v1.0.0 (*)",
		"    └── winnow v0.6.0 (*)",
	}, "\n")
	cfg := Config{Pattern: `[│\s]*([├└]─*\s*)`, AnchorGroup: 1}

	res, err := Parse(context.Background(), strings.NewReader(input), cfg, Options{Heading: true, FoldDuplicates: true})
	if err != nil {
		t.Fatal(err)
	}
	v := res.Folded()
	if v == nil {
		t.Fatal("Folded() = nil with FoldDuplicates")
	}
	if res.View() != tree.Source(v) {
		t.Error("View() should return the folded view")
	}
	if res.Arena.Len() != 6 {
		t.Errorf("Len() = %d, want 6: folding must not copy nodes", res.Arena.Len())
	}

	want := []string{
		"app v0.1.0",
		".serde v1.0.0",
		"..serde_derive v1.0.0",
		".toml v0.8.0",
		"..serde v1.0.0 (*)",
		"...serde_derive v1.0.0",
		"..winnow v0.6.0 (*)",
	}
	if got := shape(v); !slices.Equal(got, want) {
		t.Errorf("folded shape = %v, want %v", got, want)
	}

	plain := mustParse(t, input, Options{Heading: true})
	if plain.Folded() != nil {
		t.Error("Folded() should be nil without FoldDuplicates")
	}
}

func TestParseContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Parse(ctx, strings.NewReader("root\n├─ a\n"), DefaultConfig(), Options{})
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestParseInvalidOptions(t *testing.T) {
	_, err := Parse(context.Background(), strings.NewReader("├─ a"), DefaultConfig(), Options{SkipLines: -1})
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want INVALID_CONFIG", err)
	}
	_, err = Parse(context.Background(), strings.NewReader("├─ a"), Config{Pattern: "("}, Options{})
	if !errors.Is(err, errors.ErrCodeInvalidPattern) {
		t.Errorf("error = %v, want INVALID_PATTERN", err)
	}
}

func TestBuilderErrorIsSticky(t *testing.T) {
	c, _ := NewClassifier(DefaultConfig())
	b := NewBuilder(c, Options{})

	if err := b.Add("├─ a"); err != nil {
		t.Fatal(err)
	}
	first := b.Add("            └─ x")
	if first == nil {
		t.Fatal("expected dangling error")
	}
	if err := b.Add("└─ c"); err != first {
		t.Errorf("Add after failure = %v, want %v", err, first)
	}
	if _, err := b.Finish(); err != first {
		t.Errorf("Finish() = %v, want %v", err, first)
	}
	if _, err := b.Finish(); err == nil {
		t.Error("second Finish() should fail")
	}
}

func TestParseLines(t *testing.T) {
	res, err := ParseLines([]string{"root", "├─ a", "└─ b"}, DefaultConfig(), Options{Heading: true})
	if err != nil {
		t.Fatal(err)
	}
	if got := shape(res.View()); !slices.Equal(got, []string{"root", ".a", ".b"}) {
		t.Errorf("shape = %v", got)
	}
}
