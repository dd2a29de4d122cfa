package treeparse

import (
	"testing"

	"github.com/matzehuels/treetui/pkg/errors"
)

func TestClassifyDefault(t *testing.T) {
	c, err := NewClassifier(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		line   string
		want   Line
		wantOK bool
	}{
		{"heading", "root", Line{}, false},
		{"empty", "", Line{}, false},
		{"blank", "   ", Line{}, false},
		{"top level", "├─ a", Line{Anchor: 0, Data: 3, Text: "a"}, true},
		{"last top level", "└─ c", Line{Anchor: 0, Data: 3, Text: "c"}, true},
		{"nested under bar", "│  └─ b", Line{Anchor: 3, Data: 6, Text: "b"}, true},
		{"nested under blank", "   ├─ d", Line{Anchor: 3, Data: 6, Text: "d"}, true},
		{"tree style", "│   └── lib.rs", Line{Anchor: 4, Data: 8, Text: "lib.rs"}, true},
		{"label with spaces", "├─ serde v1.0 (*)", Line{Anchor: 0, Data: 3, Text: "serde v1.0 (*)"}, true},
		{"multibyte label", "└─ データ", Line{Anchor: 0, Data: 3, Text: "データ"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.Classify(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("Classify(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Classify(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestClassifyCountsRunesNotBytes(t *testing.T) {
	c, _ := NewClassifier(DefaultConfig())
	line := "│  │  └─ deep"
	got, ok := c.Classify(line)
	if !ok {
		t.Fatal("expected a node line")
	}
	if got.Anchor != 6 || got.Data != 9 {
		t.Errorf("columns = (%d, %d), want (6, 9); byte offsets would be (%d, ...)",
			got.Anchor, got.Data, len("│  │  "))
	}
}

func TestClassifyDataGroup(t *testing.T) {
	c, err := NewClassifier(Config{
		Pattern:     `[│\s]*([├└]─*\s*)(\w+)`,
		AnchorGroup: 1,
		DataGroup:   2,
	})
	if err != nil {
		t.Fatal(err)
	}

	got, ok := c.Classify("│  ├─ name  # trailing comment")
	if !ok {
		t.Fatal("expected a node line")
	}
	want := Line{Anchor: 3, Data: 6, Text: "name"}
	if got != want {
		t.Errorf("Classify() = %+v, want %+v", got, want)
	}
}

func TestClassifyMissingGroupIsNoMatch(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		line string
	}{
		{
			name: "data group did not participate",
			cfg:  Config{Pattern: `([├└]─ )(?:(\w+)|\*)`, AnchorGroup: 1, DataGroup: 2},
			line: "├─ *",
		},
		{
			name: "data group out of range",
			cfg:  Config{Pattern: `([├└]─ )`, AnchorGroup: 1, DataGroup: 5},
			line: "├─ a",
		},
		{
			name: "anchor group out of range",
			cfg:  Config{Pattern: `[├└]─ `, AnchorGroup: 1},
			line: "├─ a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClassifier(tt.cfg)
			if err != nil {
				t.Fatal(err)
			}
			if _, ok := c.Classify(tt.line); ok {
				t.Error("Classify() ok = true, want soft no-match")
			}
			if _, res := c.classify(tt.line); res != groupMissing {
				t.Errorf("outcome = %v, want groupMissing", res)
			}
		})
	}
}

func TestNewClassifierErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"empty pattern", Config{AnchorGroup: 1}},
		{"bad regex", Config{Pattern: `([├└]`, AnchorGroup: 1}},
		{"negative anchor", Config{Pattern: `([├└])`, AnchorGroup: -1}},
		{"negative data", Config{Pattern: `([├└])`, AnchorGroup: 1, DataGroup: -2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClassifier(tt.cfg)
			if !errors.Is(err, errors.ErrCodeInvalidPattern) {
				t.Errorf("NewClassifier() error = %v, want INVALID_PATTERN", err)
			}
		})
	}
}
