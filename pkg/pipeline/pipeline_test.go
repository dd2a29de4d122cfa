package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treetui/pkg/cache"
	"github.com/matzehuels/treetui/pkg/config"
	"github.com/matzehuels/treetui/pkg/errors"
	tio "github.com/matzehuels/treetui/pkg/io"
	"github.com/matzehuels/treetui/pkg/observability"
	"github.com/matzehuels/treetui/pkg/treeparse"
)

const cargoOutput = "app v0.1.0\n" +
	"├── serde v1.0.0\n" +
	"│   └── serde_derive v1.0.0\n" +
	"└── toml v0.8.0\n" +
	"    └── serde v1.0.0 (*)\n"

func profile(t *testing.T, name string) config.Profile {
	t.Helper()
	p, ok := config.Builtin(name)
	if !ok {
		t.Fatalf("no builtin profile %q", name)
	}
	return p
}

func quietRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, log.New(&bytes.Buffer{}))
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"text", false},
		{"dot", false},
		{"svg", false},
		{"png", false},
		{"pdf", true},
		{"SVG", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "root\n├─ a\n", "root\n├─ a\n"},
		{"colors", "\x1b[1mroot\x1b[0m\n├─ \x1b[32ma\x1b[0m\n", "root\n├─ a\n"},
		{"bom", "\ufeffroot\n", "root\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize([]byte(tt.in)); got != tt.want {
				t.Errorf("Normalize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunnerParse(t *testing.T) {
	r := quietRunner(nil)
	res, err := r.Parse(context.Background(), []byte(cargoOutput), Options{Profile: profile(t, config.ProfileCargo)})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheHit {
		t.Error("NullCache run reported a hit")
	}
	if res.Arena.Len() != 5 || res.Stats.Nodes != 4 {
		t.Errorf("Len() = %d, Nodes = %d", res.Arena.Len(), res.Stats.Nodes)
	}
	if res.Folded == nil {
		t.Fatal("cargo profile should fold duplicates")
	}
	if got := len(res.Folded.Refs()); got != 1 {
		t.Errorf("refs = %d, want 1", got)
	}
	if res.InputHash != cache.Hash([]byte(cargoOutput)) {
		t.Error("InputHash should hash the raw input")
	}
}

func TestRunnerParseColoredInput(t *testing.T) {
	r := quietRunner(nil)
	colored := "\x1b[1mroot\x1b[0m\n\x1b[2m├─\x1b[0m a\n\x1b[2m└─\x1b[0m b\n"
	res, err := r.Parse(context.Background(), []byte(colored), Options{Profile: profile(t, config.ProfileDefault)})
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Arena.Label(res.Arena.Root()); got != "root" {
		t.Errorf("root label = %q", got)
	}
	if res.Arena.Len() != 3 {
		t.Errorf("Len() = %d, want 3", res.Arena.Len())
	}
}

func TestRunnerParseErrors(t *testing.T) {
	r := quietRunner(nil)
	ctx := context.Background()

	_, err := r.Parse(ctx, []byte("nothing here\n"), Options{Profile: profile(t, config.ProfileDefault)})
	if !errors.Is(err, errors.ErrCodeEmptyInput) {
		t.Errorf("empty input error = %v", err)
	}

	_, err = r.Parse(ctx, []byte("root\n├─ a\n        └─ x\n"), Options{Profile: profile(t, config.ProfileDefault)})
	if !errors.Is(err, errors.ErrCodeDanglingAnchor) {
		t.Errorf("dangling error = %v", err)
	}

	bad := profile(t, config.ProfileDefault)
	bad.Pattern = "("
	_, err = r.Parse(ctx, []byte("root\n"), Options{Profile: bad})
	if !errors.Is(err, errors.ErrCodeInvalidPattern) {
		t.Errorf("bad pattern error = %v", err)
	}
}

func TestImport(t *testing.T) {
	cargo := profile(t, config.ProfileCargo)
	parsed, err := quietRunner(nil).Parse(context.Background(), []byte(cargoOutput), Options{Profile: cargo})
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "deps.json")
	if err := tio.ExportJSON(parsed.Arena, parsed.Refs(), path); err != nil {
		t.Fatal(err)
	}

	res, err := Import(path, cargo)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if res.Arena.Len() != 5 || res.Stats.Nodes != 4 {
		t.Errorf("Len() = %d, Nodes = %d", res.Arena.Len(), res.Stats.Nodes)
	}
	if res.Folded == nil || len(res.Folded.Refs()) != 1 {
		t.Error("cargo profile should fold the imported tree")
	}

	plain, err := Import(path, profile(t, config.ProfileDefault))
	if err != nil || plain.Folded != nil {
		t.Errorf("Import(default) folded = %v, err = %v", plain.Folded, err)
	}

	if _, err := Import(filepath.Join(dir, "missing.json"), cargo); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("missing file error = %v", err)
	}
	empty := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(empty, []byte(`{"root": -1, "nodes": []}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Import(empty, cargo); !errors.Is(err, errors.ErrCodeEmptyInput) {
		t.Errorf("empty tree error = %v", err)
	}
}

func TestRunnerCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	counters := &observability.Counters{}
	observability.SetCacheHooks(counters)
	defer observability.Reset()

	r := quietRunner(c)
	ctx := context.Background()
	cargo := profile(t, config.ProfileCargo)

	first, err := r.Parse(ctx, []byte(cargoOutput), Options{Profile: cargo})
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Parse(ctx, []byte(cargoOutput), Options{Profile: cargo})
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheHit || !second.CacheHit {
		t.Errorf("CacheHit = %v, %v; want false, true", first.CacheHit, second.CacheHit)
	}
	if second.Stats != first.Stats {
		t.Errorf("cached Stats = %+v, want %+v", second.Stats, first.Stats)
	}
	if second.Folded == nil || len(second.Folded.Refs()) != 1 {
		t.Error("folding should be reapplied after a cache hit")
	}

	// Folding is not part of the key; the default profile reuses the entry.
	plain := profile(t, config.ProfileDefault)
	third, err := r.Parse(ctx, []byte(cargoOutput), Options{Profile: plain})
	if err != nil {
		t.Fatal(err)
	}
	if !third.CacheHit || third.Folded != nil {
		t.Errorf("default profile: CacheHit = %v, Folded = %v", third.CacheHit, third.Folded)
	}

	refreshed, err := r.Parse(ctx, []byte(cargoOutput), Options{Profile: cargo, Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheHit {
		t.Error("Refresh should bypass the cache")
	}

	snap := counters.Snapshot()
	if snap.CacheHits != 2 || snap.CacheMisses != 1 {
		t.Errorf("cache hits/misses = %d/%d, want 2/1", snap.CacheHits, snap.CacheMisses)
	}
}

func TestRunnerCacheKeyIncludesSettings(t *testing.T) {
	c, _ := cache.NewFileCache(t.TempDir())
	r := quietRunner(c)
	ctx := context.Background()

	p := profile(t, config.ProfileDefault)
	if _, err := r.Parse(ctx, []byte(cargoOutput), Options{Profile: p}); err != nil {
		t.Fatal(err)
	}
	p.NoHeading = true
	res, err := r.Parse(ctx, []byte(cargoOutput), Options{Profile: p})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheHit {
		t.Error("changing the heading setting must miss the cache")
	}
	if got := res.Arena.Label(res.Arena.Root()); got != treeparse.RootPlaceholder {
		t.Errorf("root label = %q", got)
	}
}

func TestRunnerRender(t *testing.T) {
	r := quietRunner(nil)
	ctx := context.Background()
	res, err := r.Parse(ctx, []byte(cargoOutput), Options{Profile: profile(t, config.ProfileCargo)})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		opts RenderOptions
		want []string
	}{
		{"json", RenderOptions{Format: FormatJSON}, []string{`"label": "serde v1.0.0 (*)"`, `"ref": 1`}},
		{"text", RenderOptions{Format: FormatText, Style: StyleTree}, []string{
			"└── toml v0.8.0\n    └── serde v1.0.0 (*)\n        └── serde_derive v1.0.0\n",
		}},
		{"dot", RenderOptions{Format: FormatDOT, Horizontal: true}, []string{"rankdir=LR", "n4 -> n1 [style=dashed"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.Render(ctx, res, tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			for _, want := range tt.want {
				if !strings.Contains(string(out), want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}

	if _, err := r.Render(ctx, res, RenderOptions{Format: "pdf"}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Render(pdf) = %v", err)
	}
	if _, err := r.Render(ctx, res, RenderOptions{Format: FormatText, Style: "fancy"}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Render(fancy style) = %v", err)
	}
}
