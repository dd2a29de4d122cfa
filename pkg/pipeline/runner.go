package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"

	"github.com/matzehuels/treetui/pkg/cache"
	tio "github.com/matzehuels/treetui/pkg/io"
	"github.com/matzehuels/treetui/pkg/observability"
	"github.com/matzehuels/treetui/pkg/render/nodelink"
	"github.com/matzehuels/treetui/pkg/tree"
	"github.com/matzehuels/treetui/pkg/treeparse"
)

// Runner executes parses with caching. It holds no per-parse state, so one
// Runner may serve concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    DefaultTTL,
	}
}

// cachedTree is the cache payload of a parse.
type cachedTree struct {
	Tree  json.RawMessage `json:"tree"`
	Stats treeparse.Stats `json:"stats"`
}

// Parse normalizes input and rebuilds its tree, consulting the cache first.
func (r *Runner) Parse(ctx context.Context, input []byte, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = r.Logger
	}

	start := time.Now()
	p := opts.Profile
	res := &Result{InputHash: cache.Hash(input)}
	key := r.Keyer.TreeKey(res.InputHash, cache.TreeKeyOpts{
		Pattern:     p.Pattern,
		AnchorGroup: p.AnchorGroup,
		DataGroup:   p.DataGroup,
		SkipLines:   p.SkipLines,
		Heading:     !p.NoHeading,
	})

	if !opts.Refresh {
		if a, stats, ok := r.load(ctx, key, logger); ok {
			res.Arena, res.Stats, res.CacheHit = a, stats, true
		}
	}

	if !res.CacheHit {
		observability.Pipeline().OnParseStart(ctx, p.Name, len(input))
		parsed, err := treeparse.Parse(ctx, strings.NewReader(Normalize(input)), p.ParseConfig(), p.ParseOptions())
		if err != nil {
			observability.Pipeline().OnParseComplete(ctx, p.Name, 0, time.Since(start), err)
			return nil, err
		}
		observability.Pipeline().OnParseComplete(ctx, p.Name, parsed.Arena.Len(), time.Since(start), nil)
		res.Arena, res.Stats = parsed.Arena, parsed.Stats
		r.store(ctx, key, res, logger)
	}

	if p.FoldDuplicates {
		res.Folded = tree.Fold(res.Arena, p.Marker)
	}
	res.Duration = time.Since(start)

	logger.Debug("parsed tree",
		"profile", p.Name,
		"nodes", res.Arena.Len(),
		"ignored", res.Stats.Ignored,
		"cached", res.CacheHit,
		"duration", res.Duration)
	return res, nil
}

func (r *Runner) load(ctx context.Context, key string, logger *log.Logger) (*tree.Arena, treeparse.Stats, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "err", err)
		return nil, treeparse.Stats{}, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "tree")
		return nil, treeparse.Stats{}, false
	}

	var entry cachedTree
	if err := json.Unmarshal(data, &entry); err != nil {
		logger.Debug("discarding cache entry", "err", err)
		return nil, treeparse.Stats{}, false
	}
	a, err := tio.Unmarshal(entry.Tree)
	if err != nil || a.Root() == tree.NoNode {
		logger.Debug("discarding cache entry", "err", err)
		return nil, treeparse.Stats{}, false
	}
	observability.Cache().OnCacheHit(ctx, "tree")
	return a, entry.Stats, true
}

func (r *Runner) store(ctx context.Context, key string, res *Result, logger *log.Logger) {
	tr, err := tio.Marshal(res.Arena, nil)
	if err != nil {
		logger.Warn("cache encode failed", "err", err)
		return
	}
	data, err := json.Marshal(cachedTree{Tree: tr, Stats: res.Stats})
	if err != nil {
		logger.Warn("cache encode failed", "err", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "tree", len(data))
}

// Render writes res in the requested format.
func (r *Runner) Render(ctx context.Context, res *Result, opts RenderOptions) ([]byte, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Format, res.Arena.Len())
	out, err := render(ctx, res, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Format, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", opts.Format, err)
	}
	return out, nil
}

func render(ctx context.Context, res *Result, opts RenderOptions) ([]byte, error) {
	var buf bytes.Buffer
	switch opts.Format {
	case FormatJSON:
		if err := tio.WriteJSON(&buf, res.Arena, res.Refs()); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatText:
		style, _ := TextStyle(opts.Style)
		if err := tio.WriteText(&buf, res.View(), style); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	dot := nodelink.ToDOT(res.Arena, res.Refs(), nodelink.Options{
		Detailed:   opts.Detailed,
		MaxLabel:   opts.MaxLabel,
		Horizontal: opts.Horizontal,
	})
	switch opts.Format {
	case FormatSVG:
		return nodelink.RenderSVG(ctx, dot)
	case FormatPNG:
		return nodelink.RenderPNG(ctx, dot)
	default:
		return []byte(dot), nil
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
