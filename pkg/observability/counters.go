package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// Counters tallies events in memory. It implements every hook interface and
// is safe for concurrent use.
type Counters struct {
	parses      atomic.Int64
	parseErrors atomic.Int64
	nodes       atomic.Int64
	renders     atomic.Int64
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
	requests    atomic.Int64
	serverErrs  atomic.Int64
}

// Snapshot is a point-in-time copy of Counters.
type Snapshot struct {
	Parses       int64 `json:"parses"`
	ParseErrors  int64 `json:"parse_errors"`
	Nodes        int64 `json:"nodes"`
	Renders      int64 `json:"renders"`
	CacheHits    int64 `json:"cache_hits"`
	CacheMisses  int64 `json:"cache_misses"`
	Requests     int64 `json:"requests"`
	ServerErrors int64 `json:"server_errors"`
}

// Snapshot returns the current values.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Parses:       c.parses.Load(),
		ParseErrors:  c.parseErrors.Load(),
		Nodes:        c.nodes.Load(),
		Renders:      c.renders.Load(),
		CacheHits:    c.cacheHits.Load(),
		CacheMisses:  c.cacheMisses.Load(),
		Requests:     c.requests.Load(),
		ServerErrors: c.serverErrs.Load(),
	}
}

func (c *Counters) OnParseStart(context.Context, string, int) {}

func (c *Counters) OnParseComplete(_ context.Context, _ string, nodeCount int, _ time.Duration, err error) {
	c.parses.Add(1)
	if err != nil {
		c.parseErrors.Add(1)
		return
	}
	c.nodes.Add(int64(nodeCount))
}

func (c *Counters) OnRenderStart(context.Context, string, int) {}

func (c *Counters) OnRenderComplete(context.Context, string, time.Duration, error) {
	c.renders.Add(1)
}

func (c *Counters) OnCacheHit(context.Context, string)      { c.cacheHits.Add(1) }
func (c *Counters) OnCacheMiss(context.Context, string)     { c.cacheMisses.Add(1) }
func (c *Counters) OnCacheSet(context.Context, string, int) {}

func (c *Counters) OnRequest(_ context.Context, _, _ string, status int, _ time.Duration) {
	c.requests.Add(1)
	if status >= 500 {
		c.serverErrs.Add(1)
	}
}

var (
	_ PipelineHooks = (*Counters)(nil)
	_ CacheHooks    = (*Counters)(nil)
	_ ServerHooks   = (*Counters)(nil)
)
