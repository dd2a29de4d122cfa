package observability

import (
	"context"
	"time"
)

// MultiPipelineHooks forwards every event to each of its hooks in order.
type MultiPipelineHooks []PipelineHooks

func (m MultiPipelineHooks) OnParseStart(ctx context.Context, profile string, inputBytes int) {
	for _, h := range m {
		h.OnParseStart(ctx, profile, inputBytes)
	}
}

func (m MultiPipelineHooks) OnParseComplete(ctx context.Context, profile string, nodeCount int, d time.Duration, err error) {
	for _, h := range m {
		h.OnParseComplete(ctx, profile, nodeCount, d, err)
	}
}

func (m MultiPipelineHooks) OnRenderStart(ctx context.Context, format string, nodeCount int) {
	for _, h := range m {
		h.OnRenderStart(ctx, format, nodeCount)
	}
}

func (m MultiPipelineHooks) OnRenderComplete(ctx context.Context, format string, d time.Duration, err error) {
	for _, h := range m {
		h.OnRenderComplete(ctx, format, d, err)
	}
}

// MultiCacheHooks forwards every event to each of its hooks in order.
type MultiCacheHooks []CacheHooks

func (m MultiCacheHooks) OnCacheHit(ctx context.Context, keyType string) {
	for _, h := range m {
		h.OnCacheHit(ctx, keyType)
	}
}

func (m MultiCacheHooks) OnCacheMiss(ctx context.Context, keyType string) {
	for _, h := range m {
		h.OnCacheMiss(ctx, keyType)
	}
}

func (m MultiCacheHooks) OnCacheSet(ctx context.Context, keyType string, size int) {
	for _, h := range m {
		h.OnCacheSet(ctx, keyType, size)
	}
}

// AddPipelineHooks registers h next to the hooks already in place.
func AddPipelineHooks(h PipelineHooks) {
	if h == nil {
		return
	}
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if _, ok := pipelineHooks.(NoopPipelineHooks); ok {
		pipelineHooks = h
		return
	}
	pipelineHooks = MultiPipelineHooks{pipelineHooks, h}
}

// AddCacheHooks registers h next to the hooks already in place.
func AddCacheHooks(h CacheHooks) {
	if h == nil {
		return
	}
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if _, ok := cacheHooks.(NoopCacheHooks); ok {
		cacheHooks = h
		return
	}
	cacheHooks = MultiCacheHooks{cacheHooks, h}
}

var (
	_ PipelineHooks = MultiPipelineHooks(nil)
	_ CacheHooks    = MultiCacheHooks(nil)
)
