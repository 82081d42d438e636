// Package observability lets a host watch terrain generation, cache traffic
// and API requests without this module depending on any metrics or tracing
// backend.
//
// Three hook interfaces cover the three event sources. Each has a no-op
// implementation that is installed by default, and a log-backed one
// ([LogPipelineHooks], [LogCacheHooks], [LogHTTPHooks]). A binary installs its
// hooks once at startup; library code fetches them on every event:
//
//	observability.SetPipelineHooks(observability.NewLogPipelineHooks(logger))
//
//	hooks := observability.Pipeline()
//	hooks.OnGenerateStart(ctx, seed, siteCount)
//	// relax, diffuse, tessellate
//	hooks.OnGenerateComplete(ctx, seed, cellCount, time.Since(start), err)
//
// Hooks may be called from many goroutines at once and must not block.
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives events from the terrain pipeline.
type PipelineHooks interface {
	// Generate events wrap a whole sites-to-mesh run.
	OnGenerateStart(ctx context.Context, seed uint64, siteCount int)
	OnGenerateComplete(ctx context.Context, seed uint64, cellCount int, duration time.Duration, err error)

	// Stage events
	OnRelaxComplete(ctx context.Context, iterations, siteCount int, duration time.Duration)
	OnDiffuseComplete(ctx context.Context, visited int, duration time.Duration)
	OnTessellateComplete(ctx context.Context, triangles int, duration time.Duration)

	// OnHeightMiss records a height lookup that fell back to the miss default.
	OnHeightMiss(ctx context.Context)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// keyType is "terrain" or "artifact".
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from the HTTP API server.
type HTTPHooks interface {
	// path is the request URL path.
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)

	// OnError records a request that failed before a response was written.
	OnError(ctx context.Context, method, path string, err error)
}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnGenerateStart(context.Context, uint64, int) {}
func (NoopPipelineHooks) OnGenerateComplete(context.Context, uint64, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnRelaxComplete(context.Context, int, int, time.Duration)         {}
func (NoopPipelineHooks) OnDiffuseComplete(context.Context, int, time.Duration)            {}
func (NoopPipelineHooks) OnTessellateComplete(context.Context, int, time.Duration)         {}
func (NoopPipelineHooks) OnHeightMiss(context.Context)                                     {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// slot holds the registered implementation of one hook interface.
type slot[T any] struct {
	p    atomic.Pointer[T]
	noop T
}

func (s *slot[T]) get() T {
	if h := s.p.Load(); h != nil {
		return *h
	}
	return s.noop
}

func (s *slot[T]) set(h T) { s.p.Store(&h) }
func (s *slot[T]) reset() { s.p.Store(nil) }

var (
	pipelineSlot = slot[PipelineHooks]{noop: NoopPipelineHooks{}}
	cacheSlot    = slot[CacheHooks]{noop: NoopCacheHooks{}}
	httpSlot     = slot[HTTPHooks]{noop: NoopHTTPHooks{}}
)

// SetPipelineHooks installs h. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		pipelineSlot.set(h)
	}
}

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheSlot.set(h)
	}
}

// SetHTTPHooks installs h. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		httpSlot.set(h)
	}
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks { return pipelineSlot.get() }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return cacheSlot.get() }

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks { return httpSlot.get() }

// Reset reinstalls the no-op hooks.
func Reset() {
	pipelineSlot.reset()
	cacheSlot.reset()
	httpSlot.reset()
}
