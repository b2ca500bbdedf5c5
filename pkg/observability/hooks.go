// Package observability lets the engine, the pipeline and the API server
// report events without depending on a metrics backend.
//
// Callers register hooks once at startup. Until then every hook is a
// no-op, so library code can emit events unconditionally:
//
//	observability.Pipeline().OnLayoutStart(ctx, len(tasks))
//	// ... build the layout ...
//	observability.Pipeline().OnLayoutComplete(ctx, nodes, overflow, took, err)
//
// [PrometheusHooks] implements every hook interface and is what
// `gravity serve` installs:
//
//	hooks := observability.NewPrometheusHooks(reg)
//	observability.SetPipelineHooks(hooks)
//	observability.SetCacheHooks(hooks)
//	observability.SetHTTPHooks(hooks)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives layout and render events from the pipeline runner.
type PipelineHooks interface {
	OnLayoutStart(ctx context.Context, taskCount int)
	// OnLayoutComplete reports the node count and how many of those nodes
	// the collision resolver left overlapping.
	OnLayoutComplete(ctx context.Context, nodeCount, overflow int, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives cache lookups and writes. keyType is "layout" or
// "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives API traffic. route is the matched chi pattern, not
// the raw path, to keep label cardinality bounded.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// NoopPipelineHooks ignores every pipeline event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLayoutStart(context.Context, int)                               {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, int, int, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks ignores every cache event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every request.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// slot holds one registered hook implementation. The box type keeps
// atomic.Value happy when different concrete types are stored over time.
type slot[T any] struct{ v atomic.Value }

type box[T any] struct{ h T }

func (s *slot[T]) load(def T) T {
	if b, ok := s.v.Load().(box[T]); ok {
		return b.h
	}
	return def
}

func (s *slot[T]) store(h T) { s.v.Store(box[T]{h}) }

var (
	pipelineSlot slot[PipelineHooks]
	cacheSlot    slot[CacheHooks]
	httpSlot     slot[HTTPHooks]
)

// SetPipelineHooks installs h. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		pipelineSlot.store(h)
	}
}

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheSlot.store(h)
	}
}

// SetHTTPHooks installs h. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		httpSlot.store(h)
	}
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks { return pipelineSlot.load(NoopPipelineHooks{}) }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return cacheSlot.load(NoopCacheHooks{}) }

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks { return httpSlot.load(NoopHTTPHooks{}) }

// Reset reinstalls the no-op hooks. Tests use it to undo SetXHooks.
func Reset() {
	pipelineSlot.store(NoopPipelineHooks{})
	cacheSlot.store(NoopCacheHooks{})
	httpSlot.store(NoopHTTPHooks{})
}
