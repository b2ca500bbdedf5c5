package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gravity/pkg/cache"
	"github.com/matzehuels/gravity/pkg/core/gravity"
	"github.com/matzehuels/gravity/pkg/matrix"
	"github.com/matzehuels/gravity/pkg/observability"
)

// Cache key types reported to the observability hooks.
const (
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the per-stage cache lifetimes when positive.
	TTL time.Duration
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
	}
}

// Execute runs the complete layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, tasks []gravity.Task, opts Options) (*Result, error) {
	opts.SetLayoutDefaults()
	if err := opts.ValidateForRender(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}
	result.Stats.TaskCount = len(tasks)
	if data, err := matrix.MarshalTasks(tasks); err == nil {
		result.TasksHash = cache.Hash(data)
	}

	// Stage 1: Layout
	layoutStart := time.Now()
	layout, layoutHit, err := r.LayoutWithCacheInfo(ctx, tasks, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = layout
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Overflow = len(layout.Overflow)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"nodes", len(layout.Nodes),
		"overflow", len(layout.Overflow),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, layout, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo computes a layout with caching and returns cache hit
// info. Task lists that cannot be serialized (NaN attributes) bypass the
// cache entirely.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, tasks []gravity.Task, opts Options) (matrix.Layout, bool, error) {
	opts.SetLayoutDefaults()
	r.applyLogger(&opts)

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(tasks))
	start := time.Now()

	cacheKey := ""
	if data, err := matrix.MarshalTasks(tasks); err == nil {
		cacheKey = r.Keyer.LayoutKey(cache.Hash(data), opts.LayoutKeyOpts())
	} else {
		opts.Logger.Debug("skipping layout cache", "reason", err)
	}

	// Try cache first (unless refresh requested)
	if cacheKey != "" && !opts.Refresh {
		if cached, ok := r.getLayout(ctx, cacheKey, opts.Logger); ok {
			hooks.OnLayoutComplete(ctx, len(cached.Nodes), len(cached.Overflow), time.Since(start), nil)
			return cached, true, nil
		}
	}

	if err := ctx.Err(); err != nil {
		hooks.OnLayoutComplete(ctx, 0, 0, time.Since(start), err)
		return matrix.Layout{}, false, err
	}

	layout := GenerateLayout(tasks, opts.Config)
	hooks.OnLayoutComplete(ctx, len(layout.Nodes), len(layout.Overflow), time.Since(start), nil)

	if cacheKey != "" {
		if data, err := matrix.MarshalLayout(layout); err == nil {
			r.set(ctx, cacheKey, keyTypeLayout, data, r.ttl(cache.TTLLayout), opts.Logger)
		}
	}

	return layout, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, tasks []gravity.Task, opts Options) (matrix.Layout, error) {
	layout, _, err := r.LayoutWithCacheInfo(ctx, tasks, opts)
	return layout, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// The render is only skipped when every requested format is cached.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, layout matrix.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	layoutData, err := matrix.MarshalLayout(layout)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			data, ok := r.get(ctx, r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)), keyTypeArtifact, opts.Logger)
			if !ok {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := RenderFromLayout(ctx, layout, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		r.set(ctx, cacheKey, keyTypeArtifact, data, r.ttl(cache.TTLArtifact), opts.Logger)
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, layout matrix.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, layout, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// =============================================================================
// Cache helpers
// =============================================================================

func (r *Runner) getLayout(ctx context.Context, key string, logger *log.Logger) (matrix.Layout, bool) {
	data, ok := r.get(ctx, key, keyTypeLayout, logger)
	if !ok {
		return matrix.Layout{}, false
	}
	cached, err := matrix.UnmarshalLayout(data)
	if err != nil {
		logger.Warn("discarding unreadable cached layout", "key", key, "error", err)
		return matrix.Layout{}, false
	}
	return cached, true
}

// get reads a cache entry. Backend errors are logged and treated as misses
// so that an unreachable cache never fails a layout.
func (r *Runner) get(ctx context.Context, key, keyType string, logger *log.Logger) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "key", key, "error", err)
		hit = false
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, keyType)
		return data, true
	}
	observability.Cache().OnCacheMiss(ctx, keyType)
	return nil, false
}

func (r *Runner) set(ctx context.Context, key, keyType string, data []byte, ttl time.Duration, logger *log.Logger) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
