package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/antopio26/graph-js/pkg/cache"
	"github.com/antopio26/graph-js/pkg/errors"
	"github.com/antopio26/graph-js/pkg/graphio"
	"github.com/antopio26/graph-js/pkg/layout"
	"github.com/antopio26/graph-js/pkg/observability"
	"github.com/antopio26/graph-js/pkg/scene"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Layouter computes placements. Nil means the built-in engine; the CLI
	// swaps in a progress-reporting one.
	Layouter Layouter

	// TTL overrides the per-kind entry lifetimes when positive. The CLI
	// sets it from the [cache] config section.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
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

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	ld, loadHit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Graph = ld.Graph
	result.GraphHash = ld.GraphHash
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = ld.Graph.NodeCount()
	result.Stats.EdgeCount = ld.Graph.EdgeCount()
	result.CacheInfo.GraphHit = loadHit

	r.Logger.Info("built graph",
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	res, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, ld, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = res
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"ranks", res.Stats.Ranks,
		"crossings", res.Stats.Crossings,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, sc, renderHit, err := r.RenderWithCacheInfo(ctx, ld, res, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Scene = sc
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadWithCacheInfo builds the graph with caching and returns cache hit info.
//
// On a hit the graph is decoded from the cached document and Loaded.Blocks
// is nil; Render rebuilds the block trees on demand. A custom Measurer
// bypasses the graph cache entirely, because it changes node sizes without
// changing the spec bytes.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (*Loaded, bool, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	spec, err := resolveSpec(&opts)
	if err != nil {
		return nil, false, err
	}

	// Compute the cache key from the canonical spec form, so the file,
	// inline and in-memory spellings of the same spec share an entry.
	canonical, err := json.Marshal(spec)
	if err != nil {
		return nil, false, fmt.Errorf("serialize spec for cache key: %w", err)
	}
	cacheKey := r.Keyer.GraphKey(cache.Hash(canonical))

	hooks := observability.Cache()
	if !opts.Refresh && opts.Measurer == nil {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if g, derr := graphio.ReadJSON(bytes.NewReader(data)); derr == nil {
				hooks.OnCacheHit(ctx, "graph")
				return &Loaded{
					Spec:      spec,
					Graph:     g,
					GraphData: data,
					GraphHash: cache.Hash(data),
				}, true, nil
			}
			// A corrupt entry falls through to rebuild.
		}
		hooks.OnCacheMiss(ctx, "graph")
	}

	ld, err := r.load(ctx, spec, opts)
	if err != nil {
		return nil, false, err
	}

	if opts.Measurer == nil {
		if err := r.Cache.Set(ctx, cacheKey, ld.GraphData, r.ttl(cache.TTLGraph)); err == nil {
			hooks.OnCacheSet(ctx, "graph", len(ld.GraphData))
		}
	}

	return ld, false, nil
}

// Load is a convenience wrapper that calls LoadWithCacheInfo and discards the cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) (*Loaded, error) {
	ld, _, err := r.LoadWithCacheInfo(ctx, opts)
	return ld, err
}

// ComputeLayoutWithCacheInfo computes a layout with caching and returns cache hit info.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, ld *Loaded, opts Options) (*layout.Result, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	cfg := opts.LayoutConfig(ld.Spec)
	if err := cfg.Normalize(); err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInvalidConfig, err, "layout settings")
	}

	cacheKey := r.Keyer.LayoutKey(ld.GraphHash, layoutKeyOpts(cfg))

	hooks := observability.Cache()
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if res, derr := graphio.ReadLayoutJSON(bytes.NewReader(data)); derr == nil {
				hooks.OnCacheHit(ctx, "layout")
				return res, true, nil
			}
			// A corrupt entry falls through to recompute.
		}
		hooks.OnCacheMiss(ctx, "layout")
	}

	lh := observability.Layout()
	start := time.Now()
	lh.OnLayoutStart(ctx, string(cfg.Direction), ld.Graph.NodeCount())
	res, err := r.layouter().Layout(ctx, ld.Graph, cfg)
	if err != nil {
		lh.OnLayoutComplete(ctx, string(cfg.Direction), 0, time.Since(start), err)
		return nil, false, err
	}
	lh.OnLayoutComplete(ctx, string(cfg.Direction), res.Stats.Crossings, time.Since(start), nil)

	if data, err := encodeLayoutForCache(res); err == nil {
		if serr := r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.TTLLayout)); serr == nil {
			hooks.OnCacheSet(ctx, "layout", len(data))
		}
	}

	return res, false, nil
}

// ComputeLayout is a convenience wrapper that calls ComputeLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, ld *Loaded, opts Options) (*layout.Result, error) {
	res, _, err := r.ComputeLayoutWithCacheInfo(ctx, ld, opts)
	return res, err
}

// RenderWithCacheInfo generates artifacts with caching and returns the
// assembled scene alongside cache hit info. The scene is nil when every
// requested format came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, ld *Loaded, res *layout.Result, opts Options) (map[string][]byte, *scene.Scene, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, nil, false, err
	}
	r.applyLogger(&opts)

	// Artifact keys hash the serialized layout, not the in-memory struct.
	layoutData, err := encodeLayoutForCache(res)
	if err != nil {
		return nil, nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	hooks := observability.Cache()

	// Try to get all formats from cache.
	if !opts.Refresh {
		allCached := true
		artifacts := make(map[string][]byte)
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				hooks.OnCacheHit(ctx, "artifact")
				artifacts[format] = data
			} else {
				hooks.OnCacheMiss(ctx, "artifact")
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			return artifacts, nil, true, nil
		}
	}

	// Render all formats.
	if err := r.EnsureBlocks(ctx, ld, opts); err != nil {
		return nil, nil, false, err
	}
	sc, err := assemble(ld, res)
	if err != nil {
		return nil, nil, false, err
	}
	rendered, err := renderArtifacts(ctx, ld.Graph, sc, layoutData, opts)
	if err != nil {
		return nil, nil, false, err
	}

	// Cache each format.
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if serr := r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.TTLArtifact)); serr == nil {
			hooks.OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, sc, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards
// the scene and the cache hit info.
func (r *Runner) Render(ctx context.Context, ld *Loaded, res *layout.Result, opts Options) (map[string][]byte, error) {
	artifacts, _, _, err := r.RenderWithCacheInfo(ctx, ld, res, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// layouter returns the configured Layouter, defaulting to the built-in engine.
func (r *Runner) layouter() Layouter {
	if r.Layouter != nil {
		return r.Layouter
	}
	return EngineLayouter{}
}

// ttl resolves the lifetime for a cache entry kind.
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
