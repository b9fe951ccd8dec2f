package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/jsonviz/pkg/cache"
	"github.com/matzehuels/jsonviz/pkg/expansion"
	"github.com/matzehuels/jsonviz/pkg/hierarchy"
	"github.com/matzehuels/jsonviz/pkg/observability"
	"github.com/matzehuels/jsonviz/pkg/scene"
)

// Runner encapsulates pipeline execution with caching.
// The CLI, the HTTP host and sessions all use it so that rendered artifacts
// are cached the same way everywhere.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is how long rendered artifacts stay cached (zero uses cache.TTLArtifact).
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

// Execute runs the complete build → pass → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, v any, store *expansion.Store, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	// Stage 1: Build
	buildStart := time.Now()
	tree, err := BuildTree(ctx, v)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	buildTime := time.Since(buildStart)
	nodes := hierarchy.Measure(tree).Nodes

	r.Logger.Debug("built tree", "nodes", nodes, "duration", buildTime)

	// Stage 2: Pass
	result, err := r.Pass(ctx, tree, store, opts)
	if err != nil {
		return nil, fmt.Errorf("pass: %w", err)
	}
	result.Stats.NodeCount = nodes
	result.Stats.BuildTime = buildTime

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, result.Scene, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit
	if h, err := cache.HashJSON(result.Scene); err == nil {
		result.SceneHash = h
	}

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"boxes", result.Stats.BoxCount,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Pass runs a drawing pass with the runner's logger.
func (r *Runner) Pass(ctx context.Context, tree *hierarchy.Node, store *expansion.Store, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	return Pass(ctx, tree, store, opts)
}

// RenderWithCacheInfo renders s in every requested format and reports
// whether all artifacts came from the cache. Missing formats are rendered
// concurrently.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, s *scene.Scene, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}

	sceneHash, err := cache.HashJSON(s)
	if err != nil {
		return nil, false, fmt.Errorf("hash scene for cache key: %w", err)
	}

	cacheHooks := observability.Cache()
	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			cacheHooks.OnCacheHit(ctx, "artifact")
			artifacts[format] = data
			continue
		}
		cacheHooks.OnCacheMiss(ctx, "artifact")
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, missing)
	start := time.Now()

	rendered := make([][]byte, len(missing))
	g, gctx := errgroup.WithContext(ctx)
	for i, format := range missing {
		g.Go(func() error {
			data, err := RenderFormat(gctx, s, format, opts)
			if err != nil {
				return err
			}
			rendered[i] = data
			return nil
		})
	}
	err = g.Wait()
	hooks.OnRenderComplete(ctx, missing, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for i, format := range missing {
		artifacts[format] = rendered[i]
		key := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, rendered[i], r.ttl()); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "error", err)
			continue
		}
		cacheHooks.OnCacheSet(ctx, "artifact", len(rendered[i]))
	}
	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, s *scene.Scene, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, s, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.TTLArtifact
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
