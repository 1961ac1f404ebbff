package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spantree/pkg/cache"
	"github.com/matzehuels/spantree/pkg/graph"
	"github.com/matzehuels/spantree/pkg/layout"
	"github.com/matzehuels/spantree/pkg/mst"
	"github.com/matzehuels/spantree/pkg/observability"
	"github.com/matzehuels/spantree/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
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

// Execute runs the complete layout → solve → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, g *graph.Graph, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	result := &Result{
		Stats: Stats{NodeCount: len(g.Nodes), EdgeCount: len(g.Edges)},
	}
	hash, err := GraphHash(g)
	if err != nil {
		return nil, err
	}
	result.GraphHash = hash

	// Stage 1: Layout
	layoutStart := time.Now()
	nodes, layoutHit, err := r.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	positioned := g.Clone()
	positioned.SetPositions(nodes)
	result.Graph = positioned
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"type", opts.Layout,
		"nodes", len(nodes),
		"duration", result.Stats.LayoutTime)

	// Stage 2: Solve
	solveStart := time.Now()
	trace, traceHit, err := r.SolveWithCacheInfo(ctx, positioned, opts)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	result.Trace = trace
	result.Stats.SolveTime = time.Since(solveStart)
	result.Stats.Steps = result.Final().StepCount()
	result.CacheInfo.TraceHit = traceHit

	r.Logger.Info("solved",
		"algorithm", opts.Algorithm,
		"steps", result.Stats.Steps,
		"cost", result.Final().TotalCost(),
		"duration", result.Stats.SolveTime)

	// Stage 3: Render
	renderStart := time.Now()
	result.Rendered = opts.SelectStep(trace)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, positioned, result.Rendered, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// GraphHash returns the content hash of g's nodes and edges.
func GraphHash(g *graph.Graph) (string, error) {
	return cache.HashJSON(struct {
		Nodes []graph.Node `json:"nodes"`
		Edges []graph.Edge `json:"edges"`
	}{g.Nodes, g.Edges})
}

// LayoutWithCacheInfo positions g's nodes with caching and returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, g *graph.Graph, opts Options) ([]graph.Node, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}
	hooks := observability.Pipeline()

	// Manual layouts are the identity; nothing worth caching.
	if opts.Layout == layout.Manual {
		nodes, err := layout.Apply(g.Nodes, g.Edges, opts.Layout, opts.Canvas)
		return nodes, false, err
	}

	graphHash, err := GraphHash(g)
	if err != nil {
		return nil, false, err
	}
	cacheKey := r.Keyer.LayoutKey(graphHash, opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached []graph.Node
			if err := json.Unmarshal(data, &cached); err == nil && len(cached) == len(g.Nodes) {
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
	}

	hooks.OnLayoutStart(ctx, string(opts.Layout), len(g.Nodes))
	start := time.Now()
	nodes, err := layout.Apply(g.Nodes, g.Edges, opts.Layout, opts.Canvas)
	hooks.OnLayoutComplete(ctx, string(opts.Layout), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(nodes); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err != nil {
			opts.Logger.Warn("cache layout", "error", err)
		}
	}
	return nodes, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, g *graph.Graph, opts Options) ([]graph.Node, error) {
	nodes, _, err := r.LayoutWithCacheInfo(ctx, g, opts)
	return nodes, err
}

// SolveWithCacheInfo runs the selected engine to completion with caching and
// returns the full trace plus cache hit info.
func (r *Runner) SolveWithCacheInfo(ctx context.Context, g *graph.Graph, opts Options) ([]mst.Run, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForSolve(); err != nil {
		return nil, false, err
	}
	hooks := observability.Pipeline()

	graphHash, err := GraphHash(g)
	if err != nil {
		return nil, false, err
	}
	cacheKey := r.Keyer.TraceKey(graphHash, opts.TraceKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached []mst.Run
			if err := json.Unmarshal(data, &cached); err == nil && len(cached) > 0 && cached[0].Kind == opts.Algorithm {
				return cached, true, nil
			}
		}
	}

	hooks.OnSolveStart(ctx, string(opts.Algorithm), len(g.Nodes), len(g.Edges))
	start := time.Now()
	trace, err := mst.Solve(opts.Algorithm, g.Nodes, g.Edges)
	steps := 0
	if err == nil {
		steps = trace[len(trace)-1].StepCount()
	}
	hooks.OnSolveComplete(ctx, string(opts.Algorithm), steps, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	engine := observability.Engine()
	for _, run := range trace[1:] {
		engine.OnStep(ctx, string(run.Kind), run.StepCount(), run.Completed())
	}

	if data, err := json.Marshal(trace); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLTrace); err != nil {
			opts.Logger.Warn("cache trace", "error", err)
		}
	}
	return trace, false, nil
}

// Solve is a convenience wrapper that calls SolveWithCacheInfo and discards the cache hit info.
func (r *Runner) Solve(ctx context.Context, g *graph.Graph, opts Options) ([]mst.Run, error) {
	trace, _, err := r.SolveWithCacheInfo(ctx, g, opts)
	return trace, err
}

// RenderWithCacheInfo draws run over g with caching and returns cache hit info.
// The hit flag is true only when every requested format came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *graph.Graph, run mst.Run, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	hooks := observability.Pipeline()

	edges := run.Edges(g.Edges)
	drawingHash, err := cache.HashJSON(struct {
		Nodes []graph.Node `json:"nodes"`
		Edges []graph.Edge `json:"edges"`
	}{g.Nodes, edges})
	if err != nil {
		return nil, false, fmt.Errorf("hash drawing: %w", err)
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(drawingHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, cacheKey)
			if err != nil || !hit {
				break
			}
			artifacts[string(format)] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	names := formatNames(opts.Formats)
	hooks.OnRenderStart(ctx, names)
	start := time.Now()
	rendered, err := render.RenderAll(ctx, g.Nodes, edges, opts.Formats, opts.RenderOptions())
	hooks.OnRenderComplete(ctx, names, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(drawingHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, rendered[string(format)], cache.TTLArtifact); err != nil {
			opts.Logger.Warn("cache artifact", "format", format, "error", err)
		}
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, g *graph.Graph, run mst.Run, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, g, run, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func formatNames(formats []render.Format) []string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return names
}
