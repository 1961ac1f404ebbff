// Package pipeline provides the layout → solve → render pipeline shared by
// the CLI and the HTTP server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Layout: position the graph's nodes on the canvas
//  2. Solve: run an MST engine to completion, keeping every intermediate state
//  3. Render: draw one state of the trace as DOT, SVG, PNG or PDF
//
// Each stage is cached independently through [cache.Cache]. Layout and solve
// keys derive from the graph's content hash; render keys derive from the hash
// of the annotated edge set being drawn, so two runs that reach the same
// picture share an artifact.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, g, pipeline.Options{
//	    Algorithm: mst.Prim,
//	    Layout:    layout.Circular,
//	    Formats:   []render.Format{render.FormatSVG},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spantree/pkg/cache"
	"github.com/matzehuels/spantree/pkg/graph"
	"github.com/matzehuels/spantree/pkg/layout"
	"github.com/matzehuels/spantree/pkg/mst"
	"github.com/matzehuels/spantree/pkg/render"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultAlgorithm is the engine used when none is requested.
	DefaultAlgorithm = mst.Kruskal

	// DefaultLayout keeps the positions stored in the graph.
	DefaultLayout = layout.Manual
)

// DefaultFormats is used when no output format is requested.
var DefaultFormats = []render.Format{render.FormatSVG}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
type Options struct {
	// Solve options
	Algorithm mst.Algorithm `json:"algorithm,omitempty"`

	// Layout options
	Layout  layout.Type    `json:"layout,omitempty"`
	Canvas  layout.Options `json:"canvas"`
	Refresh bool           `json:"refresh,omitempty"`

	// Render options
	Formats []render.Format `json:"formats,omitempty"`
	// Step selects the trace state to draw: the state after that many
	// engine steps. Zero draws the final state; values past the end clamp.
	Step        int    `json:"step,omitempty"`
	Title       string `json:"title,omitempty"`
	HideWeights bool   `json:"hide_weights,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the input graph with layout positions applied.
	Graph *graph.Graph

	// GraphHash is the content hash of the input graph.
	GraphHash string

	// Trace holds every engine state, starting with the initial one.
	Trace []mst.Run

	// Rendered is the state that was drawn.
	Rendered mst.Run

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Final returns the last state of the trace.
func (r *Result) Final() mst.Run {
	return r.Trace[len(r.Trace)-1]
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Steps      int
	LayoutTime time.Duration
	SolveTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether positions came from cache
	TraceHit  bool // Whether the step trace came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// SetLayoutDefaults fills in the layout type and canvas.
// A zero canvas takes [layout.DefaultOptions].
func (o *Options) SetLayoutDefaults() {
	if o.Layout == "" {
		o.Layout = DefaultLayout
	}
	if o.Canvas.Width == 0 && o.Canvas.Height == 0 {
		d := layout.DefaultOptions()
		d.Iterations, d.Seed = o.Canvas.Iterations, o.Canvas.Seed
		o.Canvas = d
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout sets defaults and checks the layout type and canvas.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	t, err := layout.ParseType(string(o.Layout))
	if err != nil {
		return err
	}
	o.Layout = t
	if o.Canvas.Width <= 0 || o.Canvas.Height <= 0 {
		return fmt.Errorf("canvas must be positive, got %gx%g", o.Canvas.Width, o.Canvas.Height)
	}
	if o.Canvas.Padding < 0 || 2*o.Canvas.Padding >= o.Canvas.Width || 2*o.Canvas.Padding >= o.Canvas.Height {
		return fmt.Errorf("padding %g does not fit a %gx%g canvas", o.Canvas.Padding, o.Canvas.Width, o.Canvas.Height)
	}
	if o.Canvas.Iterations < 0 {
		return fmt.Errorf("iterations must not be negative, got %d", o.Canvas.Iterations)
	}
	return nil
}

// SetSolveDefaults fills in the algorithm.
func (o *Options) SetSolveDefaults() {
	if o.Algorithm == "" {
		o.Algorithm = DefaultAlgorithm
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForSolve sets defaults and checks the algorithm name.
func (o *Options) ValidateForSolve() error {
	o.SetSolveDefaults()
	a, err := mst.ParseAlgorithm(string(o.Algorithm))
	if err != nil {
		return err
	}
	o.Algorithm = a
	return nil
}

// SetRenderDefaults fills in the output formats.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = append([]render.Format(nil), DefaultFormats...)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender sets defaults and checks formats and the step index.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	for i, f := range o.Formats {
		parsed, err := render.ParseFormat(string(f))
		if err != nil {
			return err
		}
		o.Formats[i] = parsed
	}
	if o.Step < 0 {
		return fmt.Errorf("step must not be negative, got %d", o.Step)
	}
	return nil
}

// ValidateAndSetDefaults checks every stage's options.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForSolve(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// RenderOptions returns the drawing options for the render package.
func (o *Options) RenderOptions() render.Options {
	return render.Options{Title: o.Title, HideWeights: o.HideWeights}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Type:       string(o.Layout),
		Width:      o.Canvas.Width,
		Height:     o.Canvas.Height,
		Padding:    o.Canvas.Padding,
		Iterations: o.Canvas.Iterations,
		Seed:       o.Canvas.Seed,
	}
}

// TraceKeyOpts returns cache key options for solving.
func (o *Options) TraceKeyOpts() cache.TraceKeyOpts {
	return cache.TraceKeyOpts{Algorithm: string(o.Algorithm)}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format render.Format) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:      string(format),
		Step:        o.Step,
		Title:       o.Title,
		HideWeights: o.HideWeights,
	}
}

// SelectStep returns the trace entry that Step refers to.
func (o *Options) SelectStep(trace []mst.Run) mst.Run {
	if o.Step == 0 || o.Step >= len(trace) {
		return trace[len(trace)-1]
	}
	return trace[o.Step]
}
