package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spantree/pkg/graph"
	"github.com/matzehuels/spantree/pkg/layout"
	"github.com/matzehuels/spantree/pkg/pipeline"
)

// layoutOpts holds the flags for the layout command.
type layoutOpts struct {
	source     graphSource
	layoutType string
	width      float64
	height     float64
	padding    float64
	paddingSet bool
	iterations int
	seed       int64
	output     string
	noCache    bool
}

// layoutCommand creates the layout command for positioning graph nodes.
func (c *CLI) layoutCommand() *cobra.Command {
	var opts layoutOpts

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Position the nodes of a graph",
		Long: `Arrange the nodes of a graph on the canvas and write the result as GraphData.

Layouts: manual (keep stored positions), circular, grid, hierarchical and
force (force-directed). Canvas size and force parameters default to the
config file. Results are cached locally for faster subsequent runs.`,
		Example: `  spantree layout graph.json -t circular -o circular.json
  spantree layout --random 12 -t force --iterations 300`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.paddingSet = cmd.Flags().Changed("padding")
			return c.runLayout(cmd, args, opts)
		},
	}

	opts.source.addFlags(cmd)
	cmd.Flags().StringVarP(&opts.layoutType, "type", "t", "", "layout: "+layoutNames()+" (default from config)")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "canvas width")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "canvas height")
	cmd.Flags().Float64Var(&opts.padding, "padding", 0, "canvas padding (default from config)")
	cmd.Flags().IntVar(&opts.iterations, "iterations", 0, "force-directed iterations")
	cmd.Flags().Int64Var(&opts.seed, "layout-seed", 0, "seed for initial force-directed positions")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>.layout.json, or stdout for generated graphs)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// layoutOptions merges flags over the config file.
func (c *CLI) layoutOptions(opts layoutOpts) (pipeline.Options, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return pipeline.Options{}, err
	}
	t, err := layout.ParseType(firstNonEmpty(opts.layoutType, cfg.Layout.Type))
	if err != nil {
		return pipeline.Options{}, err
	}
	canvas := cfg.LayoutOptions()
	if opts.width > 0 {
		canvas.Width = opts.width
	}
	if opts.height > 0 {
		canvas.Height = opts.height
	}
	if opts.paddingSet {
		canvas.Padding = opts.padding
	}
	if opts.iterations > 0 {
		canvas.Iterations = opts.iterations
	}
	if opts.seed != 0 {
		canvas.Seed = opts.seed
	}
	return pipeline.Options{Layout: t, Canvas: canvas, Logger: c.Logger}, nil
}

func (c *CLI) runLayout(cmd *cobra.Command, args []string, opts layoutOpts) error {
	ctx := cmd.Context()
	popts, err := c.layoutOptions(opts)
	if err != nil {
		return err
	}
	g, err := opts.source.load(args)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	nodes, cacheHit, err := layoutWithSpinner(ctx, runner, g, popts)
	if err != nil {
		return err
	}
	g.SetPositions(nodes)

	outputPath := opts.output
	if outputPath == "" && len(args) > 0 && args[0] != "-" {
		outputPath = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".layout.json"
	}
	if err := writeGraph(cmd.OutOrStdout(), g, outputPath); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if outputPath == "" || outputPath == "-" {
		return nil
	}

	printSuccess("Layout complete (%s)", popts.Layout)
	printFile(outputPath)
	printStats(len(g.Nodes), len(g.Edges), cacheHit)
	printNewline()
	printNextStep("Render", "spantree render "+outputPath)
	return nil
}

func layoutWithSpinner(ctx context.Context, runner *pipeline.Runner, g *loadedGraph, opts pipeline.Options) ([]graph.Node, bool, error) {
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout...", opts.Layout))
	spinner.Start()
	nodes, hit, err := runner.LayoutWithCacheInfo(ctx, g.Graph, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return nil, false, fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()
	if ctx.Err() != nil {
		return nil, false, ctx.Err()
	}
	return nodes, hit, nil
}

func layoutNames() string {
	names := make([]string, len(layout.Types))
	for i, t := range layout.Types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
