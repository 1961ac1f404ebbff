package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spantree/pkg/graph"
	"github.com/matzehuels/spantree/pkg/mst"
	"github.com/matzehuels/spantree/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	layout      layoutOpts
	algorithm   string
	formats     []string
	step        int
	title       string
	hideWeights bool
}

// renderCommand creates the render command, which draws one state of a run.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Render a run state to DOT, SVG, PNG or PDF",
		Long: `Lay out a graph, solve it and draw one state of the run.

Edges are coloured by status: accepted edges green, the edge under
consideration amber, rejected edges red and dashed. --step selects the state
after that many steps; the default draws the finished tree. SVG needs no
external tools; PNG and PDF are converted with rsvg-convert.`,
		Example: `  spantree render graph.json -f svg,png
  spantree render --scenario simple-network -a prim --step 2 -o step2.svg
  spantree render --template grid-3x3 -t grid -f dot -o -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.layout.paddingSet = cmd.Flags().Changed("padding")
			return c.runRender(cmd, args, opts)
		},
	}

	opts.layout.source.addFlags(cmd)
	cmd.Flags().StringVarP(&opts.layout.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringSliceVarP(&opts.formats, "format", "f", []string{string(render.FormatSVG)}, "output format(s): dot, svg, png, pdf")
	cmd.Flags().StringVarP(&opts.algorithm, "algorithm", "a", "", "algorithm: kruskal, prim (default from config)")
	cmd.Flags().IntVar(&opts.step, "step", 0, "draw the state after this many steps (default: final)")
	cmd.Flags().StringVar(&opts.title, "title", "", "drawing title (default: graph name)")
	cmd.Flags().BoolVar(&opts.hideWeights, "hide-weights", false, "omit edge weight labels")
	cmd.Flags().StringVarP(&opts.layout.layoutType, "type", "t", "", "layout: "+layoutNames()+" (default from config)")
	cmd.Flags().Float64Var(&opts.layout.width, "width", 0, "canvas width")
	cmd.Flags().Float64Var(&opts.layout.height, "height", 0, "canvas height")
	cmd.Flags().Float64Var(&opts.layout.padding, "padding", 0, "canvas padding (default from config)")
	cmd.Flags().BoolVar(&opts.layout.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, args []string, opts renderOpts) error {
	ctx := cmd.Context()
	popts, err := c.layoutOptions(opts.layout)
	if err != nil {
		return err
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if popts.Algorithm, err = mst.ParseAlgorithm(firstNonEmpty(opts.algorithm, cfg.Run.Algorithm)); err != nil {
		return err
	}
	for _, f := range opts.formats {
		format, err := render.ParseFormat(f)
		if err != nil {
			return err
		}
		popts.Formats = append(popts.Formats, format)
	}
	popts.Step = opts.step
	popts.HideWeights = opts.hideWeights

	g, err := opts.layout.source.load(args)
	if err != nil {
		return err
	}
	popts.Title = firstNonEmpty(opts.title, g.Name)

	runner, err := c.newRunner(ctx, opts.layout.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.formats, ", ")))
	spinner.Start()
	result, err := runner.Execute(ctx, g.Graph, popts)
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return ctx.Err()
		}
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	output := opts.layout.output
	if output == "-" {
		if len(popts.Formats) != 1 {
			return fmt.Errorf("stdout output needs exactly one format, got %d", len(popts.Formats))
		}
		_, err := cmd.OutOrStdout().Write(result.Artifacts[string(popts.Formats[0])])
		return err
	}

	input := ""
	if len(args) > 0 && args[0] != "-" {
		input = args[0]
	}
	paths := outputPaths(output, input, g.Name, popts.Formats)
	for _, format := range popts.Formats {
		path := paths[format]
		if err := os.WriteFile(path, result.Artifacts[string(format)], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	rendered := result.Rendered
	printSuccess("Rendered %s at step %d/%d (cost %d)",
		rendered.Kind.Title(), rendered.StepCount(), result.Final().StepCount(), rendered.TotalCost())
	for _, format := range popts.Formats {
		printFile(paths[format])
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)
	c.Logger.Debug("pipeline timings",
		"layout", result.Stats.LayoutTime, "solve", result.Stats.SolveTime, "render", result.Stats.RenderTime,
		"layout_hit", result.CacheInfo.LayoutHit, "trace_hit", result.CacheInfo.TraceHit)
	return nil
}

// outputPaths maps each format to a file path. A single format with an
// explicit output uses it verbatim; otherwise the base path gets one
// extension per format.
func outputPaths(output, input, name string, formats []render.Format) map[render.Format]string {
	paths := make(map[render.Format]string, len(formats))
	if output != "" && len(formats) == 1 {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input, name)
	for _, f := range formats {
		paths[f] = base + "." + string(f)
	}
	return paths
}

// basePath derives the base output path. Without an output it strips the
// extension from input, falling back to the graph name. A known format
// extension on output is stripped.
func basePath(output, input, name string) string {
	if output == "" {
		if input != "" {
			return strings.TrimSuffix(input, filepath.Ext(input))
		}
		return strings.TrimSuffix(graph.Filename(firstNonEmpty(name, "graph")), ".json")
	}
	ext := filepath.Ext(output)
	if _, err := render.ParseFormat(strings.TrimPrefix(ext, ".")); err == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
