package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/spantree/pkg/errors"
	"github.com/matzehuels/spantree/pkg/generate"
)

// generateCommand creates the generate command for building sample graphs.
func (c *CLI) generateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate sample graphs as GraphData",
	}

	cmd.AddCommand(c.generateRandomCommand())
	cmd.AddCommand(c.generateTemplateCommand())
	cmd.AddCommand(c.generateScenarioCommand())
	cmd.AddCommand(c.generateListCommand())

	return cmd
}

func (c *CLI) generateRandomCommand() *cobra.Command {
	var (
		output string
		seed   int64
	)
	cmd := &cobra.Command{
		Use:   "random [nodes]",
		Short: "Generate a random connected graph",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := generate.DefaultRandomNodes
			if len(args) > 0 {
				v, err := strconv.Atoi(args[0])
				if err != nil || v < 1 {
					return apperrors.New(apperrors.ErrCodeInvalidInput, "node count must be a positive integer, got %q", args[0])
				}
				n = v
			}
			src := graphSource{random: n, seed: seed}
			g, err := src.load(nil)
			if err != nil {
				return err
			}
			return c.emitGraph(cmd, g, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (default: time-based)")
	return cmd
}

func (c *CLI) generateTemplateCommand() *cobra.Command {
	var (
		output string
		seed   int64
	)
	cmd := &cobra.Command{
		Use:   "template <id>",
		Short: "Build a template graph",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			ids := make([]string, 0)
			for _, t := range generate.Templates() {
				ids = append(ids, t.ID)
			}
			return ids, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			src := graphSource{template: args[0], seed: seed}
			g, err := src.load(nil)
			if err != nil {
				return err
			}
			return c.emitGraph(cmd, g, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed for template weights (default: time-based)")
	return cmd
}

func (c *CLI) generateScenarioCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "scenario <name>",
		Short: "Write a predefined scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := graphSource{scenario: args[0]}
			g, err := src.load(nil)
			if err != nil {
				return err
			}
			return c.emitGraph(cmd, g, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func (c *CLI) generateListCommand() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List templates and scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			templates := generate.TemplatesIn(generate.Category(category))
			if len(templates) == 0 {
				return apperrors.New(apperrors.ErrCodeInvalidInput, "no templates in category %q", category)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, StyleTitle.Render("Templates"))
			fmt.Fprintln(out, templateTable(templates))
			fmt.Fprintln(out)
			fmt.Fprintln(out, StyleTitle.Render("Scenarios"))
			for _, s := range generate.Scenarios() {
				fmt.Fprintf(out, "  %s  %s\n", StyleValue.Render(scenarioSlug(s.Name)), StyleDim.Render(s.Description))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only list one category: basic, special, real-world")
	return cmd
}

// emitGraph writes a generated graph to a file or stdout.
func (c *CLI) emitGraph(cmd *cobra.Command, g *loadedGraph, output string) error {
	if err := writeGraph(cmd.OutOrStdout(), g, output); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	c.Logger.Debug("generated graph", "name", g.Name, "nodes", len(g.Nodes), "edges", len(g.Edges))
	if output != "" && output != "-" {
		printSuccess("Generated %s", g.Name)
		printFile(output)
		printStats(len(g.Nodes), len(g.Edges), false)
	}
	return nil
}

func templateTable(templates []generate.Template) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	rows := make([][]string, len(templates))
	for i, t := range templates {
		rows[i] = []string{t.ID, t.Name, string(t.Category), string(t.Complexity), t.UseCase}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Name", "Category", "Complexity", "Use case").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return cellStyle.Foreground(colorCyan)
			}
			return cellStyle
		})
}

// scenarioSlug returns the dashed form accepted by --scenario.
func scenarioSlug(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "-"))
}
