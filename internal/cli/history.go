package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/spantree/pkg/history"
)

const historyFile = "history.json"

// historyPath returns the history file inside the configured cache directory.
func (c *CLI) historyPath() (string, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return "", err
	}
	dir := cfg.Cache.Dir
	if dir == "" {
		if dir, err = cacheDir(); err != nil {
			return "", fmt.Errorf("get cache dir: %w", err)
		}
	}
	return filepath.Join(dir, historyFile), nil
}

// recordHistory appends executions to the history file. Failures are logged
// and never fail the command that produced the runs.
func (c *CLI) recordHistory(execs ...history.Execution) {
	if len(execs) == 0 {
		return
	}
	path, err := c.historyPath()
	if err != nil {
		c.Logger.Debug("history path", "error", err)
		return
	}
	rec, err := history.ReadFile(path)
	if err != nil {
		c.Logger.Warn("history unreadable, starting fresh", "path", path, "error", err)
		rec = history.New()
	}
	for _, e := range execs {
		rec.Record(e)
	}
	if err := rec.WriteFile(path); err != nil {
		c.Logger.Warn("save history", "path", path, "error", err)
		return
	}
	c.Logger.Debug("history saved", "path", path, "entries", rec.Len())
}

// historyCommand creates the history command, which lists the last
// completed runs.
func (c *CLI) historyCommand() *cobra.Command {
	var (
		jsonOut bool
		reset   bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the most recent completed runs",
		Long: fmt.Sprintf(`Show the last %d runs completed by "spantree run", newest last.

Headless runs are recorded once they finish; interactive runs are recorded
each time the animation reaches the end.`, history.Limit),
		Example: `  spantree history
  spantree history --json
  spantree history --clear`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.historyPath()
			if err != nil {
				return err
			}
			if reset {
				if err := history.New().WriteFile(path); err != nil {
					return err
				}
				printSuccess("History cleared")
				return nil
			}
			rec, err := history.ReadFile(path)
			if err != nil {
				return err
			}
			entries := rec.Entries()

			if jsonOut {
				if entries == nil {
					entries = []history.Execution{}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}
			if len(entries) == 0 {
				printInfo("No runs recorded yet")
				printNextStep("Try", "spantree run --scenario simple-network")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), historyTable(entries))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the history as JSON")
	cmd.Flags().BoolVar(&reset, "clear", false, "forget all recorded runs")
	cmd.MarkFlagsMutuallyExclusive("json", "clear")

	return cmd
}

func historyTable(entries []history.Execution) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	rows := make([][]string, len(entries))
	for i, e := range entries {
		cost := strconv.Itoa(e.Cost)
		if e.Disconnected {
			cost += " (forest)"
		}
		rows[i] = []string{
			e.FinishedAt.Local().Format(time.DateTime),
			e.Algorithm.Title(),
			strconv.Itoa(e.Steps),
			e.Elapsed.Round(time.Millisecond).String(),
			strconv.Itoa(e.Nodes),
			strconv.Itoa(e.Edges),
			cost,
		}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Finished", "Algorithm", "Steps", "Elapsed", "Nodes", "Edges", "Cost").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 1 {
				return cellStyle.Foreground(colorCyan)
			}
			return cellStyle
		})
}
