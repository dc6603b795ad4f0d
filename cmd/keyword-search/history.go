// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/keyword-search/internal/config"
	"github.com/pdiddy/keyword-search/internal/history"
	"github.com/pdiddy/keyword-search/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past search runs",
	Long: `History lists recent search runs recorded in the history database, newest
first. With --run it prints the per-keyword results of one run.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	historyCmd.Flags().Int64("run", 0, "show the results of one run by ID")
	historyCmd.Flags().String("dir", "", "history directory (default: configured output directory)")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		dir = cfg.Output.Directory
	}

	store, err := history.Open(dir)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer store.Close()

	out := cmd.OutOrStdout()

	if runID, _ := cmd.Flags().GetInt64("run"); runID > 0 {
		results, err := store.RunResults(cmd.Context(), runID)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Fprintf(out, "no results for run %d\n", runID)
			return nil
		}
		printResults(out, results)
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "no recorded runs")
		return nil
	}

	fmt.Fprintf(out, "%-5s  %-19s  %-6s  %-6s  %-6s  %-7s  %s\n",
		"ID", "Started", "Total", "OK", "Fail", "Aborted", "Output")
	fmt.Fprintln(out, strings.Repeat("-", 90))
	for _, r := range runs {
		aborted := ""
		if r.Aborted {
			aborted = "yes"
		}
		fmt.Fprintf(out, "%-5d  %-19s  %-6d  %-6d  %-6d  %-7s  %s\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04:05"),
			r.Total, r.Succeeded, r.Failed, aborted, r.OutputFile)
	}
	return nil
}

func printResults(out io.Writer, results []types.SearchResult) {
	for i, r := range results {
		status := string(r.Status)
		if r.Status == types.StatusFailed && r.Reason != types.ReasonNone {
			status = string(r.Reason)
		}
		fmt.Fprintf(out, "%3d. [%s] %s", i+1, status, r.Keyword)
		if r.Succeeded() {
			fmt.Fprintf(out, " -> %s (%s)", r.Title, r.URL)
		}
		fmt.Fprintln(out)
	}
}
