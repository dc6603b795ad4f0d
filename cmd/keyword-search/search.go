package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/keyword-search/internal/config"
	"github.com/pdiddy/keyword-search/internal/export"
	"github.com/pdiddy/keyword-search/internal/history"
	"github.com/pdiddy/keyword-search/internal/keywords"
	"github.com/pdiddy/keyword-search/internal/logging"
	"github.com/pdiddy/keyword-search/internal/runner"
	"github.com/pdiddy/keyword-search/internal/search"
	"github.com/pdiddy/keyword-search/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [keyword]",
	Short: "Search keywords and export the top results to CSV",
	Long: `Search fetches the top Google Custom Search result for each keyword and
writes one CSV row per keyword, preserving input order. Keywords come from
a single argument, a file (one per line, # and // start comments), or
interactive input.

Interrupting a run (Ctrl+C) stops after the current keyword; results
gathered so far are still exported.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringP("file", "f", "", "file with keywords, one per line")
	searchCmd.Flags().BoolP("interactive", "i", false, "enter keywords interactively")
	searchCmd.Flags().Duration("delay", 0, "wait between searches and retries (default from config, 1s)")
	searchCmd.Flags().Int("retry", -1, "retry count for failed searches (default from config, 3)")
	searchCmd.Flags().Duration("timeout", 0, "per-attempt API timeout (default from config, 10s)")
	searchCmd.Flags().StringP("output-dir", "o", "", "output directory (default from config, \"output\")")
	searchCmd.Flags().StringP("prefix", "p", "", "output filename prefix (default from config, \"search_results\")")
	searchCmd.Flags().BoolP("verbose", "v", false, "enable debug logging")
	searchCmd.Flags().BoolP("quiet", "q", false, "log errors only")
	searchCmd.Flags().Bool("no-history", false, "skip recording the run in the history database")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadSearchConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer logger.Sync()

	kws, err := collectKeywords(cmd, args, logger)
	if err != nil {
		return err
	}
	if len(kws) == 0 {
		fmt.Fprintln(os.Stderr, "no keywords entered")
		return nil
	}

	if err := runner.Validate(cfg.GoogleAPI); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := search.NewGoogleClient(ctx, cfg.GoogleAPI, cfg.Search.UserAgent, logger)
	if err != nil {
		return err
	}

	r := runner.New(client, cfg.Search,
		runner.WithSink(runner.NewWriterSink(cmd.OutOrStdout())),
		runner.WithLogger(logger))

	fmt.Fprintf(cmd.OutOrStdout(), "Searching %d keywords...\n", len(kws))
	started := time.Now()
	results, runErr := r.Run(ctx, kws)
	finished := time.Now()

	if ctx.Err() != nil {
		fmt.Fprintln(cmd.OutOrStdout(), "search interrupted, keeping partial results")
	}

	// Partial results are exported even when the run was aborted.
	var outputFile string
	if len(results) > 0 {
		outputFile = filepath.Join(cfg.Output.Directory, export.Filename(cfg.Output.FilenamePrefix, started))
		if err := export.WriteCSV(results, outputFile); err != nil {
			logger.Error("CSV export failed", zap.Error(err))
			return fmt.Errorf("exporting results: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Results written to %s\n", outputFile)
	}

	summary := export.NewSummary(results, len(kws), started, finished, runErr, outputFile)
	if len(results) > 0 {
		if _, err := export.WriteSummary(summary, cfg.Output.Directory, cfg.Output.FilenamePrefix); err != nil {
			logger.Warn("could not write run summary", zap.Error(err))
		}
	}
	fmt.Fprint(cmd.OutOrStdout(), export.FormatSummary(summary))

	if noHistory, _ := cmd.Flags().GetBool("no-history"); !noHistory {
		recordRun(cfg.Output.Directory, summary, results, logger)
	}

	if runErr != nil {
		return fmt.Errorf("run aborted: %w", runErr)
	}
	if summary.Succeeded == 0 {
		return fmt.Errorf("no successful results")
	}
	return nil
}

// loadSearchConfig loads the config and applies flag overrides.
func loadSearchConfig(cmd *cobra.Command) (types.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}

	if d, _ := cmd.Flags().GetDuration("delay"); cmd.Flags().Changed("delay") {
		cfg.Search.RetryDelay = d
	}
	if n, _ := cmd.Flags().GetInt("retry"); n >= 0 {
		cfg.Search.RetryCount = n
	}
	if t, _ := cmd.Flags().GetDuration("timeout"); t > 0 {
		cfg.Search.Timeout = t
	}
	if dir, _ := cmd.Flags().GetString("output-dir"); dir != "" {
		cfg.Output.Directory = dir
	}
	if prefix, _ := cmd.Flags().GetString("prefix"); prefix != "" {
		cfg.Output.FilenamePrefix = prefix
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Logging.Level = "debug"
	} else if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		cfg.Logging.Level = "error"
	}

	if err := config.ValidateRanges(cfg.Search); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// collectKeywords resolves the three mutually exclusive input modes.
func collectKeywords(cmd *cobra.Command, args []string, logger *zap.Logger) ([]string, error) {
	file, _ := cmd.Flags().GetString("file")
	interactive, _ := cmd.Flags().GetBool("interactive")

	modes := 0
	if len(args) > 0 {
		modes++
	}
	if file != "" {
		modes++
	}
	if interactive {
		modes++
	}
	if modes == 0 {
		return nil, fmt.Errorf("provide a keyword argument, --file, or --interactive")
	}
	if modes > 1 {
		return nil, fmt.Errorf("keyword argument, --file and --interactive are mutually exclusive")
	}

	switch {
	case len(args) > 0:
		if err := keywords.Validate(args[0]); err != nil {
			return nil, fmt.Errorf("invalid keyword: %w", err)
		}
		return []string{args[0]}, nil
	case file != "":
		return keywords.ReadFile(file, logger)
	default:
		return keywords.ReadInteractive(cmd.InOrStdin(), cmd.OutOrStdout())
	}
}

// recordRun saves the run to the history store. History is best-effort:
// failures are logged, never fatal.
func recordRun(dir string, s export.Summary, results []types.SearchResult, logger *zap.Logger) {
	store, err := history.Open(dir)
	if err != nil {
		logger.Warn("history store unavailable", zap.Error(err))
		return
	}
	defer store.Close()

	run := history.Run{
		StartedAt:  s.StartedAt,
		FinishedAt: s.FinishedAt,
		Total:      s.Total,
		Succeeded:  s.Succeeded,
		Failed:     s.Failed,
		Aborted:    s.Aborted,
		OutputFile: s.OutputFile,
	}
	// The signal context may already be cancelled; recording still runs.
	if _, err := store.SaveRun(context.Background(), run, results); err != nil {
		logger.Warn("could not record run", zap.Error(err))
	}
}
