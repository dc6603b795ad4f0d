package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/keyword-search/internal/config"
	"github.com/pdiddy/keyword-search/internal/runner"
	"github.com/pdiddy/keyword-search/internal/search"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify API credentials with a test query",
	Long: `Check performs a single minimal query against the Custom Search API to
confirm the configured API key and search engine ID work.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := runner.Validate(cfg.GoogleAPI); err != nil {
			return err
		}

		timeout := cfg.Search.Timeout
		if timeout <= 0 {
			timeout = config.DefaultTimeout
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		client, err := search.NewGoogleClient(ctx, cfg.GoogleAPI, cfg.Search.UserAgent, zap.NewNop())
		if err != nil {
			return err
		}
		start := time.Now()
		if err := client.CheckConnection(ctx); err != nil {
			return fmt.Errorf("API connection test failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "API connection OK (%s)\n", time.Since(start).Round(time.Millisecond))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
