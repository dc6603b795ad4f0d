// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the keyword-search CLI.
// See docs/ARCHITECTURE § CLI Surface.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/keyword-search/internal/config"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the keyword-search CLI.
var rootCmd = &cobra.Command{
	Use:   "keyword-search",
	Short: "Fetch the top Google Custom Search result for a list of keywords",
	Long: `keyword-search takes keywords from an argument, a file, or interactive
input, fetches the top Google Custom Search result for each one, and writes
the results to a CSV file.

Searches run one at a time with a configurable delay, retry failed calls,
and keep partial results when the run is interrupted or hits a quota error.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./keyword-search.yaml or ~/.config/keyword-search/keyword-search.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	config.Init(cfgFile)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
