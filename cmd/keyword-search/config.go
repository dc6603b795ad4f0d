package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/keyword-search/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Write a sample configuration file",
	Long: `Config writes a sample keyword-search.yaml with placeholder credentials
and the documented defaults. Edit the google_api section before searching,
or set GOOGLE_API_KEY and GOOGLE_CUSTOM_SEARCH_ENGINE_ID in the environment.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("path")
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.WriteSample(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Sample config written to %s\n", path)
		return nil
	},
}

func init() {
	configCmd.Flags().String("path", "keyword-search.yaml", "where to write the sample config")
	configCmd.Flags().Bool("force", false, "overwrite an existing file")

	rootCmd.AddCommand(configCmd)
}
