package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of keyword-search",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("keyword-search %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
