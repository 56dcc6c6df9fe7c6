// Package cmd implements the sequoia command-line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

// Command group IDs.
const (
	groupCore  = "core"
	groupSetup = "setup"
)

var rootCmd = &cobra.Command{
	Use:   "sequoia",
	Short: "mine frequent sequential patterns from a transaction bag",
	Long: `sequoia - mine frequent sequential patterns with unique item occurrences
  - mine a table file of transactions for frequent or closed patterns
  - optionally weight patterns by per-item weights
  - browse, cache, and replay past runs through a background daemon`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: groupCore, Title: "Core Commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup & Configuration:"},
	)

	rootCmd.AddCommand(mineCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(runsCmd)

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(versionCmd)
}
