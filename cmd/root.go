// Package cmd implements the specscribe command line interface.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "specscribe",
	Short: "specscribe — regenerate behavior-specification documents from test suites",
	// Fatal errors are already rendered by the subcommands.
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
