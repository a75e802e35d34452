package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/specscribe/core/internal/ui"
	"github.com/specscribe/core/pkg/generate"
)

var (
	flagConfig   string
	flagPatterns []string
	flagExclude  []string
	flagWorkers  int
	flagTimeout  time.Duration
)

var generateCmd = &cobra.Command{
	Use:   "generate <module-dir> [out-dir]",
	Short: "Scan a test module and regenerate its .spec documents",
	Long: `Scan a Go test module for //spec: directive comments and regenerate one
behavior-specification text file per feature under the output directory.

The exit code is 0 on success, including runs with recoverable warnings
(malformed directives, orphaned nodes, per-feature write failures). A
non-zero exit means the run produced no usable document at all.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&flagConfig, "config", "", "path to a .specscribe.yaml config file")
	generateCmd.Flags().StringArrayVar(&flagPatterns, "pattern", nil, "glob pattern selecting test files (repeatable)")
	generateCmd.Flags().StringArrayVar(&flagExclude, "exclude", nil, "directory name to skip during discovery (repeatable)")
	generateCmd.Flags().IntVar(&flagWorkers, "workers", 0, "number of concurrent file parsers (0 = GOMAXPROCS)")
	generateCmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "scan timeout (0 = default)")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	moduleDir := args[0]
	cfg, err := resolveConfig(moduleDir)
	if err != nil {
		ui.FatalLine(cmd.ErrOrStderr(), err)
		return err
	}

	opts := cfg.Options(moduleDir)
	if len(args) == 2 {
		opts.OutDir = args[1]
	}
	if cmd.Flags().Changed("pattern") {
		opts.Patterns = flagPatterns
	}
	if cmd.Flags().Changed("exclude") {
		opts.Exclude = flagExclude
	}
	if cmd.Flags().Changed("workers") {
		opts.Workers = flagWorkers
	}
	if cmd.Flags().Changed("timeout") {
		opts.Timeout = flagTimeout
	}

	report, err := generate.Generate(cmd.Context(), opts)
	if report != nil {
		for _, w := range report.Warnings {
			ui.WarningLine(cmd.ErrOrStderr(), w)
		}
	}
	if err != nil {
		ui.FatalLine(cmd.ErrOrStderr(), err)
		return err
	}

	for _, f := range report.Document.Features {
		ui.FeatureLine(cmd.OutOrStdout(), f.Name, len(f.Scenarios))
	}
	ui.SummaryLine(cmd.OutOrStdout(),
		len(report.Document.Features),
		report.Document.CountScenarios(),
		len(report.Warnings))
	return nil
}

// resolveConfig loads --config when given, otherwise the module-root config
// file when present, otherwise defaults.
func resolveConfig(moduleDir string) (generate.Config, error) {
	if flagConfig != "" {
		return generate.LoadConfig(flagConfig)
	}

	path := filepath.Join(moduleDir, generate.DefaultConfigFile)
	cfg, err := generate.LoadConfig(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return generate.DefaultConfig(), nil
		}
		return generate.Config{}, err
	}
	return cfg, nil
}
