// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"os"

	"github.com/naka-gawa/github-stats-box/internal/config"
	apperrors "github.com/naka-gawa/github-stats-box/internal/errors"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "github-stats-box",
	Short: "Keeps GitHub stats and coding activity gists up to date.",
	Long: `github-stats-box summarizes a GitHub user's activity into two small text reports:
a stats card (stars, commits, PRs or disk usage, issues, contributions) and the
per-language change volume of the last 14 days. Each report is written to its gist
only when the content changed.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(apperrors.ExitCode(err))
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("config", "", "Config file (default is ./.github-stats-box.yaml or $HOME/.github-stats-box.yaml)")
	rootCmd.PersistentFlags().Bool("progress", false, "Show commit fetch progress on stderr")

	rootCmd.PersistentFlags().String("stats-gist-id", "", "Gist holding the stats card (env GIST_ID)")
	rootCmd.PersistentFlags().String("stats-gist-file", "", "File in the stats gist to compare and update")
	rootCmd.PersistentFlags().String("coding-gist-id", "", "Gist holding the coding activity report (env CODING_GIST_ID)")
	rootCmd.PersistentFlags().String("coding-gist-file", "", "File in the coding activity gist to compare and update")
	rootCmd.PersistentFlags().StringSlice("exclude-extensions", nil, "Extensions to leave out of coding activity, in addition to the defaults")
	rootCmd.PersistentFlags().Bool("all-commits", false, "Show all-time commits and public disk usage instead of the past year")
	rootCmd.PersistentFlags().Bool("k-format", false, "Show large numbers as 12.3k instead of 12,345")
	rootCmd.PersistentFlags().Int("report-version", config.ReportVersionPRs, "Stats card variant: 1 shows total PRs, 2 shows disk usage")
	rootCmd.PersistentFlags().Int("workers", config.DefaultWorkers, "Maximum concurrent commit requests")
	rootCmd.PersistentFlags().Duration("http-timeout", 0, "Timeout of each GitHub request (default 30s)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json")
	rootCmd.PersistentFlags().String("only", "", "Run a single report: stats or coding")
}
