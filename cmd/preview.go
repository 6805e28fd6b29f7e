package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/naka-gawa/github-stats-box/internal/render"
	"github.com/naka-gawa/github-stats-box/internal/usecase"
	"github.com/spf13/cobra"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	warningColor = color.New(color.FgYellow)
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Renders both reports to stdout without touching any gist",
	Long: `Builds the same reports as sync and prints them to standard output. No gist is read
or written, so no gist id is required. Use --breakdown to list every extension bucket.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		a, err := newApp(cmd, false)
		if err != nil {
			return err
		}

		report, err := a.runner.Run(ctx, a.run)
		a.finish()
		if report == nil {
			return err
		}

		breakdown, _ := cmd.Flags().GetBool("breakdown")
		if printErr := printPreview(cmd.OutOrStdout(), report, breakdown, a.cfg.ExtensionNames); printErr != nil {
			return printErr
		}
		return err
	},
}

// printPreview writes whichever reports were built.
func printPreview(w io.Writer, report *usecase.RunReport, breakdown bool, names map[string]string) error {
	if report.Stats != nil {
		headerColor.Fprintln(w, usecase.StatsFileName(report.Stats.Snapshot.DisplayName))
		fmt.Fprint(w, report.Stats.Text)
		fmt.Fprintln(w)
	}

	if report.Coding != nil {
		headerColor.Fprintf(w, "Coding activity (%d commits)\n", len(report.Coding.Commits))
		if report.Coding.Text == "" {
			fmt.Fprintln(w, "No changes in the last 14 days.")
		}
		fmt.Fprint(w, report.Coding.Text)
		if n := len(report.Coding.Result.Failed); n > 0 {
			warningColor.Fprintf(w, "%d commits could not be fetched and were left out.\n", n)
		}
		if breakdown {
			fmt.Fprintln(w)
			if err := render.WriteBreakdown(w, report.Coding.Result.Buckets, names); err != nil {
				return fmt.Errorf("failed to write breakdown: %w", err)
			}
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().Bool("breakdown", false, "Print every extension bucket as a table")
}
