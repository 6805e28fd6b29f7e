package cmd

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Renders both reports and updates the gists that changed",
	Long: `Fetches the stats card and the coding activity of the last 14 days, renders them and
writes each report to its gist when the stored content differs. The two reports are built
concurrently and a failure in one does not stop the other.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		a, err := newApp(cmd, true)
		if err != nil {
			return err
		}

		report, err := a.runner.Run(ctx, a.run)
		a.finish()
		if report == nil {
			return err
		}
		if a.run.Stats {
			a.logger.With("report", "stats").Infof("Sync finished: %s", report.StatsSync)
		}
		if a.run.Coding {
			a.logger.With("report", "coding").Infof("Sync finished: %s", report.CodingSync)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
