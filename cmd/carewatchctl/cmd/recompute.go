package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/NasaVasa/carewatch/internal/app"
	"github.com/NasaVasa/carewatch/internal/domain"
	"github.com/spf13/cobra"
)

var recomputeDate string

var recomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Recompute and notify alerts for one user day",
	Long: `Re-evaluate a day's records, persist the alert set and notify new or
escalated warn/critical alerts. Running it twice on unchanged records
sends nothing the second time.

Example:
  carewatchctl recompute --user u1 --date 2024-05-01`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireUser(); err != nil {
			return err
		}
		return withCore(cmd.Context(), func(core *app.Core) error {
			date := recomputeDate
			if date == "" {
				date = time.Now().In(core.Config.Location()).Format(domain.DateLayout)
			}
			result, err := core.Engine.RecomputeAndNotify(cmd.Context(), userID, date)
			if err != nil {
				return err
			}
			return printResult(stdout(), result, func(w io.Writer) {
				fmt.Fprintf(w, "%s %s: %d alerts, %d new, %d escalated, %d retracted, %d notified\n",
					result.UserID, result.Date, len(result.Alerts), len(result.New), len(result.Escalated), len(result.Retracted), result.Notified)
			})
		})
	},
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Recompute today and yesterday for every known user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCore(cmd.Context(), func(core *app.Core) error {
			report, err := core.Sweeper.SweepOnce(cmd.Context())
			if err != nil {
				return err
			}
			return printResult(stdout(), report, func(w io.Writer) {
				fmt.Fprintf(w, "swept %d users, %d failures\n", report.Users, report.Failed)
			})
		})
	},
}

func init() {
	recomputeCmd.Flags().StringVar(&recomputeDate, "date", "", "day to recompute (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(recomputeCmd)
	rootCmd.AddCommand(sweepCmd)
}
