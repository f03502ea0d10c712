package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/NasaVasa/carewatch/internal/app"
	"github.com/NasaVasa/carewatch/internal/domain"
	"github.com/NasaVasa/carewatch/internal/usecase"
	"github.com/spf13/cobra"
)

var (
	alertsSince string
	alertsType  string
	alertsLevel string
	alertsSort  string
	summaryFor  string
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "List persisted alerts for a user",
	Long: `List alerts, optionally filtered by start date, type and level.

Sorting is by level (critical first) or createdAt (newest first).

Example:
  carewatchctl alerts --user u1 --since 2024-05-01 --level warn`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireUser(); err != nil {
			return err
		}
		query, err := buildAlertsQuery()
		if err != nil {
			return err
		}
		return withCore(cmd.Context(), func(core *app.Core) error {
			alerts, err := core.AlertUC.ListAlerts(cmd.Context(), userID, query)
			if err != nil {
				return err
			}
			return printResult(stdout(), alerts, func(w io.Writer) {
				for _, alert := range alerts {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", alert.Date, strings.ToUpper(string(alert.Level)), alert.ID, alert.Message)
				}
			})
		})
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Monthly distinct-day alert summary",
	Example: `  carewatchctl summary --user u1 --month 2024-05`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireUser(); err != nil {
			return err
		}
		return withCore(cmd.Context(), func(core *app.Core) error {
			month := summaryFor
			if month == "" {
				month = time.Now().In(core.Config.Location()).Format(domain.MonthLayout)
			}
			summary, err := core.AlertUC.Summarize(cmd.Context(), userID, month)
			if err != nil {
				return err
			}
			return printResult(stdout(), summary, func(w io.Writer) {
				fmt.Fprintf(w, "%s warn=%d critical=%d fever=%d hypothermia=%d seizure=%d hydration=%d\n",
					summary.Month, summary.WarnDays, summary.CriticalDays, summary.FeverDays,
					summary.HypothermiaDays, summary.SeizureDays, summary.HydrationLowDays)
			})
		})
	},
}

func buildAlertsQuery() (usecase.ListAlertsQuery, error) {
	query := usecase.ListAlertsQuery{Since: alertsSince, SortBy: usecase.SortBy(alertsSort)}
	if alertsType != "" {
		alertType, ok := domain.ParseAlertType(alertsType)
		if !ok {
			return query, fmt.Errorf("unknown alert type %q", alertsType)
		}
		query.Type = &alertType
	}
	if alertsLevel != "" {
		level, ok := domain.ParseLevel(alertsLevel)
		if !ok {
			return query, fmt.Errorf("unknown alert level %q", alertsLevel)
		}
		query.Level = &level
	}
	return query, nil
}

func init() {
	alertsCmd.Flags().StringVar(&alertsSince, "since", "", "only alerts on or after this day (YYYY-MM-DD)")
	alertsCmd.Flags().StringVar(&alertsType, "type", "", "vital, seizure, hydration, sleep or other")
	alertsCmd.Flags().StringVar(&alertsLevel, "level", "", "info, warn or critical")
	alertsCmd.Flags().StringVar(&alertsSort, "sort", "level", "level or createdAt")
	summaryCmd.Flags().StringVar(&summaryFor, "month", "", "month to summarize (YYYY-MM, default current)")
	rootCmd.AddCommand(alertsCmd)
	rootCmd.AddCommand(summaryCmd)
}
