package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macroscoach/mcctl/internal/week"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Daily and weekly macro totals",
	Long: `Read macro totals for a day or a week.

The week defaults to the one containing today and always starts on Monday.

Examples:
  mcctl summary day
  mcctl summary day --date 2024-05-14
  mcctl summary week
  mcctl summary week --start 2024-05-16   # normalized to 2024-05-13`,
}

var summaryDayCmd = &cobra.Command{
	Use:   "day",
	Short: "Totals for one day",
	Args:  cobra.NoArgs,
	RunE:  runSummaryDay,
}

var summaryWeekCmd = &cobra.Command{
	Use:   "week",
	Short: "Totals for one week",
	Args:  cobra.NoArgs,
	RunE:  runSummaryWeek,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.AddCommand(summaryDayCmd, summaryWeekCmd)

	summaryDayCmd.Flags().String("date", "", "day, YYYY-MM-DD (default today)")
	summaryWeekCmd.Flags().String("start", "", "any day of the week, YYYY-MM-DD (default today)")
}

func runSummaryDay(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	date, err := dateFlag(cmd, "date", week.Today(now))
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	sum, err := client.DaySummary(cmd.Context(), date)
	if err != nil {
		return apiFailure("fetching day summary", err)
	}

	if jsonOutput {
		return writeJSON(cmd, sum)
	}

	printer.Header("Summary " + week.Format(date))
	table := printer.Table(macroHeaders)
	table.AddRow(macroRow("total", sum.Macros))
	table.Render()
	return nil
}

func runSummaryWeek(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	day, err := dateFlag(cmd, "start", week.Today(now))
	if err != nil {
		return err
	}
	r := week.Of(day)

	client, err := newClient()
	if err != nil {
		return err
	}

	sum, err := client.WeekSummary(cmd.Context(), r.Start)
	if err != nil {
		return apiFailure("fetching week summary", err)
	}

	if jsonOutput {
		return writeJSON(cmd, sum)
	}

	printer.Header(fmt.Sprintf("Week %s", r))
	table := printer.Table(macroHeaders)
	table.AddRow(macroRow("total", sum.Totals))
	table.AddRow(macroRow("daily avg", perDay(sum.Totals)))
	table.Render()
	printer.PrintHints("summary week")
	return nil
}
