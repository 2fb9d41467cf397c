package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macroscoach/mcctl/internal/week"
)

var weekCmd = &cobra.Command{
	Use:   "week [date]",
	Short: "Print the Monday that starts the week of a date",
	Long: `Print the ISO week start (Monday) for a date, default today.
This is the start date every weekly request uses.

Examples:
  mcctl week                # Week of today
  mcctl week 2024-01-02     # 2024-01-01
  mcctl week 2023-01-01     # 2022-12-26 (a Sunday)
  mcctl week --days         # Also list the seven days`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWeek,
}

func init() {
	rootCmd.AddCommand(weekCmd)

	weekCmd.Flags().Bool("days", false, "list every day of the week")
}

type weekInfo struct {
	Date      string   `json:"date"`
	Weekday   int      `json:"iso_weekday"`
	WeekStart string   `json:"week_start"`
	WeekEnd   string   `json:"week_end"`
	Days      []string `json:"days,omitempty"`
}

func runWeek(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	day := week.Today(now)
	if len(args) == 1 {
		d, err := week.Parse(args[0])
		if err != nil {
			return usageError("invalid date", err)
		}
		day = d
	}

	r := week.Of(day)
	info := weekInfo{
		Date:      week.Format(day),
		Weekday:   week.ISOWeekday(day),
		WeekStart: week.Format(r.Start),
		WeekEnd:   week.Format(r.End().AddDate(0, 0, -1)),
	}
	if showDays, _ := cmd.Flags().GetBool("days"); showDays {
		for _, d := range r.Days() {
			info.Days = append(info.Days, week.Format(d))
		}
	}

	if jsonOutput {
		return writeJSON(cmd, info)
	}

	// quiet mode still prints the result
	if printer.IsQuiet() {
		fmt.Fprintln(cmd.OutOrStdout(), info.WeekStart)
		return nil
	}

	printer.Print("%s", info.WeekStart)
	printer.Info("%s is ISO weekday %d, week %s", info.Date, info.Weekday, r)
	for _, d := range info.Days {
		printer.Print("  %s", d)
	}
	return nil
}
