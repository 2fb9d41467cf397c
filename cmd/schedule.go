package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/macroscoach/mcctl/internal/api"
	"github.com/macroscoach/mcctl/internal/week"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Show or set the ON and OFF weekdays",
	Long: `Read and write which weekdays are training (ON) days and which are rest
(OFF) days. Days are given as names (mon, tuesday, ...) or ISO numbers,
1 for Monday through 7 for Sunday.

Examples:
  mcctl schedule show
  mcctl schedule set --on mon,wed,fri --off tue,thu,sat,sun`,
}

var scheduleShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the weekly schedule",
	Args:  cobra.NoArgs,
	RunE:  runScheduleShow,
}

var scheduleSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Replace the weekly schedule",
	Args:  cobra.NoArgs,
	RunE:  runScheduleSet,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.AddCommand(scheduleShowCmd, scheduleSetCmd)

	scheduleSetCmd.Flags().StringSlice("on", nil, "training days")
	scheduleSetCmd.Flags().StringSlice("off", nil, "rest days")
}

func runScheduleShow(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	client, err := newClient()
	if err != nil {
		return err
	}

	schedule, err := client.Schedule(cmd.Context())
	if err != nil {
		return apiFailure("fetching schedule", err)
	}

	if jsonOutput {
		return writeJSON(cmd, schedule)
	}
	printer.Print("ON:  %s", dayList(schedule.OnDays))
	printer.Print("OFF: %s", dayList(schedule.OffDays))
	return nil
}

func runScheduleSet(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	onRaw, _ := cmd.Flags().GetStringSlice("on")
	offRaw, _ := cmd.Flags().GetStringSlice("off")
	if len(onRaw)+len(offRaw) == 0 {
		return usageError("nothing to set", fmt.Errorf("pass --on, --off or both"))
	}

	var (
		schedule api.Schedule
		err      error
	)
	if schedule.OnDays, err = serverDays("on", onRaw); err != nil {
		return err
	}
	if schedule.OffDays, err = serverDays("off", offRaw); err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	saved, err := client.SetSchedule(cmd.Context(), schedule)
	if err != nil {
		return apiFailure("saving schedule", err)
	}

	if jsonOutput {
		return writeJSON(cmd, saved)
	}
	printer.Success("Schedule saved")
	printer.Print("ON:  %s", dayList(saved.OnDays))
	printer.Print("OFF: %s", dayList(saved.OffDays))
	return nil
}

// serverDays parses day names into the API's 0 (Monday) to 6 (Sunday) indexes
func serverDays(flag string, raw []string) ([]int, error) {
	days := make([]int, 0, len(raw))
	for _, r := range raw {
		d, err := week.ParseDay(r)
		if err != nil {
			return nil, usageError(fmt.Sprintf("invalid --%s", flag), err)
		}
		days = append(days, d-1)
	}
	return days, nil
}

func dayList(days []int) string {
	if len(days) == 0 {
		return "-"
	}
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = week.DayName(d + 1)
		if names[i] == "" {
			names[i] = fmt.Sprintf("?%d", d)
		}
	}
	return strings.Join(names, " ")
}
