package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/macroscoach/mcctl/internal/api"
	"github.com/macroscoach/mcctl/internal/week"
)

var weightCmd = &cobra.Command{
	Use:   "weight",
	Short: "Log and inspect body weight",
	Long: `Log body weight measurements and read them back.

Examples:
  mcctl weight log 78.4
  mcctl weight log 78.9 --when "2024-05-13 07:30"
  mcctl weight list --start 2024-05-01 --end 2024-05-31
  mcctl weight weekly
  mcctl weight trend`,
}

var weightLogCmd = &cobra.Command{
	Use:   "log <kg>",
	Short: "Record a weight measurement",
	Args:  cobra.ExactArgs(1),
	RunE:  runWeightLog,
}

var weightListCmd = &cobra.Command{
	Use:   "list",
	Short: "List measurements, optionally within a date range",
	Args:  cobra.NoArgs,
	RunE:  runWeightList,
}

var weightWeeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Weekly averages",
	Args:  cobra.NoArgs,
	RunE:  runWeightWeekly,
}

var weightTrendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Weight change per week",
	Args:  cobra.NoArgs,
	RunE:  runWeightTrend,
}

var weightDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a measurement",
	Args:  cobra.ExactArgs(1),
	RunE:  runWeightDelete,
}

func init() {
	rootCmd.AddCommand(weightCmd)
	weightCmd.AddCommand(weightLogCmd, weightListCmd, weightWeeklyCmd, weightTrendCmd, weightDeleteCmd)

	weightLogCmd.Flags().String("when", "", "measurement time (default now)")
	weightListCmd.Flags().String("start", "", "first day, YYYY-MM-DD")
	weightListCmd.Flags().String("end", "", "last day, YYYY-MM-DD")
}

func runWeightLog(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	kg, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return usageError("invalid weight", fmt.Errorf("%q is not a number", args[0]))
	}
	whenStr, _ := cmd.Flags().GetString("when")
	when, err := parseWhen(whenStr)
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	res, err := client.LogWeight(cmd.Context(), api.WeightEntry{When: when, Kg: kg})
	if err != nil {
		return apiFailure("logging weight", err)
	}

	if jsonOutput {
		return writeJSON(cmd, res)
	}
	printer.Success("Logged %s kg", fmtNum(kg))
	printer.PrintHints("weight log")
	return nil
}

func runWeightList(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	startStr, _ := cmd.Flags().GetString("start")
	endStr, _ := cmd.Flags().GetString("end")
	if (startStr == "") != (endStr == "") {
		return usageError("invalid range", fmt.Errorf("--start and --end must be given together"))
	}

	var start, end time.Time
	if startStr != "" {
		var err error
		if start, err = week.Parse(startStr); err != nil {
			return usageError("invalid --start", err)
		}
		if end, err = week.Parse(endStr); err != nil {
			return usageError("invalid --end", err)
		}
		if end.Before(start) {
			return usageError("invalid range", fmt.Errorf("--end %s is before --start %s", week.Format(end), week.Format(start)))
		}
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	var logs []api.WeightLog
	if startStr == "" {
		logs, err = client.Weights(cmd.Context())
	} else {
		logs, err = client.WeightsRange(cmd.Context(), start, end)
	}
	if err != nil {
		return apiFailure("listing weights", err)
	}

	if jsonOutput {
		return writeJSON(cmd, logs)
	}

	if len(logs) == 0 {
		printer.Info("No measurements")
		return nil
	}
	table := printer.Table([]string{"ID", "WHEN", "KG"})
	for _, l := range logs {
		table.AddRow([]string{strconv.Itoa(l.ID), l.When, fmtNum(l.Kg)})
	}
	table.Render()
	return nil
}

func runWeightWeekly(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	client, err := newClient()
	if err != nil {
		return err
	}

	weeks, err := client.WeeklyWeights(cmd.Context())
	if err != nil {
		return apiFailure("fetching weekly weights", err)
	}

	if jsonOutput {
		return writeJSON(cmd, weeks)
	}
	renderWeeklyWeights(printer.Table, weeks)
	return nil
}

func renderWeeklyWeights(newTable tableFunc, weeks []api.WeeklyWeight) {
	table := newTable([]string{"WEEK", "AVG", "MIN", "MAX", "N"})
	for _, w := range weeks {
		table.AddRow([]string{w.WeekStart, fmtNum(w.Avg), fmtNum(w.Min), fmtNum(w.Max), strconv.Itoa(w.N)})
	}
	table.Render()
}

func runWeightTrend(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	client, err := newClient()
	if err != nil {
		return err
	}

	trend, err := client.WeightTrend(cmd.Context())
	if err != nil {
		return apiFailure("fetching weight trend", err)
	}

	if jsonOutput {
		return writeJSON(cmd, trend)
	}
	printer.Print("%s", describeTrend(trend))
	return nil
}

func describeTrend(t *api.WeightTrend) string {
	if t == nil || t.SlopeKgPerWeek == nil {
		return "Trend: not enough measurements"
	}
	return fmt.Sprintf("Trend: %+.2f kg/week", *t.SlopeKgPerWeek)
}

func runWeightDelete(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	res, err := client.DeleteWeight(cmd.Context(), id)
	if err != nil {
		return apiFailure("deleting weight", err)
	}

	if jsonOutput {
		return writeJSON(cmd, res)
	}
	printer.Success("Deleted weight %d", id)
	return nil
}
