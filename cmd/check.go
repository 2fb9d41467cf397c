package cmd

import (
	"github.com/spf13/cobra"

	"github.com/macroscoach/mcctl/internal/api"
	"github.com/macroscoach/mcctl/internal/output"
	"github.com/macroscoach/mcctl/internal/week"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Goal checks",
}

var checkWeeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Check the week against protein, kcal and workout goals",
	Long: `Call /check/weekly for the week containing --start (default today).

Targets default to the targets section of the configuration.

Examples:
  mcctl check weekly
  mcctl check weekly --protein-target 140 --kcal-target 2200
  mcctl check weekly --start 2024-05-13 --min-workouts 4`,
	Args: cobra.NoArgs,
	RunE: runCheckWeekly,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.AddCommand(checkWeeklyCmd)

	checkWeeklyCmd.Flags().String("start", "", "any day of the week, YYYY-MM-DD (default today)")
	checkWeeklyCmd.Flags().Float64("protein-target", 0, "daily protein goal in grams (default targets.protein_g)")
	checkWeeklyCmd.Flags().Float64("kcal-target", 0, "daily kcal goal (default targets.kcal, 0 disables)")
	checkWeeklyCmd.Flags().Int("min-workouts", 0, "workouts per week (default targets.min_workouts)")
}

func runCheckWeekly(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	day, err := dateFlag(cmd, "start", week.Today(now))
	if err != nil {
		return err
	}

	params := api.WeeklyCheckParams{
		Start:          week.Start(day),
		ProteinTargetG: cfg.Targets.ProteinG,
		KcalTarget:     cfg.Targets.Kcal,
		MinWorkouts:    cfg.Targets.MinWorkouts,
	}
	if cmd.Flags().Changed("protein-target") {
		params.ProteinTargetG, _ = cmd.Flags().GetFloat64("protein-target")
	}
	if cmd.Flags().Changed("kcal-target") {
		params.KcalTarget, _ = cmd.Flags().GetFloat64("kcal-target")
	}
	if cmd.Flags().Changed("min-workouts") {
		params.MinWorkouts, _ = cmd.Flags().GetInt("min-workouts")
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	check, err := client.WeeklyCheck(cmd.Context(), params)
	if err != nil {
		return apiFailure("weekly check", err)
	}

	if jsonOutput {
		return writeJSON(cmd, check)
	}

	renderWeeklyCheck(printer, check)
	printer.PrintHints("check weekly")
	return nil
}

func renderWeeklyCheck(printer *output.Printer, check *api.WeeklyCheck) {
	printer.Header("Weekly check " + check.WeekStart)

	missions := printer.Table([]string{"MISSION", "HIT", "TARGET"})
	for _, m := range check.Missions {
		hit := m.DaysHit
		if hit == nil {
			hit = m.Done
		}
		missions.AddRow([]string{m.Name, fmtOptInt(hit), fmtOptInt(m.Target)})
	}
	if check.KcalDaysOK != nil {
		missions.AddRow([]string{"kcal days within 10%", fmtOptInt(check.KcalDaysOK), "-"})
	}
	missions.Render()

	if len(check.Daily) > 0 {
		printer.Blank()
		daily := printer.Table([]string{"DATE", "KCAL", "PRO", "CARB", "FAT"})
		for _, d := range check.Daily {
			daily.AddRow(macroRow(d.Date, d.Macros))
		}
		daily.Render()
	}
}
