package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/macroscoach/mcctl/internal/api"
)

var workoutCmd = &cobra.Command{
	Use:   "workout",
	Short: "Log and list workouts",
	Long: `Log training sessions and list them.

Sets are given as exercise:reps or exercise:reps:kg.

Examples:
  mcctl workout log --set squat:5:100 --set "panca piana:8:70"
  mcctl workout log --set trazioni:8 --when "2024-05-13 18:00"
  mcctl workout list`,
}

var workoutLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Record a workout",
	Args:  cobra.NoArgs,
	RunE:  runWorkoutLog,
}

var workoutListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workouts",
	Args:  cobra.NoArgs,
	RunE:  runWorkoutList,
}

func init() {
	rootCmd.AddCommand(workoutCmd)
	workoutCmd.AddCommand(workoutLogCmd, workoutListCmd)

	workoutLogCmd.Flags().StringArray("set", nil, "set as exercise:reps[:kg] (repeatable)")
	workoutLogCmd.Flags().String("when", "", "workout time (default now)")
}

// parseWorkoutSet parses exercise:reps[:kg]
func parseWorkoutSet(s string) (api.WorkoutSet, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return api.WorkoutSet{}, fmt.Errorf("set %q: want exercise:reps or exercise:reps:kg", s)
	}

	set := api.WorkoutSet{Exercise: strings.TrimSpace(parts[0])}
	reps, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return api.WorkoutSet{}, fmt.Errorf("set %q: reps %q is not an integer", s, parts[1])
	}
	set.Reps = reps

	if len(parts) == 3 {
		kg, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err != nil {
			return api.WorkoutSet{}, fmt.Errorf("set %q: weight %q is not a number", s, parts[2])
		}
		set.WeightKg = kg
	}
	return set, nil
}

func runWorkoutLog(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	raw, _ := cmd.Flags().GetStringArray("set")
	workout := api.Workout{Sets: make([]api.WorkoutSet, 0, len(raw))}
	for _, r := range raw {
		set, err := parseWorkoutSet(r)
		if err != nil {
			return usageError("invalid --set", err)
		}
		workout.Sets = append(workout.Sets, set)
	}

	whenStr, _ := cmd.Flags().GetString("when")
	when, err := parseWhen(whenStr)
	if err != nil {
		return err
	}
	workout.When = when

	client, err := newClient()
	if err != nil {
		return err
	}

	res, err := client.LogWorkout(cmd.Context(), workout)
	if err != nil {
		return apiFailure("logging workout", err)
	}

	if jsonOutput {
		return writeJSON(cmd, res)
	}
	printer.Success("Logged workout %d (%d sets)", res.WorkoutID, len(workout.Sets))
	printer.PrintHints("workout log")
	return nil
}

func runWorkoutList(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	client, err := newClient()
	if err != nil {
		return err
	}

	workouts, err := client.Workouts(cmd.Context())
	if err != nil {
		return apiFailure("listing workouts", err)
	}

	if jsonOutput {
		return writeJSON(cmd, workouts)
	}
	renderWorkouts(printer.Table, workouts)
	return nil
}

func renderWorkouts(newTable tableFunc, workouts []api.WorkoutLog) {
	table := newTable([]string{"ID", "WHEN", "SETS", "VOLUME KG"})
	for _, w := range workouts {
		volume := 0.0
		for _, s := range w.Sets {
			volume += float64(s.Reps) * s.WeightKg
		}
		table.AddRow([]string{strconv.Itoa(w.ID), w.When, strconv.Itoa(len(w.Sets)), fmtNum(volume)})
	}
	table.Render()
}
