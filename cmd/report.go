package cmd

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/macroscoach/mcctl/internal/api"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Weight and workout report",
	Long: `Fetch all weights, weekly weight averages, the weight trend and all
workouts in parallel and print them together.

Examples:
  mcctl report
  mcctl report --json`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

type report struct {
	Weights  []api.WeightLog    `json:"weights"`
	Weekly   []api.WeeklyWeight `json:"weekly"`
	Trend    *api.WeightTrend   `json:"trend"`
	Workouts []api.WorkoutLog   `json:"workouts"`
}

func runReport(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	client, err := newClient()
	if err != nil {
		return err
	}

	var r report
	g, gctx := errgroup.WithContext(cmd.Context())

	// each goroutine writes only its own field
	g.Go(func() error {
		var err error
		r.Weights, err = client.Weights(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		r.Weekly, err = client.WeeklyWeights(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		r.Trend, err = client.WeightTrend(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		r.Workouts, err = client.Workouts(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return apiFailure("building report", err)
	}

	if jsonOutput {
		return writeJSON(cmd, r)
	}

	printer.Header("Weight")
	printer.Info("%d measurements", len(r.Weights))
	if n := len(r.Weights); n > 0 {
		last := r.Weights[n-1]
		printer.Info("Latest: %s kg at %s", fmtNum(last.Kg), last.When)
	}
	printer.Print("%s", describeTrend(r.Trend))

	if len(r.Weekly) > 0 {
		printer.Header("Weekly averages")
		renderWeeklyWeights(printer.Table, r.Weekly)
	}

	printer.Header("Workouts")
	if len(r.Workouts) == 0 {
		printer.Info("No workouts")
	} else {
		renderWorkouts(printer.Table, r.Workouts)
	}

	printer.PrintHints("report")
	return nil
}
