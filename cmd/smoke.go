package cmd

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/macroscoach/mcctl/internal/api"
	"github.com/macroscoach/mcctl/internal/output"
	"github.com/macroscoach/mcctl/internal/smoke"
	"github.com/macroscoach/mcctl/internal/week"
)

var smokeCmd = &cobra.Command{
	Use:   "smoke",
	Short: "Run the end-to-end smoke test",
	Long: `Run a minimal end-to-end check against the API:

  health        GET  /health
  demo-user     POST /users/demo (must return an access token in bearer mode)
  log-weight    POST /weight
  log-meal      POST /meals
  log-workout   POST /workouts
  meals-today   GET  /meals/today
  summary-day   GET  /summary/day?date=<today>
  summary-week  GET  /summary/week?start=<monday of this week>

Steps run in order and the first failure stops the run. With --keep-going
the remaining steps still run, except after a failed demo-user step.

Examples:
  mcctl smoke
  mcctl smoke --base-url http://localhost:8001 --auth none
  mcctl smoke --keep-going --json`,
	Args: cobra.NoArgs,
	RunE: runSmoke,
}

func init() {
	rootCmd.AddCommand(smokeCmd)

	smokeCmd.Flags().Bool("keep-going", false, "run remaining steps after a failure")
}

type smokeResult struct {
	Step       string `json:"step"`
	Status     string `json:"status"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
	Body       any    `json:"body,omitempty"`
}

func runSmoke(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)
	keepGoing, _ := cmd.Flags().GetBool("keep-going")

	client, err := newClient()
	if err != nil {
		return err
	}

	runner := smoke.NewRunner(client, smoke.Options{
		KeepGoing: keepGoing,
		Now:       now,
		Logger:    logger,
	})

	if !jsonOutput {
		printer.Header("Smoke test " + client.BaseURL())
	}

	report, runErr := runner.Run(cmd.Context())

	if jsonOutput {
		results := make([]smokeResult, len(report.Results))
		for i, r := range report.Results {
			results[i] = smokeResult{Step: r.Step, Status: r.Status, DurationMS: r.Duration.Milliseconds(), Body: r.Body}
			if r.Err != nil {
				results[i].Error = r.Err.Error()
			}
		}
		if err := writeJSON(cmd, map[string]any{
			"base_url":   client.BaseURL(),
			"week_start": week.Format(report.WeekStart),
			"results":    results,
		}); err != nil {
			return err
		}
	} else {
		table := printer.Table([]string{"", "STEP", "TIME", "DETAIL"})
		for _, r := range report.Results {
			detail := ""
			if r.Err != nil {
				detail = r.Err.Error()
			}
			table.AddRow([]string{printer.StatusBadge(r.Status), r.Step, r.Duration.Round(time.Millisecond).String(), detail})
		}
		table.Render()
	}

	if runErr != nil {
		var stepErr *smoke.StepError
		if errors.As(runErr, &stepErr) && stepErr.Step == smoke.StepDemoUser && errors.Is(runErr, api.ErrNoToken) {
			return &output.CLIError{
				Summary:    "smoke test aborted: no access token",
				Detail:     runErr.Error(),
				Suggestion: "Check the server's /users/demo response, or use --auth none for tokenless servers",
				ExitCode:   output.ExitAuthError,
			}
		}
		return apiFailure("smoke test", runErr)
	}

	if !jsonOutput {
		printer.Success("All %d steps passed (week starts %s)", len(report.Results), week.Format(report.WeekStart))
		printer.PrintHints("smoke")
	}
	return nil
}
