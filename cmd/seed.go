package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/macroscoach/mcctl/internal/api"
	"github.com/macroscoach/mcctl/internal/output"
	"github.com/macroscoach/mcctl/internal/seed"
	"github.com/macroscoach/mcctl/internal/week"
)

var seedCmd = &cobra.Command{
	Use:   "seed [profile]",
	Short: "Load demo data into the API",
	Long: `Post a seed profile's weights, meals and workouts, then read back the
current week's summary and weekly check.

Entries are placed relative to today, so the data always lands in the
current and previous weeks. Without a token in bearer mode the demo user
is created first.

Available profiles:
  demo     - A week of weigh-ins, several meals and three workouts (default)
  minimal  - One entry of each kind for today

Examples:
  mcctl seed                 # Seed the demo profile
  mcctl seed minimal
  mcctl seed demo --dry-run  # Show what would be posted`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeSeedProfiles,
	RunE:              runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().Bool("dry-run", false, "list the requests without sending them")
}

func runSeed(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	registry, err := seed.NewRegistry()
	if err != nil {
		return fmt.Errorf("loading seed profiles: %w", err)
	}

	name := seed.DefaultProfile
	if len(args) == 1 {
		name = args[0]
	}
	profile, ok := registry.Get(name)
	if !ok {
		return &output.CLIError{
			Summary:    fmt.Sprintf("unknown seed profile: %s", name),
			Suggestion: "Available profiles: " + strings.Join(registry.Names(), ", "),
			ExitCode:   output.ExitUsageError,
		}
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	if !jsonOutput {
		printer.Header("Seeding " + client.BaseURL())
		printer.Info("Profile: %s", printer.Bold(profile.Name))
		if profile.Description != "" {
			printer.Info("         %s", profile.Description)
		}
		printer.Blank()
	}

	if !dryRun && client.AuthMode() == api.AuthBearer && client.Token() == "" {
		demo, err := client.LoginDemo(cmd.Context())
		if err != nil {
			return apiFailure("creating demo user", err)
		}
		logger.Debug("using demo user", "user_id", demo.UserID)
	}

	runner := seed.NewRunner(client, seed.Targets{
		ProteinG:    cfg.Targets.ProteinG,
		Kcal:        cfg.Targets.Kcal,
		MinWorkouts: cfg.Targets.MinWorkouts,
	}, dryRun, logger)

	report, runErr := runner.Run(cmd.Context(), profile, now())
	if report == nil {
		return &output.CLIError{Summary: "invalid seed profile", Detail: runErr.Error(), ExitCode: output.ExitUsageError}
	}

	if jsonOutput {
		if err := writeJSON(cmd, seedJSON(report)); err != nil {
			return err
		}
	} else {
		renderSeedReport(printer, report)
	}

	if runErr != nil {
		printer.Error("Seeding stopped after %d entries", posted(report))
		return apiFailure("seed", runErr)
	}

	if !jsonOutput {
		if dryRun {
			printer.Success("%d entries planned (dry-run)", len(report.Entries))
		} else {
			printer.Success("Seed data loaded for week %s", week.Of(report.WeekStart))
		}
		printer.PrintHints("seed")
	}
	return nil
}

func posted(r *seed.Report) int {
	n := 0
	for _, c := range r.Posted {
		n += c
	}
	return n
}

func renderSeedReport(printer *output.Printer, r *seed.Report) {
	if r.DryRun {
		table := printer.Table([]string{"KIND", "WHEN", "PAYLOAD"})
		for _, e := range r.Entries {
			table.AddRow([]string{e.Kind, e.When.Format("2006-01-02 15:04"), e.Summary})
		}
		table.Render()
		return
	}

	table := printer.Table([]string{"KIND", "POSTED"})
	for _, kind := range []string{seed.KindWeight, seed.KindMeal, seed.KindWorkout} {
		table.AddRow([]string{kind, fmt.Sprint(r.Posted[kind])})
	}
	table.Render()

	if r.Week != nil {
		printer.Header("Week " + r.Week.WeekStart)
		totals := printer.Table(macroHeaders)
		totals.AddRow(macroRow("total", r.Week.Totals))
		totals.Render()
	}
	if r.Check != nil {
		renderWeeklyCheck(printer, r.Check)
	}
}

type seedEntryJSON struct {
	Kind    string `json:"kind"`
	When    string `json:"when"`
	Payload string `json:"payload"`
}

func seedJSON(r *seed.Report) map[string]any {
	entries := make([]seedEntryJSON, len(r.Entries))
	for i, e := range r.Entries {
		entries[i] = seedEntryJSON{Kind: e.Kind, When: e.When.Format(time.RFC3339), Payload: e.Summary}
	}
	return map[string]any{
		"profile":    r.Profile,
		"week_start": week.Format(r.WeekStart),
		"dry_run":    r.DryRun,
		"entries":    entries,
		"posted":     r.Posted,
		"week":       r.Week,
		"check":      r.Check,
	}
}

func completeSeedProfiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	registry, err := seed.NewRegistry()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return registry.Names(), cobra.ShellCompDirectiveNoFileComp
}
