package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macroscoach/mcctl/internal/output"
	"github.com/macroscoach/mcctl/internal/seed"
)

var profilesCmd = &cobra.Command{
	Use:     "profiles",
	Aliases: []string{"ls"},
	Short:   "List available seed profiles",
	Long: `List the seed profiles built into mcctl.

Examples:
  mcctl profiles               # List all profiles
  mcctl profiles --entries     # Include every entry, dated from today
  mcctl profiles --json        # Output as JSON`,
	Args: cobra.NoArgs,
	RunE: runProfiles,
}

func init() {
	rootCmd.AddCommand(profilesCmd)

	profilesCmd.Flags().Bool("entries", false, "include entry details")
}

func runProfiles(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	registry, err := seed.NewRegistry()
	if err != nil {
		return fmt.Errorf("loading seed profiles: %w", err)
	}

	if jsonOutput {
		return writeJSON(cmd, registry.All())
	}

	showEntries, _ := cmd.Flags().GetBool("entries")
	return outputProfileList(printer, registry, showEntries)
}

func outputProfileList(printer *output.Printer, registry *seed.Registry, showEntries bool) error {
	printer.Header("Seed Profiles")

	table := printer.Table([]string{"PROFILE", "DESCRIPTION", "WEIGHTS", "MEALS", "WORKOUTS"})
	for _, p := range registry.All() {
		name := p.Name
		if name == seed.DefaultProfile {
			name += " (default)"
		}
		table.AddRow([]string{
			printer.Bold(name),
			p.Description,
			fmt.Sprint(len(p.Weights)),
			fmt.Sprint(len(p.Meals)),
			fmt.Sprint(len(p.Workouts)),
		})
	}
	table.Render()

	if !showEntries {
		return nil
	}

	for _, p := range registry.All() {
		entries, err := seed.Plan(p, now())
		if err != nil {
			return fmt.Errorf("profile %s: %w", p.Name, err)
		}
		printer.Header(p.Name)
		t := printer.Table([]string{"KIND", "WHEN", "PAYLOAD"})
		for _, e := range entries {
			t.AddRow([]string{e.Kind, e.When.Format("Mon 2006-01-02 15:04"), e.Summary})
		}
		t.Render()
	}
	return nil
}
