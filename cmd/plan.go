package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/macroscoach/mcctl/internal/api"
	"github.com/macroscoach/mcctl/internal/output"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show or replace the macro plan",
	Long: `Read and write the daily macro limits and meal slots used on ON
(training) and OFF days.

The plan file is YAML with the same keys the API uses, so the output of
'mcctl plan show --json' can be edited and sent back.

Examples:
  mcctl plan show
  mcctl plan show --json > plan.json
  mcctl plan set --file plan.yaml
  cat plan.json | mcctl plan set --file -`,
}

var planShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show limits, slots and slot percentages",
	Args:  cobra.NoArgs,
	RunE:  runPlanShow,
}

var planSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Replace the plan from a YAML or JSON file",
	Args:  cobra.NoArgs,
	RunE:  runPlanSet,
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.AddCommand(planShowCmd, planSetCmd)

	planSetCmd.Flags().StringP("file", "f", "", "plan file, or - for stdin")
	_ = planSetCmd.MarkFlagRequired("file")
}

func runPlanShow(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	client, err := newClient()
	if err != nil {
		return err
	}

	plan, err := client.Plan(cmd.Context())
	if err != nil {
		return apiFailure("fetching plan", err)
	}

	if jsonOutput {
		return writeJSON(cmd, plan)
	}
	renderPlan(printer, plan)
	return nil
}

func renderPlan(printer *output.Printer, plan *api.Plan) {
	printer.Header("Daily limits")
	limits := printer.Table([]string{"DAY", "KCAL", "PRO", "CARB", "FAT"})
	limits.AddRow(limitsRow("ON", plan.OnLimits))
	limits.AddRow(limitsRow("OFF", plan.OffLimits))
	limits.Render()

	printer.Header("Slots")
	slots := printer.Table([]string{"DAY", "SLOT", "WINDOW"})
	for _, d := range plan.OnDistributions {
		slots.AddRow([]string{"ON", d.Name, slotWindow(printer, d)})
	}
	for _, d := range plan.OffDistributions {
		slots.AddRow([]string{"OFF", d.Name, slotWindow(printer, d)})
	}
	slots.Render()

	if len(plan.OnPcts)+len(plan.OffPcts) == 0 {
		return
	}
	printer.Header("Slot percentages")
	pcts := printer.Table([]string{"DAY", "SLOT", "CARB %", "PRO %", "FAT %"})
	pcts.AddRows(pctRows("ON", plan.OnPcts))
	pcts.AddRows(pctRows("OFF", plan.OffPcts))
	pcts.Render()
}

func limitsRow(day string, l api.PlanLimits) []string {
	return []string{day, strconv.Itoa(l.Kcal), strconv.Itoa(l.Pro), strconv.Itoa(l.Carb), strconv.Itoa(l.Fat)}
}

func pctRows(day string, pcts []api.DistributionPct) [][]string {
	rows := make([][]string, len(pcts))
	for i, p := range pcts {
		rows[i] = []string{day, p.Name, fmtNum(p.PctCarb), fmtNum(p.PctPro), fmtNum(p.PctFat)}
	}
	return rows
}

// slotWindow formats a slot's time window as HH:MM-HH:MM
func slotWindow(printer *output.Printer, d api.Distribution) string {
	if d.StartMin == nil || d.EndMin == nil {
		return printer.Dim("none")
	}
	return clockMinutes(*d.StartMin) + "-" + clockMinutes(*d.EndMin)
}

func clockMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func runPlanSet(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	path, _ := cmd.Flags().GetString("file")
	plan, err := readPlan(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	res, err := client.SetPlan(cmd.Context(), *plan)
	if err != nil {
		return apiFailure("saving plan", err)
	}

	if jsonOutput {
		return writeJSON(cmd, res)
	}
	printer.Success("Plan saved (%d ON slots, %d OFF slots)", len(plan.OnDistributions), len(plan.OffDistributions))
	printer.PrintHints("plan set")
	return nil
}

// readPlan decodes a plan from path, or from stdin when path is "-".
// JSON is accepted too, being valid YAML.
func readPlan(stdin io.Reader, path string) (*api.Plan, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, &output.CLIError{
			Summary:  "cannot read plan file",
			Detail:   err.Error(),
			ExitCode: output.ExitUsageError,
		}
	}

	var plan api.Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, usageError("invalid plan file", err)
	}
	return &plan, nil
}
