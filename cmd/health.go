package cmd

import (
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/macroscoach/mcctl/internal/api"
	"github.com/macroscoach/mcctl/internal/output"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the API is up",
	Long: `Call GET /health and report whether the API answered ok.

With --db, also call GET /debug/pingdb and print the row count of each table.

Examples:
  mcctl health
  mcctl health --db
  mcctl health --base-url http://staging:8000`,
	Args: cobra.NoArgs,
	RunE: runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)

	healthCmd.Flags().Bool("db", false, "also report database row counts")
}

type healthReport struct {
	*api.Health
	DB *api.DBStatus `json:"db,omitempty"`
}

func runHealth(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	client, err := newClient()
	if err != nil {
		return err
	}

	h, err := client.Health(cmd.Context())
	if err != nil {
		return apiFailure("health check", err)
	}

	report := healthReport{Health: h}
	if withDB, _ := cmd.Flags().GetBool("db"); withDB && h.OK {
		report.DB, err = client.PingDB(cmd.Context())
		if err != nil {
			return apiFailure("database check", err)
		}
	}

	if jsonOutput {
		if err := writeJSON(cmd, report); err != nil {
			return err
		}
	}

	if !h.OK {
		return &output.CLIError{
			Summary:  "API reported unhealthy",
			Detail:   `GET /health returned {"ok": false}`,
			ExitCode: output.ExitAPIError,
		}
	}
	if jsonOutput {
		return nil
	}

	printer.Success("API at %s is healthy", client.BaseURL())
	if report.DB != nil {
		renderDBCounts(printer, report.DB)
	}
	printer.PrintHints("health")
	return nil
}

func renderDBCounts(printer *output.Printer, status *api.DBStatus) {
	names := make([]string, 0, len(status.Counts))
	for name := range status.Counts {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, len(names))
	for i, name := range names {
		rows[i] = []string{name, strconv.Itoa(status.Counts[name])}
	}
	table := printer.Table([]string{"TABLE", "ROWS"})
	table.AddRows(rows)
	table.Render()
}
