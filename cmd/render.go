package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/macroscoach/mcctl/internal/api"
	"github.com/macroscoach/mcctl/internal/output"
	"github.com/macroscoach/mcctl/internal/week"
)

// writeJSON prints v as indented JSON to the command's output
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func fmtNum(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}

func fmtOptInt(n *int) string {
	if n == nil {
		return "-"
	}
	return strconv.Itoa(*n)
}

func macroRow(label string, m api.Macros) []string {
	return []string{label, fmtNum(m.Kcal), fmtNum(m.Pro), fmtNum(m.Carb), fmtNum(m.Fat)}
}

// tableFunc creates a table bound to a printer
type tableFunc func(headers []string) *output.Table

var macroHeaders = []string{"", "KCAL", "PRO", "CARB", "FAT"}

// dateFlag reads a YYYY-MM-DD flag, falling back to def when unset
func dateFlag(cmd *cobra.Command, name string, def time.Time) (time.Time, error) {
	s, _ := cmd.Flags().GetString(name)
	if s == "" {
		return def, nil
	}
	d, err := week.Parse(s)
	if err != nil {
		return time.Time{}, usageError(fmt.Sprintf("invalid --%s", name), err)
	}
	return d, nil
}

// whenLayouts are accepted by --when, tried in order
var whenLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04", week.DateLayout}

// parseWhen reads an optional --when value; empty means let the server use now
func parseWhen(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range whenLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &t, nil
		}
	}
	return nil, usageError("invalid --when", fmt.Errorf("%q is not RFC 3339, YYYY-MM-DD HH:MM or YYYY-MM-DD", s))
}

func usageError(summary string, err error) *output.CLIError {
	return &output.CLIError{
		Summary:  summary,
		Detail:   err.Error(),
		ExitCode: output.ExitUsageError,
	}
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, usageError("invalid id", fmt.Errorf("%q is not a positive integer", s))
	}
	return id, nil
}

// perDay spreads weekly totals over the days of the week
func perDay(m api.Macros) api.Macros {
	n := float64(week.Length)
	return api.Macros{Kcal: m.Kcal / n, Pro: m.Pro / n, Carb: m.Carb / n, Fat: m.Fat / n}
}
