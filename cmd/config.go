package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macroscoach/mcctl/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Long: `Display the effective mcctl configuration after merging defaults,
the config file, .env, MCCTL_* environment variables and flags.

Examples:
  mcctl config                # Show all config
  mcctl config --path         # Show config file path
  mcctl config --json         # Output as JSON`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().Bool("path", false, "show config file path")
}

func runConfig(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	if showPath, _ := cmd.Flags().GetBool("path"); showPath {
		configFile := config.ConfigFileUsed(cfgFile)
		if configFile == "" {
			printer.Info("No config file found (using defaults)")
		} else {
			printer.Info("Config file: %s", configFile)
		}
		return nil
	}

	if jsonOutput {
		return writeJSON(cmd, cfg)
	}

	printer.Header("Current Configuration")

	tokenState := "(none)"
	if cfg.API.Token != "" {
		tokenState = "(set)"
	}

	table := printer.Table([]string{"KEY", "VALUE"})
	table.AddRow([]string{"api.base_url", cfg.API.BaseURL})
	table.AddRow([]string{"api.timeout", cfg.API.Timeout.String()})
	table.AddRow([]string{"api.auth", cfg.API.Auth})
	table.AddRow([]string{"api.token", tokenState})
	table.AddRow([]string{"api.token_file", cfg.API.TokenFile})
	table.AddRow([]string{"api.rate_limit", fmt.Sprintf("%v", cfg.API.RateLimit)})
	table.AddRow([]string{"api.user_agent", cfg.API.UserAgent})
	table.AddRow([]string{"targets.protein_g", fmt.Sprintf("%v", cfg.Targets.ProteinG)})
	table.AddRow([]string{"targets.kcal", fmt.Sprintf("%v", cfg.Targets.Kcal)})
	table.AddRow([]string{"targets.min_workouts", fmt.Sprintf("%d", cfg.Targets.MinWorkouts)})
	table.AddRow([]string{"logging.level", cfg.Logging.Level})
	table.AddRow([]string{"logging.format", cfg.Logging.Format})
	table.AddRow([]string{"output.colors", fmt.Sprintf("%v", cfg.Output.Colors)})
	table.Render()

	printer.PrintHints("config")
	return nil
}
