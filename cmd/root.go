// Package cmd contains all CLI commands for mcctl
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/macroscoach/mcctl/internal/api"
	"github.com/macroscoach/mcctl/internal/config"
	"github.com/macroscoach/mcctl/internal/output"
)

var (
	cfgFile    string
	verbose    bool
	quiet      bool
	colorMode  string
	jsonOutput bool
	baseURL    string
	token      string
	authMode   string
	cfg        *config.Config
	logger     *slog.Logger
	version    = "dev"

	// now is replaced in tests
	now = time.Now
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mcctl",
	Short: "MacrosCoach API smoke test and seed client",
	Long: `mcctl talks to a running MacrosCoach API.

It checks that the service answers, creates the demo user, logs weights,
meals and workouts, and reads back the daily and weekly summaries. Weekly
requests always use the Monday of the current ISO week.

Example usage:
  mcctl health                 # Check the API is up
  mcctl smoke                  # Run the end-to-end smoke test
  mcctl seed demo              # Load a week of demo data
  mcctl auth demo --save       # Store the demo user's token
  mcctl summary week           # Totals for the current week
  mcctl week 2024-01-02        # Print the week start for a date`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .mcctl.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress informational output")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "color output: auto, always, never")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "API base URL (default http://localhost:8000)")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "access token (default from api.token or the token file)")
	rootCmd.PersistentFlags().StringVar(&authMode, "auth", "", "auth mode: bearer or none")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &output.CLIError{
			Summary:    err.Error(),
			Suggestion: fmt.Sprintf("Run '%s --help' for usage", cmd.CommandPath()),
			ExitCode:   output.ExitUsageError,
		}
	})
}

// initConfig reads in config file and ENV variables if set.
func initConfig(cmd *cobra.Command) error {
	var err error

	if _, err := output.ParseColorMode(colorMode); err != nil {
		return &output.CLIError{Summary: err.Error(), ExitCode: output.ExitUsageError}
	}

	// Setup logger
	logger = newLogger(cmd.ErrOrStderr(), "info", "text")

	// Load configuration
	cfg, err = config.Load(cfgFile, config.Overrides{BaseURL: baseURL, Token: token, Auth: authMode})
	if err != nil {
		return &output.CLIError{
			Summary:    "invalid configuration",
			Detail:     err.Error(),
			Suggestion: "Check .mcctl.yaml and MCCTL_* environment variables (mcctl config --path)",
			ExitCode:   output.ExitConfigError,
		}
	}

	// Update logger based on config
	logger = newLogger(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)

	logger.Debug("configuration loaded",
		"base_url", cfg.API.BaseURL,
		"auth", cfg.API.Auth,
		"has_token", cfg.API.Token != "",
		"timeout", cfg.API.Timeout,
	)

	return nil
}

func newLogger(w io.Writer, level, format string) *slog.Logger {
	logLevel := slog.LevelInfo
	switch {
	case verbose || level == "debug":
		logLevel = slog.LevelDebug
	case level == "warn":
		logLevel = slog.LevelWarn
	case level == "error" || quiet:
		logLevel = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// newPrinter creates a printer honoring --color, --quiet and output.colors
func newPrinter(cmd *cobra.Command) *output.Printer {
	mode, _ := output.ParseColorMode(colorMode)
	configColors := true
	if cfg != nil {
		configColors = cfg.Output.Colors
	}
	return output.NewPrinterWithOptions(output.PrinterOptions{
		ColorMode:    mode,
		ConfigColors: configColors,
		Quiet:        quiet,
		Out:          cmd.OutOrStdout(),
		Err:          cmd.ErrOrStderr(),
	})
}

// newClient creates an API client from the loaded configuration
func newClient() (*api.Client, error) {
	client, err := api.NewClient(api.Options{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		Auth:      cfg.API.Auth,
		Token:     cfg.API.Token,
		RateLimit: cfg.API.RateLimit,
		UserAgent: cfg.API.UserAgent + "/" + version,
		Logger:    logger,
	})
	if err != nil {
		return nil, &output.CLIError{
			Summary:    "invalid API settings",
			Detail:     err.Error(),
			Suggestion: "Check api.base_url and api.auth (mcctl config)",
			ExitCode:   output.ExitConfigError,
		}
	}
	return client, nil
}
