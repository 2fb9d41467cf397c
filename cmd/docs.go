package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/macroscoach/mcctl/internal/output"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Generate man pages or markdown reference",
	Long: `Generate reference documentation for every mcctl command.

Examples:
  mcctl docs --format man --output ./man
  mcctl docs --format markdown --output ./docs/cli`,
	Args:   cobra.NoArgs,
	Hidden: true,
	RunE:   runDocs,
}

func init() {
	rootCmd.AddCommand(docsCmd)

	docsCmd.Flags().String("format", "markdown", "output format: man or markdown")
	docsCmd.Flags().String("output", "docs", "output directory")
}

func runDocs(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	format, _ := cmd.Flags().GetString("format")
	dir, _ := cmd.Flags().GetString("output")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	root := cmd.Root()
	root.DisableAutoGenTag = true

	var err error
	switch format {
	case "man":
		err = doc.GenManTree(root, &doc.GenManHeader{Title: "MCCTL", Section: "1"}, dir)
	case "markdown", "md":
		err = doc.GenMarkdownTree(root, dir)
	default:
		return &output.CLIError{
			Summary:    fmt.Sprintf("unknown docs format: %s", format),
			Suggestion: "Use --format man or --format markdown",
			ExitCode:   output.ExitUsageError,
		}
	}
	if err != nil {
		return fmt.Errorf("generating %s docs: %w", format, err)
	}

	printer.Success("Wrote %s docs to %s", format, dir)
	return nil
}
