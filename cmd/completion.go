package cmd

import (
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for mcctl.

To load completions:

Bash:
  $ source <(mcctl completion bash)
  # To load completions for each session, execute once:
  # Linux:
  $ mcctl completion bash > /etc/bash_completion.d/mcctl
  # macOS:
  $ mcctl completion bash > $(brew --prefix)/etc/bash_completion.d/mcctl

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ mcctl completion zsh > "${fpath[1]}/_mcctl"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ mcctl completion fish | source
  # To load completions for each session, execute once:
  $ mcctl completion fish > ~/.config/fish/completions/mcctl.fish

PowerShell:
  PS> mcctl completion powershell | Out-String | Invoke-Expression
  # To load completions for every new session, run:
  PS> mcctl completion powershell > mcctl.ps1
  # and source this file from your PowerShell profile.
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletionV2(out, true)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
