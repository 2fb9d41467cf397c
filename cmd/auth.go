package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/macroscoach/mcctl/internal/api"
	"github.com/macroscoach/mcctl/internal/config"
	"github.com/macroscoach/mcctl/internal/output"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the access token",
	Long: `Obtain, store and inspect API access tokens.

Examples:
  mcctl auth demo --save                            # Use the demo account
  mcctl auth register --email a@b.it --password x   # Create an account
  mcctl auth login --email a@b.it --password x --save
  mcctl auth whoami`,
}

var authDemoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Create or reuse the demo user",
	Args:  cobra.NoArgs,
	RunE:  runAuthDemo,
}

var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new account",
	Args:  cobra.NoArgs,
	RunE:  runAuthCredentials(true),
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with email and password",
	Args:  cobra.NoArgs,
	RunE:  runAuthCredentials(false),
}

var authWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the authenticated user and token expiry",
	Args:  cobra.NoArgs,
	RunE:  runAuthWhoami,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authDemoCmd, authRegisterCmd, authLoginCmd, authWhoamiCmd)

	authDemoCmd.Flags().Bool("save", false, "store the token in api.token_file")

	for _, c := range []*cobra.Command{authRegisterCmd, authLoginCmd} {
		c.Flags().String("email", "", "account email")
		c.Flags().String("password", "", "account password")
		c.Flags().Bool("save", false, "store the token in api.token_file")
		_ = c.MarkFlagRequired("email")
		_ = c.MarkFlagRequired("password")
	}
	authRegisterCmd.Flags().String("timezone", "", "IANA timezone, e.g. Europe/Rome")
}

func runAuthDemo(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	client, err := newClient()
	if err != nil {
		return err
	}

	demo, err := client.LoginDemo(cmd.Context())
	if err != nil {
		return apiFailure("demo login", err)
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		if err := saveToken(printer, demo.AccessToken); err != nil {
			return err
		}
	}

	if jsonOutput {
		return writeJSON(cmd, demo)
	}

	printer.Success("Demo user ready")
	printer.Info("User ID: %d", demo.UserID)
	if demo.AccessToken != "" {
		printer.Info("Token:   %s", demo.AccessToken)
	}
	printer.PrintHints("auth demo")
	return nil
}

func runAuthCredentials(register bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		printer := newPrinter(cmd)

		client, err := newClient()
		if err != nil {
			return err
		}

		var creds api.Credentials
		creds.Email, _ = cmd.Flags().GetString("email")
		creds.Password, _ = cmd.Flags().GetString("password")

		action, hint := "login", "auth login"
		var tok *api.Token
		if register {
			action, hint = "registration", "auth register"
			creds.Timezone, _ = cmd.Flags().GetString("timezone")
			tok, err = client.Register(cmd.Context(), creds)
		} else {
			tok, err = client.Login(cmd.Context(), creds)
		}
		if err != nil {
			return apiFailure(action, err)
		}

		if save, _ := cmd.Flags().GetBool("save"); save {
			if err := saveToken(printer, tok.AccessToken); err != nil {
				return err
			}
		}

		if jsonOutput {
			return writeJSON(cmd, tok)
		}

		printer.Success("Authenticated as %s", creds.Email)
		printer.Info("Token: %s", tok.AccessToken)
		printer.PrintHints(hint)
		return nil
	}
}

func saveToken(printer *output.Printer, tok string) error {
	if err := config.SaveToken(cfg.API.TokenFile, tok); err != nil {
		return &output.CLIError{
			Summary:    "could not save token",
			Detail:     err.Error(),
			Suggestion: "Set api.token_file to a writable path",
			ExitCode:   output.ExitConfigError,
		}
	}
	printer.Info("Token saved to %s", cfg.API.TokenFile)
	return nil
}

type whoami struct {
	User      *api.Me    `json:"user"`
	Subject   string     `json:"token_subject,omitempty"`
	ExpiresAt *time.Time `json:"token_expires_at,omitempty"`
	Expired   bool       `json:"token_expired"`
}

func runAuthWhoami(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	client, err := newClient()
	if err != nil {
		return err
	}

	var out whoami
	if client.AuthMode() == api.AuthBearer {
		claims, err := api.ParseTokenClaims(client.Token())
		if err != nil {
			return apiFailure("reading token", err)
		}
		out.Subject = claims.Subject
		if !claims.ExpiresAt.IsZero() {
			exp := claims.ExpiresAt
			out.ExpiresAt = &exp
		}
		out.Expired = claims.Expired(now())
		if out.Expired {
			printer.Warning("Token expired at %s", claims.ExpiresAt.Local().Format(time.RFC3339))
		}
	}

	out.User, err = client.Me(cmd.Context())
	if err != nil {
		return apiFailure("fetching current user", err)
	}

	if jsonOutput {
		return writeJSON(cmd, out)
	}

	table := printer.Table([]string{"FIELD", "VALUE"})
	table.AddRow([]string{"id", fmt.Sprint(out.User.ID)})
	table.AddRow([]string{"email", out.User.Email})
	table.AddRow([]string{"timezone", out.User.Timezone})
	if out.ExpiresAt != nil {
		table.AddRow([]string{"token expires", out.ExpiresAt.Local().Format(time.RFC3339)})
	}
	table.Render()
	return nil
}
