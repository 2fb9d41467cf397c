package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/macroscoach/mcctl/internal/api"
	"github.com/macroscoach/mcctl/internal/output"
)

// apiFailure turns an API client error into a CLIError with an exit code
func apiFailure(action string, err error) error {
	var cliErr *output.CLIError
	if errors.As(err, &cliErr) {
		return err
	}

	e := &output.CLIError{
		Summary:  action + " failed",
		Detail:   err.Error(),
		ExitCode: output.ExitGeneral,
	}

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()):
		e.ExitCode = output.ExitTimeout
		e.Suggestion = "Increase api.timeout or check that the API is responsive"
	case errors.Is(err, context.Canceled):
		e.Summary = action + " interrupted"
	case api.IsKind(err, api.KindTransport):
		e.ExitCode = output.ExitConnError
		e.Suggestion = fmt.Sprintf("Check that the API is running at %s", baseURLForHint())
	case api.IsKind(err, api.KindUnauthorized):
		e.ExitCode = output.ExitAuthError
		e.Suggestion = "Run 'mcctl auth demo --save' or pass --token"
	case api.IsKind(err, api.KindValidation):
		e.ExitCode = output.ExitUsageError
	case api.IsKind(err, api.KindNotFound):
		e.ExitCode = output.ExitAPIError
		e.Suggestion = "Check the id, or that the server version has this endpoint"
	case api.IsKind(err, api.KindStatus), api.IsKind(err, api.KindDecode):
		e.ExitCode = output.ExitAPIError
	}
	return e
}

func baseURLForHint() string {
	if cfg != nil {
		return cfg.API.BaseURL
	}
	return "the configured base URL"
}

// HandleError prints err to w and returns the process exit code
func HandleError(w io.Writer, err error) int {
	mode, _ := output.ParseColorMode(colorMode)
	configColors := cfg == nil || cfg.Output.Colors
	printer := output.NewPrinterWithOptions(output.PrinterOptions{
		ColorMode:    mode,
		ConfigColors: configColors,
		Err:          w,
	})

	var cliErr *output.CLIError
	if !errors.As(err, &cliErr) {
		cliErr = &output.CLIError{Summary: err.Error(), ExitCode: output.ExitGeneral}
	}
	printer.FormatError(cliErr)

	if cliErr.ExitCode == output.ExitSuccess {
		return output.ExitGeneral
	}
	return cliErr.ExitCode
}
