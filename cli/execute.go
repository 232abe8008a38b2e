package cli

import (
	"errors"
	"io"

	"floure-storefront/api"
	"floure-storefront/cart"
	"floure-storefront/checkout"
	"floure-storefront/models"
)

// Execute runs the CLI and returns the process exit code. Errors are
// rendered in the selected output format: JSON on stdout, text on stderr.
func Execute(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SilenceErrors = true

	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	format, _ := cmd.PersistentFlags().GetString("format")
	out := &OutputFormatter{Format: "text", Writer: stderr}
	if format == "json" {
		out = &OutputFormatter{Format: "json", Writer: stdout}
	}
	_ = out.Error(errorCode(err), err.Error())
	return GetExitCode(err)
}

func errorCode(err error) string {
	var exitErr *ExitError
	switch {
	case errors.As(err, &exitErr) && exitErr.Code == ExitCommandError:
		return "usage"
	case errors.Is(err, cart.ErrCartUnavailable):
		return "cart_unavailable"
	case errors.Is(err, api.ErrUnavailable):
		return "unavailable"
	case errors.Is(err, checkout.ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, checkout.ErrInvalidForm), errors.Is(err, cart.ErrInvalidProduct), errors.Is(err, models.ErrAmountOutOfRange):
		return "invalid_input"
	case errors.Is(err, api.ErrNotFound), errors.Is(err, cart.ErrItemNotFound):
		return "not_found"
	default:
		return "error"
	}
}
