package cmd

import (
	"errors"
	"fmt"
	"io"

	kerrors "github.com/PolarWolf314/vaultapi/internal/errors"
	"github.com/PolarWolf314/vaultapi/internal/ui"
)

// Exit codes.
const (
	ExitOK             = 0
	ExitFailure        = 1
	ExitConfig         = 2
	ExitAuthentication = 3
)

// ExitCode maps an error returned by a command to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, kerrors.ErrInvalidConfig),
		errors.Is(err, kerrors.ErrMissingAPIKey),
		errors.Is(err, kerrors.ErrMissingServer):
		return ExitConfig
	case errors.Is(err, kerrors.ErrAuthentication):
		return ExitAuthentication
	default:
		return ExitFailure
	}
}

// printError writes err and, for well-known failures, a hint on how to fix it.
func printError(w io.Writer, err error) {
	fmt.Fprintln(w, ui.Failed(err.Error()))
	if hint := hintFor(err); hint != "" {
		fmt.Fprintln(w, ui.Hint(hint))
	}
}

func hintFor(err error) string {
	switch {
	case errors.Is(err, kerrors.ErrMissingAPIKey):
		return "Set " + ui.Flag.Sprint("APIKEY") + " in the environment or in a " + ui.Code.Sprint(".env") + " file"
	case errors.Is(err, kerrors.ErrMissingServer):
		return "Set " + ui.Flag.Sprint("VAULT_SERVER") + " or pass " + ui.Flag.Sprint("--server")
	case errors.Is(err, kerrors.ErrServerUnavailable):
		return "Check the server address, or pass " + ui.Flag.Sprint("--skip-health-check")
	case errors.Is(err, kerrors.ErrAuthentication):
		return "Check that " + ui.Flag.Sprint("APIKEY") + " and the transit settings match the server"
	case errors.Is(err, kerrors.ErrTableRequired):
		return "Pass " + ui.Flag.Sprint("--table")
	case errors.Is(err, kerrors.ErrKeyRequired):
		return "Pass " + ui.Flag.Sprint("--key") + " or " + ui.Flag.Sprint("--keys")
	case errors.Is(err, kerrors.ErrNoSecretsGiven):
		return "Pass at least one " + ui.Flag.Sprint("--set key=value")
	}
	return ""
}
