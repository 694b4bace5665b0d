package utils

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"runtime"

	kerrors "github.com/PolarWolf314/vaultapi/internal/errors"
	"golang.org/x/term"
)

// APIKeyPrompt is shown before the API key is read.
const APIKeyPrompt = "VaultAPI API key: "

var readPassword = term.ReadPassword

// PromptAPIKey reads the API key from stdin without echo, writing the prompt
// to w. It returns a nil key and no error when stdin is not a terminal.
func PromptAPIKey(w io.Writer) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, nil
	}
	return readAPIKey(fd, w)
}

// PromptAPIKeyFromTTY is PromptAPIKey on the controlling terminal (/dev/tty,
// CON on Windows), for when stdin carries the envelope.
func PromptAPIKeyFromTTY(w io.Writer) ([]byte, error) {
	tty, err := os.Open(ttyPath())
	if err != nil {
		return nil, nil
	}
	defer tty.Close()

	fd := int(tty.Fd())
	if !term.IsTerminal(fd) {
		return nil, nil
	}
	return readAPIKey(fd, w)
}

// readAPIKey trims the typed key. An empty answer is ErrMissingAPIKey.
func readAPIKey(fd int, w io.Writer) ([]byte, error) {
	fmt.Fprint(w, APIKeyPrompt)
	key, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return nil, fmt.Errorf("failed to read API key: %w", err)
	}

	trimmed := bytes.TrimSpace(key)
	if len(trimmed) == 0 {
		return nil, kerrors.ErrMissingAPIKey
	}
	return trimmed, nil
}

func ttyPath() string {
	if runtime.GOOS == "windows" {
		return "CON"
	}
	return "/dev/tty"
}
