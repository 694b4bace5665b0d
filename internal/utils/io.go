package utils

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadStdin reads a transit envelope from stdin.
// Returns an error if stdin is a terminal (no piped data), empty, or cannot be read.
func ReadStdin() (string, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat stdin: %w", err)
	}

	// If ModeCharDevice is set, stdin is connected to a terminal.
	if (stat.Mode() & os.ModeCharDevice) != 0 {
		return "", fmt.Errorf("no data provided on stdin (hint: pipe the ciphertext to this command)")
	}

	return ReadEnvelope(os.Stdin)
}

// ReadEnvelope reads all of r and trims surrounding whitespace.
func ReadEnvelope(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read from stdin: %w", err)
	}

	envelope := strings.TrimSpace(string(data))
	if envelope == "" {
		return "", fmt.Errorf("stdin is empty")
	}

	return envelope, nil
}
