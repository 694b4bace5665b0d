package ui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Formatter applies semantic formatting to text.
type Formatter struct {
	color  *color.Color
	prefix string
	suffix string
}

// Sprint formats the arguments and returns the resulting string.
func (f Formatter) Sprint(a ...interface{}) string {
	text := fmt.Sprint(a...)
	if noColor() {
		return f.prefix + text + f.suffix
	}
	return f.color.Sprint(text)
}

// Sprintf formats according to a format specifier and returns the resulting string.
func (f Formatter) Sprintf(format string, a ...interface{}) string {
	text := fmt.Sprintf(format, a...)
	if noColor() {
		return f.prefix + text + f.suffix
	}
	return f.color.Sprint(text)
}

// EnsureNewline ensures the string ends with a newline character.
func EnsureNewline(s string) string {
	if len(s) == 0 || s[len(s)-1] != '\n' {
		return s + "\n"
	}
	return s
}

// noColor returns true if color output should be disabled.
func noColor() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return true
	}
	return color.NoColor
}

var (
	// Code formats runnable commands. Yellow, `backticks` without color.
	Code = Formatter{color.New(color.FgYellow), "`", "`"}

	// Flag formats CLI flags and environment variable names.
	Flag = Formatter{color.New(color.FgYellow), "", ""}

	// URL formats server addresses.
	URL = Formatter{color.New(color.FgBlue, color.Underline), "", ""}

	// Name formats table names and secret keys. Cyan, 'single quotes' without color.
	Name = Formatter{color.New(color.FgCyan), "'", "'"}

	Success = Formatter{color.New(color.FgGreen), "", ""}
	Error   = Formatter{color.New(color.FgRed), "", ""}
	Warning = Formatter{color.New(color.FgYellow), "", ""}
	Info    = Formatter{color.New(color.FgCyan), "", ""}

	// Muted formats secondary text. Gray, (parentheses) without color.
	Muted = Formatter{color.New(color.FgHiBlack), "(", ")"}
)

// Done renders a success status line.
func Done(msg string) string {
	return Success.Sprint("✓") + " " + msg
}

// Failed renders a failure status line.
func Failed(msg string) string {
	return Error.Sprint("✗") + " " + msg
}

// Hint renders a follow-up suggestion.
func Hint(msg string) string {
	return Info.Sprint("→") + " " + msg
}

// RenderJSON returns raw as a single line, or indented with two spaces when
// pretty is set. The result always ends with a newline.
func RenderJSON(raw json.RawMessage, pretty bool) (string, error) {
	var buf bytes.Buffer
	var err error
	if pretty {
		err = json.Indent(&buf, raw, "", "  ")
	} else {
		err = json.Compact(&buf, raw)
	}
	if err != nil {
		return "", err
	}
	return EnsureNewline(buf.String()), nil
}

// RenderValue marshals v and renders it like RenderJSON.
func RenderValue(v any, pretty bool) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return RenderJSON(raw, pretty)
}
