package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Logger writes leveled, prefixed messages. The zero value logs warnings and
// errors to stderr.
type Logger struct {
	Verbose bool
	Debug   bool

	// Out and Err default to os.Stderr. Informational output stays off stdout
	// so command results can be piped.
	Out io.Writer
	Err io.Writer
}

func (l Logger) Infof(msg string, args ...any) {
	if l.Verbose || l.Debug {
		fmt.Fprintf(l.out(), color.GreenString("[info] ")+msg+"\n", args...)
	}
}

func (l Logger) Debugf(msg string, args ...any) {
	if l.Debug {
		fmt.Fprintf(l.out(), color.CyanString("[debug] ")+msg+"\n", args...)
	}
}

func (l Logger) Warnf(msg string, args ...any) {
	fmt.Fprintf(l.err(), color.YellowString("[warn] ")+msg+"\n", args...)
}

func (l Logger) Errorf(msg string, args ...any) {
	fmt.Fprintf(l.err(), color.RedString("[error] ")+msg+"\n", args...)
}

func (l Logger) out() io.Writer {
	if l.Out != nil {
		return l.Out
	}
	return os.Stderr
}

func (l Logger) err() io.Writer {
	if l.Err != nil {
		return l.Err
	}
	return os.Stderr
}

// Redact keeps the first and last two characters of short-lived identifiers
// and masks the rest. Values of eight characters or fewer are fully masked.
func Redact(s string) string {
	if len(s) <= 8 {
		return strings.Repeat("*", len(s))
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}

// Leveled adapts the logger to key/value style interfaces such as the
// retryablehttp.LeveledLogger. Info and Debug messages are both debug output.
// Errors are per-attempt transport failures, so they only show in verbose
// mode; the caller reports the final outcome.
type Leveled struct {
	Logger Logger
}

func (l Leveled) Error(msg string, keysAndValues ...interface{}) {
	if l.Logger.Verbose || l.Logger.Debug {
		l.Logger.Errorf("%s%s", msg, formatPairs(keysAndValues))
	}
}

func (l Leveled) Warn(msg string, keysAndValues ...interface{}) {
	if l.Logger.Debug {
		l.Logger.Warnf("%s%s", msg, formatPairs(keysAndValues))
	}
}

func (l Leveled) Info(msg string, keysAndValues ...interface{}) {
	l.Logger.Debugf("%s%s", msg, formatPairs(keysAndValues))
}

func (l Leveled) Debug(msg string, keysAndValues ...interface{}) {
	l.Logger.Debugf("%s%s", msg, formatPairs(keysAndValues))
}

func formatPairs(kv []interface{}) string {
	var b strings.Builder
	for i := 0; i < len(kv); i += 2 {
		b.WriteString(" ")
		if i+1 < len(kv) {
			fmt.Fprintf(&b, "%v=%v", kv[i], kv[i+1])
		} else {
			fmt.Fprintf(&b, "%v", kv[i])
		}
	}
	return b.String()
}
