package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/PolarWolf314/vaultapi/internal/configs"
	"github.com/PolarWolf314/vaultapi/internal/ui"
	"github.com/PolarWolf314/vaultapi/internal/utils"
	"github.com/PolarWolf314/vaultapi/internal/workflows"
	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	// promptAPIKey asks for the API key when none is configured. stdinBusy is
	// set when stdin carries the envelope. A nil key without error means no
	// prompt was possible.
	promptAPIKey = func(stdinBusy bool) ([]byte, error) {
		if stdinBusy {
			return utils.PromptAPIKeyFromTTY(os.Stderr)
		}
		return utils.PromptAPIKey(os.Stderr)
	}

	readEnvelope = utils.ReadStdin
)

// startSpinner creates and starts a spinner on stderr unless verbose or debug
// output is enabled. The returned cleanup stops it and prints FinalMSG to w.
//
// FinalMSG values do not need trailing newlines.
func startSpinner(w io.Writer, message string) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriterFile(os.Stderr))
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	quiet := !Logger.Verbose && !Logger.Debug
	if quiet {
		s.Start()
	} else {
		Logger.Infof("%s", message)
	}

	cleanup := func() {
		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			s.FinalMSG = ""
		}
		if quiet {
			s.Stop()
		}
		if finalMsg != "" {
			fmt.Fprint(w, finalMsg)
		}
	}

	return s, cleanup
}

// loadSettings merges every configuration layer with the flags the user set.
func loadSettings(cmd *cobra.Command, opts *rootOptions) (*configs.Result, error) {
	res, err := configs.Load(configs.LoadOptions{
		EnvFile:   opts.envFile,
		Overrides: flagOverrides(cmd),
	})
	if err != nil {
		return nil, err
	}
	if res.EnvFile != "" {
		Logger.Debugf("Loaded env file %s", res.EnvFile)
	}
	if res.ProfilePath != "" {
		Logger.Debugf("Profile path %s", res.ProfilePath)
	}
	return res, nil
}

// settingFlags maps flag names to setting keys.
var settingFlags = map[string]string{
	"server":                "server",
	"key-length":            "key_length",
	"time-bucket":           "time_bucket",
	"cipher":                "cipher",
	"allow-previous-bucket": "allow_previous_bucket",
	"timeout":               "timeout",
	"retries":               "retries",
}

// flagOverrides returns the explicitly set flags keyed by setting name.
// Flag defaults never shadow the lower configuration layers.
func flagOverrides(cmd *cobra.Command) map[string]any {
	overrides := map[string]any{}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if key, ok := settingFlags[f.Name]; ok {
			overrides[key] = f.Value.String()
		}
	})
	return overrides
}

// openSession loads settings, prompts for a missing API key and builds a
// workflows session. offline sessions never contact the server.
func openSession(ctx context.Context, cmd *cobra.Command, opts *rootOptions, offline, stdinBusy bool) (*workflows.Session, error) {
	res, err := loadSettings(cmd, opts)
	if err != nil {
		return nil, err
	}
	settings := res.Settings

	sessOpts := workflows.SessionOptions{
		SkipHealthCheck: opts.skipHealthCheck,
		Offline:         offline,
		Logger:          Logger,
		Clock:           sessionClock,
		UserAgent:       "vaultapi/" + Version,
	}

	if settings.APIKey == "" {
		Logger.Debugf("APIKEY is not configured, prompting")
		key, err := promptAPIKey(stdinBusy)
		if err != nil {
			return nil, err
		}
		sessOpts.APIKey = key
	}

	return workflows.NewSession(ctx, settings, sessOpts)
}

// runRemote opens an online session and runs op behind a spinner.
func runRemote(cmd *cobra.Command, opts *rootOptions, message string, op func(context.Context, *workflows.Session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	sess, err := openSession(ctx, cmd, opts, false, false)
	if err != nil {
		return err
	}

	_, cleanup := startSpinner(cmd.ErrOrStderr(), message)
	err = op(ctx, sess)
	cleanup()
	return err
}

// printResult writes a JSON value to stdout.
func printResult(w io.Writer, raw json.RawMessage, pretty bool) error {
	out, err := ui.RenderJSON(raw, pretty)
	if err != nil {
		return fmt.Errorf("failed to render result: %w", err)
	}
	_, err = fmt.Fprint(w, out)
	return err
}

// printValue marshals v and writes it to stdout.
func printValue(w io.Writer, v any, pretty bool) error {
	out, err := ui.RenderValue(v, pretty)
	if err != nil {
		return fmt.Errorf("failed to render result: %w", err)
	}
	_, err = fmt.Fprint(w, out)
	return err
}
