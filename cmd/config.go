package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/PolarWolf314/vaultapi/internal/configs"
	"github.com/PolarWolf314/vaultapi/internal/ui"
	"github.com/spf13/cobra"
)

func newConfigCommand(opts *rootOptions) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the vaultapi profile",
		Long: `Manages the profile file that stores non-secret settings such as the server
address and transit parameters. The API key is never written to the profile.`,
	}

	configCmd.AddCommand(newConfigInitCommand(opts))
	configCmd.AddCommand(newConfigShowCommand(opts))
	return configCmd
}

func newConfigInitCommand(opts *rootOptions) *cobra.Command {
	var (
		path  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the current settings to the profile",
		Long: `Writes the effective settings (defaults, environment and flags) to the
profile, so later invocations need fewer flags.

Examples:
  vaultapi config init --server https://vault.example.com --time-bucket 30`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				p, err := configs.DefaultProfilePath()
				if err != nil {
					return err
				}
				path = p
			}
			Logger.Debugf("Profile path %s, force=%t", path, force)

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("profile %s already exists (pass --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to check profile %s: %w", path, err)
			}

			res, err := configs.Load(configs.LoadOptions{
				EnvFile:     opts.envFile,
				ProfilePath: path,
				SkipProfile: force,
				Overrides:   flagOverrides(cmd),
			})
			if err != nil {
				return err
			}

			if err := configs.SaveProfile(path, res.Settings.Profile()); err != nil {
				return err
			}
			Logger.Infof("Wrote profile %s", path)

			fmt.Fprintln(cmd.ErrOrStderr(), ui.Done("Profile written to "+ui.Code.Sprint(path)))
			if res.Settings.APIKey == "" {
				fmt.Fprintln(cmd.ErrOrStderr(), ui.Hint("Set "+ui.Flag.Sprint("APIKEY")+" in the environment or a "+ui.Code.Sprint(".env")+" file"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "profile path (default $XDG_CONFIG_HOME/vaultapi/config.toml)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing profile")
	return cmd
}

func newConfigShowCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display the effective settings",
		Long:  `Prints the merged settings as JSON. The API key is redacted.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := loadSettings(cmd, opts)
			if err != nil {
				return err
			}

			if res.ProfilePath != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), ui.Muted.Sprint("profile: "+res.ProfilePath))
			}
			if res.EnvFile != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), ui.Muted.Sprint("env file: "+res.EnvFile))
			}
			return printValue(cmd.OutOrStdout(), settingsView(res.Settings.Redacted()), opts.pretty)
		},
	}
}

// settingsView keys settings by their configuration names.
func settingsView(s configs.Settings) map[string]any {
	return map[string]any{
		"apikey":                s.APIKey,
		"server":                s.Server,
		"key_length":            s.KeyLength,
		"time_bucket":           s.TimeBucket,
		"cipher":                s.Cipher,
		"allow_previous_bucket": s.AllowPreviousBucket,
		"timeout":               s.Timeout.String(),
		"retries":               s.Retries,
		"retry_auth":            s.RetryAuth,
		"audit_log":             s.AuditLog,
	}
}
