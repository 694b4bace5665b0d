package cmd

import (
	"time"

	logger "github.com/PolarWolf314/vaultapi/internal/logging"
	"github.com/PolarWolf314/vaultapi/internal/transit"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=...".
var Version = "dev"

var (
	Logger logger.Logger

	// sessionClock overrides the transit clock. Nil uses the system clock.
	sessionClock transit.Clock
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	envFile         string
	skipHealthCheck bool
	pretty          bool
	verbose         bool
	debug           bool
}

// NewRootCommand builds the vaultapi command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "vaultapi",
		Short: "Read and write secrets stored in a VaultAPI server",
		Long: `vaultapi talks to a VaultAPI server and decrypts the transit envelopes it
returns. The API key never leaves this process: it is read from the
environment, a .env file or an interactive prompt and held in protected memory.

Configuration is read, lowest to highest priority, from built-in defaults,
the profile written by 'vaultapi config init', the .env file, the process
environment and finally the flags below.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: opts.verbose,
				Debug:   opts.debug,
				Err:     cmd.ErrOrStderr(),
				Out:     cmd.ErrOrStderr(),
			}
			Logger.Debugf("Initializing %s with verbose=%t, debug=%t", cmd.CommandPath(), opts.verbose, opts.debug)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.envFile, "env-file", "", "dotenv file to load (default \".env\" or $ENV_FILE)")
	flags.String("server", "", "VaultAPI server URL (overrides VAULT_SERVER)")
	flags.Int("key-length", 32, "transit key length in bytes: 16, 24 or 32")
	flags.Uint64("time-bucket", 60, "transit time bucket width in seconds")
	flags.String("cipher", "aes-gcm", "transit cipher: aes-gcm or chacha20poly1305")
	flags.Bool("allow-previous-bucket", false, "also try the previous time bucket when decryption fails")
	flags.Duration("timeout", 30*time.Second, "HTTP request timeout")
	flags.Int("retries", 2, "HTTP retries on transport errors and 5xx responses")
	flags.BoolVar(&opts.skipHealthCheck, "skip-health-check", false, "do not call /health before the request")
	flags.BoolVar(&opts.pretty, "pretty", false, "indent JSON output")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	flags.BoolVarP(&opts.debug, "debug", "d", false, "enable debug output")

	root.AddCommand(newDecryptCommand(opts))
	root.AddCommand(newHealthCommand(opts))
	root.AddCommand(newSecretsCommand(opts))
	root.AddCommand(newTablesCommand(opts))
	root.AddCommand(newConfigCommand(opts))
	root.AddCommand(newVersionCommand())

	return root
}

// Execute runs the CLI with os.Args and returns the process exit code.
func Execute() int {
	root := NewRootCommand()
	err := root.Execute()
	if err != nil {
		printError(root.ErrOrStderr(), err)
	}
	return ExitCode(err)
}
