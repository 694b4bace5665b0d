package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

func newDecryptCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "decrypt [CIPHERTEXT | -]",
		Short: "Decrypt a transit envelope with the configured API key",
		Long: `Decrypts a base64 transit envelope locally and prints the JSON value.

The envelope is read from the argument, or from stdin when the argument is
"-" or missing. No request is made to the server, so the envelope must have
been produced in the current time bucket.

Examples:
  vaultapi decrypt 'q0yBx1...=='
  curl -s "$VAULT_SERVER/get-secret?..." | jq -r .detail | vaultapi decrypt -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			fromStdin := len(args) == 0 || args[0] == "-"
			var envelope string
			if fromStdin {
				Logger.Debugf("Reading envelope from stdin")
				var err error
				envelope, err = readEnvelope()
				if err != nil {
					return err
				}
			} else {
				envelope = args[0]
			}

			sess, err := openSession(ctx, cmd, opts, true, fromStdin)
			if err != nil {
				return err
			}

			res, err := sess.Decrypt(ctx, envelope)
			if err != nil {
				return err
			}
			Logger.Infof("Envelope decrypted")
			return printResult(cmd.OutOrStdout(), res.Value, opts.pretty)
		},
	}
}
