package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/PolarWolf314/vaultapi/internal/ui"
	"github.com/PolarWolf314/vaultapi/internal/utils"
	"github.com/PolarWolf314/vaultapi/internal/workflows"
	"github.com/spf13/cobra"
)

func newSecretsCommand(opts *rootOptions) *cobra.Command {
	secretsCmd := &cobra.Command{
		Use:   "secrets",
		Short: "Read and write secrets in a table",
		Long:  `Reads and writes secrets. Values read from the server are decrypted locally.`,
	}

	secretsCmd.AddCommand(newSecretsGetCommand(opts))
	secretsCmd.AddCommand(newSecretsPutCommand(opts))
	secretsCmd.AddCommand(newSecretsDeleteCommand(opts))
	return secretsCmd
}

func newSecretsGetCommand(opts *rootOptions) *cobra.Command {
	var (
		table string
		key   string
		keys  []string
	)

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Fetch and decrypt one or more secrets",
		Long: `Fetches secrets from a table and prints the decrypted JSON value.

Examples:
  # One secret
  vaultapi secrets get --table prod --key db_password

  # Several secrets at once
  vaultapi secrets get --table prod --keys db_password,db_user`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			Logger.Debugf("Flags: table=%q, key=%q, keys=%v", table, key, keys)
			names := utils.SplitKeys(keys...)

			var res *workflows.Result
			err := runRemote(cmd, opts, "Fetching secrets...", func(ctx context.Context, sess *workflows.Session) error {
				var err error
				if len(names) > 0 {
					res, err = sess.GetSecrets(ctx, table, names)
				} else {
					res, err = sess.GetSecret(ctx, table, key)
				}
				return err
			})
			if err != nil {
				return err
			}
			Logger.Infof("Request %s took %d attempt(s)", res.RequestID, res.Attempts)
			return printResult(cmd.OutOrStdout(), res.Value, opts.pretty)
		},
	}

	cmd.Flags().StringVarP(&table, "table", "t", "", "table name")
	cmd.Flags().StringVarP(&key, "key", "k", "", "secret key")
	cmd.Flags().StringSliceVar(&keys, "keys", nil, "comma separated secret keys")
	cmd.MarkFlagsMutuallyExclusive("key", "keys")
	return cmd
}

func newSecretsPutCommand(opts *rootOptions) *cobra.Command {
	var (
		table  string
		values map[string]string
	)

	cmd := &cobra.Command{
		Use:   "put",
		Short: "Store one or more secrets in a table",
		Long: `Stores secrets in a table. Existing keys are overwritten.

Examples:
  vaultapi secrets put --table prod --set db_password=hunter2 --set db_user=app`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := make([]string, 0, len(values))
			for name := range values {
				names = append(names, name)
			}
			sort.Strings(names)
			Logger.Debugf("Flags: table=%q, keys=%v", table, names)

			var res *workflows.Result
			err := runRemote(cmd, opts, "Storing secrets...", func(ctx context.Context, sess *workflows.Session) error {
				var err error
				res, err = sess.PutSecret(ctx, table, values)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), ui.Done("Stored "+utils.FormatKeys(names)+" in table "+ui.Name.Sprint(table)))
			return printResult(cmd.OutOrStdout(), res.Value, opts.pretty)
		},
	}

	cmd.Flags().StringVarP(&table, "table", "t", "", "table name")
	cmd.Flags().StringToStringVar(&values, "set", nil, "secret to store as key=value (repeatable)")
	return cmd
}

func newSecretsDeleteCommand(opts *rootOptions) *cobra.Command {
	var table, key string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a secret from a table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			Logger.Debugf("Flags: table=%q, key=%q", table, key)

			var res *workflows.Result
			err := runRemote(cmd, opts, "Deleting secret...", func(ctx context.Context, sess *workflows.Session) error {
				var err error
				res, err = sess.DeleteSecret(ctx, table, key)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), ui.Done("Deleted "+ui.Name.Sprint(key)+" from table "+ui.Name.Sprint(table)))
			return printResult(cmd.OutOrStdout(), res.Value, opts.pretty)
		},
	}

	cmd.Flags().StringVarP(&table, "table", "t", "", "table name")
	cmd.Flags().StringVarP(&key, "key", "k", "", "secret key")
	return cmd
}
