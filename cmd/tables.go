package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/vaultapi/internal/ui"
	"github.com/PolarWolf314/vaultapi/internal/workflows"
	"github.com/spf13/cobra"
)

func newTablesCommand(opts *rootOptions) *cobra.Command {
	tablesCmd := &cobra.Command{
		Use:   "tables",
		Short: "List, read and create tables",
	}

	tablesCmd.AddCommand(newTablesListCommand(opts))
	tablesCmd.AddCommand(newTablesGetCommand(opts))
	tablesCmd.AddCommand(newTablesCreateCommand(opts))
	return tablesCmd
}

func newTablesListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the tables on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var names []string
			err := runRemote(cmd, opts, "Listing tables...", func(ctx context.Context, sess *workflows.Session) error {
				var err error
				names, err = sess.ListTables(ctx)
				return err
			})
			if err != nil {
				return err
			}
			Logger.Infof("Found %d table(s)", len(names))
			return printValue(cmd.OutOrStdout(), names, opts.pretty)
		},
	}
}

func newTablesGetCommand(opts *rootOptions) *cobra.Command {
	var table string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Fetch and decrypt every secret in a table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			Logger.Debugf("Flags: table=%q", table)

			var res *workflows.Result
			err := runRemote(cmd, opts, "Fetching table...", func(ctx context.Context, sess *workflows.Session) error {
				var err error
				res, err = sess.GetTable(ctx, table)
				return err
			})
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), res.Value, opts.pretty)
		},
	}

	cmd.Flags().StringVarP(&table, "table", "t", "", "table name")
	return cmd
}

func newTablesCreateCommand(opts *rootOptions) *cobra.Command {
	var table string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an empty table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			Logger.Debugf("Flags: table=%q", table)

			var res *workflows.Result
			err := runRemote(cmd, opts, "Creating table...", func(ctx context.Context, sess *workflows.Session) error {
				var err error
				res, err = sess.CreateTable(ctx, table)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), ui.Done("Created table "+ui.Name.Sprint(table)))
			return printResult(cmd.OutOrStdout(), res.Value, opts.pretty)
		},
	}

	cmd.Flags().StringVarP(&table, "table", "t", "", "table name")
	return cmd
}
