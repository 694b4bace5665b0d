package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/vaultapi/internal/ui"
	"github.com/PolarWolf314/vaultapi/internal/workflows"
	"github.com/spf13/cobra"
)

func newHealthCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the VaultAPI server is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// This command is the health check, so NewSession must not run its own.
			checkOpts := *opts
			checkOpts.skipHealthCheck = true

			var server string
			err := runRemote(cmd, &checkOpts, "Checking server health...", func(ctx context.Context, sess *workflows.Session) error {
				server = sess.Settings().Server
				return sess.Health(ctx)
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), ui.Done(ui.URL.Sprint(server)+" is healthy"))
			return nil
		},
	}
}
