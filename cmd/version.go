package cmd

import (
	"fmt"
	"runtime"

	"github.com/PolarWolf314/vaultapi/internal/ui"
	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the vaultapi version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if short {
				fmt.Fprintln(w, Version)
				return nil
			}

			banner := figure.NewFigure("vaultapi", "standard", true)
			fmt.Fprint(w, ui.Success.Sprint(banner.String()))
			fmt.Fprintln(w)
			fmt.Fprintf(w, "vaultapi %s %s\n", Version, ui.Muted.Sprint("("+runtime.Version()+" "+runtime.GOOS+"/"+runtime.GOARCH+")"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "print only the version number")
	return cmd
}
