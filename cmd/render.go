package cmd

import (
	"context"
	"fmt"

	"bactool/internal/cli"

	"github.com/spf13/cobra"
)

func newRenderCmd(flags *cli.CommandFlags) *cobra.Command {
	var form string

	cmd := &cobra.Command{
		Use:   "render <kind> <name>",
		Short: "Print the configuration text of a resource",
		Long: `Print a resource as Bacula configuration text.

Forms:
  conf      the resource as it appears in bacula-dir.conf (all kinds)
  bconsole  bconsole.conf for a director
  fd        bacula-fd.conf for a client
  sd        bacula-sd.conf for a storage daemon

Examples:
  bactool render director main-dir
  bactool render client web1-fd --as fd`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(ctx context.Context, s *cli.Session) error {
				e, err := mustFind(ctx, s, args[0], args[1])
				if err != nil {
					return err
				}
				out, err := e.Render(ctx, form)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&form, "as", "conf", "Output form: conf, bconsole, fd or sd")
	return cmd
}
