package cmd

import (
	"context"
	"fmt"

	"bactool/internal/cli"

	"github.com/spf13/cobra"
)

func newRenameCmd(flags *cli.CommandFlags) *cobra.Command {
	return &cobra.Command{
		Use:               "rename <kind> <name> <new-name>",
		Short:             "Rename a resource",
		Args:              cobra.ExactArgs(3),
		ValidArgsFunction: completeKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(ctx context.Context, s *cli.Session) error {
				e, err := mustFind(ctx, s, args[0], args[1])
				if err != nil {
					return err
				}
				if err := e.Base().Rename(ctx, args[2]); err != nil {
					return err
				}
				printf(cmd, flags.Quiet, "%s\n", cli.FormatSuccess(fmt.Sprintf("%s %q renamed to %q", e.Kind(), args[1], e.Name())))
				return nil
			})
		},
	}
}
