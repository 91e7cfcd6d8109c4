package cmd

import (
	"context"
	"fmt"

	"bactool/internal/cli"

	"github.com/spf13/cobra"
)

func newDeleteCmd(flags *cli.CommandFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <kind> <name>",
		Short: "Delete a resource",
		Long: `Delete a resource. References to it held by other resources are left in
place and render as if unset.`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(ctx context.Context, s *cli.Session) error {
				e, err := mustFind(ctx, s, args[0], args[1])
				if err != nil {
					return err
				}
				if err := e.Base().Delete(ctx); err != nil {
					return err
				}
				printf(cmd, flags.Quiet, "%s\n", cli.FormatSuccess(fmt.Sprintf("%s %q deleted", e.Kind(), e.Name())))
				return nil
			})
		},
	}
}
