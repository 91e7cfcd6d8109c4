package cmd

import (
	"context"

	"bactool/internal/cli"
	"bactool/internal/formatting"

	"github.com/spf13/cobra"
)

func newGetCmd(flags *cli.CommandFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <kind> <name|id>",
		Short: "Show one resource",
		Long: `Show every stored field of one resource. The resource is looked up by id
when the reference is numeric, then by name.

Examples:
  bactool get director main-dir
  bactool get catalog 3 -o yaml`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.ToFormatterOptions()
			if err != nil {
				return err
			}
			return withSession(cmd, flags, func(ctx context.Context, s *cli.Session) error {
				e, err := mustFind(ctx, s, args[0], args[1])
				if err != nil {
					return err
				}
				f := formatting.NewFactory().CreateFormatter(opts)
				return f.FormatRecord(cmd.OutOrStdout(), columnsOf(e), rowOf(e))
			})
		},
	}
	cli.RegisterOutputFlags(cmd, flags)
	return cmd
}
