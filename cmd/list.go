package cmd

import (
	"context"

	"bactool/internal/cli"
	"bactool/internal/entity"
	"bactool/internal/formatting"

	"github.com/spf13/cobra"
)

func newListCmd(flags *cli.CommandFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <kind>",
		Short: "List resources of one kind",
		Long: `List every stored resource of one kind, ordered by id.

Available kinds: director, catalog, client, storage, messages

Examples:
  bactool list client
  bactool list storage -o json`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.ToFormatterOptions()
			if err != nil {
				return err
			}
			return withSession(cmd, flags, func(ctx context.Context, s *cli.Session) error {
				kind := args[0]
				proto, err := entity.New(s.Registry, kind)
				if err != nil {
					return err
				}
				all, err := entity.List(ctx, s.Registry, kind)
				if err != nil {
					return err
				}
				rows := make([]formatting.Row, 0, len(all))
				for _, e := range all {
					rows = append(rows, rowOf(e))
				}
				f := formatting.NewFactory().CreateFormatter(opts)
				return f.FormatList(cmd.OutOrStdout(), kind, columnsOf(proto), rows)
			})
		},
	}
	cli.RegisterOutputFlags(cmd, flags)
	return cmd
}
