package cmd

import (
	"context"
	"fmt"

	"bactool/internal/cli"

	"github.com/spf13/cobra"
)

func newSetCmd(flags *cli.CommandFlags) *cobra.Command {
	var null bool

	cmd := &cobra.Command{
		Use:   "set <kind> <name> <field> [value]",
		Short: "Change one field of a resource",
		Long: `Change one field of a resource and store it.

Integer fields take decimal text. Boolean fields treat 0, no and off as
false and anything else as true. Reference fields (messages, catalog,
director) take the name of the referenced resource.

Examples:
  bactool set client web1-fd address web1.example.com
  bactool set client web1-fd catalog MyCatalog
  bactool set director main-dir heartbeat_interval --null`,
		Args: func(cmd *cobra.Command, args []string) error {
			if null {
				return cobra.ExactArgs(3)(cmd, args)
			}
			return cobra.ExactArgs(4)(cmd, args)
		},
		ValidArgsFunction: completeKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(ctx context.Context, s *cli.Session) error {
				e, err := mustFind(ctx, s, args[0], args[1])
				if err != nil {
					return err
				}
				value := ""
				if !null {
					value = args[3]
				}
				if err := setField(ctx, e, args[2], value, null); err != nil {
					return err
				}
				printf(cmd, flags.Quiet, "%s\n", cli.FormatSuccess(fmt.Sprintf("%s %q updated", e.Kind(), e.Name())))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&null, "null", false, "Clear the field instead of setting a value")
	return cmd
}
