package cmd

import (
	"context"
	"fmt"
	"strings"

	"bactool/internal/cli"
	"bactool/internal/entity"
	"bactool/internal/record"

	"github.com/spf13/cobra"
)

func newCreateCmd(flags *cli.CommandFlags) *cobra.Command {
	var sets []string

	cmd := &cobra.Command{
		Use:   "create <kind> <name>",
		Short: "Create a resource, or find it when it exists",
		Long: `Create a resource with the given name. Creating a name that already exists
is not an error; the existing resource is kept.

Clients and storage daemons without a password get a generated one.

Examples:
  bactool create director main-dir
  bactool create client web1-fd --set address=web1.example.com --set catalog=MyCatalog`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			assignments, err := parseAssignments(sets)
			if err != nil {
				return err
			}
			return withSession(cmd, flags, func(ctx context.Context, s *cli.Session) error {
				e, err := entity.Create(ctx, s.Registry, args[0], args[1])
				if err != nil {
					return err
				}
				for _, a := range assignments {
					if err := setField(ctx, e, a.field, a.value, false); err != nil {
						return err
					}
				}
				id, _ := e.ID()
				printf(cmd, flags.Quiet, "%s\n", cli.FormatSuccess(fmt.Sprintf("%s %q (id %d)", e.Kind(), e.Name(), id)))
				return nil
			})
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "Set a field after creation (field=value, repeatable)")
	return cmd
}

type assignment struct {
	field string
	value string
}

func parseAssignments(sets []string) ([]assignment, error) {
	out := make([]assignment, 0, len(sets))
	for _, s := range sets {
		field, value, ok := strings.Cut(s, "=")
		field = strings.TrimSpace(field)
		if !ok || field == "" {
			return nil, fmt.Errorf("invalid --set %q, expected field=value", s)
		}
		out = append(out, assignment{field: field, value: value})
	}
	return out, nil
}

// setField assigns one field from command-line text. Reference fields may
// be named without their _id suffix.
func setField(ctx context.Context, e entity.Entity, field, value string, null bool) error {
	rec := e.Base()
	if _, ok := rec.Schema().Field(field); !ok {
		if _, ok := rec.Schema().RefTarget(field + "_id"); ok {
			field += "_id"
		}
	}
	v := record.Str(value)
	if null {
		v = record.Null()
	}
	return rec.SetField(ctx, field, v)
}
