package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"bactool/internal/cli"
	"bactool/internal/config"
	"bactool/internal/directive"
	"bactool/internal/entity"
	"bactool/internal/formatting"
	"bactool/internal/importer"

	"github.com/spf13/cobra"
)

// completeKinds offers the entity kinds for the first argument.
func completeKinds(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var out []string
	for _, k := range entity.Kinds() {
		if strings.HasPrefix(k, strings.ToLower(toComplete)) {
			out = append(out, k)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// withSession opens a session for the duration of fn.
func withSession(cmd *cobra.Command, flags *cli.CommandFlags, fn func(ctx context.Context, s *cli.Session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := cli.OpenSession(ctx, flags)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(ctx, s)
}

// mustFind looks up an entity and turns a miss into a NotFoundError.
func mustFind(ctx context.Context, s *cli.Session, kind, ref string) (entity.Entity, error) {
	e, found, err := entity.Find(ctx, s.Registry, kind, ref)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &cli.NotFoundError{Kind: kind, Ref: ref}
	}
	return e, nil
}

// columnsOf lists an entity's fields in declaration order.
func columnsOf(e entity.Entity) []string {
	fields := e.Base().Schema().Fields()
	cols := make([]string, 0, len(fields))
	for _, f := range fields {
		cols = append(cols, f.Name)
	}
	return cols
}

func rowOf(e entity.Entity) formatting.Row {
	return formatting.Row(e.Base().Map())
}

// readInput reads a file, or standard input for "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// importError turns a directive parse failure into a configuration error
// pointing at the offending line of path.
func importError(path, kind string, err error) error {
	var pe *directive.ParseError
	if !errors.As(err, &pe) {
		return err
	}
	offset := 0
	var be *importer.BlockError
	if errors.As(err, &be) {
		offset = be.Line - 1
		kind = be.Kind
	}
	keys, _ := entity.Keys(kind)
	return config.FromParseError(path, offset, pe, keys)
}

func printf(cmd *cobra.Command, quiet bool, format string, args ...any) {
	if quiet {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
