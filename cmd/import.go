package cmd

import (
	"context"

	"bactool/internal/cli"
	"bactool/internal/importer"

	"github.com/spf13/cobra"
)

func newImportCmd(flags *cli.CommandFlags) *cobra.Command {
	var opts importer.Options

	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Import Bacula resources from a configuration file",
		Long: `Import Director, Catalog, Client, Storage and Messages resources from a
Bacula configuration file into the database. Other resource types (Job, Pool,
FileSet, ...) are skipped.

Catalogs and storage daemons belong to the director named with --director,
or to the last director found in the same file.

With --kind the whole file is read as the body of a single resource.

Examples:
  bactool import /etc/bacula/bacula-dir.conf
  bactool import --kind catalog --director main-dir catalog.conf
  cat client.conf | bactool import --kind client -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			text, err := readInput(cmd, path)
			if err != nil {
				return err
			}
			return withSession(cmd, flags, func(ctx context.Context, s *cli.Session) error {
				var res *importer.Result
				err := cli.WithProgress(flags.Quiet, "Importing "+path, func() error {
					var err error
					res, err = importer.New(s.Registry).ImportText(ctx, text, opts)
					return err
				})
				if err != nil {
					return importError(path, opts.Kind, err)
				}
				for _, line := range res.Imported {
					printf(cmd, flags.Quiet, "%s\n", cli.FormatSuccess("Imported "+line))
				}
				for _, typ := range res.Skipped {
					printf(cmd, flags.Quiet, "%s\n", cli.FormatWarning("Skipped "+typ+" resource"))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&opts.Kind, "kind", "", "Read the file as the body of one resource of this kind")
	cmd.Flags().StringVar(&opts.Director, "director", "", "Director that owns imported catalogs and storage daemons")
	return cmd
}
