package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"bactool/internal/cli"
	"bactool/internal/config"
	"bactool/internal/daemon"
	"bactool/internal/entity"
	"bactool/internal/render"

	"github.com/spf13/cobra"
)

// newReloader is replaced in tests.
var newReloader = func() daemon.Reloader { return daemon.NewSystemd() }

func newWriteCmd(flags *cli.CommandFlags) *cobra.Command {
	var (
		form   string
		file   string
		reload bool
	)

	cmd := &cobra.Command{
		Use:   "write <kind> <name>",
		Short: "Write the configuration of a resource to a file",
		Long: `Render a resource and write it to a file under the configured output
directory. The file is only replaced when its content changed.

With --reload the daemon unit configured for the resource is reloaded
through systemd after the file changed.

Default file names:
  director conf    bacula-dir.d/director-<name>.conf
  director bconsole bconsole.conf
  client fd        bacula-fd.conf
  storage sd       bacula-sd.conf
  other            bacula-dir.d/<kind>-<name>.conf

Examples:
  bactool write client web1-fd --as fd --reload
  bactool write catalog MyCatalog --file /tmp/catalog.conf`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(ctx context.Context, s *cli.Session) error {
				e, err := mustFind(ctx, s, args[0], args[1])
				if err != nil {
					return err
				}
				content, err := e.Render(ctx, form)
				if err != nil {
					return err
				}

				path := file
				if path == "" {
					path = filepath.Join(s.Config.Output.Directory, defaultFileName(e.Kind(), form, e.Name()))
				}

				var changed bool
				err = cli.WithProgress(flags.Quiet, "Writing "+path, func() error {
					var err error
					changed, err = render.WriteIfChanged(path, content, s.Config.Output.Header)
					return err
				})
				if err != nil {
					return err
				}
				if !changed {
					printf(cmd, flags.Quiet, "%s\n", cli.FormatSuccess(path+" unchanged"))
					return nil
				}
				printf(cmd, flags.Quiet, "%s\n", cli.FormatSuccess("Wrote "+path))

				if !reload {
					return nil
				}
				unit := reloadUnit(s.Config.Reload, e.Kind(), form)
				if unit == "" {
					printf(cmd, flags.Quiet, "%s\n", cli.FormatWarning("No unit configured to reload for "+e.Kind()))
					return nil
				}
				if err := newReloader().ReloadUnit(ctx, unit); err != nil {
					return err
				}
				printf(cmd, flags.Quiet, "%s\n", cli.FormatSuccess("Reloaded "+unit))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&form, "as", "conf", "Output form: conf, bconsole, fd or sd")
	cmd.Flags().StringVar(&file, "file", "", "Output file (default: derived from the output directory)")
	cmd.Flags().BoolVar(&reload, "reload", false, "Reload the daemon after the file changed")
	return cmd
}

func defaultFileName(kind, form, name string) string {
	switch {
	case kind == entity.KindDirector && form == entity.FormBconsole:
		return "bconsole.conf"
	case kind == entity.KindClient && form == entity.FormFD:
		return "bacula-fd.conf"
	case kind == entity.KindStorage && form == entity.FormSD:
		return "bacula-sd.conf"
	}
	return filepath.Join("bacula-dir.d", fmt.Sprintf("%s-%s.conf", kind, name))
}

// reloadUnit picks the daemon that reads the written form. Resources in
// conf form are read by the director; bconsole.conf needs no reload.
func reloadUnit(r config.ReloadConfig, kind, form string) string {
	switch form {
	case entity.FormBconsole:
		return ""
	case entity.FormFD, entity.FormSD:
		return r.Unit(kind)
	}
	return r.Director
}
