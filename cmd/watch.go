package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bactool/internal/cli"
	"bactool/internal/importer"
	"bactool/internal/reconciler"
	"bactool/pkg/logging"

	"github.com/spf13/cobra"
)

func newWatchCmd(flags *cli.CommandFlags) *cobra.Command {
	var (
		director string
		debounce time.Duration
		once     bool
	)

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Import resource files whenever they change",
		Long: `Watch a directory of resource files and import each file when it is
created or modified. Files live in one sub-directory per kind:

  <dir>/directors/*.conf
  <dir>/catalogs/*.conf
  <dir>/clients/*.conf
  <dir>/storages/*.conf
  <dir>/messages/*.conf

Each file holds the body of one resource. Files already present are
imported when the watch starts. Removing a file keeps the stored resource.

Examples:
  bactool watch /etc/bactool/resources --director main-dir
  bactool watch ./resources --once`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(ctx context.Context, s *cli.Session) error {
				im := importer.New(s.Registry)
				handle := func(ctx context.Context, ev reconciler.ChangeEvent) error {
					if ev.Operation == reconciler.OperationDelete {
						logging.Warn("Watch", "%s removed, keeping %s %q", ev.FilePath, ev.Kind, ev.Name)
						return nil
					}
					data, err := os.ReadFile(ev.FilePath)
					if err != nil {
						return err
					}
					res, err := im.ImportText(ctx, string(data), importer.Options{Kind: ev.Kind, Director: director})
					if err != nil {
						return importError(ev.FilePath, ev.Kind, err)
					}
					for _, line := range res.Imported {
						printf(cmd, flags.Quiet, "%s\n", cli.FormatSuccess("Imported "+line+" from "+ev.FilePath))
					}
					return nil
				}

				w := reconciler.NewWatcher(args[0], debounce)
				existing, err := w.Scan()
				if err != nil {
					return err
				}
				for _, ev := range existing {
					if err := handle(ctx, ev); err != nil {
						if once {
							return err
						}
						logging.Error("Watch", err, "Failed to import %s", ev.FilePath)
					}
				}
				if once {
					return nil
				}

				ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
				defer stop()
				return w.Run(ctx, handle)
			})
		},
	}

	cmd.Flags().StringVar(&director, "director", "", "Director that owns imported catalogs and storage daemons")
	cmd.Flags().DurationVar(&debounce, "debounce", reconciler.DefaultDebounce, "Wait this long for further writes before importing")
	cmd.Flags().BoolVar(&once, "once", false, "Import the existing files and exit")
	return cmd
}
