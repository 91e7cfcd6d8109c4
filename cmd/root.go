package cmd

import (
	"errors"
	"os"

	"bactool/internal/cli"
	"bactool/internal/config"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeConfig indicates the configuration or an imported file is invalid.
	ExitCodeConfig = 2
)

// rootCmd represents the base command for the bactool application.
var rootCmd = newRootCmd()

// newRootCmd builds the command tree. Every call returns fresh commands
// with their own flag values.
func newRootCmd() *cobra.Command {
	flags := &cli.CommandFlags{}

	root := &cobra.Command{
		Use:   "bactool",
		Short: "Manage Bacula director, client and storage configuration",
		Long: `bactool keeps Bacula resources (directors, catalogs, clients, storage
daemons and message sets) in a relational database and renders them back
into daemon configuration files.

Existing configuration can be imported with 'bactool import', edited with
'bactool set' and written out with 'bactool write'.`,
		// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cli.RegisterCommonFlags(root, flags)

	root.AddCommand(
		newVersionCmd(),
		newImportCmd(flags),
		newCreateCmd(flags),
		newGetCmd(flags),
		newListCmd(flags),
		newSetCmd(flags),
		newRenameCmd(flags),
		newDeleteCmd(flags),
		newRenderCmd(flags),
		newWriteCmd(flags),
		newWatchCmd(flags),
	)
	return root
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "bactool version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		cli.ReportError(os.Stderr, err)
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
func getExitCode(err error) int {
	var ce config.ConfigurationError
	if errors.As(err, &ce) {
		return ExitCodeConfig
	}
	var cec *config.ConfigurationErrorCollection
	if errors.As(err, &cec) {
		return ExitCodeConfig
	}
	return ExitCodeError
}
