package cli

import (
	"bactool/internal/config"
	"bactool/internal/formatting"

	"github.com/spf13/cobra"
)

// CommandFlags holds the flag values shared across bactool commands.
type CommandFlags struct {
	// OutputFormat specifies the desired output format (table, json, yaml)
	OutputFormat string
	// NoHeaders suppresses the header row in table output
	NoHeaders bool
	// Quiet suppresses progress indicators and non-essential output
	Quiet bool
	// Debug enables debug logging, including every SQL statement
	Debug bool
	// ConfigPath specifies a custom configuration directory path
	ConfigPath string
	// DBDriver overrides the configured database driver
	DBDriver string
	// DBDSN overrides the configured database DSN
	DBDSN string
}

// RegisterCommonFlags registers the flags every command accepts:
//   - --quiet/-q: Suppress non-essential output
//   - --debug: Enable debug logging
//   - --config-path: Configuration directory
//   - --db-driver: Database driver (sqlite, postgres)
//   - --db-dsn: Database file or connection URL
func RegisterCommonFlags(cmd *cobra.Command, flags *CommandFlags) {
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().BoolVar(&flags.Debug, "debug", false, "Enable debug logging (shows SQL statements)")
	cmd.PersistentFlags().StringVar(&flags.ConfigPath, "config-path", config.GetDefaultConfigPathOrPanic(), "Configuration directory")
	cmd.PersistentFlags().StringVar(&flags.DBDriver, "db-driver", "", "Database driver: sqlite or postgres (overrides config)")
	cmd.PersistentFlags().StringVar(&flags.DBDSN, "db-dsn", "", "Database file or connection URL (overrides config)")
}

// RegisterOutputFlags registers the output formatting flags:
//   - --output/-o: Output format (table, json, yaml), default: "table"
//   - --no-headers: Suppress header row in table output
func RegisterOutputFlags(cmd *cobra.Command, flags *CommandFlags) {
	cmd.Flags().StringVarP(&flags.OutputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	cmd.Flags().BoolVar(&flags.NoHeaders, "no-headers", false, "Suppress header row in table output")
}

// ToFormatterOptions converts the output flags to formatter options.
func (f *CommandFlags) ToFormatterOptions() (formatting.Options, error) {
	format, err := formatting.ParseFormat(f.OutputFormat)
	if err != nil {
		return formatting.Options{}, err
	}
	return formatting.Options{
		Format:    format,
		NoHeaders: f.NoHeaders,
	}, nil
}
