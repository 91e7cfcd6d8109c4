// Package formatting renders stored records for the command line.
//
// A record is handed over as an ordered list of columns and a value per
// column. Every formatter writes to an io.Writer so commands can direct
// output and tests can capture it.
package formatting

import (
	"fmt"
	"io"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatTable OutputFormat = "table" // Rich table output
	FormatJSON  OutputFormat = "json"  // JSON output
	FormatYAML  OutputFormat = "yaml"  // YAML output
)

// Formats lists the accepted output formats.
func Formats() []OutputFormat {
	return []OutputFormat{FormatTable, FormatJSON, FormatYAML}
}

// ParseFormat validates a format name. An empty name selects the table.
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON, FormatYAML:
		return OutputFormat(s), nil
	}
	return "", fmt.Errorf("unsupported output format %q (use table, json or yaml)", s)
}

// Options configures the formatter behavior
type Options struct {
	Format    OutputFormat
	NoHeaders bool // Omit table headers
	Color     bool // Enable colored output
}

// Row is one record: a value per column. Values are nil, string or int64.
type Row map[string]any

// Formatter writes records in one output format.
type Formatter interface {
	// FormatRecord writes a single record with its columns in order.
	FormatRecord(w io.Writer, columns []string, row Row) error
	// FormatList writes several records of one kind.
	FormatList(w io.Writer, kind string, columns []string, rows []Row) error
}

// Factory creates formatters for different output formats
type Factory interface {
	CreateFormatter(options Options) Formatter
}

// NewFactory creates a new formatter factory
func NewFactory() Factory {
	return &factory{}
}

// factory implements the Factory interface
type factory struct{}

// CreateFormatter creates the appropriate formatter based on options
func (f *factory) CreateFormatter(options Options) Formatter {
	switch options.Format {
	case FormatJSON:
		return NewJSONFormatter(options)
	case FormatYAML:
		return NewYAMLFormatter(options)
	default:
		return NewTableFormatter(options)
	}
}
