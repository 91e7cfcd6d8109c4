package formatting

import (
	"fmt"
	"io"
	"strings"

	bstrings "bactool/pkg/strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const maxCellWidth = bstrings.DefaultCellMaxLen

// TableFormatter provides rich table output formatting
type TableFormatter struct {
	options Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(options Options) Formatter {
	return &TableFormatter{
		options: options,
	}
}

// FormatRecord writes a record as a two-column FIELD/VALUE table.
func (f *TableFormatter) FormatRecord(w io.Writer, columns []string, row Row) error {
	t := f.createTable(w)
	if !f.options.NoHeaders {
		t.AppendHeader(table.Row{f.header("FIELD"), f.header("VALUE")})
	}
	for _, col := range columns {
		t.AppendRow(table.Row{f.key(col), cell(row[col])})
	}
	t.Render()
	return nil
}

// FormatList writes one table row per record.
func (f *TableFormatter) FormatList(w io.Writer, kind string, columns []string, rows []Row) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, f.warn(fmt.Sprintf("No %s found", kind)))
		return err
	}

	t := f.createTable(w)
	if !f.options.NoHeaders {
		header := make(table.Row, len(columns))
		for i, col := range columns {
			header[i] = f.header(strings.ToUpper(col))
		}
		t.AppendHeader(header)
	}
	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i, col := range columns {
			r[i] = cell(row[col])
		}
		t.AppendRow(r)
	}
	t.Render()

	if !f.options.NoHeaders {
		_, err := fmt.Fprintf(w, "\nTotal: %d %s\n", len(rows), kind)
		return err
	}
	return nil
}

// createTable creates a new table with standard styling
func (f *TableFormatter) createTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	if f.options.NoHeaders {
		t.SetStyle(table.StyleLight)
		t.Style().Options = table.OptionsNoBordersAndSeparators
	} else {
		t.SetStyle(table.StyleRounded)
	}
	return t
}

func (f *TableFormatter) header(s string) string {
	if f.options.Color {
		return text.FgHiCyan.Sprint(s)
	}
	return s
}

func (f *TableFormatter) key(s string) string {
	if f.options.Color {
		return text.FgHiCyan.Sprint(s)
	}
	return s
}

func (f *TableFormatter) warn(s string) string {
	if f.options.Color {
		return text.FgYellow.Sprint(s)
	}
	return s
}

// cell renders a value for a table cell; null shows as "-".
func cell(v any) string {
	if v == nil {
		return "-"
	}
	return bstrings.FirstLine(fmt.Sprintf("%v", v), maxCellWidth)
}
