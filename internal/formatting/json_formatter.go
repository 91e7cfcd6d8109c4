package formatting

import (
	"fmt"
	"io"
)

// JSONFormatter provides structured JSON output formatting
type JSONFormatter struct {
	options Options
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(options Options) Formatter {
	return &JSONFormatter{
		options: options,
	}
}

// FormatRecord writes the record as a JSON object.
func (f *JSONFormatter) FormatRecord(w io.Writer, columns []string, row Row) error {
	return writeJSON(w, project(columns, row))
}

// FormatList writes the records as a JSON array.
func (f *JSONFormatter) FormatList(w io.Writer, kind string, columns []string, rows []Row) error {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		out = append(out, project(columns, row))
	}
	return writeJSON(w, out)
}

func writeJSON(w io.Writer, v any) error {
	b, err := indentJSON(v)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	_, err = w.Write(b)
	return err
}

// project keeps the listed columns of row.
func project(columns []string, row Row) map[string]any {
	m := make(map[string]any, len(columns))
	for _, col := range columns {
		m[col] = row[col]
	}
	return m
}
