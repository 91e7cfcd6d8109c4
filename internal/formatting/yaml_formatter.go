package formatting

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter provides YAML output formatting
type YAMLFormatter struct {
	options Options
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(options Options) Formatter {
	return &YAMLFormatter{
		options: options,
	}
}

// FormatRecord writes the record as a YAML mapping in column order.
func (f *YAMLFormatter) FormatRecord(w io.Writer, columns []string, row Row) error {
	node, err := mappingNode(columns, row)
	if err != nil {
		return err
	}
	return encode(w, node)
}

// FormatList writes the records as a YAML sequence.
func (f *YAMLFormatter) FormatList(w io.Writer, kind string, columns []string, rows []Row) error {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, row := range rows {
		node, err := mappingNode(columns, row)
		if err != nil {
			return err
		}
		seq.Content = append(seq.Content, node)
	}
	return encode(w, seq)
}

func mappingNode(columns []string, row Row) (*yaml.Node, error) {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, col := range columns {
		var v yaml.Node
		if err := v.Encode(row[col]); err != nil {
			return nil, fmt.Errorf("encode %s: %w", col, err)
		}
		m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: col}, &v)
	}
	return m, nil
}

func encode(w io.Writer, node *yaml.Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return enc.Close()
}
