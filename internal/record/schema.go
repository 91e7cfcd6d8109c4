package record

import (
	"fmt"
	"sort"
	"strings"

	"bactool/internal/store"
)

// Names of the fields every record carries.
const (
	FieldID   = "id"
	FieldName = "name"
)

// FieldKind describes how a field is stored and coerced.
type FieldKind int

const (
	// Text fields hold strings.
	Text FieldKind = iota
	// Integer fields hold integers.
	Integer
	// Boolean fields hold 0 or 1; values are coerced from yes/no tokens.
	Boolean
	// Reference fields hold the identity of a row of another entity kind.
	Reference
)

func (k FieldKind) String() string {
	switch k {
	case Text:
		return "text"
	case Integer:
		return "integer"
	case Boolean:
		return "boolean"
	case Reference:
		return "reference"
	default:
		return "unknown"
	}
}

// Field declares one recognized field of an entity.
type Field struct {
	Name    string
	Kind    FieldKind
	Default Value
	// References names the target entity kind. When empty the target is the
	// field name without its "_id" suffix.
	References string
}

// TextField declares a text field defaulting to null.
func TextField(name string) Field { return Field{Name: name, Kind: Text} }

// IntField declares an integer field with a default.
func IntField(name string, def int64) Field {
	return Field{Name: name, Kind: Integer, Default: Int(def)}
}

// NullIntField declares an integer field defaulting to null.
func NullIntField(name string) Field { return Field{Name: name, Kind: Integer} }

// BoolField declares a boolean field with a default.
func BoolField(name string, def bool) Field {
	f := Field{Name: name, Kind: Boolean, Default: Int(0)}
	if def {
		f.Default = Int(1)
	}
	return f
}

// RefField declares a reference to another entity kind.
func RefField(name, target string) Field {
	return Field{Name: name, Kind: Reference, References: target}
}

// Schema is the fixed field set of an entity kind and the table backing it.
type Schema struct {
	Kind   string
	Table  string
	fields []Field
	index  map[string]int
}

// NewSchema declares an entity kind. The id and name fields are added
// automatically and must not be listed.
func NewSchema(kind, table string, fields ...Field) *Schema {
	s := &Schema{
		Kind:  kind,
		Table: table,
		index: make(map[string]int),
	}
	all := append([]Field{
		{Name: FieldID, Kind: Integer},
		{Name: FieldName, Kind: Text, Default: Str("")},
	}, fields...)
	for _, f := range all {
		if !store.ValidIdentifier(f.Name) {
			panic(fmt.Sprintf("record: invalid field name %q in %s", f.Name, kind))
		}
		if _, dup := s.index[f.Name]; dup {
			panic(fmt.Sprintf("record: duplicate field %q in %s", f.Name, kind))
		}
		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
	}
	return s
}

// Field returns the declaration of name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Fields returns the declarations in declaration order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Names returns all field names sorted.
func (s *Schema) Names() []string {
	names := make([]string, 0, len(s.fields))
	for _, f := range s.fields {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names
}

// RefTarget returns the entity kind a reference field points at.
func (s *Schema) RefTarget(field string) (string, bool) {
	f, ok := s.Field(field)
	if !ok || f.Kind != Reference {
		return "", false
	}
	if f.References != "" {
		return f.References, true
	}
	return strings.TrimSuffix(f.Name, "_id"), true
}

// DDL returns the CREATE TABLE IF NOT EXISTS statement for the schema.
func (s *Schema) DDL(d store.Dialect) string {
	cols := []string{d.IDColumn}
	for _, f := range s.fields {
		if f.Name == FieldID {
			continue
		}
		typ := d.TextType
		if f.Kind != Text {
			typ = d.IntegerType
		}
		col := fmt.Sprintf("%s %s", store.QuoteIdent(f.Name), typ)
		if f.Name == FieldName {
			col += " NOT NULL UNIQUE"
		}
		if !f.Default.IsNull() {
			col += " DEFAULT " + sqlLiteral(f.Default)
		}
		cols = append(cols, col)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)",
		store.QuoteIdent(s.Table), strings.Join(cols, ",\n\t"))
}

func sqlLiteral(v Value) string {
	if v.Kind() == KindInt {
		return v.Text()
	}
	return "'" + strings.ReplaceAll(v.Text(), "'", "''") + "'"
}
