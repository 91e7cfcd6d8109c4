package store

import (
	"strconv"
	"strings"
)

// Dialect holds the few places where SQLite and Postgres differ.
type Dialect struct {
	Name       string
	DriverName string // database/sql driver name
	// IDColumn is the column definition of an auto-assigned integer key.
	IDColumn string
	// IntegerType and TextType are the column types for record fields.
	IntegerType string
	TextType    string
	// numbered placeholders ($1, $2...) instead of '?'
	numbered bool
}

var (
	SQLite = Dialect{
		Name:        "sqlite",
		DriverName:  "sqlite",
		IDColumn:    `"id" INTEGER PRIMARY KEY AUTOINCREMENT`,
		IntegerType: "INTEGER",
		TextType:    "TEXT",
	}
	Postgres = Dialect{
		Name:        "postgres",
		DriverName:  "pgx",
		IDColumn:    `"id" BIGSERIAL PRIMARY KEY`,
		IntegerType: "BIGINT",
		TextType:    "TEXT",
		numbered:    true,
	}
)

// DialectFor returns the dialect registered under name.
func DialectFor(name string) (Dialect, bool) {
	switch name {
	case "sqlite", "sqlite3", "":
		return SQLite, true
	case "postgres", "postgresql", "pgx":
		return Postgres, true
	default:
		return Dialect{}, false
	}
}

// Rebind rewrites '?' placeholders for the dialect. Question marks inside
// single-quoted literals are left alone.
func (d Dialect) Rebind(statement string) string {
	if !d.numbered {
		return statement
	}
	var b strings.Builder
	n := 0
	inLiteral := false
	for i := 0; i < len(statement); i++ {
		c := statement[i]
		switch {
		case c == '\'':
			inLiteral = !inLiteral
			b.WriteByte(c)
		case c == '?' && !inLiteral:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
