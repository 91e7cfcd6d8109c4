// Package store is the relational backing store used by every record.
//
// The Store interface is the only thing the record layer knows about SQL
// execution: statements with positional '?' parameters, row lookups by a
// single column, and "find or create by column value". SQLStore implements it
// on database/sql with a pure-Go SQLite driver (modernc.org/sqlite) or with
// Postgres through pgx.
package store

import (
	"context"
	"errors"
	"regexp"
)

// Row is one table row keyed by column name. Values are nil, int64, string
// or whatever else the driver returns for a column.
type Row map[string]any

// Store is the backing-store collaborator.
type Store interface {
	// Execute runs a statement and returns the number of affected rows.
	// Parameters are passed positionally with '?' placeholders.
	Execute(ctx context.Context, statement string, args ...any) (int64, error)

	// FetchRowsWhere returns every row of table whose column equals value,
	// ordered by id. No match is an empty result, not an error.
	FetchRowsWhere(ctx context.Context, table, column string, value any) ([]Row, error)

	// EnsureRowWithColumnValue returns the rows where column equals value,
	// inserting a row holding only that value first if none exists.
	EnsureRowWithColumnValue(ctx context.Context, table, column string, value any) ([]Row, error)

	// FetchAll returns every row of table ordered by id.
	FetchAll(ctx context.Context, table string) ([]Row, error)

	// Dialect describes the SQL flavour of the store.
	Dialect() Dialect

	// Close releases the underlying connection.
	Close() error
}

var (
	// ErrInvalidIdentifier is returned for table or column names that are not
	// plain lower-case identifiers.
	ErrInvalidIdentifier = errors.New("invalid identifier")
	// ErrUnsupportedDriver is returned by Open for unknown drivers.
	ErrUnsupportedDriver = errors.New("unsupported database driver")
)

var identRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// ValidIdentifier reports whether name can be used as a table or column name.
func ValidIdentifier(name string) bool {
	return identRe.MatchString(name)
}

// QuoteIdent double-quotes an identifier. Both SQLite and Postgres accept
// this form.
func QuoteIdent(name string) string {
	return `"` + name + `"`
}
