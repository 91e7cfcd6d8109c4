package store

import (
	"context"
	"database/sql"
	"fmt"

	"bactool/pkg/logging"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"
)

// SQLStore implements Store on database/sql.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

var sqlOpen = sql.Open

// Open connects to the database named by driver ("sqlite" or "postgres") and dsn.
// For SQLite the dsn is a file path or ":memory:".
func Open(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	dialect, ok := DialectFor(driver)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	db, err := sqlOpen(dialect.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s %q: %w", dialect.Name, dsn, err)
	}

	if dialect.Name == SQLite.Name {
		// One process-wide connection; ":memory:" databases are per connection.
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("set WAL mode: %w", err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect.Name, err)
	}

	logging.Debug("Store", "Opened %s database %s", dialect.Name, dsn)
	return &SQLStore{db: db, dialect: dialect}, nil
}

// OpenMemory opens a private in-memory SQLite database.
func OpenMemory(ctx context.Context) (*SQLStore, error) {
	return Open(ctx, SQLite.Name, ":memory:")
}

// EnsureSchema runs table definitions, normally CREATE TABLE IF NOT EXISTS
// statements, in order.
func (s *SQLStore) EnsureSchema(ctx context.Context, ddl ...string) error {
	for _, stmt := range ddl {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// Dialect returns the store's SQL dialect.
func (s *SQLStore) Dialect() Dialect {
	return s.dialect
}

// Execute runs a statement and returns the number of affected rows.
func (s *SQLStore) Execute(ctx context.Context, statement string, args ...any) (int64, error) {
	stmt := s.dialect.Rebind(statement)
	logging.Debug("Store", "exec %s (%d args)", stmt, len(args))

	res, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("exec %q: %w", statement, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// FetchRowsWhere returns the rows of table where column equals value.
func (s *SQLStore) FetchRowsWhere(ctx context.Context, table, column string, value any) ([]Row, error) {
	if !ValidIdentifier(table) || !ValidIdentifier(column) {
		return nil, fmt.Errorf("%w: %s.%s", ErrInvalidIdentifier, table, column)
	}
	query := fmt.Sprintf("SELECT * FROM %s WHERE %s = ? ORDER BY %s",
		QuoteIdent(table), QuoteIdent(column), QuoteIdent("id"))
	return s.query(ctx, query, value)
}

// EnsureRowWithColumnValue returns the rows matching value, creating one if needed.
func (s *SQLStore) EnsureRowWithColumnValue(ctx context.Context, table, column string, value any) ([]Row, error) {
	rows, err := s.FetchRowsWhere(ctx, table, column, value)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		return rows, nil
	}

	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (?)", QuoteIdent(table), QuoteIdent(column))
	if _, err := s.Execute(ctx, insert, value); err != nil {
		return nil, fmt.Errorf("ensure %s.%s = %v: %w", table, column, value, err)
	}
	logging.Info("Store", "Created %s row with %s = %v", table, column, value)

	return s.FetchRowsWhere(ctx, table, column, value)
}

// FetchAll returns every row of table.
func (s *SQLStore) FetchAll(ctx context.Context, table string) ([]Row, error) {
	if !ValidIdentifier(table) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidIdentifier, table)
	}
	return s.query(ctx, fmt.Sprintf("SELECT * FROM %s ORDER BY %s", QuoteIdent(table), QuoteIdent("id")))
}

// Close shuts down the database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) query(ctx context.Context, query string, args ...any) ([]Row, error) {
	stmt := s.dialect.Rebind(query)
	logging.Debug("Store", "query %s (%d args)", stmt, len(args))

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", query, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []Row
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(Row, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				row[c] = string(b)
				continue
			}
			row[c] = vals[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
