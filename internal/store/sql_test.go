package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()
	ctx := context.Background()
	s, err := OpenMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	err = s.EnsureSchema(ctx, `CREATE TABLE IF NOT EXISTS "widgets" (
		"id" INTEGER PRIMARY KEY AUTOINCREMENT,
		"name" TEXT NOT NULL UNIQUE,
		"size" INTEGER DEFAULT 3,
		"colour" TEXT
	)`)
	require.NoError(t, err)
	return s
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "x")
	assert.True(t, errors.Is(err, ErrUnsupportedDriver))
}

func TestSQLStore_ExecuteAndFetch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	n, err := s.Execute(ctx, `INSERT INTO "widgets" ("name", "colour") VALUES (?, ?)`, "bolt", "grey")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	rows, err := s.FetchRowsWhere(ctx, "widgets", "name", "bolt")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "grey", rows[0]["colour"])
	assert.Equal(t, int64(3), rows[0]["size"])
	assert.Equal(t, int64(1), rows[0]["id"])
}

func TestSQLStore_FetchRowsWhere_NoMatch(t *testing.T) {
	s := newTestStore(t)

	rows, err := s.FetchRowsWhere(context.Background(), "widgets", "id", 42)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSQLStore_FetchRowsWhere_InvalidIdentifier(t *testing.T) {
	s := newTestStore(t)

	_, err := s.FetchRowsWhere(context.Background(), "widgets; DROP TABLE x", "name", "a")
	assert.ErrorIs(t, err, ErrInvalidIdentifier)

	_, err = s.FetchRowsWhere(context.Background(), "widgets", "Name", "a")
	assert.ErrorIs(t, err, ErrInvalidIdentifier)
}

func TestSQLStore_EnsureRow_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.EnsureRowWithColumnValue(ctx, "widgets", "name", "nut")
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := s.EnsureRowWithColumnValue(ctx, "widgets", "name", "nut")
	require.NoError(t, err)
	require.Len(t, second, 1)

	assert.Equal(t, first[0]["id"], second[0]["id"])

	all, err := s.FetchAll(ctx, "widgets")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSQLStore_ExecuteFailurePropagates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Execute(ctx, `INSERT INTO "widgets" ("name") VALUES (?)`, "dup")
	require.NoError(t, err)
	_, err = s.Execute(ctx, `INSERT INTO "widgets" ("name") VALUES (?)`, "dup")
	assert.Error(t, err, "unique constraint must surface")
}

func TestSQLStore_Dialect(t *testing.T) {
	s := newTestStore(t)
	assert.Equal(t, "sqlite", s.Dialect().Name)
}
