package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDialect_Rebind(t *testing.T) {
	stmt := `UPDATE "t" SET "a" = ?, "b" = '?' WHERE "id" = ?`

	assert.Equal(t, stmt, SQLite.Rebind(stmt))
	assert.Equal(t, `UPDATE "t" SET "a" = $1, "b" = '?' WHERE "id" = $2`, Postgres.Rebind(stmt))
}

func TestDialectFor(t *testing.T) {
	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"", "sqlite", true},
		{"sqlite", "sqlite", true},
		{"postgresql", "postgres", true},
		{"pgx", "postgres", true},
		{"mysql", "", false},
	}
	for _, tt := range tests {
		d, ok := DialectFor(tt.name)
		assert.Equal(t, tt.ok, ok, tt.name)
		assert.Equal(t, tt.want, d.Name, tt.name)
	}
}

func TestValidIdentifier(t *testing.T) {
	assert.True(t, ValidIdentifier("db_name"))
	assert.True(t, ValidIdentifier("_x1"))
	assert.False(t, ValidIdentifier("1x"))
	assert.False(t, ValidIdentifier("a b"))
	assert.False(t, ValidIdentifier(`a"`))
	assert.Equal(t, `"name"`, QuoteIdent("name"))
}
