package migrations

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMigrationFiles(t *testing.T) {
	entries, err := MigrationFiles.ReadDir(".")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	schema, err := MigrationFiles.ReadFile("00001_init.sql")
	require.NoError(t, err)
	sql := string(schema)

	require.Contains(t, sql, "-- +goose Up")
	require.Contains(t, sql, "-- +goose Down")
	// deleting an author or language keeps the book
	require.Contains(t, sql, "author_id   int references author (id) on delete set null")
	require.Contains(t, sql, "language_id int references language (id) on delete set null")
	require.Contains(t, sql, "check (status in ('m', 'o', 'a', 'r'))")
	require.Contains(t, sql, "default 'm'")
	require.False(t, strings.Contains(sql, "'d'"))
}
