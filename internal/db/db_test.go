package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDialect(t *testing.T) {
	assert.Equal(t, "sqlite3", getDialect("sqlite"))
	assert.Equal(t, "postgres", getDialect("pgx"))
	assert.Equal(t, "mysql", getDialect("mysql"))
}

func TestInitAndMigrate_SQLite(t *testing.T) {
	conn, err := Init("sqlite", ":memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	defer Close(conn)

	require.NoError(t, RunMigrations(conn.DB, "sqlite"))

	var tables []string
	require.NoError(t, conn.Select(&tables,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('goals', 'goal_logs') ORDER BY name`))
	assert.Equal(t, []string{"goal_logs", "goals"}, tables)

	require.NoError(t, RunMigrations(conn.DB, "sqlite"), "migrations must be idempotent")

	require.NoError(t, MigrateDown(conn.DB, "sqlite"))
	tables = nil
	require.NoError(t, conn.Select(&tables, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'goal_logs'`))
	assert.Empty(t, tables)
}

func TestInit_CreatesDataDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	conn, err := Init("sqlite", "file:"+filepath.Join(dir, "test.db")+"?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	defer Close(conn)

	assert.DirExists(t, dir)
}

func TestClose_Nil(t *testing.T) {
	assert.NoError(t, Close(nil))
}
