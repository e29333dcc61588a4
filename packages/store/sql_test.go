package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLStore_SQLite(t *testing.T) {
	runContractTests(t, func(t *testing.T) Store {
		dbPath := filepath.Join(t.TempDir(), "test.db")
		s, err := OpenSQL(context.Background(), "sqlite3", dbPath, "envs")
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

// Live PostgreSQL tests run only when ENVRX_TEST_POSTGRES_URL points at a
// disposable database.
func TestSQLStore_Postgres(t *testing.T) {
	dsn := os.Getenv("ENVRX_TEST_POSTGRES_URL")
	if dsn == "" {
		t.Skip("ENVRX_TEST_POSTGRES_URL not set")
	}

	runContractTests(t, func(t *testing.T) Store {
		s, err := OpenSQL(context.Background(), "postgres", dsn, "envrx_contract_test")
		require.NoError(t, err)
		t.Cleanup(func() {
			_, _ = s.db.Exec("DROP TABLE IF EXISTS envrx_contract_test")
			_ = s.Close()
		})
		return s
	})
}

func TestWrapSQL_BorrowedClient(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	s, err := WrapSQL(ctx, db, "sqlite3", "envs")
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "KEY", "value"))

	// Close must not close the borrowed handle
	require.NoError(t, s.Close())
	assert.NoError(t, db.PingContext(ctx))

	value, err := s.Get(ctx, "KEY")
	require.NoError(t, err)
	assert.Equal(t, "value", value)
}

func TestSQLStore_Rebind(t *testing.T) {
	sqlite := &SQLStore{driver: "sqlite3", table: "envs"}
	postgres := &SQLStore{driver: "postgres", table: "envs"}

	query := "INSERT INTO envs (key, value) VALUES (?, ?)"
	assert.Equal(t, query, sqlite.rebind(query))
	assert.Equal(t, "INSERT INTO envs (key, value) VALUES ($1, $2)", postgres.rebind(query))
}

func TestSQLStore_TablePersists(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s1, err := OpenSQL(ctx, "sqlite3", dbPath, "envs")
	require.NoError(t, err)
	require.NoError(t, s1.Set(ctx, "KEY", "value"))
	require.NoError(t, s1.Close())

	// Reopen the same file; the entry is still there
	s2, err := OpenSQL(ctx, "sqlite3", dbPath, "envs")
	require.NoError(t, err)
	defer s2.Close()

	value, err := s2.Get(ctx, "KEY")
	require.NoError(t, err)
	assert.Equal(t, "value", value)
}
