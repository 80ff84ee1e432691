package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func createTestDB(t *testing.T) *DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(DefaultConnectionConfig(dbPath))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}
