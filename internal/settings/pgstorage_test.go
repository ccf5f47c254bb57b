package settings

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestPgStorage_Integration требует PostgreSQL, строка подключения в TEST_DATABASE_DSN
func TestPgStorage_Integration(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN is not set")
	}

	store, err := NewPgStorage(dsn)
	require.NoError(t, err)
	defer store.Close()

	runStorageSuite(t, func() Storage {
		_, err := store.pool.Exec(context.Background(), "DELETE FROM settings")
		require.NoError(t, err)
		return store
	})
}
