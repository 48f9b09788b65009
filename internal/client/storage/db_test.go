package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenAppliesMigrations(t *testing.T) {
	db, err := Open(context.Background(), "file:storage_tests?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`INSERT INTO session(key, value) VALUES ('access_token', 'tok')`)
	require.NoError(t, err)

	var v string
	require.NoError(t, db.QueryRow(`SELECT value FROM session WHERE key = 'access_token'`).Scan(&v))
	require.Equal(t, "tok", v)
}

func TestOpenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, "file:storage_tests_idem?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, RunMigrations(ctx, db))
}
