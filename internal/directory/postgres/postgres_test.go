package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set; skipping PostgreSQL tests")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, EnsureSchema(ctx, pool))

	pool.Exec(ctx, "DELETE FROM login_records") //nolint:errcheck
	t.Cleanup(func() {
		pool.Exec(ctx, "DELETE FROM login_records") //nolint:errcheck
		pool.Close()
	})
	return New(pool)
}

func TestPostgresDirectory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ok, err := s.Exists(ctx, "@alice")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.CreateRecord(ctx, "@alice"))
	require.NoError(t, s.CreateRecord(ctx, "@alice"))

	ok, err = s.Exists(ctx, "@alice")
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := s.DeleteRecord(ctx, "@alice")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.DeleteRecord(ctx, "@alice")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
