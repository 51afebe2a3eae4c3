// Tests use testcontainers-go to spin up a PostgreSQL container.
package store

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"blobby-bot/internal/model"
)

// checkDockerAvailable checks if Docker is available and running
func checkDockerAvailable() bool {
	cmd := exec.Command("docker", "info")
	err := cmd.Run()
	return err == nil
}

// setupPostgresStore creates a PostgreSQL container and returns a
// migrated store. Skips the test if Docker is not available.
func setupPostgresStore(t *testing.T) (*PostgresStore, func()) {
	if !checkDockerAvailable() {
		t.Skip("Docker is not available, skipping integration test")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	st, err := NewPostgresStore(ctx, pool)
	require.NoError(t, err)

	cleanup := func() {
		st.Close()
		_ = pgContainer.Terminate(ctx)
	}
	return st, cleanup
}

func TestPostgresStore_Roundtrip(t *testing.T) {
	st, cleanup := setupPostgresStore(t)
	defer cleanup()
	ctx := context.Background()

	saved := &model.VIPState{TotalPoints: 777, LifetimePoints: 1234, JackpotPool: model.JackpotFloor}
	require.NoError(t, st.Save(ctx, VIPStateKey(42), saved))

	loaded := &model.VIPState{}
	ok, err := st.Load(ctx, VIPStateKey(42), loaded)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(777), loaded.TotalPoints)
	assert.Equal(t, int64(1234), loaded.LifetimePoints)
}

func TestPostgresStore_LoadMissingKey(t *testing.T) {
	st, cleanup := setupPostgresStore(t)
	defer cleanup()

	loaded := &model.Wallet{}
	ok, err := st.Load(context.Background(), WalletKey(42), loaded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPostgresStore_SaveUpserts(t *testing.T) {
	st, cleanup := setupPostgresStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, WalletKey(42), &model.Wallet{Balance: 100}))
	require.NoError(t, st.Save(ctx, WalletKey(42), &model.Wallet{Balance: 250}))

	loaded := &model.Wallet{}
	ok, err := st.Load(ctx, WalletKey(42), loaded)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(250), loaded.Balance)
}

func TestPostgresStore_Delete(t *testing.T) {
	st, cleanup := setupPostgresStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, WalletKey(42), &model.Wallet{Balance: 100}))
	require.NoError(t, st.Delete(ctx, WalletKey(42)))

	loaded := &model.Wallet{}
	ok, err := st.Load(ctx, WalletKey(42), loaded)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, st.Delete(ctx, WalletKey(42)))
}

func TestPostgresStore_VersionMismatchTreatedAsAbsent(t *testing.T) {
	st, cleanup := setupPostgresStore(t)
	defer cleanup()
	ctx := context.Background()

	_, err := st.pool.Exec(ctx,
		`INSERT INTO blobs (key, data) VALUES ($1, $2)`,
		WalletKey(42), []byte(`{"v":99,"data":{"balance":500}}`))
	require.NoError(t, err)

	loaded := &model.Wallet{}
	ok, err := st.Load(ctx, WalletKey(42), loaded)
	require.NoError(t, err)
	assert.False(t, ok)
}
