package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clark-Hu/catalog-api/internal/store"
	"github.com/Clark-Hu/catalog-api/internal/store/storetest"
)

var (
	_ store.Backend = (*store.Mongo)(nil)
	_ store.Backend = (*store.Postgres)(nil)
	_ store.Backend = (*store.Memory)(nil)
)

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := store.Open(context.Background(), "cassandra", "", store.Options{Logger: storetest.DiscardLogger()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cassandra")
}

func TestOpenMemory(t *testing.T) {
	backend, err := store.Open(context.Background(), store.DriverMemory, "", store.Options{Logger: storetest.DiscardLogger()})
	require.NoError(t, err)
	defer backend.Close()

	assert.Equal(t, store.DriverMemory, backend.Driver())
	require.NoError(t, backend.HealthCheck(context.Background()))

	names, err := backend.DatabaseNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{store.MemoryDatabaseName}, names)
}

func TestMemoryRespectsCancelledContext(t *testing.T) {
	backend := store.NewMemory(storetest.DiscardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, backend.HealthCheck(ctx), context.Canceled)
	_, err := backend.DatabaseNames(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNilBackendsReportNotInitialized(t *testing.T) {
	var pg *store.Postgres
	assert.ErrorIs(t, pg.HealthCheck(context.Background()), store.ErrNotInitialized)
	assert.Nil(t, pg.Stats())
	pg.Close()

	var mg *store.Mongo
	_, err := mg.DatabaseNames(context.Background())
	assert.ErrorIs(t, err, store.ErrNotInitialized)
	mg.Close()
}

func TestPostgresMigrateAndDatabaseNames(t *testing.T) {
	backend := storetest.NewPostgres(t, "catalog_store_test")
	ctx := context.Background()

	require.NoError(t, backend.HealthCheck(ctx))
	// Migrations are idempotent.
	require.NoError(t, backend.Migrate(ctx))

	names, err := backend.DatabaseNames(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, "catalog_store_test")
	assert.NotContains(t, names, "template0")

	var exists bool
	err = backend.Pool().QueryRow(ctx, `SELECT to_regclass('public.documents') IS NOT NULL`).Scan(&exists)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NotNil(t, backend.Stats())
}

func TestMongoHealthAndDatabaseNames(t *testing.T) {
	backend := storetest.NewMongo(t)
	ctx := context.Background()

	require.NoError(t, backend.HealthCheck(ctx))
	_, err := backend.DatabaseNames(ctx)
	require.NoError(t, err)
}
