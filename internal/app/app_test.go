package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clark-Hu/catalog-api/internal/config"
	"github.com/Clark-Hu/catalog-api/internal/domain"
	"github.com/Clark-Hu/catalog-api/internal/store"
	"github.com/Clark-Hu/catalog-api/internal/store/storetest"
)

func TestStoreOptions(t *testing.T) {
	opts := StoreOptions(config.DatabaseSettings{
		DatabaseName:           "catalog",
		MaxConns:               40,
		MinConns:               5,
		MaxConnIdleSecs:        30,
		MaxConnLifetimeSecs:    600,
		ConnTimeoutSecs:        3,
		StatementCacheCapacity: 64,
	}, nil)

	assert.Equal(t, "catalog", opts.DatabaseName)
	assert.Equal(t, int32(40), opts.MaxConns)
	assert.Equal(t, int32(5), opts.MinConns)
	assert.Equal(t, 30*time.Second, opts.MaxConnIdleTime)
	assert.Equal(t, 10*time.Minute, opts.MaxConnLifetime)
	assert.Equal(t, 3*time.Second, opts.ConnTimeout)
	assert.Equal(t, 64, opts.StatementCacheCapacity)
}

func TestOpenMemory(t *testing.T) {
	cfg := config.Config{Database: config.DatabaseSettings{
		Driver:               config.DriverMemory,
		MoviesCollectionName: "movies",
		SongsCollectionName:  "songs",
	}}

	backend, catalog, err := Open(context.Background(), cfg, storetest.DiscardLogger())
	require.NoError(t, err)
	defer backend.Close()

	assert.Equal(t, store.DriverMemory, backend.Driver())
	movie, err := catalog.Movies.Create(context.Background(), domain.Movie{Title: "Goldfinger"})
	require.NoError(t, err)
	assert.NotEmpty(t, movie.ID)
}

func TestOpenUnsupportedDriver(t *testing.T) {
	cfg := config.Config{Database: config.DatabaseSettings{Driver: "cassandra"}}
	_, _, err := Open(context.Background(), cfg, storetest.DiscardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect database")
}
