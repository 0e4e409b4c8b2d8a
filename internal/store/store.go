package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// ErrNotInitialized is returned by backends used before a successful Open.
var ErrNotInitialized = errors.New("store: not initialized")

// Backend is a connection to a document store. Collections are built on top of
// a concrete backend by the repository package.
type Backend interface {
	// Driver names the backend variant (mongo, postgres, memory).
	Driver() string
	// HealthCheck verifies the store is reachable.
	HealthCheck(ctx context.Context) error
	// DatabaseNames lists the databases visible to the connection.
	DatabaseNames(ctx context.Context) ([]string, error)
	// Close releases connections.
	Close()
}

// Options controls connection-pool behaviour.
type Options struct {
	DatabaseName           string
	MaxConns               int32
	MinConns               int32
	MaxConnIdleTime        time.Duration
	MaxConnLifetime        time.Duration
	ConnTimeout            time.Duration
	StatementCacheCapacity int
	Logger                 *log.Logger
}

// Open connects to the backend named by driver and validates connectivity.
func Open(ctx context.Context, driver, connString string, opts Options) (Backend, error) {
	switch driver {
	case DriverMongo:
		return NewMongo(ctx, connString, opts)
	case DriverPostgres:
		return NewPostgres(ctx, connString, opts)
	case DriverMemory:
		return NewMemory(opts.Logger), nil
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", driver)
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return ctx, func() {}
}

func loggerOrDefault(l *log.Logger) *log.Logger {
	if l == nil {
		return log.Default()
	}
	return l
}
