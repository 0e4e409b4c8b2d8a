package store

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/catalog-api/db"
)

// Postgres hides direct access to the underlying connection pool so higher
// layers can focus on documents.
type Postgres struct {
	pool   *pgxpool.Pool
	logger *log.Logger
	opts   Options
}

// NewPostgres initializes a connection pool and validates connectivity with Ping.
func NewPostgres(ctx context.Context, dbURL string, opts Options) (*Postgres, error) {
	logger := loggerOrDefault(opts.Logger)
	logger.Info("store: initializing postgres pool",
		"max", opts.MaxConns, "min", opts.MinConns,
		"idle", opts.MaxConnIdleTime, "life", opts.MaxConnLifetime,
		"stmt_cache", opts.StatementCacheCapacity)

	cfg, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}

	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 {
		cfg.MinConns = opts.MinConns
	}
	if opts.MaxConnIdleTime > 0 {
		cfg.MaxConnIdleTime = opts.MaxConnIdleTime
	}
	if opts.MaxConnLifetime > 0 {
		cfg.MaxConnLifetime = opts.MaxConnLifetime
	}
	if opts.StatementCacheCapacity >= 0 {
		cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheStatement
		cfg.ConnConfig.StatementCacheCapacity = opts.StatementCacheCapacity
	}

	connCtx, cancel := withTimeout(ctx, opts.ConnTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := pool.Ping(connCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	logger.Info("store: database connection established", "driver", DriverPostgres)

	return &Postgres{pool: pool, logger: logger, opts: opts}, nil
}

// NewPostgresWithPool wraps an existing pool, mainly for tests.
func NewPostgresWithPool(pool *pgxpool.Pool, logger *log.Logger) *Postgres {
	return &Postgres{pool: pool, logger: loggerOrDefault(logger)}
}

// Driver implements Backend.
func (s *Postgres) Driver() string { return DriverPostgres }

// Close releases database resources.
func (s *Postgres) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.logger.Info("store: closing connection pool")
	s.pool.Close()
}

// HealthCheck verifies the database is reachable.
func (s *Postgres) HealthCheck(ctx context.Context) error {
	if s == nil || s.pool == nil {
		return ErrNotInitialized
	}
	checkCtx, cancel := withTimeout(ctx, s.opts.ConnTimeout)
	defer cancel()
	return s.pool.Ping(checkCtx)
}

// DatabaseNames lists non-template databases on the server.
func (s *Postgres) DatabaseNames(ctx context.Context) ([]string, error) {
	if s == nil || s.pool == nil {
		return nil, ErrNotInitialized
	}
	rows, err := s.pool.Query(ctx, `SELECT datname FROM pg_database WHERE NOT datistemplate ORDER BY datname`)
	if err != nil {
		return nil, fmt.Errorf("list databases: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("list databases: %w", err)
	}
	return names, nil
}

// Migrate applies the embedded *.up.sql files in lexical order. Every
// migration is idempotent, so running it on each start is safe.
func (s *Postgres) Migrate(ctx context.Context) error {
	if s == nil || s.pool == nil {
		return ErrNotInitialized
	}
	files, err := fs.Glob(db.Migrations, "migrations/*.up.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)
	for _, path := range files {
		payload, err := fs.ReadFile(db.Migrations, path)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", path, err)
		}
		if _, err := s.pool.Exec(ctx, string(payload)); err != nil {
			return fmt.Errorf("apply migration %s: %w", path, err)
		}
		s.logger.Debug("store: applied migration", "file", strings.TrimPrefix(path, "migrations/"))
	}
	return nil
}

// Pool exposes the underlying pgx pool for repositories.
func (s *Postgres) Pool() *pgxpool.Pool {
	return s.pool
}

// Stats exposes pgxpool statistics for observability.
func (s *Postgres) Stats() *pgxpool.Stat {
	if s == nil || s.pool == nil {
		return nil
	}
	return s.pool.Stat()
}
