package store

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const mongoDisconnectTimeout = 5 * time.Second

// Mongo owns a MongoDB client and the database holding the collections.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
	logger *log.Logger
	opts   Options
}

// NewMongo connects to MongoDB and validates connectivity with Ping.
func NewMongo(ctx context.Context, uri string, opts Options) (*Mongo, error) {
	logger := loggerOrDefault(opts.Logger)
	if opts.DatabaseName == "" {
		return nil, fmt.Errorf("mongo: database name is required")
	}
	logger.Info("store: initializing mongo client",
		"database", opts.DatabaseName, "max", opts.MaxConns, "min", opts.MinConns,
		"idle", opts.MaxConnIdleTime)

	clientOpts := options.Client().ApplyURI(uri)
	if opts.MaxConns > 0 {
		clientOpts.SetMaxPoolSize(uint64(opts.MaxConns))
	}
	if opts.MinConns > 0 {
		clientOpts.SetMinPoolSize(uint64(opts.MinConns))
	}
	if opts.MaxConnIdleTime > 0 {
		clientOpts.SetMaxConnIdleTime(opts.MaxConnIdleTime)
	}
	if opts.ConnTimeout > 0 {
		clientOpts.SetConnectTimeout(opts.ConnTimeout)
		clientOpts.SetServerSelectionTimeout(opts.ConnTimeout)
	}

	client, err := mongo.Connect(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := withTimeout(ctx, opts.ConnTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, dcancel := context.WithTimeout(context.Background(), mongoDisconnectTimeout)
		defer dcancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	logger.Info("store: database connection established", "driver", DriverMongo)

	return &Mongo{
		client: client,
		db:     client.Database(opts.DatabaseName),
		logger: logger,
		opts:   opts,
	}, nil
}

// Driver implements Backend.
func (s *Mongo) Driver() string { return DriverMongo }

// Close disconnects the client.
func (s *Mongo) Close() {
	if s == nil || s.client == nil {
		return
	}
	s.logger.Info("store: disconnecting mongo client")
	ctx, cancel := context.WithTimeout(context.Background(), mongoDisconnectTimeout)
	defer cancel()
	if err := s.client.Disconnect(ctx); err != nil {
		s.logger.Warn("store: mongo disconnect failed", "err", err)
	}
}

// HealthCheck pings the primary.
func (s *Mongo) HealthCheck(ctx context.Context) error {
	if s == nil || s.client == nil {
		return ErrNotInitialized
	}
	checkCtx, cancel := withTimeout(ctx, s.opts.ConnTimeout)
	defer cancel()
	return s.client.Ping(checkCtx, readpref.Primary())
}

// DatabaseNames lists every database on the deployment.
func (s *Mongo) DatabaseNames(ctx context.Context) ([]string, error) {
	if s == nil || s.client == nil {
		return nil, ErrNotInitialized
	}
	names, err := s.client.ListDatabaseNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list databases: %w", err)
	}
	return names, nil
}

// Collection returns a handle to the named collection in the configured database.
func (s *Mongo) Collection(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// Database exposes the configured database.
func (s *Mongo) Database() *mongo.Database {
	return s.db
}
