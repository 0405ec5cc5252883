// Package store implements the catalog persistence used by the core service:
// a Postgres store built on pgxpool with goqu generated SQL, and an optional
// Redis decorator that caches search results.
package store

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/bizdir/internal/config"
	"github.com/JonMunkholm/bizdir/internal/core"
)

//go:embed schema.sql
var schemaSQL string

// DefaultBatchSize is the number of rows per INSERT statement when none is configured.
const DefaultBatchSize = 500

// dialect renders goqu datasets as Postgres SQL with $n placeholders.
var dialect = goqu.Dialect("postgres")

// Store is the Postgres CatalogStore, HistoryStore and CategoryLister.
type Store struct {
	pool      *pgxpool.Pool
	batchSize int
	now       func() time.Time
}

var (
	_ core.CatalogStore   = (*Store)(nil)
	_ core.HistoryStore   = (*Store)(nil)
	_ core.CategoryLister = (*Store)(nil)
	_ core.HistoryPruner  = (*Store)(nil)
)

// New wraps a connection pool. batchSize <= 0 selects DefaultBatchSize.
func New(pool *pgxpool.Pool, batchSize int) *Store {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Store{
		pool:      pool,
		batchSize: batchSize,
		now:       time.Now,
	}
}

// Connect opens a pool sized from the database configuration and verifies it.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return pool, nil
}

// Migrate creates the catalog tables when they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
