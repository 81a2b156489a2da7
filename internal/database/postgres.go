package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zizouhuweidi/quizzical/internal/repoerr"
)

// PostgresConfig holds the configuration for PostgreSQL connection
type PostgresConfig struct {
	URL            string
	MaxConns       int32
	ConnectTimeout time.Duration
}

// ConnectPostgres establishes a connection pool to PostgreSQL and pings it.
// Failures are classified by repoerr; anything it cannot place is a
// connection error.
func ConnectPostgres(ctx context.Context, config PostgresConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(config.URL)
	if err != nil {
		return nil, repoerr.Connection("parse database url", err)
	}
	if config.MaxConns > 0 {
		poolConfig.MaxConns = config.MaxConns
	}
	if config.ConnectTimeout > 0 {
		poolConfig.ConnConfig.ConnectTimeout = config.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, repoerr.Connect("connect to database", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, repoerr.Connect("ping database", fmt.Errorf("unable to ping database: %w", err))
	}

	return pool, nil
}
