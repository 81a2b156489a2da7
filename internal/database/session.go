package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zizouhuweidi/quizzical/internal/repoerr"
)

// DBTX is the handle stores run statements on. It is satisfied by
// *pgxpool.Pool, *pgxpool.Conn, *pgx.Conn and pgx.Tx, so a store can work on
// a pool, on one acquired connection, or inside a transaction.
type DBTX interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Sessions hands out one connection per logical operation.
type Sessions struct {
	pool *pgxpool.Pool
}

// NewSessions creates a session source backed by pool
func NewSessions(pool *pgxpool.Pool) *Sessions {
	return &Sessions{pool: pool}
}

// WithSession acquires a connection, runs fn on it and releases it. Every
// store built inside fn shares that connection.
func (s *Sessions) WithSession(ctx context.Context, fn func(db DBTX) error) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return repoerr.Connect("acquire connection", err)
	}
	defer conn.Release()

	return fn(conn)
}

var (
	_ DBTX = (*pgxpool.Pool)(nil)
	_ DBTX = (*pgxpool.Conn)(nil)
	_ DBTX = (pgx.Tx)(nil)
)
