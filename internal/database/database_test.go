package database

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zizouhuweidi/quizzical/internal/repoerr"
)

func TestConnectRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := ConnectRedis(context.Background(), RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	assert.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
}

func TestConnectRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := ConnectRedis(context.Background(), RedisConfig{Addr: addr})
	assert.Error(t, err)
}

func TestConnectPostgresInvalidURL(t *testing.T) {
	_, err := ConnectPostgres(context.Background(), PostgresConfig{URL: "postgres://%zz"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse database url")
}

func TestConnectPostgresUnreachable(t *testing.T) {
	_, err := ConnectPostgres(context.Background(), PostgresConfig{
		URL:            "postgres://quiz@127.0.0.1:1/quiz?sslmode=disable",
		ConnectTimeout: time.Second,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, repoerr.ErrConnection)
	assert.Contains(t, err.Error(), "ping database")
}

func TestWithSessionAcquireFailure(t *testing.T) {
	pool, err := pgxpool.New(context.Background(), "postgres://quiz@127.0.0.1:1/quiz?sslmode=disable")
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err = NewSessions(pool).WithSession(ctx, func(DBTX) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, repoerr.ErrConnection)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestWithSession(t *testing.T) {
	url := os.Getenv("QUIZZICAL_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("QUIZZICAL_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := ConnectPostgres(ctx, PostgresConfig{URL: url, MaxConns: 2})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	sessions := NewSessions(pool)

	var pids [2]int32
	err = sessions.WithSession(ctx, func(db DBTX) error {
		for i := range pids {
			if err := db.QueryRow(ctx, "SELECT pg_backend_pid()").Scan(&pids[i]); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, pids[0], pids[1], "statements of one session share a connection")

	wantErr := errors.New("stop")
	assert.ErrorIs(t, sessions.WithSession(ctx, func(DBTX) error { return wantErr }), wantErr)
	assert.Equal(t, int32(0), pool.Stat().AcquiredConns())
}
