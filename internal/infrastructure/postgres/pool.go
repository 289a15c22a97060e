package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// PoolConfig carries the DB_* settings needed to open a pool.
type PoolConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	// ConnectAttempts bounds the start-up ping loop; values below 1 mean one attempt.
	ConnectAttempts int
}

func NewPool(ctx context.Context, pc PoolConfig, logger *logrus.Logger) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(pc.DSN)
	if err != nil {
		return nil, err
	}
	if pc.MaxConns > 0 {
		cfg.MaxConns = pc.MaxConns
	}
	if pc.MinConns > 0 {
		cfg.MinConns = pc.MinConns
	}
	if pc.MaxConnLifetime > 0 {
		cfg.MaxConnLifetime = pc.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	attempts := pc.ConnectAttempts
	if attempts < 1 {
		attempts = 1
	}
	for i := 1; ; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = pool.Ping(pingCtx)
		cancel()
		if err == nil {
			return pool, nil
		}
		if i >= attempts {
			pool.Close()
			return nil, fmt.Errorf("postgres ping after %d attempts: %w", i, err)
		}
		if logger != nil {
			logger.WithError(err).WithField("attempt", i).Warn("postgres not ready, retrying")
		}
		select {
		case <-ctx.Done():
			pool.Close()
			return nil, ctx.Err()
		case <-time.After(time.Second):
		}
	}
}
