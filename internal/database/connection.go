package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultConnectTimeout = 10 * time.Second

// Config describes a pool for the session tables. Sessions are tiny and
// accessed one profile at a time, so pools stay small.
type Config struct {
	URL string
	// ApplicationName shows up in pg_stat_activity; defaults to "jobfinder".
	ApplicationName string
	MaxConns        int32
	ConnectTimeout  time.Duration
}

// NewPool opens a pool and fails unless the server answers a ping within
// ConnectTimeout.
func NewPool(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}

	name := cfg.ApplicationName
	if name == "" {
		name = "jobfinder"
	}
	pc.ConnConfig.RuntimeParams["application_name"] = name
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	return pool, nil
}
