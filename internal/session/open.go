package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cloo-solutions/jobfinder/internal/database"
)

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Options select and configure a Store.
type Options struct {
	Backend     string
	Path        string
	Profile     string
	RedisURL    string
	DatabaseURL string
}

// Open builds the Store named by opts.Backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	profile := opts.Profile
	if profile == "" {
		profile = "default"
	}

	switch opts.Backend {
	case BackendMemory:
		return NewMemoryStore(), nil

	case "", BackendFile:
		path := opts.Path
		if path == "" {
			p, err := DefaultFilePath(profile)
			if err != nil {
				return nil, err
			}
			path = p
		}
		return NewFileStore(path), nil

	case BackendSQLite:
		path := opts.Path
		if path == "" {
			dir, err := getConfigDirFunc()
			if err != nil {
				return nil, err
			}
			path = filepath.Join(dir, "session.db")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create session directory: %w", err)
		}
		return NewSQLiteStore(path, profile)

	case BackendRedis:
		if opts.RedisURL == "" {
			return nil, fmt.Errorf("redis session store requires a redis URL")
		}
		rdb, err := NewRedisClient(ctx, opts.RedisURL)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(rdb, profile), nil

	case BackendPostgres:
		if opts.DatabaseURL == "" {
			return nil, fmt.Errorf("postgres session store requires a database URL")
		}
		if err := database.Migrate(opts.DatabaseURL); err != nil {
			return nil, err
		}
		pool, err := database.NewPool(ctx, database.Config{URL: opts.DatabaseURL, ApplicationName: "jobfinder-cli", MaxConns: 4})
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(pool, profile), nil

	default:
		return nil, fmt.Errorf("unknown session store %q (expected file, memory, sqlite, redis or postgres)", opts.Backend)
	}
}

// Close releases the store's connections, if it holds any.
func Close(store Store) error {
	if c, ok := store.(Closer); ok {
		return c.Close()
	}
	return nil
}
