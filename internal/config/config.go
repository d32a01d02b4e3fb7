package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "JOBFINDER"

// Server configures the jobfinderd proxy.
type Server struct {
	Port  string `envconfig:"PORT" default:"3000"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	BackendURL      string        `envconfig:"BACKEND_URL" default:"http://localhost:8000"`
	UpstreamTimeout time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"30s"`
	MaxBodyBytes    int64         `envconfig:"MAX_BODY_BYTES" default:"1048576"`

	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
}

// Client configures the jobfinder CLI.
type Client struct {
	APIURL string `envconfig:"API_URL" default:"http://localhost:3000"`

	SessionStore string `envconfig:"SESSION_STORE" default:"file"`
	SessionPath  string `envconfig:"SESSION_PATH"`
	Profile      string `envconfig:"PROFILE" default:"default"`
	RedisURL     string `envconfig:"REDIS_URL"`
	DatabaseURL  string `envconfig:"DATABASE_URL"`

	SyncInterval time.Duration `envconfig:"SYNC_INTERVAL" default:"2s"`
	SentryDSN    string        `envconfig:"SENTRY_DSN"`
}

func LoadServer() (*Server, error) {
	_ = godotenv.Load()

	var cfg Server
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Server) Validate() error {
	if err := validateURL("BACKEND_URL", c.BackendURL); err != nil {
		return err
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive")
	}
	return nil
}

func (c *Server) HasSentry() bool {
	return c.SentryDSN != ""
}

func LoadClient() (*Client, error) {
	_ = godotenv.Load()

	var cfg Client
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Client) Validate() error {
	if err := validateURL("API_URL", c.APIURL); err != nil {
		return err
	}
	switch c.SessionStore {
	case "file", "memory", "sqlite":
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when SESSION_STORE is redis")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when SESSION_STORE is postgres")
		}
	default:
		return fmt.Errorf("SESSION_STORE must be one of file, memory, sqlite, redis, postgres (got %q)", c.SessionStore)
	}
	if c.SyncInterval < 0 {
		return fmt.Errorf("SYNC_INTERVAL must not be negative")
	}
	return nil
}

func validateURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL (got %q)", name, raw)
	}
	return nil
}
