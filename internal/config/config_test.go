package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServer_WithEnvVars(t *testing.T) {
	t.Setenv("JOBFINDER_PORT", "9090")
	t.Setenv("JOBFINDER_DEBUG", "true")
	t.Setenv("JOBFINDER_BACKEND_URL", "http://api.internal:8000")
	t.Setenv("JOBFINDER_UPSTREAM_TIMEOUT", "5s")
	t.Setenv("JOBFINDER_MAX_BODY_BYTES", "2048")
	t.Setenv("JOBFINDER_SENTRY_DSN", "https://key@sentry.example.com/1")

	cfg, err := LoadServer()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "http://api.internal:8000", cfg.BackendURL)
	assert.Equal(t, 5*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, int64(2048), cfg.MaxBodyBytes)
	assert.True(t, cfg.HasSentry())
}

func TestLoadServer_Defaults(t *testing.T) {
	cfg, err := LoadServer()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "http://localhost:8000", cfg.BackendURL)
	assert.Equal(t, 30*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.HasSentry())
}

func TestLoadServer_InvalidBackendURL(t *testing.T) {
	t.Setenv("JOBFINDER_BACKEND_URL", "not-a-url")

	_, err := LoadServer()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BACKEND_URL")
}

func TestLoadClient_Defaults(t *testing.T) {
	cfg, err := LoadClient()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000", cfg.APIURL)
	assert.Equal(t, "file", cfg.SessionStore)
	assert.Equal(t, "default", cfg.Profile)
	assert.Equal(t, 2*time.Second, cfg.SyncInterval)
}

func TestLoadClient_SessionStoreValidation(t *testing.T) {
	t.Setenv("JOBFINDER_SESSION_STORE", "redis")
	_, err := LoadClient()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_URL")

	t.Setenv("JOBFINDER_REDIS_URL", "redis://localhost:6379/0")
	cfg, err := LoadClient()
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.SessionStore)

	t.Setenv("JOBFINDER_SESSION_STORE", "postgres")
	_, err = LoadClient()
	assert.ErrorContains(t, err, "DATABASE_URL")

	t.Setenv("JOBFINDER_SESSION_STORE", "etcd")
	_, err = LoadClient()
	assert.ErrorContains(t, err, "SESSION_STORE")
}
