package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cloo-solutions/jobfinder/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServerConfig() *config.Server {
	return &config.Server{
		Port:            "0",
		BackendURL:      "http://localhost:8000",
		UpstreamTimeout: 5 * time.Second,
		MaxBodyBytes:    1024,
	}
}

func TestApplyServeFlags(t *testing.T) {
	cmd := ServeCmd()
	require.NoError(t, cmd.Flags().Set("port", "4000"))
	require.NoError(t, cmd.Flags().Set("backend-url", "http://backend:9000"))

	cfg := testServerConfig()
	applyServeFlags(cmd, cfg)

	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, "http://backend:9000", cfg.BackendURL)
}

func TestApplyServeFlags_KeepsConfigWhenUnset(t *testing.T) {
	cfg := testServerConfig()
	applyServeFlags(ServeCmd(), cfg)

	assert.Equal(t, "0", cfg.Port)
	assert.Equal(t, "http://localhost:8000", cfg.BackendURL)
}

func TestNewServer_ServesHealth(t *testing.T) {
	srv, err := newServer(testServerConfig())
	require.NoError(t, err)
	assert.Equal(t, ":0", srv.Addr)

	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNewServer_RejectsBadBackend(t *testing.T) {
	cfg := testServerConfig()
	cfg.BackendURL = "not a url"

	_, err := newServer(cfg)
	assert.Error(t, err)
}

func TestRunServer_StopsOnCancel(t *testing.T) {
	srv, err := newServer(testServerConfig())
	require.NoError(t, err)
	srv.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runServer(ctx, srv, "http://localhost:8000") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestDatabaseURL(t *testing.T) {
	t.Setenv(envDatabaseURL, "")

	cmd := MigrateCmd()
	_, err := databaseURL(cmd)
	assert.Error(t, err)

	t.Setenv(envDatabaseURL, "postgres://env/db")
	url, err := databaseURL(cmd)
	require.NoError(t, err)
	assert.Equal(t, "postgres://env/db", url)

	require.NoError(t, cmd.Flags().Set("database-url", "postgres://flag/db"))
	url, err = databaseURL(cmd)
	require.NoError(t, err)
	assert.Equal(t, "postgres://flag/db", url)
}

func TestSessionsCmd_Structure(t *testing.T) {
	cmd := SessionsCmd()

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"list", "revoke"}, names)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("database-url"))
}
