//go:build e2e

package e2e

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestE2E_ProxyRoutes(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()

	t.Run("health", func(t *testing.T) {
		resp, body, err := env.Do(http.MethodGet, "/health", nil, "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"status":"ok"}`, string(body))
	})

	t.Run("login maps to password grant", func(t *testing.T) {
		resp, body, err := env.Do(http.MethodPost, "/api/auth/login", map[string]string{
			"email":    "grace@example.com",
			"password": "correct-horse",
		}, "")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

		var result struct {
			Success bool   `json:"success"`
			Token   string `json:"token"`
			User    struct {
				Email     string `json:"email"`
				FirstName string `json:"first_name"`
			} `json:"user"`
		}
		require.NoError(t, json.Unmarshal(body, &result))
		assert.True(t, result.Success)
		assert.Equal(t, backendToken, result.Token)
		assert.Equal(t, "grace@example.com", result.User.Email)
		assert.Equal(t, "Grace", result.User.FirstName)
	})

	t.Run("login rejection is relayed", func(t *testing.T) {
		resp, body, err := env.Do(http.MethodPost, "/api/auth/login", map[string]string{
			"email":    "grace@example.com",
			"password": "wrong",
		}, "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Contains(t, string(body), "Incorrect email or password")
	})

	t.Run("protected route without token", func(t *testing.T) {
		resp, body, err := env.Do(http.MethodGet, "/api/jobs/saved", nil, "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, string(body))
	})

	t.Run("backend 401 is normalised", func(t *testing.T) {
		resp, body, err := env.Do(http.MethodGet, "/api/jobs/saved", nil, "stale")
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, string(body))
	})

	t.Run("save unknown job relays 404", func(t *testing.T) {
		resp, body, err := env.Do(http.MethodPost, "/api/jobs/save", map[string]int{"job_id": 999}, backendToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, string(body), "Job not found")
	})
}

func TestE2E_CLIWorkflow(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()

	out, err := env.RunJobfinder("auth", "status")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Not logged in")

	out, err = env.RunJobfinder("saved")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Log in to see your saved jobs")

	out, err = env.RunJobfinder("save", "101")
	require.Error(t, err)
	assert.Contains(t, out, "Authentication required")
	assert.Zero(t, env.Backend.SavedCount())

	out, err = env.RunJobfinderWithInput("grace@example.com\ncorrect-horse\n", "auth", "login")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Logged in: Grace Hopper")

	out, err = env.RunJobfinder("search", "go", "--remote")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Found 2 jobs")
	assert.Contains(t, out, "Senior Go Engineer (95% match)")

	out, err = env.RunJobfinder("save", "101")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Job saved")
	assert.Equal(t, 1, env.Backend.SavedCount())

	out, err = env.RunJobfinder("search", "go")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Senior Go Engineer (95% match) [saved]")

	out, err = env.RunJobfinder("--output", "saved")
	require.NoError(t, err, out)
	var saved []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &saved), out)
	require.Len(t, saved, 1)
	assert.Equal(t, "Senior Go Engineer", saved[0]["title"])

	out, err = env.RunJobfinder("unsave", "101")
	require.NoError(t, err, out)
	assert.Zero(t, env.Backend.SavedCount())

	out, err = env.RunJobfinder("auth", "logout")
	require.NoError(t, err, out)

	out, err = env.RunJobfinder("auth", "status")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Not logged in")
}

func TestE2E_Shell(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()

	out, err := env.RunJobfinderWithInput("", "auth", "login", "--email", "grace@example.com", "--password", "correct-horse")
	require.NoError(t, err, out)

	out, err = env.RunJobfinderWithInput("set keywords go\nsearch\nsave #1\nsaved\nquit\n", "shell")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Found 2 jobs")
	assert.Contains(t, out, "1 saved job:")
	assert.Equal(t, 1, env.Backend.SavedCount())
}
