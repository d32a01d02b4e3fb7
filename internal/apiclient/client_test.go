package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/jobfinder/internal/domain"
	"github.com/cloo-solutions/jobfinder/internal/fetch"
)

type staticTokens string

func (s staticTokens) Token() (string, bool) {
	return string(s), s != ""
}

func newTestClient(t *testing.T, token string, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, fetch.New(staticTokens(token), nil))
}

func TestClient_Login(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var creds domain.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "ada@example.com", creds.Email)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"token":"jwt","user":{"id":3,"email":"ada@example.com","first_name":"Ada","last_name":"L"}}`))
	})

	result, err := c.Login(context.Background(), domain.Credentials{Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "jwt", result.Token)
	require.NotNil(t, result.User)
	assert.Equal(t, domain.ID("3"), result.User.ID)
	assert.Equal(t, "Ada", result.User.FirstName)
}

func TestClient_Login_Unauthorized(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Incorrect email or password"}`))
	})

	_, err := c.Login(context.Background(), domain.Credentials{Email: "a", Password: "b"})
	require.Error(t, err)

	var upstream *domain.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusUnauthorized, upstream.StatusCode)
	assert.Equal(t, "Incorrect email or password", upstream.Message)
	assert.True(t, domain.IsUnauthorized(err))
}

func TestClient_Search(t *testing.T) {
	c := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/search", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"keywords":"react"}`, string(body))

		w.Write([]byte(`[{"id":1,"title":"React Dev"},{"id":"abc","title":"Go Dev"}]`))
	})

	jobs, err := c.Search(context.Background(), map[string]any{"keywords": "react"})
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, domain.ID("1"), jobs[0].ID)
	assert.Equal(t, domain.ID("abc"), jobs[1].ID)
}

func TestClient_Search_ServerError(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`<html>oops</html>`))
	})

	_, err := c.Search(context.Background(), nil)
	var upstream *domain.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, 500, upstream.StatusCode)
	assert.Equal(t, domain.GenericFailureMessage, upstream.Message)
}

func TestClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := server.URL
	server.Close()

	c := New(base, nil)
	_, err := c.Categories(context.Background())

	var transport *domain.TransportError
	require.True(t, errors.As(err, &transport))
	assert.Equal(t, "list categories", transport.Op)
	assert.Equal(t, domain.GenericFailureMessage, domain.UserMessage(err))
}

func TestClient_ListJobs_ForwardsQuery(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/jobs", r.URL.Path)
		assert.Equal(t, "go", r.URL.Query().Get("keywords"))
		assert.Equal(t, "Berlin", r.URL.Query().Get("location"))
		w.Write([]byte(`{"jobs":[{"id":9,"title":"Gopher"}]}`))
	})

	jobs, err := c.ListJobs(context.Background(), url.Values{"keywords": {"go"}, "location": {"Berlin"}})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Gopher", jobs[0].Title)
}

func TestClient_SaveJob(t *testing.T) {
	c := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/jobs/save", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"job_id":42}`, string(body))
		w.Write([]byte(`{"message":"Job saved"}`))
	})

	require.NoError(t, c.SaveJob(context.Background(), "42"))
	assert.ErrorIs(t, c.SaveJob(context.Background(), ""), domain.ErrMissingJobID)
}

func TestClient_UnsaveJob(t *testing.T) {
	c := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/jobs/save/42", r.URL.Path)
		w.Write([]byte(`{"message":"Job removed"}`))
	})

	result, err := c.UnsaveJob(context.Background(), "42")
	require.NoError(t, err)
	assert.True(t, result.Removed)
	assert.Equal(t, domain.ID("42"), result.JobID)
	assert.Equal(t, "Job removed", result.Message)
}

func TestClient_SavedJobs(t *testing.T) {
	c := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/jobs/saved", r.URL.Path)
		w.Write([]byte(`{"saved_jobs":[{"id":1,"title":"A","saved_at":"2024-01-01"}]}`))
	})

	jobs, err := c.SavedJobs(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "2024-01-01", jobs[0].SavedAt)
}

func TestClient_Preferences(t *testing.T) {
	c := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`{"email_notifications":true,"saved_searches":[],"preferred_job_types":["full-time"]}`))
		case http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"new_job_alerts":false}`, string(body))
			w.Write([]byte(`{"status":"success","message":"Preferences updated","data":{"new_job_alerts":false,"email_notifications":true}}`))
		}
	})

	prefs, err := c.Preferences(context.Background())
	require.NoError(t, err)
	assert.True(t, prefs.EmailNotifications)
	assert.Equal(t, []string{"full-time"}, prefs.PreferredJobTypes)

	off := false
	updated, err := c.UpdatePreferences(context.Background(), domain.PreferencesUpdate{NewJobAlerts: &off})
	require.NoError(t, err)
	assert.True(t, updated.EmailNotifications)
	assert.False(t, updated.NewJobAlerts)
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"error field", `{"error":"Unauthorized"}`, "Unauthorized"},
		{"detail field", `{"detail":"Email already registered"}`, "Email already registered"},
		{"message field", `{"message":"nope"}`, "nope"},
		{"validation list", `{"detail":[{"msg":"field required"},{"msg":"bad email"}]}`, "field required; bad email"},
		{"not json", `Internal Server Error`, domain.GenericFailureMessage},
		{"empty object", `{}`, domain.GenericFailureMessage},
		{"empty body", ``, domain.GenericFailureMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorMessage([]byte(tt.body)))
		})
	}
}
