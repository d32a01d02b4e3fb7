// Package apiclient is the typed client for the jobfinder proxy routes.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cloo-solutions/jobfinder/internal/domain"
	"github.com/cloo-solutions/jobfinder/internal/fetch"
)

const (
	DefaultBaseURL = "http://localhost:3000"
	DefaultTimeout = 30 * time.Second
)

// Client calls the proxy. Requests go through the fetch wrapper, so a
// logged-in session's token is attached automatically.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a Client for baseURL sending through fetcher. A nil fetcher sends
// requests without a token.
func New(baseURL string, fetcher *fetch.Fetcher) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if fetcher == nil {
		fetcher = fetch.New(nil, nil)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: fetcher.Transport(),
			Timeout:   DefaultTimeout,
		},
	}
}

// BaseURL returns the proxy address requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error) {
	var out domain.AuthResult
	if err := c.do(ctx, "login", http.MethodPost, "/api/auth/login", creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Signup creates an account and returns its session.
func (c *Client) Signup(ctx context.Context, req domain.SignupRequest) (*domain.AuthResult, error) {
	var out domain.AuthResult
	if err := c.do(ctx, "signup", http.MethodPost, "/api/auth/signup", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "list categories", http.MethodGet, "/api/categories", nil, &raw); err != nil {
		return nil, err
	}
	var out []domain.Category
	if err := decodeList(raw, &out, "categories"); err != nil {
		return nil, err
	}
	return out, nil
}

// ListJobs runs the query-string search.
func (c *Client) ListJobs(ctx context.Context, query url.Values) ([]domain.Job, error) {
	path := "/api/jobs"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}
	return c.jobs(ctx, "list jobs", http.MethodGet, path, nil)
}

// Search posts a sanitized filter payload.
func (c *Client) Search(ctx context.Context, payload map[string]any) ([]domain.Job, error) {
	return c.jobs(ctx, "search", http.MethodPost, "/api/search", payload)
}

func (c *Client) SaveJob(ctx context.Context, id domain.ID) error {
	if id == "" {
		return domain.ErrMissingJobID
	}
	return c.do(ctx, "save job", http.MethodPost, "/api/jobs/save", domain.SaveJobRequest{JobID: id}, nil)
}

func (c *Client) UnsaveJob(ctx context.Context, id domain.ID) (*domain.UnsaveResult, error) {
	if id == "" {
		return nil, domain.ErrMissingJobID
	}
	out := domain.UnsaveResult{Removed: true, JobID: id}
	path := "/api/jobs/save/" + url.PathEscape(id.String())
	if err := c.do(ctx, "unsave job", http.MethodDelete, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SavedJobs(ctx context.Context) ([]domain.Job, error) {
	return c.jobs(ctx, "list saved jobs", http.MethodGet, "/api/jobs/saved", nil)
}

func (c *Client) Preferences(ctx context.Context) (*domain.Preferences, error) {
	var out domain.Preferences
	if err := c.do(ctx, "get preferences", http.MethodGet, "/api/preferences", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePreferences sends a partial update and returns what the backend stored.
func (c *Client) UpdatePreferences(ctx context.Context, update domain.PreferencesUpdate) (*domain.Preferences, error) {
	var envelope struct {
		Status  string              `json:"status"`
		Message string              `json:"message"`
		Data    *domain.Preferences `json:"data"`
	}
	if err := c.do(ctx, "update preferences", http.MethodPut, "/api/preferences", update, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data == nil {
		return &domain.Preferences{}, nil
	}
	return envelope.Data, nil
}

func (c *Client) jobs(ctx context.Context, op, method, path string, body any) ([]domain.Job, error) {
	var raw json.RawMessage
	if err := c.do(ctx, op, method, path, body, &raw); err != nil {
		return nil, err
	}
	var out []domain.Job
	if err := decodeList(raw, &out, "jobs", "saved_jobs", "results", "data"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.TransportError{Op: op, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domain.UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    ErrorMessage(respBody),
		}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// decodeList accepts either a bare JSON array or an object holding the array
// under one of keys.
func decodeList[T any](raw json.RawMessage, out *[]T, keys ...string) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		*out = []T{}
		return nil
	}
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
		return nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	for _, key := range keys {
		if inner, ok := obj[key]; ok {
			return decodeList(inner, out)
		}
	}
	*out = []T{}
	return nil
}

// ErrorMessage extracts a human message from an error body. It understands
// {"error": ...}, {"detail": ...} and {"message": ...} and falls back to a
// generic message for anything else.
func ErrorMessage(body []byte) string {
	var payload struct {
		Error   json.RawMessage `json:"error"`
		Detail  json.RawMessage `json:"detail"`
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.GenericFailureMessage
	}

	for _, field := range []json.RawMessage{payload.Error, payload.Detail, payload.Message} {
		if msg := messageText(field); msg != "" {
			return msg
		}
	}
	return domain.GenericFailureMessage
}

func messageText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	// Validation errors arrive as [{"msg": "..."}].
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
