package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cloo-solutions/jobfinder/internal/api/middleware"
)

// forwardedHeaders are the only request headers passed to the backend.
var forwardedHeaders = []string{"Authorization", "Content-Type", "Accept", middleware.RequestIDHeader}

// Upstream is the external job-search backend.
type Upstream struct {
	base   *url.URL
	client *http.Client
}

// UpstreamResponse is a fully read backend reply.
type UpstreamResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// OK reports a 2xx status.
func (r *UpstreamResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func NewUpstream(baseURL string, timeout time.Duration) (*Upstream, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend url must be absolute: %q", baseURL)
	}
	return &Upstream{
		base:   u,
		client: &http.Client{Timeout: timeout},
	}, nil
}

// URL resolves a backend path.
func (u *Upstream) URL(path string) string {
	return u.base.String() + path
}

// Client returns the HTTP client used for backend calls.
func (u *Upstream) Client() *http.Client {
	return u.client
}

// Forward sends one request to the backend and reads the whole reply. Only
// forwardedHeaders are copied from in. An error means no response was received.
func (u *Upstream) Forward(ctx context.Context, method, path, rawQuery string, in http.Header, body []byte) (*UpstreamResponse, error) {
	target := u.URL(path)
	if rawQuery != "" {
		target += "?" + rawQuery
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}

	for _, name := range forwardedHeaders {
		if v := in.Get(name); v != "" {
			req.Header.Set(name, v)
		}
	}
	if req.Header.Get(middleware.RequestIDHeader) == "" {
		if id := middleware.GetRequestID(ctx); id != "" {
			req.Header.Set(middleware.RequestIDHeader, id)
		}
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", method, path, err)
	}

	return &UpstreamResponse{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        data,
	}, nil
}
