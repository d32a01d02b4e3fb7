package middleware

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"strings"
	"time"
)

// accessLogEntry is one line of the proxy access log.
type accessLogEntry struct {
	Timestamp     string `json:"ts"`
	Method        string `json:"method"`
	Path          string `json:"path"`
	Route         string `json:"route,omitempty"`
	Status        int    `json:"status"`
	Bytes         int    `json:"bytes"`
	DurationMS    int64  `json:"duration_ms"`
	RequestID     string `json:"request_id,omitempty"`
	Authenticated bool   `json:"authenticated,omitempty"`
	RemoteAddr    string `json:"remote_addr,omitempty"`
	UserAgent     string `json:"user_agent,omitempty"`
}

// AccessLog writes one JSON line per request. Only the presence of a bearer
// token is logged, never its value.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		line, err := json.Marshal(accessLogEntry{
			Timestamp:     start.UTC().Format(time.RFC3339Nano),
			Method:        r.Method,
			Path:          r.URL.Path,
			Route:         routePattern(r),
			Status:        rec.Status(),
			Bytes:         rec.bytes,
			DurationMS:    time.Since(start).Milliseconds(),
			RequestID:     GetRequestID(r.Context()),
			Authenticated: presentsBearer(r),
			RemoteAddr:    clientIP(r),
			UserAgent:     r.UserAgent(),
		})
		if err != nil {
			log.Printf("access log: %v", err)
			return
		}
		log.Println(string(line))
	})
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
