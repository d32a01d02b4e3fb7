//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

const backendToken = "backend-token"

// E2ETestEnv holds the built binaries, a fake job-search backend and a
// running jobfinderd in front of it.
type E2ETestEnv struct {
	T           *testing.T
	Ctx         context.Context
	Backend     *FakeBackend
	BackendSrv  *httptest.Server
	ProxyURL    string
	ProxyCmd    *exec.Cmd
	BinaryDir   string
	SessionPath string
	HTTPClient  *http.Client
}

// SetupE2EEnv builds both binaries and starts the proxy against a fake backend
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	backend := NewFakeBackend()
	backendSrv := httptest.NewServer(backend)

	env := &E2ETestEnv{
		T:           t,
		Ctx:         ctx,
		Backend:     backend,
		BackendSrv:  backendSrv,
		SessionPath: filepath.Join(t.TempDir(), "session.json"),
		HTTPClient:  &http.Client{Timeout: 30 * time.Second},
	}
	env.BuildBinaries()

	port, err := getFreePort()
	if err != nil {
		env.Cleanup()
		t.Fatalf("failed to get free port: %v", err)
	}

	cmd := exec.Command(filepath.Join(env.BinaryDir, "jobfinderd"), "serve",
		"--port", fmt.Sprintf("%d", port),
		"--backend-url", backendSrv.URL,
	)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		env.Cleanup()
		t.Fatalf("failed to start jobfinderd: %v", err)
	}
	env.ProxyCmd = cmd
	env.ProxyURL = fmt.Sprintf("http://localhost:%d", port)

	waitForServer(t, env.ProxyURL, 10*time.Second)
	return env
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	if e.ProxyCmd != nil && e.ProxyCmd.Process != nil {
		_ = e.ProxyCmd.Process.Signal(os.Interrupt)
		done := make(chan struct{})
		go func() {
			_ = e.ProxyCmd.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(10 * time.Second):
			_ = e.ProxyCmd.Process.Kill()
		}
	}
	if e.BackendSrv != nil {
		e.BackendSrv.Close()
	}
	if e.BinaryDir != "" {
		os.RemoveAll(e.BinaryDir)
	}
}

// BuildBinaries builds the jobfinder and jobfinderd binaries
func (e *E2ETestEnv) BuildBinaries() {
	tmpDir, err := os.MkdirTemp("", "jobfinder-e2e-*")
	if err != nil {
		e.T.Fatalf("failed to create temp dir: %v", err)
	}
	e.BinaryDir = tmpDir

	for _, name := range []string{"jobfinderd", "jobfinder"} {
		cmd := exec.Command("go", "build", "-o", filepath.Join(tmpDir, name), "./cmd/"+name)
		cmd.Dir = "../.."
		if out, err := cmd.CombinedOutput(); err != nil {
			e.T.Fatalf("failed to build %s: %v\n%s", name, err, out)
		}
	}
}

// RunJobfinder runs the jobfinder CLI against the proxy with a file session
func (e *E2ETestEnv) RunJobfinder(args ...string) (string, error) {
	return e.RunJobfinderWithInput("", args...)
}

// RunJobfinderWithInput runs the jobfinder CLI with stdin input
func (e *E2ETestEnv) RunJobfinderWithInput(input string, args ...string) (string, error) {
	cmd := exec.Command(filepath.Join(e.BinaryDir, "jobfinder"), args...)
	cmd.Dir = e.T.TempDir()
	cmd.Stdin = strings.NewReader(input)
	cmd.Env = append(os.Environ(),
		"JOBFINDER_API_URL="+e.ProxyURL,
		"JOBFINDER_SESSION_STORE=file",
		"JOBFINDER_SESSION_PATH="+e.SessionPath,
		"JOBFINDER_SYNC_INTERVAL=100ms",
	)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// Do sends a request straight to the proxy
func (e *E2ETestEnv) Do(method, path string, body any, token string) (*http.Response, []byte, error) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, nil, err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(e.Ctx, method, e.ProxyURL+path, reader)
	if err != nil {
		return nil, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, nil, err
	}
	return resp, buf.Bytes(), nil
}

// FakeBackend imitates the job-search backend behind the proxy
type FakeBackend struct {
	mu    sync.Mutex
	mux   *http.ServeMux
	saved map[string]map[string]any
	jobs  []map[string]any
}

func NewFakeBackend() *FakeBackend {
	b := &FakeBackend{
		saved: map[string]map[string]any{},
		jobs: []map[string]any{
			{"id": 101, "title": "Senior Go Engineer", "company": "Acme", "location": "Remote", "description": "Go and PostgreSQL", "job_type": "full-time"},
			{"id": 102, "title": "Frontend Developer", "company": "Globex", "location": "Berlin", "description": "React", "job_type": "contract"},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", b.login)
	mux.HandleFunc("POST /api/auth/register", b.register)
	mux.HandleFunc("GET /api/categories", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "name": "Engineering", "count": 2}})
	})
	mux.HandleFunc("GET /api/jobs", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, b.snapshotJobs())
	})
	mux.HandleFunc("POST /api/search", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"jobs": b.snapshotJobs()})
	})
	mux.HandleFunc("POST /api/jobs/save", b.authorized(b.save))
	mux.HandleFunc("DELETE /api/jobs/save/{id}", b.authorized(b.unsave))
	mux.HandleFunc("GET /api/jobs/saved", b.authorized(b.listSaved))
	b.mux = mux
	return b
}

func (b *FakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mux.ServeHTTP(w, r)
}

func (b *FakeBackend) snapshotJobs() []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]map[string]any{}, b.jobs...)
}

// SavedCount returns how many jobs are bookmarked
func (b *FakeBackend) SavedCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.saved)
}

func (b *FakeBackend) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "password" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": []map[string]string{{"msg": "field required"}}})
		return
	}
	if r.PostForm.Get("password") != "correct-horse" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect email or password"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": backendToken,
		"token_type":   "bearer",
		"user":         map[string]any{"id": 1, "email": r.PostForm.Get("username"), "first_name": "Grace", "last_name": "Hopper"},
	})
}

func (b *FakeBackend) register(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid body"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":           2,
		"email":        req["email"],
		"first_name":   req["first_name"],
		"last_name":    req["last_name"],
		"access_token": backendToken,
	})
}

func (b *FakeBackend) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+backendToken {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
			return
		}
		next(w, r)
	}
}

func (b *FakeBackend) save(w http.ResponseWriter, r *http.Request) {
	var req struct {
		JobID json.Number `json:"job_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid body"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, job := range b.jobs {
		if fmt.Sprint(job["id"]) == req.JobID.String() {
			b.saved[req.JobID.String()] = job
			writeJSON(w, http.StatusOK, map[string]string{"message": "Job saved"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Job not found"})
}

func (b *FakeBackend) unsave(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	b.mu.Lock()
	delete(b.saved, id)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"removed": true, "job_id": id})
}

func (b *FakeBackend) listSaved(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]map[string]any, 0, len(b.saved))
	for _, job := range b.jobs {
		if _, ok := b.saved[fmt.Sprint(job["id"])]; ok {
			out = append(out, job)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func getFreePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

func waitForServer(t *testing.T, url string, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("server at %s did not become ready within %v", url, timeout)
}
