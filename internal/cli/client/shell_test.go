package client

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/cloo-solutions/jobfinder/internal/config"
	"github.com/cloo-solutions/jobfinder/internal/domain"
	"github.com/cloo-solutions/jobfinder/internal/session"
	"github.com/cloo-solutions/jobfinder/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShell_SearchSaveAndList(t *testing.T) {
	h := newHarness(t)
	h.login()

	script := strings.Join([]string{
		"set keywords go",
		"set remote-only true",
		"search",
		"save #1",
		"saved",
		"quit",
	}, "\n")

	res := h.run(script, "shell")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Filters: keywords=go min_salary=100k remote")
	assert.Contains(t, res.stdout, "Found 2 jobs")
	assert.Contains(t, res.stdout, "1 saved job:")
	assert.Contains(t, res.stderr, "✓ Job saved: Go Engineer")

	h.proxy.mu.Lock()
	defer h.proxy.mu.Unlock()
	require.Len(t, h.proxy.saved, 1)
	assert.Equal(t, domain.ID("1"), h.proxy.saved[0].ID)
}

func TestShell_ReportsErrorsAndContinues(t *testing.T) {
	h := newHarness(t)

	script := strings.Join([]string{
		"frobnicate",
		"set min_salary -1",
		"save #3",
		"filters",
	}, "\n")

	res := h.run(script, "shell")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, `unknown command "frobnicate"`)
	assert.Contains(t, res.stderr, "no result #3")
	assert.Contains(t, res.stdout, "Filters: min_salary=100k")
}

func TestShell_ResetAndLogout(t *testing.T) {
	h := newHarness(t)
	h.login()

	script := strings.Join([]string{
		"set location Berlin",
		"reset",
		"whoami",
		"logout",
		"whoami",
		"save 1",
		"exit",
	}, "\n")

	res := h.run(script, "shell")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Filters: location=Berlin min_salary=100k")
	assert.Contains(t, res.stdout, "Logged in as Ada Lovelace")
	assert.Contains(t, res.stdout, "Not logged in")
	assert.Contains(t, res.stderr, "Please log in to save jobs.")
	assert.Zero(t, h.proxy.called("POST /api/jobs/save"))
}

func TestShell_AnnouncesLogoutElsewhere(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.login()
	app := buildTestApp(t, h)
	sh := newShell(app)

	in, feed := io.Pipe()
	done := make(chan error, 1)
	go func() { done <- sh.run(ctx, in) }()

	_, err := io.WriteString(feed, "filters\n")
	require.NoError(t, err)

	other := session.NewManager(h.store, nil)
	require.NoError(t, other.Load(ctx))
	require.NoError(t, other.Logout(ctx))
	require.Eventually(t, func() bool { return !sh.observed() }, 2*time.Second, 10*time.Millisecond)

	_, err = io.WriteString(feed, "filters\nquit\n")
	require.NoError(t, err)
	require.NoError(t, <-done)
	feed.Close()

	out := app.Out.(*bytes.Buffer).String()
	assert.Equal(t, 1, strings.Count(out, "Not logged in"))
	assert.Contains(t, app.Err.(*bytes.Buffer).String(), "Session ended: You were logged out elsewhere.")
}

func TestShell_OwnLogoutIsNotAnnouncedTwice(t *testing.T) {
	h := newHarness(t)
	h.login()

	res := h.run("logout\nfilters\nquit\n", "shell")
	require.NoError(t, res.err)
	assert.NotContains(t, res.stdout, "Not logged in")
	assert.Contains(t, res.stderr, "Logged out.")
}

func TestShellObserveIgnoresOlderVersions(t *testing.T) {
	h := newHarness(t)
	app := buildTestApp(t, h)
	sh := newShell(app)

	sh.observe(3, state.State{LoggedIn: true})
	sh.observe(2, state.State{LoggedIn: false})
	assert.True(t, sh.observed())
}

func TestShellResolve(t *testing.T) {
	h := newHarness(t)
	app := buildTestApp(t, h)
	sh := &shell{app: app}

	require.NoError(t, app.Search.UpdateFilter(domain.FieldKeywords, "go"))
	require.NoError(t, app.Search.Submit(context.Background()))

	ids, err := sh.resolve([]string{"#2", "42"})
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "42"}, ids)

	_, err = sh.resolve([]string{"#0"})
	assert.Error(t, err)
	_, err = sh.resolve([]string{"#x"})
	assert.Error(t, err)
}

func TestStartSync_PicksUpLogoutElsewhere(t *testing.T) {
	h := newHarness(t)
	h.login()
	app := buildTestApp(t, h)
	require.True(t, app.State.State().LoggedIn)

	stop := app.StartSync(context.Background())
	defer stop()

	other := session.NewManager(h.store, nil)
	require.NoError(t, other.Load(context.Background()))
	require.NoError(t, other.Logout(context.Background()))

	require.Eventually(t, func() bool {
		return !app.State.State().LoggedIn
	}, 2*time.Second, 10*time.Millisecond)
	assert.False(t, app.Session.IsLoggedIn())
}

func TestStartSync_PicksUpLoginElsewhere(t *testing.T) {
	h := newHarness(t)
	h.proxy.saved = []domain.Job{{ID: "9", Title: "Saved Elsewhere"}}
	app := buildTestApp(t, h)
	require.False(t, app.State.State().LoggedIn)

	stop := app.StartSync(context.Background())
	defer stop()

	h.login()

	require.Eventually(t, func() bool {
		s := app.State.State()
		return s.LoggedIn && s.IsSaved("9")
	}, 2*time.Second, 10*time.Millisecond)
}

func buildTestApp(t *testing.T, h *harness) *App {
	t.Helper()
	cfg := &config.Client{
		APIURL:       h.url,
		SessionStore: "memory",
		Profile:      "default",
		SyncInterval: 10 * time.Millisecond,
	}
	var out, errOut bytes.Buffer
	app, err := Build(context.Background(), cfg, h.store, &out, &errOut)
	require.NoError(t, err)
	t.Cleanup(app.Close)
	return app
}
