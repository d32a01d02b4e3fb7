package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/cloo-solutions/jobfinder/internal/apiclient"
	"github.com/cloo-solutions/jobfinder/internal/config"
	"github.com/cloo-solutions/jobfinder/internal/domain"
	"github.com/cloo-solutions/jobfinder/internal/fetch"
	"github.com/cloo-solutions/jobfinder/internal/notice"
	"github.com/cloo-solutions/jobfinder/internal/saved"
	"github.com/cloo-solutions/jobfinder/internal/search"
	"github.com/cloo-solutions/jobfinder/internal/session"
	"github.com/cloo-solutions/jobfinder/internal/state"
	"github.com/cloo-solutions/jobfinder/internal/telemetry"
	"github.com/spf13/cobra"
)

// App is the client wired for one invocation: session, API client, workflow
// state and the two controllers.
type App struct {
	Config   *config.Client
	Session  *session.Manager
	API      *apiclient.Client
	State    *state.Store
	Search   *search.Controller
	Saved    *saved.Controller
	Notifier notice.Notifier

	Out  io.Writer
	Err  io.Writer
	JSON bool

	closeFns []func()
}

// newAppFunc builds the App for a command. Tests replace it.
var newAppFunc = NewApp

// NewApp builds an App from flag → env → default configuration.
func NewApp(cmd *cobra.Command) (*App, error) {
	cfg, err := config.LoadClient()
	if err != nil {
		return nil, err
	}
	applyGlobalFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := session.Open(ctx, session.Options{
		Backend:     cfg.SessionStore,
		Path:        cfg.SessionPath,
		Profile:     cfg.Profile,
		RedisURL:    cfg.RedisURL,
		DatabaseURL: cfg.DatabaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	app, err := Build(ctx, cfg, store, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		session.Close(store)
		return nil, err
	}
	app.JSON = outputJSON(cmd)

	if cfg.SentryDSN != "" {
		shutdown, err := telemetry.Init(telemetry.Config{DSN: cfg.SentryDSN, Component: "cli"})
		if err == nil {
			app.closeFns = append(app.closeFns, shutdown)
		}
	}
	return app, nil
}

// Build wires an App over an already opened session store and loads the
// persisted session. The App takes ownership of store.
func Build(ctx context.Context, cfg *config.Client, store session.Store, out, errOut io.Writer) (*App, error) {
	notifier := notice.NewWriter(errOut)

	manager := session.NewManager(store, session.NavigatorFunc(func() {
		fmt.Fprintln(errOut, "Logged out. Run 'jobfinder auth login' to sign in again.")
	}))
	if err := manager.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	api := apiclient.New(cfg.APIURL, fetch.New(manager, nil))

	initial := state.Initial()
	initial.LoggedIn = manager.IsLoggedIn()
	workflow := state.NewStore(initial)

	app := &App{
		Config:   cfg,
		Session:  manager,
		API:      api,
		State:    workflow,
		Search:   search.NewController(api, workflow),
		Saved:    saved.NewController(api, manager, workflow, notifier),
		Notifier: notifier,
		Out:      out,
		Err:      errOut,
	}
	app.closeFns = append(app.closeFns, func() {
		if err := session.Close(store); err != nil {
			log.Printf("session: close store: %v", err)
		}
	})
	return app, nil
}

// Close releases the session store and flushes telemetry.
func (a *App) Close() {
	for i := len(a.closeFns) - 1; i >= 0; i-- {
		a.closeFns[i]()
	}
	a.closeFns = nil
}

// Render writes v as JSON in --output mode and calls text otherwise.
func (a *App) Render(v any, text func(io.Writer)) error {
	if a.JSON {
		return writeJSON(a.Out, v)
	}
	text(a.Out)
	return nil
}

// LoadSaved refreshes the saved list when logged in so results can be marked.
func (a *App) LoadSaved(ctx context.Context) {
	if !a.Session.IsLoggedIn() {
		return
	}
	if err := a.Saved.FetchSavedJobs(ctx); err != nil && !errors.Is(err, domain.ErrAuthRequired) {
		log.Printf("saved: refresh failed: %v", err)
	}
}

// requireLogin raises an auth-required notice when logged out.
func (a *App) requireLogin(action string) error {
	if a.Session.IsLoggedIn() {
		return nil
	}
	a.Notifier.Notify(notice.AuthRequired(action))
	return reported(domain.ErrAuthRequired)
}

// fail raises an error notice and marks err as already shown.
func (a *App) fail(title string, err error) error {
	a.Notifier.Notify(notice.Notice{Kind: notice.KindError, Title: title, Message: domain.UserMessage(err)})
	return reported(err)
}

func applyGlobalFlags(cmd *cobra.Command, cfg *config.Client) {
	flags := cmd.Flags()
	if v, _ := flags.GetString("api-url"); v != "" {
		cfg.APIURL = v
	}
	if v, _ := flags.GetString("session-store"); v != "" {
		cfg.SessionStore = v
	}
	if v, _ := flags.GetString("session-path"); v != "" {
		cfg.SessionPath = v
	}
	if v, _ := flags.GetString("profile"); v != "" {
		cfg.Profile = v
	}
}

func outputJSON(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("output")
	return v
}

// defaultPresetPath is presets.yaml in the user's jobfinder config directory.
func defaultPresetPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(dir, "jobfinder", "presets.yaml"), nil
}
