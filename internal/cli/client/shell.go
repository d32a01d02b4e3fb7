package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/cloo-solutions/jobfinder/internal/state"
	"github.com/cloo-solutions/jobfinder/internal/view"
	"github.com/spf13/cobra"
)

const shellPrompt = "jobfinder> "

const shellHelp = `Commands:
  set <field> <value>   Set a filter (keywords, role, location, job_type,
                        experience_level, min_salary, remote_only,
                        recent_only, categories)
  reset                 Restore default filters
  filters               Show the active filters
  preset <name>         Load filters from a preset
  search                Run a search with the active filters
  results               Show the last results
  save <job>...         Save jobs; #n refers to the n-th result
  unsave <job>...       Remove saved jobs; #n refers to the n-th result
  saved                 Reload and show saved jobs
  whoami                Show the session
  logout                Log out
  help                  Show this help
  quit                  Leave the shell`

func ShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive search session",
		Long:  "Start an interactive session that keeps filters, results and saved jobs between commands.\n\n" + shellHelp,
		RunE: withApp(func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			return runShell(ctx, app, cmd.InOrStdin())
		}),
	}
}

func runShell(ctx context.Context, app *App, in io.Reader) error {
	return newShell(app).run(ctx, in)
}

// shell keeps one App across commands. It follows the workflow store so a
// login state changed by the background sync is reported at the next prompt.
type shell struct {
	app *App

	mu       sync.Mutex
	version  uint64
	loggedIn bool
	shown    bool
}

func newShell(app *App) *shell {
	loggedIn := app.State.State().LoggedIn
	return &shell{app: app, loggedIn: loggedIn, shown: loggedIn}
}

func (sh *shell) run(ctx context.Context, in io.Reader) error {
	app := sh.app
	unsubscribe := app.State.Subscribe(sh.observe)
	defer unsubscribe()

	stopSync := app.StartSync(ctx)
	defer stopSync()

	app.LoadSaved(ctx)

	scanner := bufio.NewScanner(in)
	fmt.Fprint(app.Out, shellPrompt)
	for scanner.Scan() {
		quit, err := sh.exec(ctx, scanner.Text())
		if err != nil && !IsReported(err) {
			fmt.Fprintf(app.Err, "error: %v\n", err)
		}
		if quit {
			return nil
		}
		sh.announce()
		fmt.Fprint(app.Out, shellPrompt)
	}
	fmt.Fprintln(app.Out)
	return scanner.Err()
}

// observe records the newest login state. It runs on the dispatching
// goroutine, which is the sync worker for changes made elsewhere.
func (sh *shell) observe(version uint64, s state.State) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if version < sh.version {
		return
	}
	sh.version = version
	sh.loggedIn = s.LoggedIn
}

// observed returns the login state last seen by observe.
func (sh *shell) observed() bool {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.loggedIn
}

// announce prints the session when its login state changed since it was
// last shown.
func (sh *shell) announce() {
	sh.mu.Lock()
	changed := sh.loggedIn != sh.shown
	sh.shown = sh.loggedIn
	sh.mu.Unlock()

	if changed {
		view.Session(sh.app.Out, sh.app.Session.Session())
	}
}

// acknowledge marks the current login state as shown by a command.
func (sh *shell) acknowledge() {
	sh.mu.Lock()
	sh.shown = sh.loggedIn
	sh.mu.Unlock()
}

func (sh *shell) exec(ctx context.Context, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	app := sh.app
	name, args := fields[0], fields[1:]

	switch name {
	case "quit", "exit":
		return true, nil

	case "help":
		fmt.Fprintln(app.Out, shellHelp)

	case "set":
		if len(args) < 1 {
			return false, fmt.Errorf("usage: set <field> <value>")
		}
		field := strings.ReplaceAll(args[0], "-", "_")
		if err := app.Search.UpdateFilter(field, strings.Join(args[1:], " ")); err != nil {
			return false, err
		}
		view.Filters(app.Out, app.State.State().Filters)

	case "reset":
		if err := app.Search.ResetFilters(); err != nil {
			return false, err
		}
		view.Filters(app.Out, app.State.State().Filters)

	case "filters":
		view.Filters(app.Out, app.State.State().Filters)

	case "preset":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: preset <name>")
		}
		path, err := defaultPresetPath()
		if err != nil {
			return false, err
		}
		if err := app.Search.ApplyPreset(path, args[0]); err != nil {
			return false, err
		}
		view.Filters(app.Out, app.State.State().Filters)

	case "search":
		err := app.Search.Submit(ctx)
		view.Results(app.Out, app.State.State())
		if errors.Is(err, state.ErrStaleSearch) {
			return false, nil
		}
		return false, reported(err)

	case "results":
		view.Results(app.Out, app.State.State())

	case "save", "unsave":
		if len(args) == 0 {
			return false, fmt.Errorf("usage: %s <job>...", name)
		}
		ids, err := sh.resolve(args)
		if err != nil {
			return false, err
		}
		op := app.Saved.SaveJob
		if name == "unsave" {
			op = app.Saved.UnsaveJob
		}
		return false, runBatch(ctx, app, ids, op)

	case "saved":
		return false, runSaved(ctx, app)

	case "whoami":
		view.Session(app.Out, app.Session.Session())
		sh.acknowledge()

	case "logout":
		err := runAuthLogout(ctx, app)
		sh.acknowledge()
		return false, err

	default:
		return false, fmt.Errorf("unknown command %q (try help)", name)
	}
	return false, nil
}

// resolve turns "#n" references into the id of the n-th result.
func (sh *shell) resolve(args []string) ([]string, error) {
	results := sh.app.State.State().Results
	ids := make([]string, 0, len(args))
	for _, arg := range args {
		ref, ok := strings.CutPrefix(arg, "#")
		if !ok {
			ids = append(ids, arg)
			continue
		}
		n, err := strconv.Atoi(ref)
		if err != nil || n < 1 || n > len(results) {
			return nil, fmt.Errorf("no result %s", arg)
		}
		ids = append(ids, results[n-1].ID.String())
	}
	return ids, nil
}

