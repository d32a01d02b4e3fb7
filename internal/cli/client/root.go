package client

import (
	"context"

	"github.com/cloo-solutions/jobfinder/internal/cli"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the jobfinder command tree.
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "jobfinder",
		Short: "Search job postings and keep a list of saved jobs",
		Long: `jobfinder searches job postings through the jobfinder proxy and manages your saved jobs.

Environment variables:
  JOBFINDER_API_URL        Proxy base URL (default: http://localhost:3000)
  JOBFINDER_SESSION_STORE  Session store: file, memory, sqlite, redis, postgres (default: file)
  JOBFINDER_SESSION_PATH   Session file or database path for file and sqlite stores
  JOBFINDER_PROFILE        Session profile name (default: default)
  JOBFINDER_REDIS_URL      Redis URL for the redis store
  JOBFINDER_DATABASE_URL   PostgreSQL URL for the postgres store
  JOBFINDER_SYNC_INTERVAL  Session resync interval in the shell (default: 2s)`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().Bool("output", false, "Output as JSON")
	root.PersistentFlags().String("api-url", "", "Proxy base URL (overrides env)")
	root.PersistentFlags().String("session-store", "", "Session store backend (overrides env)")
	root.PersistentFlags().String("session-path", "", "Session file or database path (overrides env)")
	root.PersistentFlags().String("profile", "", "Session profile (overrides env)")
	cli.AddHelpJSONFlag(root)

	root.AddCommand(AuthCmd())
	root.AddCommand(SearchCmd())
	root.AddCommand(JobsCmd())
	root.AddCommand(CategoriesCmd())
	root.AddCommand(SavedCmd())
	root.AddCommand(SaveCmd())
	root.AddCommand(UnsaveCmd())
	root.AddCommand(PreferencesCmd())
	root.AddCommand(ShellCmd())

	return root
}

// withApp adapts a command body that needs a wired App.
func withApp(run func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := newAppFunc(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return run(ctx, app, cmd, args)
	}
}
