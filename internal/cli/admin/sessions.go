package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/cloo-solutions/jobfinder/internal/database"
	"github.com/cloo-solutions/jobfinder/internal/session"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

const envDatabaseURL = "JOBFINDER_DATABASE_URL"

// MigrateCmd applies the shared session table schema.
func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply session store migrations",
		Long:  "Create or upgrade the client_sessions table used by the postgres session store",
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := databaseURL(cmd)
			if err != nil {
				return err
			}
			return database.Migrate(url)
		},
	}

	cmd.Flags().String("database-url", "", "PostgreSQL URL (overrides "+envDatabaseURL+")")

	return cmd
}

// SessionsCmd manages sessions kept in the shared postgres store.
func SessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage shared client sessions",
		Long:  "List and revoke client sessions stored by the postgres session store",
	}

	cmd.PersistentFlags().String("database-url", "", "PostgreSQL URL (overrides "+envDatabaseURL+")")

	cmd.AddCommand(SessionsListCmd())
	cmd.AddCommand(SessionsRevokeCmd())

	return cmd
}

func SessionsListCmd() *cobra.Command {
	var (
		limit  int
		cursor string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List session profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, _ := cmd.Flags().GetString("output")
			return runSessionsList(cmd, limit, cursor, outputFormat)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of profiles")
	cmd.Flags().StringVar(&cursor, "cursor", "", "Pagination cursor from a previous page")
	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")

	return cmd
}

func runSessionsList(cmd *cobra.Command, limit int, cursor, outputFormat string) error {
	ctx := cmd.Context()

	pool, err := getDBPool(ctx, cmd)
	if err != nil {
		return err
	}
	defer pool.Close()

	page, err := session.ListProfiles(ctx, pool, limit, cursor)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		data, err := json.MarshalIndent(page, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal profiles: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if len(page.Items) == 0 {
		fmt.Fprintln(out, "No sessions found")
		return nil
	}

	fmt.Fprintf(out, "%-20s %-10s %-30s %s\n", "PROFILE", "STATUS", "EMAIL", "UPDATED")
	for _, p := range page.Items {
		status := "logged out"
		if p.LoggedIn {
			status = "logged in"
		}
		fmt.Fprintf(out, "%-20s %-10s %-30s %s\n", p.Profile, status, p.Email, p.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	if page.HasMore {
		fmt.Fprintf(out, "\nMore profiles available. Next page: --cursor %s\n", page.Cursor)
	}
	return nil
}

func SessionsRevokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <profile>",
		Short: "Revoke a profile's session",
		Long:  "Delete the stored token and user of a profile. Clients sharing the store log out on their next resync.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			pool, err := getDBPool(ctx, cmd)
			if err != nil {
				return err
			}
			defer pool.Close()

			n, err := session.RevokeProfile(ctx, pool, args[0])
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No session stored for profile %s\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session revoked for profile %s\n", args[0])
			return nil
		},
	}
}

func databaseURL(cmd *cobra.Command) (string, error) {
	if url, _ := cmd.Flags().GetString("database-url"); url != "" {
		return url, nil
	}
	if url := os.Getenv(envDatabaseURL); url != "" {
		return url, nil
	}
	return "", fmt.Errorf("%s not set (or pass --database-url)", envDatabaseURL)
}

func getDBPool(ctx context.Context, cmd *cobra.Command) (*pgxpool.Pool, error) {
	url, err := databaseURL(cmd)
	if err != nil {
		return nil, err
	}
	return database.NewPool(ctx, database.Config{URL: url, ApplicationName: "jobfinderd-admin", MaxConns: 2})
}
