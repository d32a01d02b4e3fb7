package session

import (
	"context"
	"fmt"
	"time"

	"github.com/cloo-solutions/jobfinder/internal/pagination"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProfileSummary describes one profile in the shared session table.
type ProfileSummary struct {
	Profile   string    `json:"profile"`
	LoggedIn  bool      `json:"logged_in"`
	Email     string    `json:"email,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListProfiles pages through profiles in the client_sessions table, most
// recently updated first.
func ListProfiles(ctx context.Context, pool *pgxpool.Pool, limit int, cursor string) (*pagination.PageResult[ProfileSummary], error) {
	if limit <= 0 {
		limit = 20
	}

	after, err := pagination.DecodeCursor(cursor)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT profile,
		       bool_or(key = $1 AND value <> '') AS logged_in,
		       COALESCE(MAX(CASE WHEN key = $2 AND value <> '' THEN value::jsonb->>'email' END), '') AS email,
		       MAX(updated_at) AS updated_at
		FROM client_sessions
		GROUP BY profile`
	args := []any{KeyToken, KeyUser}

	if after != nil {
		query += ` HAVING (MAX(updated_at), profile) < ($3, $4)`
		args = append(args, after.Timestamp, after.LastID)
	}
	query += fmt.Sprintf(` ORDER BY updated_at DESC, profile DESC LIMIT %d`, limit+1)

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list session profiles: %w", err)
	}
	defer rows.Close()

	var out []ProfileSummary
	for rows.Next() {
		var p ProfileSummary
		if err := rows.Scan(&p.Profile, &p.LoggedIn, &p.Email, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session profile: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list session profiles: %w", err)
	}

	page := pagination.Page(out, limit,
		func(p ProfileSummary) string { return p.Profile },
		func(p ProfileSummary) time.Time { return p.UpdatedAt },
	)
	return &page, nil
}

// RevokeProfile deletes every entry of profile, logging that client out on
// its next resync. It returns the number of entries removed.
func RevokeProfile(ctx context.Context, pool *pgxpool.Pool, profile string) (int64, error) {
	tag, err := pool.Exec(ctx, `DELETE FROM client_sessions WHERE profile = $1`, profile)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke profile %s: %w", profile, err)
	}
	return tag.RowsAffected(), nil
}
