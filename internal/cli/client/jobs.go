package client

import (
	"context"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/cloo-solutions/jobfinder/internal/search"
	"github.com/cloo-solutions/jobfinder/internal/view"
	"github.com/spf13/cobra"
)

// JobsCmd lists postings with a plain query string instead of the search form.
func JobsCmd() *cobra.Command {
	var (
		keywords string
		location string
		limit    int
		query    map[string]string
	)

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List job postings",
		Long:  "List job postings using query parameters passed straight to the backend",
		RunE: withApp(func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			q := url.Values{}
			for k, v := range query {
				q.Set(k, v)
			}
			if keywords != "" {
				q.Set("keywords", keywords)
			}
			if location != "" {
				q.Set("location", location)
			}
			if limit > 0 {
				q.Set("limit", strconv.Itoa(limit))
			}
			return runJobs(ctx, app, q)
		}),
	}

	cmd.Flags().StringVarP(&keywords, "keywords", "k", "", "Keywords")
	cmd.Flags().StringVarP(&location, "location", "l", "", "Location")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of jobs")
	cmd.Flags().StringToStringVarP(&query, "query", "q", nil, "Extra query parameters (key=value)")

	return cmd
}

func runJobs(ctx context.Context, app *App, q url.Values) error {
	jobs, err := app.API.ListJobs(ctx, q)
	if err != nil {
		return app.fail("Failed to load jobs", err)
	}

	app.LoadSaved(ctx)
	s := app.State.State()
	jobs = search.Enrich(jobs, q.Get("keywords"), time.Now())
	for i := range jobs {
		jobs[i].Saved = s.IsSaved(jobs[i].ID)
	}

	return app.Render(jobs, func(w io.Writer) { view.Jobs(w, jobs, s) })
}

func CategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List job categories",
		RunE: withApp(func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			categories, err := app.API.Categories(ctx)
			if err != nil {
				return app.fail("Failed to load categories", err)
			}
			return app.Render(categories, func(w io.Writer) { view.Categories(w, categories) })
		}),
	}
}
