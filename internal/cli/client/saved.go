package client

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/cloo-solutions/jobfinder/internal/domain"
	"github.com/cloo-solutions/jobfinder/internal/view"
	"github.com/spf13/cobra"
)

func SavedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "saved",
		Short: "Show your saved jobs",
		RunE: withApp(func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			return runSaved(ctx, app)
		}),
	}
}

func SaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save <job-id>...",
		Short: "Save jobs",
		Long:  "Save one or more jobs. Several ids are saved concurrently.",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			app.LoadSaved(ctx)
			return runBatch(ctx, app, args, app.Saved.SaveJob)
		}),
	}
}

func UnsaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "unsave <job-id>...",
		Aliases: []string{"remove"},
		Short:   "Remove jobs from your saved list",
		Args:    cobra.MinimumNArgs(1),
		RunE: withApp(func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			app.LoadSaved(ctx)
			return runBatch(ctx, app, args, app.Saved.UnsaveJob)
		}),
	}
}

func runSaved(ctx context.Context, app *App) error {
	err := app.Saved.FetchSavedJobs(ctx)
	s := app.State.State()
	if renderErr := app.Render(s.Saved, func(w io.Writer) { view.Saved(w, s) }); renderErr != nil {
		return renderErr
	}
	if errors.Is(err, domain.ErrAuthRequired) {
		return nil
	}
	return reported(err)
}

// batchOutcome is the --output form of one id in a batch.
type batchOutcome struct {
	ID    domain.ID `json:"id"`
	Title string    `json:"title,omitempty"`
	OK    bool      `json:"ok"`
	Error string    `json:"error,omitempty"`
}

// runBatch runs op for every id at once. Each outcome is announced by the
// controller; the returned error joins the failures.
func runBatch(ctx context.Context, app *App, ids []string, op func(context.Context, domain.Job) error) error {
	jobs := jobsForIDs(app, ids)

	errs := make([]error, len(jobs))
	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func(i int, job domain.Job) {
			defer wg.Done()
			errs[i] = op(ctx, job)
		}(i, job)
	}
	wg.Wait()

	if app.JSON {
		outcomes := make([]batchOutcome, len(jobs))
		for i, job := range jobs {
			outcomes[i] = batchOutcome{ID: job.ID, Title: job.Title, OK: errs[i] == nil}
			if errs[i] != nil {
				outcomes[i].Error = domain.UserMessage(errs[i])
			}
		}
		if err := writeJSON(app.Out, outcomes); err != nil {
			return err
		}
	}
	return reported(errors.Join(errs...))
}

// jobsForIDs resolves ids against the current results and saved list so
// notices can name the job; unknown ids become bare jobs.
func jobsForIDs(app *App, ids []string) []domain.Job {
	s := app.State.State()
	jobs := make([]domain.Job, 0, len(ids))
	for _, raw := range ids {
		id := domain.ID(raw)
		switch {
		case domain.IndexOfJob(s.Results, id) >= 0:
			jobs = append(jobs, s.Results[domain.IndexOfJob(s.Results, id)])
		case domain.IndexOfJob(s.Saved, id) >= 0:
			jobs = append(jobs, s.Saved[domain.IndexOfJob(s.Saved, id)])
		default:
			jobs = append(jobs, domain.Job{ID: id})
		}
	}
	return jobs
}
