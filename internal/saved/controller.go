// Package saved manages the user's bookmarked jobs: loading the saved list
// and saving or unsaving individual jobs.
package saved

import (
	"context"
	"errors"
	"log"

	"github.com/cloo-solutions/jobfinder/internal/domain"
	"github.com/cloo-solutions/jobfinder/internal/notice"
	"github.com/cloo-solutions/jobfinder/internal/state"
	"github.com/cloo-solutions/jobfinder/internal/telemetry"
)

// API is the subset of the backend client the controller needs.
type API interface {
	SaveJob(ctx context.Context, id domain.ID) error
	UnsaveJob(ctx context.Context, id domain.ID) (*domain.UnsaveResult, error)
	SavedJobs(ctx context.Context) ([]domain.Job, error)
}

// Session reports whether a user is logged in.
type Session interface {
	IsLoggedIn() bool
}

type Controller struct {
	api      API
	session  Session
	store    *state.Store
	notifier notice.Notifier
}

func NewController(api API, session Session, store *state.Store, notifier notice.Notifier) *Controller {
	if notifier == nil {
		notifier = notice.LogNotifier{}
	}
	return &Controller{
		api:      api,
		session:  session,
		store:    store,
		notifier: notifier,
	}
}

// FetchSavedJobs replaces the saved list with the backend's. Logged out, it
// clears the list and returns domain.ErrAuthRequired without a request or notice.
func (c *Controller) FetchSavedJobs(ctx context.Context) error {
	if !c.session.IsLoggedIn() {
		_, _ = c.store.Dispatch(state.SavedCleared{})
		return domain.ErrAuthRequired
	}

	jobs, err := c.api.SavedJobs(ctx)
	if err != nil {
		c.fail(ctx, "Failed to load saved jobs", err)
		return err
	}

	_, err = c.store.Dispatch(state.SavedLoaded{Jobs: jobs})
	return err
}

// SaveJob bookmarks job. The save-pending flag for its id is held for the
// duration of the request and released on every path.
func (c *Controller) SaveJob(ctx context.Context, job domain.Job) error {
	if job.ID == "" {
		return domain.ErrMissingJobID
	}
	if !c.session.IsLoggedIn() {
		c.notifier.Notify(notice.AuthRequired("save jobs"))
		return domain.ErrAuthRequired
	}

	if _, err := c.store.Dispatch(state.SaveStarted{ID: job.ID}); err != nil {
		c.pending(err, "This job is already being saved.")
		return err
	}
	defer c.store.Dispatch(state.SaveSettled{ID: job.ID})

	ctx, span := telemetry.StartSpan(ctx, "saved.save", telemetry.SpanAttributes{
		JobID:     job.ID.String(),
		Operation: "save",
	})
	defer span.End()
	telemetry.AddBreadcrumb(ctx, "saved", "save job "+job.ID.String())

	if err := c.api.SaveJob(ctx, job.ID); err != nil {
		c.failSpan(span, "Failed to save job", err)
		return err
	}

	if _, err := c.store.Dispatch(state.SaveSucceeded{Job: job}); err != nil {
		return err
	}
	c.notifier.Notify(notice.Notice{Kind: notice.KindSuccess, Title: "Job saved", Message: jobLabel(job)})
	return nil
}

// UnsaveJob removes job from the saved list. Unsaving a job that is not in
// the list still calls the backend and leaves the list as it is.
func (c *Controller) UnsaveJob(ctx context.Context, job domain.Job) error {
	if job.ID == "" {
		return domain.ErrMissingJobID
	}
	if !c.session.IsLoggedIn() {
		c.notifier.Notify(notice.AuthRequired("manage saved jobs"))
		return domain.ErrAuthRequired
	}

	if _, err := c.store.Dispatch(state.UnsaveStarted{ID: job.ID}); err != nil {
		c.pending(err, "This job is already being removed.")
		return err
	}
	defer c.store.Dispatch(state.UnsaveSettled{ID: job.ID})

	ctx, span := telemetry.StartSpan(ctx, "saved.unsave", telemetry.SpanAttributes{
		JobID:     job.ID.String(),
		Operation: "unsave",
	})
	defer span.End()
	telemetry.AddBreadcrumb(ctx, "saved", "unsave job "+job.ID.String())

	if _, err := c.api.UnsaveJob(ctx, job.ID); err != nil {
		c.failSpan(span, "Failed to remove saved job", err)
		return err
	}

	if _, err := c.store.Dispatch(state.UnsaveSucceeded{ID: job.ID}); err != nil {
		return err
	}
	c.notifier.Notify(notice.Notice{Kind: notice.KindSuccess, Title: "Job removed from saved jobs", Message: jobLabel(job)})
	return nil
}

// jobLabel names job in a notice, falling back to its id.
func jobLabel(job domain.Job) string {
	if job.Title != "" {
		return job.Title
	}
	return "job " + job.ID.String()
}

func (c *Controller) pending(err error, message string) {
	if errors.Is(err, domain.ErrOperationPending) {
		c.notifier.Notify(notice.Notice{Kind: notice.KindInfo, Title: "Please wait", Message: message})
	}
}

func (c *Controller) fail(ctx context.Context, title string, err error) {
	log.Printf("saved: %s: %v", title, err)
	var transport *domain.TransportError
	if errors.As(err, &transport) {
		telemetry.CaptureError(ctx, err)
	}
	c.notifier.Notify(notice.Notice{Kind: notice.KindError, Title: title, Message: domain.UserMessage(err)})
}

func (c *Controller) failSpan(span *telemetry.Span, title string, err error) {
	log.Printf("saved: %s: %v", title, err)
	var transport *domain.TransportError
	if errors.As(err, &transport) {
		span.SetError(err)
	}
	c.notifier.Notify(notice.Notice{Kind: notice.KindError, Title: title, Message: domain.UserMessage(err)})
}
