// Package search drives the job search form: filter edits, submission and
// the display fields derived from results.
package search

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cloo-solutions/jobfinder/internal/domain"
	"github.com/cloo-solutions/jobfinder/internal/state"
	"github.com/cloo-solutions/jobfinder/internal/telemetry"
)

// Searcher runs a search against the backend.
type Searcher interface {
	Search(ctx context.Context, payload map[string]any) ([]domain.Job, error)
}

type Controller struct {
	api   Searcher
	store *state.Store
	now   func() time.Time

	seq atomic.Uint64
	// serializes read-modify-write of the filters
	filterMu sync.Mutex
}

func NewController(api Searcher, store *state.Store) *Controller {
	return &Controller{
		api:   api,
		store: store,
		now:   time.Now,
	}
}

// UpdateFilter sets one filter field. It never touches the network.
func (c *Controller) UpdateFilter(field string, value any) error {
	c.filterMu.Lock()
	defer c.filterMu.Unlock()

	next, err := ApplyFilter(c.store.State().Filters, field, value)
	if err != nil {
		return err
	}
	_, err = c.store.Dispatch(state.FilterUpdated{Filters: next})
	return err
}

// SetFilters replaces every filter at once.
func (c *Controller) SetFilters(f domain.SearchFilters) error {
	c.filterMu.Lock()
	defer c.filterMu.Unlock()

	_, err := c.store.Dispatch(state.FilterUpdated{Filters: f})
	return err
}

// ResetFilters restores the defaults.
func (c *Controller) ResetFilters() error {
	return c.SetFilters(domain.DefaultFilters())
}

// Submit runs a search with the current filters. The outcome is recorded in
// the state store; the returned error is informational. A search overtaken by
// a newer one returns state.ErrStaleSearch and leaves the newer one's state alone.
func (c *Controller) Submit(ctx context.Context) error {
	seq := c.seq.Add(1)
	current, err := c.store.Dispatch(state.SearchStarted{Seq: seq})
	if err != nil {
		return err
	}

	filters := current.Filters
	jobs, err := c.api.Search(ctx, Payload(filters))
	if err != nil {
		log.Printf("search: request failed: %v", err)
		var transport *domain.TransportError
		if errors.As(err, &transport) {
			telemetry.CaptureError(ctx, err)
		}
		if _, dispatchErr := c.store.Dispatch(state.SearchFailed{Seq: seq, Err: err}); dispatchErr != nil {
			return dispatchErr
		}
		return err
	}

	enriched := Enrich(jobs, filters.Keywords, c.now())
	if _, err := c.store.Dispatch(state.SearchSucceeded{Seq: seq, Jobs: enriched}); err != nil {
		log.Printf("search: dropping %d results: %v", len(jobs), err)
		return err
	}
	return nil
}
