// Package state holds the client's shared workflow state. All mutation goes
// through Reduce; Store serializes dispatches and notifies subscribers.
package state

import (
	"github.com/cloo-solutions/jobfinder/internal/domain"
)

// Phase is the search lifecycle position.
type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseSearching    Phase = "searching"
	PhaseResultsReady Phase = "results_ready"
	PhaseResultsEmpty Phase = "results_empty"
	PhaseFailed       Phase = "failed"
)

// State is an immutable snapshot. Reduce never modifies the slices or maps
// of a State it was given.
type State struct {
	Filters     domain.SearchFilters `json:"filters"`
	Phase       Phase                `json:"phase"`
	HasSearched bool                 `json:"has_searched"`
	SearchError string               `json:"search_error,omitempty"`
	SearchSeq   uint64               `json:"-"`

	Results []domain.Job `json:"results"`
	Saved   []domain.Job `json:"saved_jobs"`

	SavePending   map[domain.ID]bool `json:"save_pending"`
	UnsavePending map[domain.ID]bool `json:"unsave_pending"`

	LoggedIn bool `json:"logged_in"`
}

// Initial returns the state before any interaction.
func Initial() State {
	return State{
		Filters:       domain.DefaultFilters(),
		Phase:         PhaseIdle,
		Results:       []domain.Job{},
		Saved:         []domain.Job{},
		SavePending:   map[domain.ID]bool{},
		UnsavePending: map[domain.ID]bool{},
	}
}

func (s State) IsSaved(id domain.ID) bool {
	return domain.IndexOfJob(s.Saved, id) >= 0
}

func (s State) IsSavePending(id domain.ID) bool {
	return s.SavePending[id]
}

func (s State) IsUnsavePending(id domain.ID) bool {
	return s.UnsavePending[id]
}

// Failed reports whether the last search ended in an error rather than no results.
func (s State) Failed() bool {
	return s.Phase == PhaseFailed
}
