package state

import "github.com/cloo-solutions/jobfinder/internal/domain"

// Action is a request to change State.
type Action interface {
	actionName() string
}

type FilterUpdated struct {
	Filters domain.SearchFilters
}

// SearchStarted opens search Seq; results for any earlier Seq are dropped.
type SearchStarted struct {
	Seq uint64
}

// SearchSucceeded carries enriched results for search Seq.
type SearchSucceeded struct {
	Seq  uint64
	Jobs []domain.Job
}

type SearchFailed struct {
	Seq uint64
	Err error
}

// SavedLoaded replaces the saved list wholesale.
type SavedLoaded struct {
	Jobs []domain.Job
}

type SavedCleared struct{}

type SaveStarted struct {
	ID domain.ID
}

type SaveSucceeded struct {
	Job domain.Job
}

type SaveSettled struct {
	ID domain.ID
}

type UnsaveStarted struct {
	ID domain.ID
}

type UnsaveSucceeded struct {
	ID domain.ID
}

type UnsaveSettled struct {
	ID domain.ID
}

type SessionChanged struct {
	LoggedIn bool
}

func (FilterUpdated) actionName() string   { return "filter_updated" }
func (SearchStarted) actionName() string   { return "search_started" }
func (SearchSucceeded) actionName() string { return "search_succeeded" }
func (SearchFailed) actionName() string    { return "search_failed" }
func (SavedLoaded) actionName() string     { return "saved_loaded" }
func (SavedCleared) actionName() string    { return "saved_cleared" }
func (SaveStarted) actionName() string     { return "save_started" }
func (SaveSucceeded) actionName() string   { return "save_succeeded" }
func (SaveSettled) actionName() string     { return "save_settled" }
func (UnsaveStarted) actionName() string   { return "unsave_started" }
func (UnsaveSucceeded) actionName() string { return "unsave_succeeded" }
func (UnsaveSettled) actionName() string   { return "unsave_settled" }
func (SessionChanged) actionName() string  { return "session_changed" }

// Name returns the action's log name.
func Name(a Action) string {
	if a == nil {
		return "nil"
	}
	return a.actionName()
}
