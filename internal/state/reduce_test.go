package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/jobfinder/internal/domain"
)

func job(id string) domain.Job {
	return domain.Job{ID: domain.ID(id), Title: "Job " + id}
}

func mustReduce(t *testing.T, s State, actions ...Action) State {
	t.Helper()
	for _, a := range actions {
		var err error
		s, err = Reduce(s, a)
		require.NoError(t, err, Name(a))
	}
	return s
}

func TestInitial(t *testing.T) {
	s := Initial()
	assert.Equal(t, PhaseIdle, s.Phase)
	assert.False(t, s.HasSearched)
	assert.Equal(t, domain.AllValue, s.Filters.JobType)
	assert.Equal(t, domain.AllValue, s.Filters.ExperienceLevel)
	assert.Equal(t, float64(domain.DefaultMinSalary), s.Filters.MinSalary)
	assert.Empty(t, s.Results)
	assert.Empty(t, s.Saved)
}

func TestReduce_SearchLifecycle(t *testing.T) {
	s := mustReduce(t, Initial(), SearchStarted{Seq: 1})
	assert.Equal(t, PhaseSearching, s.Phase)

	s = mustReduce(t, s, SearchSucceeded{Seq: 1, Jobs: []domain.Job{job("1"), job("2")}})
	assert.Equal(t, PhaseResultsReady, s.Phase)
	assert.True(t, s.HasSearched)
	assert.Len(t, s.Results, 2)

	s = mustReduce(t, s, SearchStarted{Seq: 2}, SearchSucceeded{Seq: 2})
	assert.Equal(t, PhaseResultsEmpty, s.Phase)
	assert.Empty(t, s.Results)
	assert.False(t, s.Failed())
}

func TestReduce_SearchFailedIsDistinguishable(t *testing.T) {
	s := mustReduce(t, Initial(),
		SearchStarted{Seq: 1},
		SearchSucceeded{Seq: 1, Jobs: []domain.Job{job("1")}},
		SearchStarted{Seq: 2},
		SearchFailed{Seq: 2, Err: &domain.UpstreamError{StatusCode: 500, Message: "Failed to search jobs"}},
	)

	assert.Equal(t, PhaseFailed, s.Phase)
	assert.True(t, s.Failed())
	assert.True(t, s.HasSearched)
	assert.Empty(t, s.Results)
	assert.Equal(t, "Failed to search jobs", s.SearchError)
}

func TestReduce_StaleSearchDropped(t *testing.T) {
	s := mustReduce(t, Initial(), SearchStarted{Seq: 1}, SearchStarted{Seq: 2})

	next, err := Reduce(s, SearchSucceeded{Seq: 1, Jobs: []domain.Job{job("old")}})
	assert.ErrorIs(t, err, ErrStaleSearch)
	assert.Equal(t, s, next)

	_, err = Reduce(s, SearchFailed{Seq: 1})
	assert.ErrorIs(t, err, ErrStaleSearch)

	_, err = Reduce(s, SearchStarted{Seq: 2})
	assert.ErrorIs(t, err, ErrStaleSearch)

	s = mustReduce(t, s, SearchSucceeded{Seq: 2, Jobs: []domain.Job{job("new")}})
	require.Len(t, s.Results, 1)
	assert.Equal(t, domain.ID("new"), s.Results[0].ID)
}

func TestReduce_ResultsCrossReferenceSaved(t *testing.T) {
	s := mustReduce(t, Initial(),
		SavedLoaded{Jobs: []domain.Job{job("2")}},
		SearchStarted{Seq: 1},
		SearchSucceeded{Seq: 1, Jobs: []domain.Job{job("1"), job("2")}},
	)
	assert.False(t, s.Results[0].Saved)
	assert.True(t, s.Results[1].Saved)

	s = mustReduce(t, s, SavedCleared{})
	assert.False(t, s.Results[1].Saved)
	assert.Empty(t, s.Saved)
}

func TestReduce_SavedLoadedReplacesWholesale(t *testing.T) {
	s := mustReduce(t, Initial(),
		SavedLoaded{Jobs: []domain.Job{job("1"), job("2")}},
		SavedLoaded{Jobs: []domain.Job{job("3"), job("3")}},
	)
	require.Len(t, s.Saved, 1)
	assert.Equal(t, domain.ID("3"), s.Saved[0].ID)
	assert.True(t, s.Saved[0].Saved)
}

func TestReduce_SaveAtMostOnePerID(t *testing.T) {
	s := Initial()
	for i := 0; i < 3; i++ {
		s = mustReduce(t, s, SaveStarted{ID: "42"}, SaveSucceeded{Job: job("42")}, SaveSettled{ID: "42"})
	}
	require.Len(t, s.Saved, 1)
	assert.Equal(t, domain.ID("42"), s.Saved[0].ID)
	assert.False(t, s.IsSavePending("42"))
}

func TestReduce_SaveFlipsResult(t *testing.T) {
	s := mustReduce(t, Initial(),
		SearchStarted{Seq: 1},
		SearchSucceeded{Seq: 1, Jobs: []domain.Job{job("1"), job("2")}},
		SaveSucceeded{Job: job("2")},
	)
	assert.False(t, s.Results[0].Saved)
	assert.True(t, s.Results[1].Saved)

	s = mustReduce(t, s, UnsaveSucceeded{ID: "2"})
	assert.False(t, s.Results[1].Saved)
	assert.Empty(t, s.Saved)
}

func TestReduce_PendingRejectsDuplicate(t *testing.T) {
	s := mustReduce(t, Initial(), SaveStarted{ID: "1"})
	assert.True(t, s.IsSavePending("1"))

	next, err := Reduce(s, SaveStarted{ID: "1"})
	assert.ErrorIs(t, err, domain.ErrOperationPending)
	assert.Equal(t, s, next)

	// Other ids and the opposite operation are independent.
	s = mustReduce(t, s, SaveStarted{ID: "2"}, UnsaveStarted{ID: "1"})
	assert.True(t, s.IsSavePending("2"))
	assert.True(t, s.IsUnsavePending("1"))

	_, err = Reduce(s, UnsaveStarted{ID: "1"})
	assert.ErrorIs(t, err, domain.ErrOperationPending)

	s = mustReduce(t, s, SaveSettled{ID: "1"}, UnsaveSettled{ID: "1"})
	assert.False(t, s.IsSavePending("1"))
	assert.False(t, s.IsUnsavePending("1"))
	assert.True(t, s.IsSavePending("2"))
}

func TestReduce_UnsaveAbsentIsNoop(t *testing.T) {
	s := mustReduce(t, Initial(), SavedLoaded{Jobs: []domain.Job{job("1")}})
	next := mustReduce(t, s, UnsaveSucceeded{ID: "99"})
	assert.Equal(t, s.Saved, next.Saved)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	before := mustReduce(t, Initial(),
		SavedLoaded{Jobs: []domain.Job{job("1")}},
		SearchStarted{Seq: 1},
		SearchSucceeded{Seq: 1, Jobs: []domain.Job{job("1"), job("2")}},
	)

	_ = mustReduce(t, before,
		SaveStarted{ID: "2"},
		SaveSucceeded{Job: job("2")},
		UnsaveSucceeded{ID: "1"},
	)

	require.Len(t, before.Saved, 1)
	assert.True(t, before.Results[0].Saved)
	assert.False(t, before.Results[1].Saved)
	assert.Empty(t, before.SavePending)
}

func TestReduce_SessionChangedLoggedOutClearsSaved(t *testing.T) {
	s := mustReduce(t, Initial(),
		SessionChanged{LoggedIn: true},
		SavedLoaded{Jobs: []domain.Job{job("1")}},
	)
	assert.True(t, s.LoggedIn)

	s = mustReduce(t, s, SessionChanged{LoggedIn: false})
	assert.False(t, s.LoggedIn)
	assert.Empty(t, s.Saved)
}

func TestReduce_FilterUpdatedCopiesCategories(t *testing.T) {
	f := domain.DefaultFilters()
	f.Categories = []string{"engineering"}

	s := mustReduce(t, Initial(), FilterUpdated{Filters: f})
	f.Categories[0] = "changed"
	assert.Equal(t, []string{"engineering"}, s.Filters.Categories)
}
