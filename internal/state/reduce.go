package state

import (
	"errors"
	"fmt"

	"github.com/cloo-solutions/jobfinder/internal/domain"
)

// ErrStaleSearch is returned when a search outcome arrives after a newer search started.
var ErrStaleSearch = errors.New("search superseded by a newer search")

// Reduce applies a to s. On error the returned state equals s.
func Reduce(s State, a Action) (State, error) {
	switch a := a.(type) {
	case FilterUpdated:
		s.Filters = a.Filters.Clone()

	case SearchStarted:
		if a.Seq <= s.SearchSeq {
			return s, ErrStaleSearch
		}
		s.SearchSeq = a.Seq
		s.Phase = PhaseSearching
		s.SearchError = ""

	case SearchSucceeded:
		if a.Seq != s.SearchSeq {
			return s, ErrStaleSearch
		}
		s.Results = markSaved(a.Jobs, s.Saved)
		s.HasSearched = true
		s.SearchError = ""
		if len(s.Results) == 0 {
			s.Phase = PhaseResultsEmpty
		} else {
			s.Phase = PhaseResultsReady
		}

	case SearchFailed:
		if a.Seq != s.SearchSeq {
			return s, ErrStaleSearch
		}
		s.Results = []domain.Job{}
		s.HasSearched = true
		s.Phase = PhaseFailed
		s.SearchError = domain.UserMessage(a.Err)
		if s.SearchError == "" {
			s.SearchError = domain.GenericFailureMessage
		}

	case SavedLoaded:
		s.Saved = uniqueSaved(a.Jobs)
		s.Results = markSaved(s.Results, s.Saved)

	case SavedCleared:
		s.Saved = []domain.Job{}
		s.Results = markSaved(s.Results, s.Saved)

	case SaveStarted:
		if s.SavePending[a.ID] {
			return s, domain.ErrOperationPending
		}
		s.SavePending = withFlag(s.SavePending, a.ID, true)

	case SaveSucceeded:
		if domain.IndexOfJob(s.Saved, a.Job.ID) < 0 {
			job := a.Job
			job.Saved = true
			s.Saved = append(append(make([]domain.Job, 0, len(s.Saved)+1), s.Saved...), job)
		}
		s.Results = setSaved(s.Results, a.Job.ID, true)

	case SaveSettled:
		s.SavePending = withFlag(s.SavePending, a.ID, false)

	case UnsaveStarted:
		if s.UnsavePending[a.ID] {
			return s, domain.ErrOperationPending
		}
		s.UnsavePending = withFlag(s.UnsavePending, a.ID, true)

	case UnsaveSucceeded:
		if i := domain.IndexOfJob(s.Saved, a.ID); i >= 0 {
			next := make([]domain.Job, 0, len(s.Saved)-1)
			next = append(next, s.Saved[:i]...)
			next = append(next, s.Saved[i+1:]...)
			s.Saved = next
		}
		s.Results = setSaved(s.Results, a.ID, false)

	case UnsaveSettled:
		s.UnsavePending = withFlag(s.UnsavePending, a.ID, false)

	case SessionChanged:
		s.LoggedIn = a.LoggedIn
		if !a.LoggedIn {
			s.Saved = []domain.Job{}
			s.Results = markSaved(s.Results, s.Saved)
		}

	default:
		return s, fmt.Errorf("unknown action %T", a)
	}
	return s, nil
}

// markSaved returns a copy of jobs with Saved set from membership in saved.
func markSaved(jobs, saved []domain.Job) []domain.Job {
	out := make([]domain.Job, len(jobs))
	for i, job := range jobs {
		job.Saved = domain.IndexOfJob(saved, job.ID) >= 0
		out[i] = job
	}
	return out
}

func setSaved(jobs []domain.Job, id domain.ID, saved bool) []domain.Job {
	i := domain.IndexOfJob(jobs, id)
	if i < 0 || jobs[i].Saved == saved {
		return jobs
	}
	out := append([]domain.Job(nil), jobs...)
	out[i].Saved = saved
	return out
}

// uniqueSaved keeps the first entry per id.
func uniqueSaved(jobs []domain.Job) []domain.Job {
	out := make([]domain.Job, 0, len(jobs))
	for _, job := range jobs {
		if domain.IndexOfJob(out, job.ID) >= 0 {
			continue
		}
		job.Saved = true
		out = append(out, job)
	}
	return out
}

func withFlag(m map[domain.ID]bool, id domain.ID, on bool) map[domain.ID]bool {
	out := make(map[domain.ID]bool, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	if on {
		out[id] = true
	} else {
		delete(out, id)
	}
	return out
}
