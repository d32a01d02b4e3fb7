// Package view renders workflow state for the terminal. Rendering is pure:
// it reads a state snapshot and writes text, nothing else.
package view

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cloo-solutions/jobfinder/internal/domain"
	"github.com/cloo-solutions/jobfinder/internal/state"
)

const descriptionLimit = 160

// Results renders the search results view.
func Results(w io.Writer, s state.State) {
	switch {
	case s.Phase == state.PhaseSearching:
		fmt.Fprintln(w, "Searching...")
	case !s.HasSearched:
		fmt.Fprintln(w, "Search for jobs")
		fmt.Fprintln(w, "Use the filters to find roles that match your skills, then run a search.")
	case s.Failed():
		fmt.Fprintln(w, "Search failed")
		fmt.Fprintln(w, s.SearchError)
	case len(s.Results) == 0:
		fmt.Fprintln(w, "No jobs found")
		fmt.Fprintln(w, "Try adjusting your filters or search terms.")
	default:
		fmt.Fprintf(w, "Found %d %s:\n\n", len(s.Results), plural(len(s.Results), "job", "jobs"))
		for i, job := range s.Results {
			card(w, i+1, job, s, true)
		}
	}
}

// Saved renders the saved jobs view.
func Saved(w io.Writer, s state.State) {
	switch {
	case !s.LoggedIn:
		fmt.Fprintln(w, "Log in to see your saved jobs")
		fmt.Fprintln(w, "Run 'jobfinder auth login' to sign in.")
	case len(s.Saved) == 0:
		fmt.Fprintln(w, "No saved jobs yet")
		fmt.Fprintln(w, "Save jobs from your search results to find them here.")
	default:
		fmt.Fprintf(w, "%d saved %s:\n\n", len(s.Saved), plural(len(s.Saved), "job", "jobs"))
		for i, job := range s.Saved {
			card(w, i+1, job, s, false)
		}
	}
}

// Jobs renders a plain job listing, marking jobs found in the saved list.
func Jobs(w io.Writer, jobs []domain.Job, s state.State) {
	if len(jobs) == 0 {
		fmt.Fprintln(w, "No jobs found")
		return
	}
	for i, job := range jobs {
		card(w, i+1, job, s, false)
	}
}

func Categories(w io.Writer, categories []domain.Category) {
	if len(categories) == 0 {
		fmt.Fprintln(w, "No categories")
		return
	}
	for _, c := range categories {
		if c.Count > 0 {
			fmt.Fprintf(w, "%s (%d)\n", c.Name, c.Count)
			continue
		}
		fmt.Fprintln(w, c.Name)
	}
}

func Preferences(w io.Writer, p domain.Preferences) {
	fmt.Fprintf(w, "Email notifications:  %s\n", onOff(p.EmailNotifications))
	fmt.Fprintf(w, "New job alerts:       %s\n", onOff(p.NewJobAlerts))
	fmt.Fprintf(w, "Application updates:  %s\n", onOff(p.ApplicationUpdates))
	fmt.Fprintf(w, "Marketing emails:     %s\n", onOff(p.MarketingEmails))
	if len(p.PreferredJobTypes) > 0 {
		fmt.Fprintf(w, "Preferred job types:  %s\n", strings.Join(p.PreferredJobTypes, ", "))
	}
	if len(p.SavedSearches) > 0 {
		fmt.Fprintf(w, "Saved searches:       %d\n", len(p.SavedSearches))
	}
}

// Session renders who is logged in.
func Session(w io.Writer, sess domain.Session) {
	if !sess.LoggedIn() {
		fmt.Fprintln(w, "Not logged in")
		fmt.Fprintln(w, "Run 'jobfinder auth login' to sign in.")
		return
	}
	if sess.User == nil {
		fmt.Fprintln(w, "Logged in")
		return
	}
	fmt.Fprintf(w, "Logged in as %s <%s>\n", sess.User.DisplayName(), sess.User.Email)
}

// Filters renders the active filters on one line.
func Filters(w io.Writer, f domain.SearchFilters) {
	var parts []string
	add := func(label, value string) {
		if value != "" && value != domain.AllValue {
			parts = append(parts, label+"="+value)
		}
	}
	add("keywords", f.Keywords)
	add("role", f.Role)
	add("location", f.Location)
	add("type", f.JobType)
	add("level", f.ExperienceLevel)
	if f.MinSalary > 0 {
		parts = append(parts, fmt.Sprintf("min_salary=%gk", f.MinSalary))
	}
	if f.RemoteOnly {
		parts = append(parts, "remote")
	}
	if f.RecentOnly {
		parts = append(parts, "recent")
	}
	if len(f.Categories) > 0 {
		parts = append(parts, "categories="+strings.Join(f.Categories, ","))
	}

	if len(parts) == 0 {
		fmt.Fprintln(w, "Filters: none")
		return
	}
	fmt.Fprintf(w, "Filters: %s\n", strings.Join(parts, " "))
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func card(w io.Writer, n int, job domain.Job, s state.State, withScore bool) {
	title := job.Title
	if withScore && job.MatchScore > 0 {
		title = fmt.Sprintf("%s (%d%% match)", title, job.MatchScore)
	}
	fmt.Fprintf(w, "%d. %s%s\n", n, title, status(job, s))

	var meta []string
	for _, v := range []string{job.Company, job.Location, job.JobType, job.ExperienceLevel, job.PostedLabel} {
		if v != "" {
			meta = append(meta, v)
		}
	}
	if len(meta) > 0 {
		fmt.Fprintf(w, "   %s\n", strings.Join(meta, " · "))
	}
	if job.SalaryRange != "" {
		fmt.Fprintf(w, "   Salary: %s\n", job.SalaryRange)
	}
	if len(job.Skills) > 0 {
		fmt.Fprintf(w, "   Skills: %s\n", strings.Join(job.Skills, ", "))
	}
	if d := truncate(strings.TrimSpace(job.Description), descriptionLimit); d != "" {
		fmt.Fprintf(w, "   %s\n", d)
	}
	if job.URL != "" {
		fmt.Fprintf(w, "   URL: %s\n", job.URL)
	}
	fmt.Fprintf(w, "   ID: %s\n\n", job.ID)
}

func status(job domain.Job, s state.State) string {
	switch {
	case s.IsSavePending(job.ID):
		return " [saving...]"
	case s.IsUnsavePending(job.ID):
		return " [removing...]"
	case job.Saved || s.IsSaved(job.ID):
		return " [saved]"
	default:
		return ""
	}
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return strings.TrimSpace(string(r[:limit])) + "..."
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
