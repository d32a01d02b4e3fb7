package search

import (
	"strings"
	"time"
	"unicode"

	"github.com/dustin/go-humanize"

	"github.com/cloo-solutions/jobfinder/internal/domain"
)

const (
	topScore  = 95
	scoreStep = 5
	minScore  = 5
)

// MatchScore is the display score for the result at index. It reflects list
// position only.
func MatchScore(index int) int {
	score := topScore - scoreStep*index
	if score < minScore {
		return minScore
	}
	return score
}

// PostedLabel renders the age of a posting relative to now.
func PostedLabel(job domain.Job, now time.Time) string {
	posted, ok := job.PostedTime()
	if !ok {
		return "Recently"
	}
	if now.Sub(posted) < time.Minute {
		return "Just now"
	}
	return humanize.RelTime(posted, now, "ago", "from now")
}

// Skills returns the job's own skills, or else the keyword terms found in its
// title or description, in keyword order.
func Skills(job domain.Job, keywords string) []string {
	if len(job.Skills) > 0 {
		return append([]string(nil), job.Skills...)
	}

	haystack := strings.ToLower(job.Title + " " + job.Description)
	seen := make(map[string]bool)
	var out []string
	for _, term := range splitTerms(keywords) {
		key := strings.ToLower(term)
		if seen[key] || !strings.Contains(haystack, key) {
			continue
		}
		seen[key] = true
		out = append(out, term)
	}
	return out
}

func splitTerms(keywords string) []string {
	return strings.FieldsFunc(keywords, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

// Enrich returns copies of jobs with the derived display fields filled in.
func Enrich(jobs []domain.Job, keywords string, now time.Time) []domain.Job {
	out := make([]domain.Job, len(jobs))
	for i, job := range jobs {
		job.MatchScore = MatchScore(i)
		job.PostedLabel = PostedLabel(job, now)
		job.Skills = Skills(job, keywords)
		out[i] = job
	}
	return out
}
