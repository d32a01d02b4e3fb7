package search

import (
	"strings"

	"github.com/cloo-solutions/jobfinder/internal/domain"
)

// Payload builds the search request body from f. Keys whose value is "all",
// false, empty text, zero or an empty category set are left out entirely.
func Payload(f domain.SearchFilters) map[string]any {
	payload := map[string]any{
		domain.FieldKeywords:        strings.TrimSpace(f.Keywords),
		domain.FieldRole:            strings.TrimSpace(f.Role),
		domain.FieldLocation:        strings.TrimSpace(f.Location),
		domain.FieldJobType:         f.JobType,
		domain.FieldExperienceLevel: f.ExperienceLevel,
		domain.FieldMinSalary:       f.MinSalary,
		domain.FieldRemoteOnly:      f.RemoteOnly,
		domain.FieldRecentOnly:      f.RecentOnly,
		domain.FieldCategories:      f.Categories,
	}

	for key, value := range payload {
		if omit(value) {
			delete(payload, key)
		}
	}
	return payload
}

func omit(v any) bool {
	switch v := v.(type) {
	case string:
		return v == "" || v == domain.AllValue
	case bool:
		return !v
	case float64:
		return v == 0
	case []string:
		return len(v) == 0
	default:
		return v == nil
	}
}
