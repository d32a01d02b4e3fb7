package search

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/cloo-solutions/jobfinder/internal/domain"
)

// ApplyFilter returns f with field set to value. Only type coercion happens
// here; no value is validated against the backend's vocabulary.
func ApplyFilter(f domain.SearchFilters, field string, value any) (domain.SearchFilters, error) {
	out := f.Clone()

	switch field {
	case domain.FieldKeywords, domain.FieldRole, domain.FieldLocation,
		domain.FieldJobType, domain.FieldExperienceLevel:
		s, err := toString(value)
		if err != nil {
			return f, invalid(field, err)
		}
		switch field {
		case domain.FieldKeywords:
			out.Keywords = s
		case domain.FieldRole:
			out.Role = s
		case domain.FieldLocation:
			out.Location = s
		case domain.FieldJobType:
			out.JobType = s
		case domain.FieldExperienceLevel:
			out.ExperienceLevel = s
		}

	case domain.FieldMinSalary:
		n, err := toFloat(value)
		if err != nil {
			return f, invalid(field, err)
		}
		if n < 0 {
			return f, invalid(field, fmt.Errorf("must not be negative"))
		}
		out.MinSalary = n

	case domain.FieldRemoteOnly, domain.FieldRecentOnly:
		b, err := toBool(value)
		if err != nil {
			return f, invalid(field, err)
		}
		if field == domain.FieldRemoteOnly {
			out.RemoteOnly = b
		} else {
			out.RecentOnly = b
		}

	case domain.FieldCategories:
		cats, err := toStrings(value)
		if err != nil {
			return f, invalid(field, err)
		}
		out.Categories = nil
		for _, c := range cats {
			out.AddCategory(c)
		}

	default:
		return f, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, domain.ErrUnknownFilter.Message,
			fmt.Errorf("field %q", field))
	}

	return out, nil
}

func invalid(field string, err error) error {
	return domain.NewDomainErrorWithCause(domain.ErrCodeValidation, domain.ErrInvalidFilter.Message,
		fmt.Errorf("%s: %w", field, err))
}

func toString(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return "", fmt.Errorf("expected text, got %T", v)
	}
}

func toFloat(v any) (float64, error) {
	switch v := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, nil
		}
		return strconv.ParseFloat(s, 64)
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
}

func toBool(v any) (bool, error) {
	switch v := v.(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return false, nil
		}
		return strconv.ParseBool(s)
	default:
		return false, fmt.Errorf("expected a boolean, got %T", v)
	}
}

func toStrings(v any) ([]string, error) {
	var raw []string
	switch v := v.(type) {
	case nil:
		return nil, nil
	case []string:
		raw = v
	case []any:
		for _, item := range v {
			s, err := toString(item)
			if err != nil {
				return nil, err
			}
			raw = append(raw, s)
		}
	case string:
		raw = strings.Split(v, ",")
	default:
		return nil, fmt.Errorf("expected a list of names, got %T", v)
	}

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}
