package domain

// AllValue is the select sentinel meaning "no constraint".
const AllValue = "all"

// DefaultMinSalary is the slider's initial position, in thousands.
const DefaultMinSalary = 100

// Filter field names as they appear in the search payload.
const (
	FieldKeywords        = "keywords"
	FieldRole            = "role"
	FieldLocation        = "location"
	FieldJobType         = "job_type"
	FieldExperienceLevel = "experience_level"
	FieldMinSalary       = "min_salary"
	FieldRemoteOnly      = "remote_only"
	FieldRecentOnly      = "recent_only"
	FieldCategories      = "categories"
)

// SearchFilters is the search form state.
type SearchFilters struct {
	Keywords        string   `json:"keywords" yaml:"keywords"`
	Role            string   `json:"role" yaml:"role"`
	Location        string   `json:"location" yaml:"location"`
	JobType         string   `json:"job_type" yaml:"job_type"`
	ExperienceLevel string   `json:"experience_level" yaml:"experience_level"`
	MinSalary       float64  `json:"min_salary" yaml:"min_salary"`
	RemoteOnly      bool     `json:"remote_only" yaml:"remote_only"`
	RecentOnly      bool     `json:"recent_only" yaml:"recent_only"`
	Categories      []string `json:"categories" yaml:"categories"`
}

// DefaultFilters mirrors the initial form: both selects on "all" and the
// salary slider at its default.
func DefaultFilters() SearchFilters {
	return SearchFilters{
		JobType:         AllValue,
		ExperienceLevel: AllValue,
		MinSalary:       DefaultMinSalary,
	}
}

// Clone returns a copy that shares no slices with f.
func (f SearchFilters) Clone() SearchFilters {
	out := f
	if f.Categories != nil {
		out.Categories = append([]string(nil), f.Categories...)
	}
	return out
}

// AddCategory adds name to the category set if absent.
func (f *SearchFilters) AddCategory(name string) {
	for _, c := range f.Categories {
		if c == name {
			return
		}
	}
	f.Categories = append(f.Categories, name)
}
