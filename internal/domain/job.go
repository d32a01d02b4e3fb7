package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ID identifies a job or user. The backend sends integers, other sources send
// strings; both decode to the same textual form.
type ID string

// UnmarshalJSON accepts a JSON number, a JSON string or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid id: %w", err)
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON emits canonical integers as numbers and everything else as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if n, ok := id.Int(); ok {
		return []byte(strconv.FormatInt(n, 10)), nil
	}
	return json.Marshal(string(id))
}

// Int returns the id as an integer when its text is a canonical integer.
func (id ID) Int() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil || strconv.FormatInt(n, 10) != string(id) {
		return 0, false
	}
	return n, true
}

func (id ID) String() string {
	return string(id)
}

// Job is one posting as returned by the backend, plus client-side display fields.
type Job struct {
	ID              ID       `json:"id"`
	Title           string   `json:"title"`
	Company         string   `json:"company"`
	Location        string   `json:"location"`
	Description     string   `json:"description"`
	SalaryRange     string   `json:"salary_range,omitempty"`
	JobType         string   `json:"job_type,omitempty"`
	ExperienceLevel string   `json:"experience_level,omitempty"`
	URL             string   `json:"url,omitempty"`
	PostedAt        string   `json:"posted_at,omitempty"`
	SavedAt         string   `json:"saved_at,omitempty"`
	Skills          []string `json:"skills,omitempty"`

	// Derived on the client; never sent back to the backend as truth.
	MatchScore  int    `json:"match_score,omitempty"`
	PostedLabel string `json:"posted_label,omitempty"`
	Saved       bool   `json:"saved"`
}

var postedAtLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// PostedTime parses PostedAt in any of the formats the backend emits.
func (j *Job) PostedTime() (time.Time, bool) {
	raw := strings.TrimSpace(j.PostedAt)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range postedAtLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SaveJobRequest is the body of the save route.
type SaveJobRequest struct {
	JobID ID `json:"job_id"`
}

// UnsaveResult is the backend's answer to an unsave.
type UnsaveResult struct {
	Removed bool   `json:"removed"`
	JobID   ID     `json:"job_id"`
	Message string `json:"message,omitempty"`
}

// Category is a job category with an optional posting count.
type Category struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count,omitempty"`
}

// IndexOfJob returns the position of the job with id, or -1.
func IndexOfJob(jobs []Job, id ID) int {
	for i := range jobs {
		if jobs[i].ID == id {
			return i
		}
	}
	return -1
}
