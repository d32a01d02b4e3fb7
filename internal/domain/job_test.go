package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected ID
	}{
		{"number", `42`, "42"},
		{"string", `"abc-1"`, "abc-1"},
		{"numeric string", `"42"`, "42"},
		{"null", `null`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ID
			require.NoError(t, json.Unmarshal([]byte(tt.input), &id))
			assert.Equal(t, tt.expected, id)
		})
	}
}

func TestID_UnmarshalJSON_Invalid(t *testing.T) {
	var id ID
	err := json.Unmarshal([]byte(`{"x":1}`), &id)
	assert.Error(t, err)
}

func TestID_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(SaveJobRequest{JobID: "42"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"job_id":42}`, string(data))

	data, err = json.Marshal(SaveJobRequest{JobID: "job-42"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"job_id":"job-42"}`, string(data))

	// Leading zeros are not canonical integers and must survive as text.
	data, err = json.Marshal(SaveJobRequest{JobID: "007"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"job_id":"007"}`, string(data))
}

func TestJob_DecodesBackendRow(t *testing.T) {
	raw := `{
		"id": 7,
		"title": "Senior Frontend Developer",
		"company": "TechCorp Inc.",
		"location": "San Francisco, CA (Remote)",
		"description": "React and TypeScript",
		"salary_range": "$120,000 - $150,000",
		"job_type": "full-time",
		"experience_level": "senior",
		"skills": ["React", "TypeScript"],
		"posted_at": "2024-05-18T12:00:00Z"
	}`

	var job Job
	require.NoError(t, json.Unmarshal([]byte(raw), &job))
	assert.Equal(t, ID("7"), job.ID)
	assert.Equal(t, []string{"React", "TypeScript"}, job.Skills)
	assert.False(t, job.Saved)

	posted, ok := job.PostedTime()
	require.True(t, ok)
	assert.Equal(t, 2024, posted.Year())
}

func TestJob_PostedTime_Formats(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"2024-05-18T12:00:00Z", true},
		{"2024-05-18T12:00:00.123456", true},
		{"2024-05-18 12:00:00", true},
		{"2024-05-18", true},
		{"", false},
		{"yesterday", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			job := Job{PostedAt: tt.input}
			_, ok := job.PostedTime()
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestIndexOfJob(t *testing.T) {
	jobs := []Job{{ID: "1"}, {ID: "2"}}
	assert.Equal(t, 1, IndexOfJob(jobs, "2"))
	assert.Equal(t, -1, IndexOfJob(jobs, "3"))
	assert.Equal(t, -1, IndexOfJob(nil, "1"))
}
