package api

import (
	"encoding/json"
	"time"
)

// Timestamp decodes the backend's datetime serializations. Stored
// datetimes come back from Mongo naive, so the server emits them without
// an offset (e.g. "2026-08-28T10:00:00.123000"); fresh values carry a
// zone. Offset-less values are taken as UTC.
type Timestamp struct {
	time.Time
}

const offsetlessLayout = "2006-01-02T15:04:05.999999999"

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339, s); err == nil {
		t.Time = parsed
		return nil
	}
	parsed, err := time.Parse(offsetlessLayout, s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// Principal is the authenticated user record as returned by the auth
// endpoints. Opaque beyond display use.
type Principal struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	Name             string `json:"name"`
	ProfileCompleted bool   `json:"profile_completed,omitempty"`
}

// Authorization pairs a bearer token with the principal it proves.
type Authorization struct {
	Token     string
	Principal Principal
}

// Profile is a principal's self-assessment. It carries exactly the fields
// the client submits: no identity and no server timestamps, so the same
// shape doubles as the recommendation request payload.
type Profile struct {
	AcademicLevel string            `json:"academic_level"`
	CurrentClass  string            `json:"current_class,omitempty"`
	Stream        string            `json:"stream,omitempty"`
	Subjects      []string          `json:"subjects"`
	Grades        map[string]string `json:"grades"`
	Interests     []string          `json:"interests"`
	Strengths     []string          `json:"strengths"`
	CareerGoals   string            `json:"career_goals,omitempty"`
}

// ProfileRecord is the stored profile as the server returns it, enriched
// with fields the server manages.
type ProfileRecord struct {
	Profile

	UserID    string    `json:"user_id,omitempty"`
	UpdatedAt Timestamp `json:"updated_at,omitempty"`
}

// Assessment strips the server-managed fields, leaving the submittable
// profile. This is the single derivation used for both saving and
// recommendation requests.
func (r ProfileRecord) Assessment() Profile {
	return r.Profile
}

// Turn is one user-message/assistant-reply pair.
type Turn struct {
	Message   string    `json:"message"`
	Reply     string    `json:"response"`
	Timestamp Timestamp `json:"timestamp"`
}

// Domain is one career domain from the taxonomy endpoint.
type Domain struct {
	Name   string   `json:"name"`
	Fields []string `json:"fields"`
}
