// Package assessment is the profile pipeline: loading the stored
// self-assessment, validating and saving edits, and signalling downstream
// stages when a new profile version exists.
package assessment

import (
	"context"
	"sync"

	"disha/internal/api"
)

// Academic levels accepted by the backend. The client guard is advisory;
// the server stays authoritative.
const (
	LevelHighSchool    = "high_school"
	LevelUndergraduate = "undergraduate"
	LevelPostgraduate  = "postgraduate"
)

var levels = map[string]bool{
	LevelHighSchool:    true,
	LevelUndergraduate: true,
	LevelPostgraduate:  true,
}

// Levels returns the accepted academic levels in display order.
func Levels() []string {
	return []string{LevelHighSchool, LevelUndergraduate, LevelPostgraduate}
}

// ValidLevel reports whether s is one of the enumerated academic levels.
func ValidLevel(s string) bool { return levels[s] }

// ValidationError describes a client-side rejection before transmission.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Reason
}

// Validate applies the client-side guard.
func Validate(p api.Profile) error {
	if !ValidLevel(p.AcademicLevel) {
		return &ValidationError{Field: "academic_level", Reason: "must be high_school, undergraduate or postgraduate"}
	}
	return nil
}

// Toggle flips membership of value in set and returns the result. Adding a
// present value removes it, so toggling twice round-trips; order of the
// remaining members is preserved.
func Toggle(set []string, value string) []string {
	for i, v := range set {
		if v == value {
			return append(set[:i:i], set[i+1:]...)
		}
	}
	return append(set, value)
}

// Has reports set membership.
func Has(set []string, value string) bool {
	for _, v := range set {
		if v == value {
			return true
		}
	}
	return false
}

// Service is the slice of the API client the pipeline needs.
type Service interface {
	Profile(ctx context.Context) (api.ProfileRecord, error)
	SaveProfile(ctx context.Context, profile api.Profile) error
}

// Pipeline owns the current profile and its version. The version number is
// the "profile changed" signal: it advances only on a successful save,
// never on drafted edits, so the recommendation stage can tell a stale
// cache from a merely dirty form.
type Pipeline struct {
	svc Service

	mu      sync.Mutex
	current *api.Profile
	loaded  bool
	version uint64
}

// NewPipeline wires the pipeline to the backend.
func NewPipeline(svc Service) *Pipeline {
	return &Pipeline{svc: svc}
}

// Load fetches the stored profile. An absent profile (KindNotFound) is the
// valid "no assessment yet" state: Load returns (nil, nil) and the
// pipeline is marked loaded with no current profile.
func (p *Pipeline) Load(ctx context.Context) (*api.Profile, error) {
	record, err := p.svc.Profile(ctx)
	if err != nil {
		if api.IsKind(err, api.KindNotFound) {
			p.mu.Lock()
			p.loaded = true
			p.mu.Unlock()
			return nil, nil
		}
		return nil, err
	}

	profile := record.Assessment()

	p.mu.Lock()
	p.current = &profile
	p.loaded = true
	p.mu.Unlock()
	return &profile, nil
}

// Save validates and persists the full profile. On success the submitted
// data replaces the in-memory profile as-is (server-derived fields are not
// needed afterwards) and the version advances.
func (p *Pipeline) Save(ctx context.Context, profile api.Profile) error {
	if err := Validate(profile); err != nil {
		return err
	}
	if err := p.svc.SaveProfile(ctx, profile); err != nil {
		return err
	}

	p.mu.Lock()
	saved := profile
	p.current = &saved
	p.loaded = true
	p.version++
	p.mu.Unlock()
	return nil
}

// Current returns a copy of the saved profile, if one exists.
func (p *Pipeline) Current() (api.Profile, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return api.Profile{}, false
	}
	return *p.current, true
}

// Loaded reports whether the initial fetch has completed, regardless of
// whether a profile exists.
func (p *Pipeline) Loaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded
}

// Version identifies the current saved profile. Zero means "never saved
// this session".
func (p *Pipeline) Version() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.version
}

// Reset drops pipeline state on logout or session switch.
func (p *Pipeline) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = nil
	p.loaded = false
	p.version = 0
}
