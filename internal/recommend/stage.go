// Package recommend is the recommendation stage: it derives a request from
// the saved profile, calls the engine, and caches the latest result until
// the profile version changes or the user explicitly regenerates.
package recommend

import (
	"context"
	"errors"
	"sync"
	"time"

	"disha/internal/api"

	"golang.org/x/sync/singleflight"
)

// ErrNoProfile is returned when generation is requested before any
// assessment has been saved. No request is sent.
var ErrNoProfile = errors.New("no assessment profile yet")

// Analyzer is the slice of the API client the stage needs.
type Analyzer interface {
	Analyze(ctx context.Context, profile api.Profile) (string, error)
}

// Recommendation is a cached engine result, tagged with the profile
// version it was computed from.
type Recommendation struct {
	Analysis       string
	ProfileVersion uint64
	GeneratedAt    time.Time
}

// Stage caches at most one recommendation. Regeneration goes through the
// same Generate path; there is no second derivation with different payload
// rules.
type Stage struct {
	analyzer Analyzer

	mu     sync.Mutex
	cached *Recommendation

	group singleflight.Group
}

// NewStage wires the stage to the engine.
func NewStage(analyzer Analyzer) *Stage {
	return &Stage{analyzer: analyzer}
}

// Generate calls the engine with the given profile snapshot and replaces
// the cache on success. Overlapping calls for the same profile version are
// collapsed into one request. profile is nil when no assessment exists.
func (s *Stage) Generate(ctx context.Context, profile *api.Profile, version uint64) (Recommendation, error) {
	if profile == nil {
		return Recommendation{}, ErrNoProfile
	}
	snapshot := *profile

	v, err, _ := s.group.Do("generate", func() (any, error) {
		analysis, err := s.analyzer.Analyze(ctx, snapshot)
		if err != nil {
			return nil, err
		}
		rec := Recommendation{
			Analysis:       analysis,
			ProfileVersion: version,
			GeneratedAt:    time.Now(),
		}
		s.mu.Lock()
		s.cached = &rec
		s.mu.Unlock()
		return rec, nil
	})
	if err != nil {
		return Recommendation{}, err
	}
	return v.(Recommendation), nil
}

// Latest returns the cached recommendation, if any. Drafted-but-unsaved
// profile edits do not clear it.
func (s *Stage) Latest() (Recommendation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached == nil {
		return Recommendation{}, false
	}
	return *s.cached, true
}

// Invalidate drops the cache if it predates the given profile version.
// Called after a successful save.
func (s *Stage) Invalidate(version uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached != nil && s.cached.ProfileVersion < version {
		s.cached = nil
	}
}

// Reset drops the cache unconditionally, for logout.
func (s *Stage) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = nil
}
