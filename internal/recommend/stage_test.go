package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"disha/internal/api"
)

// captureAnalyzer records the exact payloads it receives.
type captureAnalyzer struct {
	payloads []string
	analysis string
	err      error
}

func (c *captureAnalyzer) Analyze(ctx context.Context, profile api.Profile) (string, error) {
	data, _ := json.Marshal(profile)
	c.payloads = append(c.payloads, string(data))
	if c.err != nil {
		return "", c.err
	}
	return c.analysis, nil
}

func sampleProfile() *api.Profile {
	return &api.Profile{
		AcademicLevel: "high_school",
		CurrentClass:  "class_10",
		Stream:        "science",
		Interests:     []string{"Technology"},
		Strengths:     []string{"Analysis"},
	}
}

func TestGenerate_NoProfileIsLocalNoop(t *testing.T) {
	t.Parallel()

	analyzer := &captureAnalyzer{}
	s := NewStage(analyzer)

	_, err := s.Generate(context.Background(), nil, 0)
	if !errors.Is(err, ErrNoProfile) {
		t.Fatalf("Generate(nil) = %v, want ErrNoProfile", err)
	}
	if len(analyzer.payloads) != 0 {
		t.Fatal("request was issued without a profile")
	}
}

func TestGenerate_CachesResult(t *testing.T) {
	t.Parallel()

	analyzer := &captureAnalyzer{analysis: "Top careers: ..."}
	s := NewStage(analyzer)

	rec, err := s.Generate(context.Background(), sampleProfile(), 3)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if rec.Analysis != "Top careers: ..." {
		t.Fatalf("analysis = %q", rec.Analysis)
	}
	if rec.ProfileVersion != 3 {
		t.Fatalf("profile version = %d, want 3", rec.ProfileVersion)
	}

	cached, ok := s.Latest()
	if !ok || cached.Analysis != rec.Analysis {
		t.Fatalf("Latest() = %+v, %v", cached, ok)
	}
}

func TestRegenerate_IdenticalDerivedPayloads(t *testing.T) {
	t.Parallel()

	analyzer := &captureAnalyzer{analysis: "x"}
	s := NewStage(analyzer)
	profile := sampleProfile()

	// Regenerate is a second invocation of the same path; with no save in
	// between, the derived payloads must match byte for byte.
	if _, err := s.Generate(context.Background(), profile, 1); err != nil {
		t.Fatalf("first generate: %v", err)
	}
	if _, err := s.Generate(context.Background(), profile, 1); err != nil {
		t.Fatalf("regenerate: %v", err)
	}

	if len(analyzer.payloads) != 2 {
		t.Fatalf("issued %d requests, want 2", len(analyzer.payloads))
	}
	if analyzer.payloads[0] != analyzer.payloads[1] {
		t.Fatalf("payloads differ:\n%s\n%s", analyzer.payloads[0], analyzer.payloads[1])
	}
}

func TestGenerate_FailureLeavesCacheUntouched(t *testing.T) {
	t.Parallel()

	analyzer := &captureAnalyzer{analysis: "first"}
	s := NewStage(analyzer)
	if _, err := s.Generate(context.Background(), sampleProfile(), 1); err != nil {
		t.Fatalf("generate: %v", err)
	}

	analyzer.err = &api.Error{Kind: api.KindTransport, Message: "engine down"}
	if _, err := s.Generate(context.Background(), sampleProfile(), 1); err == nil {
		t.Fatal("expected failure")
	}

	cached, ok := s.Latest()
	if !ok || cached.Analysis != "first" {
		t.Fatalf("cache mutated by failed generate: %+v, %v", cached, ok)
	}
}

func TestInvalidate_OnlyDropsOlderVersions(t *testing.T) {
	t.Parallel()

	s := NewStage(&captureAnalyzer{analysis: "a"})
	if _, err := s.Generate(context.Background(), sampleProfile(), 2); err != nil {
		t.Fatalf("generate: %v", err)
	}

	// Same version: a drafted-but-unsaved edit does not invalidate.
	s.Invalidate(2)
	if _, ok := s.Latest(); !ok {
		t.Fatal("cache dropped for its own version")
	}

	// A newer saved version does.
	s.Invalidate(3)
	if _, ok := s.Latest(); ok {
		t.Fatal("stale cache survived a newer profile version")
	}
}

func TestReset_DropsCache(t *testing.T) {
	t.Parallel()

	s := NewStage(&captureAnalyzer{analysis: "a"})
	if _, err := s.Generate(context.Background(), sampleProfile(), 1); err != nil {
		t.Fatalf("generate: %v", err)
	}
	s.Reset()
	if _, ok := s.Latest(); ok {
		t.Fatal("cache survived reset")
	}
}
