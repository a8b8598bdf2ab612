package assessment

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"disha/internal/api"
)

// fakeService records calls and returns scripted results.
type fakeService struct {
	record    api.ProfileRecord
	loadErr   error
	saveErr   error
	saved     []api.Profile
	loadCalls int
}

func (f *fakeService) Profile(ctx context.Context) (api.ProfileRecord, error) {
	f.loadCalls++
	if f.loadErr != nil {
		return api.ProfileRecord{}, f.loadErr
	}
	return f.record, nil
}

func (f *fakeService) SaveProfile(ctx context.Context, profile api.Profile) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, profile)
	return nil
}

func TestToggle_TwiceRoundTrips(t *testing.T) {
	t.Parallel()

	set := []string{"Technology", "Music"}
	once := Toggle(set, "Sports")
	if !Has(once, "Sports") {
		t.Fatalf("after first toggle, Sports missing: %v", once)
	}
	twice := Toggle(once, "Sports")
	if !reflect.DeepEqual(twice, []string{"Technology", "Music"}) {
		t.Fatalf("toggle twice = %v, want original set", twice)
	}
}

func TestToggle_RemovePreservesOrder(t *testing.T) {
	t.Parallel()

	set := []string{"a", "b", "c"}
	got := Toggle(set, "b")
	if !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Fatalf("Toggle remove = %v, want [a c]", got)
	}
}

func TestValidate_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level string
		ok    bool
	}{
		{LevelHighSchool, true},
		{LevelUndergraduate, true},
		{LevelPostgraduate, true},
		{"", false},
		{"kindergarten", false},
	}

	for _, tt := range tests {
		err := Validate(api.Profile{AcademicLevel: tt.level})
		if tt.ok && err != nil {
			t.Errorf("Validate(%q) = %v, want nil", tt.level, err)
		}
		if !tt.ok {
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("Validate(%q) = %v, want *ValidationError", tt.level, err)
			}
		}
	}
}

func TestLoad_AbsentProfileIsNotAnError(t *testing.T) {
	t.Parallel()

	svc := &fakeService{loadErr: &api.Error{Kind: api.KindNotFound, Status: 404, Message: "Profile not found"}}
	p := NewPipeline(svc)

	got, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("Load with 404 = %v, want nil", err)
	}
	if got != nil {
		t.Fatalf("Load with 404 returned profile %+v", got)
	}
	if !p.Loaded() {
		t.Fatal("pipeline not marked loaded after 404")
	}
	if _, ok := p.Current(); ok {
		t.Fatal("Current() reports a profile after 404")
	}
}

func TestLoad_TransportFailurePropagates(t *testing.T) {
	t.Parallel()

	svc := &fakeService{loadErr: &api.Error{Kind: api.KindTransport, Message: "connection refused"}}
	p := NewPipeline(svc)

	if _, err := p.Load(context.Background()); !api.IsKind(err, api.KindTransport) {
		t.Fatalf("Load transport error = %v, want KindTransport", err)
	}
	if p.Loaded() {
		t.Fatal("pipeline marked loaded after transport failure")
	}
}

func TestSave_ReplacesCurrentAndBumpsVersion(t *testing.T) {
	t.Parallel()

	svc := &fakeService{}
	p := NewPipeline(svc)

	profile := api.Profile{
		AcademicLevel: LevelHighSchool,
		CurrentClass:  "class_10",
		Stream:        "science",
		Interests:     []string{"Technology"},
	}
	if err := p.Save(context.Background(), profile); err != nil {
		t.Fatalf("save: %v", err)
	}

	if got := p.Version(); got != 1 {
		t.Fatalf("version after save = %d, want 1", got)
	}
	current, ok := p.Current()
	if !ok || current.Stream != "science" {
		t.Fatalf("Current() = %+v, %v", current, ok)
	}
	if len(svc.saved) != 1 {
		t.Fatalf("saved %d profiles, want 1", len(svc.saved))
	}

	// Second save advances the version again.
	profile.CareerGoals = "research"
	if err := p.Save(context.Background(), profile); err != nil {
		t.Fatalf("second save: %v", err)
	}
	if got := p.Version(); got != 2 {
		t.Fatalf("version after second save = %d, want 2", got)
	}
}

func TestSave_InvalidLevelNeverTransmits(t *testing.T) {
	t.Parallel()

	svc := &fakeService{}
	p := NewPipeline(svc)

	err := p.Save(context.Background(), api.Profile{AcademicLevel: "phd"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Save invalid = %v, want *ValidationError", err)
	}
	if len(svc.saved) != 0 {
		t.Fatal("invalid profile was transmitted")
	}
	if p.Version() != 0 {
		t.Fatal("version advanced on rejected save")
	}
}

func TestSave_ServerFailureKeepsVersion(t *testing.T) {
	t.Parallel()

	svc := &fakeService{saveErr: &api.Error{Kind: api.KindTransport, Message: "boom"}}
	p := NewPipeline(svc)

	err := p.Save(context.Background(), api.Profile{AcademicLevel: LevelUndergraduate})
	if !api.IsKind(err, api.KindTransport) {
		t.Fatalf("Save server failure = %v", err)
	}
	if p.Version() != 0 {
		t.Fatal("version advanced on failed save")
	}
	if _, ok := p.Current(); ok {
		t.Fatal("current profile set on failed save")
	}
}

func TestReset_DropsState(t *testing.T) {
	t.Parallel()

	svc := &fakeService{record: api.ProfileRecord{Profile: api.Profile{AcademicLevel: LevelPostgraduate}}}
	p := NewPipeline(svc)
	if _, err := p.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	p.Reset()
	if p.Loaded() {
		t.Fatal("loaded after reset")
	}
	if _, ok := p.Current(); ok {
		t.Fatal("profile survived reset")
	}
}
