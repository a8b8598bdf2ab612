package dash

import (
	"sort"
	"strings"

	"disha/internal/api"
	"disha/internal/assessment"

	"github.com/charmbracelet/bubbles/textinput"
)

// formRow identifies the focused row of the assessment form.
type formRow int

const (
	rowLevel formRow = iota
	rowClass
	rowStream
	rowSubjects
	rowGrades
	rowInterests
	rowStrengths
	rowGoals
	rowSave
)

var (
	classes = []string{"class_9", "class_10", "class_11", "class_12"}
	streams = []string{"science", "commerce", "arts"}

	// Strength options are fixed configuration data; interests come from
	// the domains taxonomy.
	strengthOptions = []string{
		"Analysis", "Communication", "Creativity", "Leadership",
		"Problem Solving", "Teamwork", "Mathematics", "Writing",
	}
)

// assessmentForm is the draft state of the self-assessment. Edits here are
// not a "profile changed" signal; only a successful save is.
type assessmentForm struct {
	row       formRow
	levelIdx  int
	classIdx  int
	streamIdx int

	subjects textinput.Model
	grades   textinput.Model
	goals    textinput.Model

	interests []string
	strengths []string
	cursor    int // option cursor on toggle rows

	interestOptions []string
}

func newAssessmentForm() assessmentForm {
	subjects := textinput.New()
	subjects.Placeholder = "Subjects, comma separated (e.g. Maths, Physics)"
	subjects.CharLimit = 300

	grades := textinput.New()
	grades.Placeholder = "Grades as subject:grade (e.g. Maths:A, Physics:B)"
	grades.CharLimit = 300

	goals := textinput.New()
	goals.Placeholder = "Career goals"
	goals.CharLimit = 500

	return assessmentForm{
		subjects:        subjects,
		grades:          grades,
		goals:           goals,
		interestOptions: defaultInterestOptions(),
	}
}

func defaultInterestOptions() []string {
	return interestOptionsFrom(assessment.DefaultDomains())
}

// interestOptionsFrom flattens the taxonomy's fields into a stable,
// de-duplicated option list.
func interestOptionsFrom(domains map[string]api.Domain) []string {
	seen := map[string]bool{}
	var options []string
	for _, d := range domains {
		for _, f := range d.Fields {
			if !seen[f] {
				seen[f] = true
				options = append(options, f)
			}
		}
	}
	sort.Strings(options)
	return options
}

// setFromProfile loads a saved profile into the draft.
func (f *assessmentForm) setFromProfile(p api.Profile) {
	f.levelIdx = indexOf(assessment.Levels(), p.AcademicLevel)
	f.classIdx = indexOf(classes, p.CurrentClass)
	f.streamIdx = indexOf(streams, p.Stream)
	f.subjects.SetValue(strings.Join(p.Subjects, ", "))
	f.grades.SetValue(joinGrades(p.Grades))
	f.goals.SetValue(p.CareerGoals)
	f.interests = append([]string(nil), p.Interests...)
	f.strengths = append([]string(nil), p.Strengths...)
}

// profile builds the submittable assessment from the draft. current_class
// is meaningful only for high school; it is dropped otherwise.
func (f *assessmentForm) profile() api.Profile {
	level := assessment.Levels()[f.levelIdx]
	p := api.Profile{
		AcademicLevel: level,
		Stream:        streams[f.streamIdx],
		Subjects:      splitList(f.subjects.Value()),
		Grades:        parseGrades(f.grades.Value()),
		Interests:     append([]string(nil), f.interests...),
		Strengths:     append([]string(nil), f.strengths...),
		CareerGoals:   strings.TrimSpace(f.goals.Value()),
	}
	if level == assessment.LevelHighSchool {
		p.CurrentClass = classes[f.classIdx]
	}
	return p
}

// toggleAtCursor flips membership of the option under the cursor on the
// focused toggle row. Toggling is an idempotent set operation.
func (f *assessmentForm) toggleAtCursor() {
	switch f.row {
	case rowInterests:
		if len(f.interestOptions) > 0 {
			f.interests = assessment.Toggle(f.interests, f.interestOptions[f.cursor])
		}
	case rowStrengths:
		f.strengths = assessment.Toggle(f.strengths, strengthOptions[f.cursor])
	}
}

// optionCount returns the cursor range for the focused row.
func (f *assessmentForm) optionCount() int {
	switch f.row {
	case rowInterests:
		return len(f.interestOptions)
	case rowStrengths:
		return len(strengthOptions)
	default:
		return 0
	}
}

// textInput returns the text input of the focused row, if any.
func (f *assessmentForm) textInput() *textinput.Model {
	switch f.row {
	case rowSubjects:
		return &f.subjects
	case rowGrades:
		return &f.grades
	case rowGoals:
		return &f.goals
	default:
		return nil
	}
}

// focusRow moves focus, blurring and focusing text inputs as needed.
func (f *assessmentForm) focusRow(row formRow) {
	f.subjects.Blur()
	f.grades.Blur()
	f.goals.Blur()
	f.row = row
	f.cursor = 0
	if in := f.textInput(); in != nil {
		in.Focus()
	}
}

func indexOf(values []string, v string) int {
	for i, candidate := range values {
		if candidate == v {
			return i
		}
	}
	return 0
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseGrades(s string) map[string]string {
	grades := map[string]string{}
	for _, part := range splitList(s) {
		subject, grade, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		subject = strings.TrimSpace(subject)
		grade = strings.TrimSpace(grade)
		if subject != "" && grade != "" {
			grades[subject] = grade
		}
	}
	return grades
}

func joinGrades(grades map[string]string) string {
	subjects := make([]string, 0, len(grades))
	for subject := range grades {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)

	parts := make([]string, 0, len(subjects))
	for _, subject := range subjects {
		parts = append(parts, subject+":"+grades[subject])
	}
	return strings.Join(parts, ", ")
}
