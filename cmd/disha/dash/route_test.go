package dash

import "testing"

func TestRoute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		authenticated bool
		current       View
		landing       View
		want          View
	}{
		{"anonymous always lands on login", false, ViewChat, ViewRecommend, ViewLogin},
		{"anonymous stays on login", false, ViewLogin, ViewAssessment, ViewLogin},
		{"fresh login goes to landing", true, ViewLogin, ViewAssessment, ViewAssessment},
		{"returning user lands on recommendations", true, ViewLogin, ViewRecommend, ViewRecommend},
		{"authenticated keeps current view", true, ViewChat, ViewRecommend, ViewChat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Route(tt.authenticated, tt.current, tt.landing); got != tt.want {
				t.Errorf("Route(%v, %v, %v) = %v, want %v",
					tt.authenticated, tt.current, tt.landing, got, tt.want)
			}
		})
	}
}

func TestViewString(t *testing.T) {
	t.Parallel()

	for v, want := range map[View]string{
		ViewLogin:      "login",
		ViewAssessment: "assessment",
		ViewRecommend:  "recommendations",
		ViewChat:       "counselor",
	} {
		if got := v.String(); got != want {
			t.Errorf("View(%d).String() = %q, want %q", v, got, want)
		}
	}
}
