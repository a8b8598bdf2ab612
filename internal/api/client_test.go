package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// httptest keeps idle keep-alive conns briefly after Close.
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

// staticToken is a fixed TokenSource for tests.
type staticToken string

func (s staticToken) Token() (string, bool) { return string(s), s != "" }

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "asha@example.com", body["email"])
		assert.Equal(t, "secret", body["password"])

		json.NewEncoder(w).Encode(map[string]any{
			"message":      "Login successful",
			"access_token": "tok-123",
			"user": map[string]any{
				"id": "u1", "email": "asha@example.com", "name": "Asha", "profile_completed": true,
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	auth, err := c.Login(context.Background(), "asha@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", auth.Token)
	assert.Equal(t, "Asha", auth.Principal.Name)
	assert.True(t, auth.Principal.ProfileCompleted)
}

func TestLogin_BadCredentials(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid email or password"})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.Login(context.Background(), "asha@example.com", "wrong")
	require.Error(t, err)
	// A rejected login is authentication, never authorization: it must not
	// clear an existing session.
	assert.True(t, IsKind(err, KindAuthentication))
	assert.False(t, IsKind(err, KindAuthorization))
}

func TestProtectedCall_ExpiredToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Token expired"})
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken("stale"))
	_, err := c.History(context.Background())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindAuthorization))
}

func TestProtectedCall_NoToken_NoRequest(t *testing.T) {
	t.Parallel()

	hit := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken(""))
	_, err := c.Profile(context.Background())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindAuthorization))
	assert.False(t, hit, "anonymous client must not issue protected requests")
}

func TestProfile_NotFoundIsDistinctFromTransport(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Profile not found"})
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken("tok"))
	_, err := c.Profile(context.Background())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(err, KindTransport))
}

func TestBearerHeader_ReadPerRequest(t *testing.T) {
	t.Parallel()

	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(ProfileRecord{})
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken("tok-abc"))
	_, err := c.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-abc", got)
}

func TestAnalyze_PayloadExcludesServerFields(t *testing.T) {
	t.Parallel()

	var payload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/assessment/analyze", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		json.NewEncoder(w).Encode(map[string]any{
			"analysis":                  "Consider software engineering.",
			"recommendations_generated": true,
		})
	}))
	defer srv.Close()

	record := ProfileRecord{
		Profile: Profile{
			AcademicLevel: "high_school",
			CurrentClass:  "class_10",
			Stream:        "science",
			Subjects:      []string{"maths"},
			Grades:        map[string]string{"maths": "A"},
			Interests:     []string{"Technology"},
			Strengths:     []string{"Analysis"},
		},
		UserID:    "u1",
		UpdatedAt: Timestamp{Time: time.Now()},
	}

	c := New(srv.URL, staticToken("tok"))
	analysis, err := c.Analyze(context.Background(), record.Assessment())
	require.NoError(t, err)
	assert.Equal(t, "Consider software engineering.", analysis)

	assert.NotContains(t, payload, "user_id")
	assert.NotContains(t, payload, "updated_at")
	assert.Equal(t, "high_school", payload["academic_level"])
	assert.Equal(t, "class_10", payload["current_class"])
	assert.Equal(t, "science", payload["stream"])
}

func TestHistory_Decodes(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{"message": "newest", "response": "r2", "timestamp": "2024-06-02T10:00:00Z"},
			{"message": "oldest", "response": "r1", "timestamp": "2024-06-01T10:00:00Z"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken("tok"))
	turns, err := c.History(context.Background())
	require.NoError(t, err)
	require.Len(t, turns, 2)
	// Transport order is the server's (newest-first); display ordering is
	// the conversation stage's job, not the client's.
	assert.Equal(t, "newest", turns[0].Message)
}

func TestOffsetlessTimestamps_Decode(t *testing.T) {
	t.Parallel()

	// Stored datetimes round-trip through Mongo naive, so the backend
	// serializes them without an offset. Both protected reads must decode
	// that form; it means UTC.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/profile":
			json.NewEncoder(w).Encode(map[string]any{
				"academic_level": "undergraduate",
				"subjects":       []string{"economics"},
				"user_id":        "u1",
				"updated_at":     "2026-08-28T10:00:00.123000",
			})
		case "/api/chat/history":
			json.NewEncoder(w).Encode([]map[string]any{
				{"message": "hi", "response": "hello", "timestamp": "2026-08-28T10:00:00.123000"},
			})
		}
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken("tok"))

	record, err := c.Profile(context.Background())
	require.NoError(t, err)
	want := time.Date(2026, 8, 28, 10, 0, 0, 123000000, time.UTC)
	assert.True(t, record.UpdatedAt.Equal(want), "updated_at = %v", record.UpdatedAt)

	turns, err := c.History(context.Background())
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.True(t, turns[0].Timestamp.Equal(want), "timestamp = %v", turns[0].Timestamp)
}

func TestTimestamp_AcceptsRFC3339(t *testing.T) {
	t.Parallel()

	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2026-08-28T10:00:00.123Z"`), &ts))
	assert.Equal(t, time.Date(2026, 8, 28, 10, 0, 0, 123000000, time.UTC), ts.Time)

	require.NoError(t, json.Unmarshal([]byte(`""`), &ts))
	assert.True(t, ts.IsZero())

	require.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestServerError_IsTransport(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Analysis failed: upstream"})
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken("tok"))
	_, err := c.Analyze(context.Background(), Profile{AcademicLevel: "undergraduate"})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindTransport))

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Contains(t, apiErr.Message, "Analysis failed")
}
