package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"disha/internal/api"
)

func testAuth() api.Authorization {
	return api.Authorization{
		Token: "tok-xyz",
		Principal: api.Principal{
			ID:    "u1",
			Email: "asha@example.com",
			Name:  "Asha",
		},
	}
}

func TestLogin_PersistsTokenAndPrincipalTogether(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	s := NewStore(dir)

	if err := s.Login(testAuth()); err != nil {
		t.Fatalf("login: %v", err)
	}

	token, ok := s.Token()
	if !ok || token != "tok-xyz" {
		t.Fatalf("Token() = %q, %v; want tok-xyz, true", token, ok)
	}
	p, ok := s.Principal()
	if !ok || p.Name != "Asha" {
		t.Fatalf("Principal() = %+v, %v", p, ok)
	}

	// The persisted token must equal the issued one.
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("read session file: %v", err)
	}
	var rec struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("unmarshal session file: %v", err)
	}
	if rec.AccessToken != "tok-xyz" {
		t.Fatalf("persisted token = %q, want tok-xyz", rec.AccessToken)
	}
}

func TestLogout_ErasesPersistedToken(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	s := NewStore(dir)

	if err := s.Login(testAuth()); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := s.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if s.Authenticated() {
		t.Fatal("store still authenticated after logout")
	}
	if _, ok := s.Principal(); ok {
		t.Fatal("principal still present after logout")
	}
	if _, err := os.Stat(filepath.Join(dir, FileName)); !os.IsNotExist(err) {
		t.Fatalf("session file still present after logout: %v", err)
	}
}

func TestLogout_WithoutSessionIsNoop(t *testing.T) {
	t.Parallel()
	s := NewStore(t.TempDir())
	if err := s.Logout(); err != nil {
		t.Fatalf("logout on empty store: %v", err)
	}
}

func TestRestore_RoundTrip(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	if err := NewStore(dir).Login(testAuth()); err != nil {
		t.Fatalf("login: %v", err)
	}

	// Fresh store, same dir: simulates a process restart.
	s := NewStore(dir)
	if s.Authenticated() {
		t.Fatal("authenticated before restore")
	}
	if err := s.Restore(); err != nil {
		t.Fatalf("restore: %v", err)
	}

	token, ok := s.Token()
	if !ok || token != "tok-xyz" {
		t.Fatalf("restored Token() = %q, %v", token, ok)
	}
	p, _ := s.Principal()
	if p.Email != "asha@example.com" {
		t.Fatalf("restored principal = %+v", p)
	}
}

func TestRestore_MissingFileLeavesAnonymous(t *testing.T) {
	t.Parallel()
	s := NewStore(t.TempDir())
	if err := s.Restore(); err != nil {
		t.Fatalf("restore with no file: %v", err)
	}
	if s.Authenticated() {
		t.Fatal("authenticated with no persisted session")
	}
}

func TestRestore_CorruptFileCleared(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	s := NewStore(dir)
	if err := s.Restore(); err != nil {
		t.Fatalf("restore corrupt: %v", err)
	}
	if s.Authenticated() {
		t.Fatal("authenticated from corrupt session file")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("corrupt session file not removed")
	}
}

func TestEpoch_AdvancesOnEveryTransition(t *testing.T) {
	t.Parallel()
	s := NewStore(t.TempDir())
	start := s.Epoch()

	if err := s.Login(testAuth()); err != nil {
		t.Fatalf("login: %v", err)
	}
	afterLogin := s.Epoch()
	if afterLogin <= start {
		t.Fatalf("epoch after login = %d, want > %d", afterLogin, start)
	}

	if err := s.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if s.Epoch() <= afterLogin {
		t.Fatalf("epoch after logout = %d, want > %d", s.Epoch(), afterLogin)
	}
}
