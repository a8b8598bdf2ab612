// Package session holds the client's authentication state: the current
// principal and bearer token, persisted across restarts. The store is the
// single owner of both; every consumer reads them through it.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"disha/internal/api"
)

// FileName is the fixed name of the persisted session record.
const FileName = "session.json"

// record is the on-disk shape. The principal is persisted next to the
// token so that "principal present iff token present" survives restarts.
type record struct {
	AccessToken string        `json:"access_token"`
	User        api.Principal `json:"user"`
}

// Store is the session state machine. Transitions are Restore, Login and
// Logout; each is atomic with respect to Token() and Principal(), so no
// request can observe a mixed token/principal pairing.
type Store struct {
	mu        sync.Mutex
	path      string
	token     string
	principal api.Principal
	epoch     uint64
}

// NewStore creates a store persisting to dir/session.json.
func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, FileName)}
}

// Restore loads a persisted session if one exists. A missing file leaves
// the store anonymous and is not an error. The restored token is not
// validated against the server; an expired token surfaces as an
// authorization failure on first protected call.
func (s *Store) Restore() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		// A corrupt session file is equivalent to no session.
		return os.Remove(s.path)
	}
	if rec.AccessToken == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = rec.AccessToken
	s.principal = rec.User
	s.epoch++
	return nil
}

// Login installs a fresh authorization and persists it. Any previous
// session is replaced in the same critical section, so there is never a
// moment with two armed tokens.
func (s *Store) Login(auth api.Authorization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = auth.Token
	s.principal = auth.Principal
	s.epoch++

	data, err := json.MarshalIndent(record{AccessToken: auth.Token, User: auth.Principal}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Logout clears the session and erases the persisted record. Requests
// already in flight are not cancelled; they fail server-side. Requests
// issued afterwards go out without a bearer header.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.principal = api.Principal{}
	s.epoch++

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Token implements api.TokenSource.
func (s *Store) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

// Principal returns the authenticated user, if any.
func (s *Store) Principal() (api.Principal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.principal, s.token != ""
}

// Authenticated reports session presence.
func (s *Store) Authenticated() bool {
	_, ok := s.Token()
	return ok
}

// Epoch increments on every transition. In-flight request results tagged
// with an older epoch are dropped rather than applied.
func (s *Store) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}
