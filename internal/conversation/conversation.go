// Package conversation is the chat stage's state machine. A conversation
// is idle or sending; sends are strictly serialized, blank input is
// rejected before any network activity, and a failed send retains the
// draft so the user can retry unchanged.
package conversation

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"disha/internal/api"

	"github.com/google/uuid"
)

var (
	// ErrEmpty rejects blank or whitespace-only input. No request is made.
	ErrEmpty = errors.New("empty message")

	// ErrBusy rejects a send while another is outstanding. The second send
	// may not be issued until the first settles.
	ErrBusy = errors.New("a send is already in flight")

	// ErrIdle guards Complete/Fail against being called without a pending
	// send.
	ErrIdle = errors.New("no send in flight")
)

// Turn is one user-message/assistant-reply pair, timestamped client-side
// at append time.
type Turn struct {
	ID        string
	Message   string
	Reply     string
	Timestamp time.Time
}

// Conversation holds the ordered turn sequence and the send state.
// Insertion order equals chronological order; the sequence is append-only
// within a session.
type Conversation struct {
	mu      sync.Mutex
	turns   []Turn
	sending bool
	pending string
	loaded  bool
}

// New returns an empty, idle conversation.
func New() *Conversation {
	return &Conversation{}
}

// SetHistory installs prior turns fetched from the server, ordering them
// oldest-first regardless of the order the transport returned them in.
// The transport serves newest-first, so the slice is reversed before the
// stable sort; turns sharing a timestamp keep their chronological order.
// Empty history is a normal state.
func (c *Conversation) SetHistory(turns []api.Turn) {
	ordered := make([]Turn, 0, len(turns))
	for i := len(turns) - 1; i >= 0; i-- {
		t := turns[i]
		ordered = append(ordered, Turn{
			ID:        uuid.NewString(),
			Message:   t.Message,
			Reply:     t.Reply,
			Timestamp: t.Timestamp.Time,
		})
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = ordered
	c.loaded = true
}

// Loaded reports whether history has been fetched this session.
func (c *Conversation) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Begin starts a send. It trims the input, rejects blank messages and
// refuses to overlap an outstanding send. The returned string is the
// message actually being sent.
func (c *Conversation) Begin(message string) (string, error) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return "", ErrEmpty
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sending {
		return "", ErrBusy
	}
	c.sending = true
	c.pending = trimmed
	return trimmed, nil
}

// Complete settles the outstanding send with the assistant's reply,
// appending a turn with the echoed message and a client-generated
// timestamp.
func (c *Conversation) Complete(reply string) (Turn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.sending {
		return Turn{}, ErrIdle
	}

	turn := Turn{
		ID:        uuid.NewString(),
		Message:   c.pending,
		Reply:     reply,
		Timestamp: time.Now(),
	}
	c.turns = append(c.turns, turn)
	c.sending = false
	c.pending = ""
	return turn, nil
}

// Fail settles the outstanding send without appending. It returns the
// retained draft so the caller can restore it to the input.
func (c *Conversation) Fail() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.sending {
		return "", ErrIdle
	}
	draft := c.pending
	c.sending = false
	c.pending = ""
	return draft, nil
}

// Sending reports whether a send is outstanding.
func (c *Conversation) Sending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sending
}

// Pending returns the message of the outstanding send, if any.
func (c *Conversation) Pending() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending, c.sending
}

// Turns returns a copy of the turn sequence, oldest first.
func (c *Conversation) Turns() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Reset clears all state for logout or session switch.
func (c *Conversation) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = nil
	c.sending = false
	c.pending = ""
	c.loaded = false
}
