package conversation

import (
	"errors"
	"testing"
	"time"

	"disha/internal/api"
)

func TestSetHistory_OldestFirstFromNewestFirstTransport(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	c := New()
	c.SetHistory([]api.Turn{
		{Message: "third", Timestamp: api.Timestamp{Time: base.Add(2 * time.Hour)}},
		{Message: "second", Timestamp: api.Timestamp{Time: base.Add(time.Hour)}},
		{Message: "first", Timestamp: api.Timestamp{Time: base}},
	})

	turns := c.Turns()
	if len(turns) != 3 {
		t.Fatalf("got %d turns, want 3", len(turns))
	}
	for i, want := range []string{"first", "second", "third"} {
		if turns[i].Message != want {
			t.Errorf("turns[%d] = %q, want %q", i, turns[i].Message, want)
		}
	}
}

func TestSetHistory_EqualTimestampsStayChronological(t *testing.T) {
	t.Parallel()

	// The server timestamps to the second, so adjacent turns can tie.
	// Newest-first transport order must still come out earliest first.
	at := api.Timestamp{Time: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)}
	c := New()
	c.SetHistory([]api.Turn{
		{Message: "later", Timestamp: at},
		{Message: "earlier", Timestamp: at},
	})

	turns := c.Turns()
	if turns[0].Message != "earlier" || turns[1].Message != "later" {
		t.Fatalf("tied timestamps reordered: %q, %q", turns[0].Message, turns[1].Message)
	}
}

func TestSetHistory_AlreadyChronologicalUnchanged(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	c := New()
	c.SetHistory([]api.Turn{
		{Message: "first", Timestamp: api.Timestamp{Time: base}},
		{Message: "second", Timestamp: api.Timestamp{Time: base.Add(time.Hour)}},
	})

	turns := c.Turns()
	if turns[0].Message != "first" || turns[1].Message != "second" {
		t.Fatalf("chronological input reordered: %v", turns)
	}
}

func TestBegin_EmptyInputNeverSends(t *testing.T) {
	t.Parallel()

	c := New()
	for _, input := range []string{"", "   ", "\n\t "} {
		if _, err := c.Begin(input); !errors.Is(err, ErrEmpty) {
			t.Errorf("Begin(%q) = %v, want ErrEmpty", input, err)
		}
	}
	if c.Sending() {
		t.Fatal("conversation went to sending on blank input")
	}
}

func TestBegin_SerializesSends(t *testing.T) {
	t.Parallel()

	c := New()
	if _, err := c.Begin("first question"); err != nil {
		t.Fatalf("first begin: %v", err)
	}

	// Second send must be refused until the first settles.
	if _, err := c.Begin("second question"); !errors.Is(err, ErrBusy) {
		t.Fatalf("overlapping Begin = %v, want ErrBusy", err)
	}

	if _, err := c.Complete("answer"); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := c.Begin("second question"); err != nil {
		t.Fatalf("begin after settle: %v", err)
	}
}

func TestComplete_AppendsEchoedMessageWithClientTimestamp(t *testing.T) {
	t.Parallel()

	c := New()
	sent, err := c.Begin("  what should I study?  ")
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if sent != "what should I study?" {
		t.Fatalf("Begin trimmed = %q", sent)
	}

	before := time.Now()
	turn, err := c.Complete("Consider engineering.")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}

	if turn.Message != "what should I study?" {
		t.Errorf("echoed message = %q", turn.Message)
	}
	if turn.Reply != "Consider engineering." {
		t.Errorf("reply = %q", turn.Reply)
	}
	if turn.Timestamp.Before(before) {
		t.Error("timestamp is not client-generated at append time")
	}
	if turn.ID == "" {
		t.Error("turn has no id")
	}
	if c.Sending() {
		t.Error("still sending after complete")
	}
}

func TestFail_RetainsDraftForRetry(t *testing.T) {
	t.Parallel()

	c := New()
	if _, err := c.Begin("my question"); err != nil {
		t.Fatalf("begin: %v", err)
	}

	draft, err := c.Fail()
	if err != nil {
		t.Fatalf("fail: %v", err)
	}
	if draft != "my question" {
		t.Fatalf("retained draft = %q", draft)
	}
	if len(c.Turns()) != 0 {
		t.Fatal("failed send appended a turn")
	}
	if c.Sending() {
		t.Fatal("still sending after failure")
	}

	// Retry with the same input succeeds.
	if _, err := c.Begin(draft); err != nil {
		t.Fatalf("retry begin: %v", err)
	}
}

func TestCompleteAndFail_RequirePendingSend(t *testing.T) {
	t.Parallel()

	c := New()
	if _, err := c.Complete("reply"); !errors.Is(err, ErrIdle) {
		t.Fatalf("Complete while idle = %v, want ErrIdle", err)
	}
	if _, err := c.Fail(); !errors.Is(err, ErrIdle) {
		t.Fatalf("Fail while idle = %v, want ErrIdle", err)
	}
}

func TestReset_ClearsEverything(t *testing.T) {
	t.Parallel()

	c := New()
	c.SetHistory([]api.Turn{{Message: "old", Timestamp: api.Timestamp{Time: time.Now()}}})
	if _, err := c.Begin("pending"); err != nil {
		t.Fatalf("begin: %v", err)
	}

	c.Reset()
	if c.Loaded() || c.Sending() || len(c.Turns()) != 0 {
		t.Fatal("reset left state behind")
	}
}
