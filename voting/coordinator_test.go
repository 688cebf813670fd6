// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/danielhkuo/pollcast/ledger"
	"github.com/danielhkuo/pollcast/models"
	"github.com/danielhkuo/pollcast/pubsub"
	"github.com/danielhkuo/pollcast/tally"
)

type fixture struct {
	ledger *ledger.MemoryLedger
	tally  *tally.MemoryStore
	reg    *pubsub.Registry
	coord  *Coordinator
}

func setup(t *testing.T) fixture {
	t.Helper()
	f := fixture{
		ledger: ledger.NewMemoryLedger(),
		tally:  tally.NewMemoryStore(),
		reg:    pubsub.NewRegistry(),
	}
	f.ledger.AddOption("p1", "o1")
	f.ledger.AddOption("p1", "o2")
	f.coord = NewCoordinator(f.ledger, f.tally, f.reg)
	return f
}

// assertTally compares the tally store against expected counts.
func assertTally(t *testing.T, f fixture, pollID string, want map[string]int64) {
	t.Helper()
	counts, err := f.tally.Counts(context.Background(), pollID)
	if err != nil {
		t.Fatal(err)
	}
	for optionID, expected := range want {
		if counts[optionID] != expected {
			t.Errorf("tally(%s, %s): expected %d, got %d", pollID, optionID, expected, counts[optionID])
		}
	}
}

// assertLedgerMatchesTally recounts from the ledger and checks the tally
// projection agrees, option by option.
func assertLedgerMatchesTally(t *testing.T, f fixture, pollID string) {
	t.Helper()
	ctx := context.Background()
	fromLedger, err := f.ledger.CountVotes(ctx, pollID)
	if err != nil {
		t.Fatal(err)
	}
	fromTally, err := f.tally.Counts(ctx, pollID)
	if err != nil {
		t.Fatal(err)
	}
	for optionID, expected := range fromLedger {
		if fromTally[optionID] != expected {
			t.Errorf("tally diverged from ledger for %s: ledger %d, tally %d", optionID, expected, fromTally[optionID])
		}
	}
}

func TestFirstVoteMintsSession(t *testing.T) {
	f := setup(t)

	sessionID, outcome, err := f.coord.CastVote(context.Background(), "p1", "o1", "")
	if err != nil {
		t.Fatal(err)
	}
	if sessionID == "" {
		t.Error("Expected a minted session id")
	}
	if !outcome.SessionCreated {
		t.Error("Expected SessionCreated outcome")
	}
	if outcome.Switched {
		t.Error("Did not expect Switched outcome")
	}

	assertTally(t, f, "p1", map[string]int64{"o1": 1, "o2": 0})
	assertLedgerMatchesTally(t, f, "p1")
}

func TestRepeatVoteSameOptionRejected(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	sessionID, _, err := f.coord.CastVote(ctx, "p1", "o2", "")
	if err != nil {
		t.Fatal(err)
	}

	_, outcome, err := f.coord.CastVote(ctx, "p1", "o2", sessionID)
	if !errors.Is(err, ErrAlreadyVoted) {
		t.Fatalf("Expected ErrAlreadyVoted, got %v", err)
	}
	if outcome.SessionCreated {
		t.Error("Existing session must not be re-minted")
	}

	// Nothing mutated
	assertTally(t, f, "p1", map[string]int64{"o1": 0, "o2": 1})
	assertLedgerMatchesTally(t, f, "p1")
}

func TestSwitchVote(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	events, cancel := f.reg.Subscribe("p1")
	defer cancel()

	sessionID, _, err := f.coord.CastVote(ctx, "p1", "o1", "")
	if err != nil {
		t.Fatal(err)
	}

	_, outcome, err := f.coord.CastVote(ctx, "p1", "o2", sessionID)
	if err != nil {
		t.Fatal(err)
	}
	if !outcome.Switched {
		t.Error("Expected Switched outcome")
	}

	assertTally(t, f, "p1", map[string]int64{"o1": 0, "o2": 1})
	assertLedgerMatchesTally(t, f, "p1")

	// The session still holds exactly one row on the poll
	v, err := f.ledger.FindVote(ctx, sessionID, "p1")
	if err != nil {
		t.Fatal(err)
	}
	if v == nil || v.PollOptionID != "o2" {
		t.Errorf("Expected single vote on o2, got %+v", v)
	}

	// Exactly three events in causal order: first vote, then the
	// switch's decrement before its increment.
	want := []models.ChangeEvent{
		{PollID: "p1", PollOptionID: "o1", Count: 1},
		{PollID: "p1", PollOptionID: "o1", Count: 0},
		{PollID: "p1", PollOptionID: "o2", Count: 1},
	}
	for i, expected := range want {
		got := <-events
		if got != expected {
			t.Errorf("Event %d: expected %+v, got %+v", i, expected, got)
		}
	}
	if len(events) != 0 {
		t.Errorf("Expected no further events, found %d buffered", len(events))
	}
}

// TestWorkedExample follows the p1/o1/o2/s1 sequence end to end.
func TestWorkedExample(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	events, cancel := f.reg.Subscribe("p1")
	defer cancel()

	// s1 votes o1
	s1, _, err := f.coord.CastVote(ctx, "p1", "o1", "")
	if err != nil {
		t.Fatal(err)
	}
	assertTally(t, f, "p1", map[string]int64{"o1": 1, "o2": 0})
	if ev := <-events; ev.PollOptionID != "o1" || ev.Count != 1 {
		t.Errorf("Expected {o1,1}, got %+v", ev)
	}

	// s1 switches to o2
	if _, _, err := f.coord.CastVote(ctx, "p1", "o2", s1); err != nil {
		t.Fatal(err)
	}
	if ev := <-events; ev.PollOptionID != "o1" || ev.Count != 0 {
		t.Errorf("Expected {o1,0}, got %+v", ev)
	}
	if ev := <-events; ev.PollOptionID != "o2" || ev.Count != 1 {
		t.Errorf("Expected {o2,1}, got %+v", ev)
	}
	assertTally(t, f, "p1", map[string]int64{"o1": 0, "o2": 1})

	// s1 votes o2 again
	if _, _, err := f.coord.CastVote(ctx, "p1", "o2", s1); !errors.Is(err, ErrAlreadyVoted) {
		t.Fatalf("Expected ErrAlreadyVoted, got %v", err)
	}
	assertTally(t, f, "p1", map[string]int64{"o1": 0, "o2": 1})
	if len(events) != 0 {
		t.Errorf("Rejected vote must not publish, found %d events", len(events))
	}
}

func TestUnknownSessionTreatedAsNewVoter(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	if _, _, err := f.coord.CastVote(ctx, "p1", "o1", ""); err != nil {
		t.Fatal(err)
	}
	// Caller did not resend the issued token: brand-new voter
	if _, _, err := f.coord.CastVote(ctx, "p1", "o1", ""); err != nil {
		t.Fatal(err)
	}

	assertTally(t, f, "p1", map[string]int64{"o1": 2})
	assertLedgerMatchesTally(t, f, "p1")
}

func TestConcurrentDistinctSessions(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	const voters = 40
	var wg sync.WaitGroup
	errs := make(chan error, voters)

	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			sessionID := fmt.Sprintf("session-%d", n)
			if _, _, err := f.coord.CastVote(ctx, "p1", "o1", sessionID); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Concurrent vote failed: %v", err)
	}

	assertTally(t, f, "p1", map[string]int64{"o1": voters})
	assertLedgerMatchesTally(t, f, "p1")
}

// racingLedger wraps the memory ledger and sneaks a competing same-session
// vote in just before the first InsertVote, reproducing the window where
// two requests from one session race to record.
type racingLedger struct {
	*ledger.MemoryLedger
	competingOption string
	once            sync.Once
}

func (r *racingLedger) InsertVote(ctx context.Context, sessionID, pollID, pollOptionID string) (*models.Vote, error) {
	r.once.Do(func() {
		r.MemoryLedger.InsertVote(ctx, sessionID, pollID, r.competingOption)
	})
	return r.MemoryLedger.InsertVote(ctx, sessionID, pollID, pollOptionID)
}

func TestSameSessionRaceResolvesAsSwitch(t *testing.T) {
	mem := ledger.NewMemoryLedger()
	mem.AddOption("p1", "o1")
	mem.AddOption("p1", "o2")
	rl := &racingLedger{MemoryLedger: mem, competingOption: "o2"}

	store := tally.NewMemoryStore()
	// Competing vote already counted, as it would be had it gone through
	// the coordinator.
	store.Increment(context.Background(), "p1", "o2", 1)

	coord := NewCoordinator(rl, store, pubsub.NewRegistry())

	// The loser re-resolves: finds the winner's o2 row, switches to o1.
	_, outcome, err := coord.CastVote(context.Background(), "p1", "o1", "s1")
	if err != nil {
		t.Fatal(err)
	}
	if !outcome.Switched {
		t.Error("Expected the retried cast to resolve as a switch")
	}

	counts, _ := store.Counts(context.Background(), "p1")
	if counts["o1"] != 1 || counts["o2"] != 0 {
		t.Errorf("Unexpected counts after race: %v", counts)
	}

	v, _ := mem.FindVote(context.Background(), "s1", "p1")
	if v == nil || v.PollOptionID != "o1" {
		t.Errorf("Expected single row on o1, got %+v", v)
	}
}

func TestSameSessionRaceSameOptionRejected(t *testing.T) {
	mem := ledger.NewMemoryLedger()
	mem.AddOption("p1", "o1")
	rl := &racingLedger{MemoryLedger: mem, competingOption: "o1"}

	coord := NewCoordinator(rl, tally.NewMemoryStore(), pubsub.NewRegistry())

	_, _, err := coord.CastVote(context.Background(), "p1", "o1", "s1")
	if !errors.Is(err, ErrAlreadyVoted) {
		t.Fatalf("Expected ErrAlreadyVoted after losing the race to the same option, got %v", err)
	}
}

// staleReadLedger serves one canned FindVote answer before delegating,
// reproducing a request whose read of the session's prior vote went
// stale while another request switched it away.
type staleReadLedger struct {
	*ledger.MemoryLedger
	stale  *models.Vote
	served bool
	mu     sync.Mutex
}

func (l *staleReadLedger) FindVote(ctx context.Context, sessionID, pollID string) (*models.Vote, error) {
	l.mu.Lock()
	first := !l.served
	l.served = true
	l.mu.Unlock()
	if first {
		v := *l.stale
		return &v, nil
	}
	return l.MemoryLedger.FindVote(ctx, sessionID, pollID)
}

// A switch must only decrement the option whose row it actually removed.
// Here the request holds a stale row that another switch already retired;
// decrementing anyway would drive that option's count to -1 and detach
// the tally from the ledger.
func TestStaleSwitchDoesNotDecrementTwice(t *testing.T) {
	mem := ledger.NewMemoryLedger()
	for _, opt := range []string{"o1", "o2", "o3"} {
		mem.AddOption("p1", opt)
	}
	store := tally.NewMemoryStore()
	reg := pubsub.NewRegistry()
	coord := NewCoordinator(mem, store, reg)
	ctx := context.Background()

	// s1 votes o1; capture that row as the stale read.
	if _, _, err := coord.CastVote(ctx, "p1", "o1", "s1"); err != nil {
		t.Fatal(err)
	}
	staleVote, err := mem.FindVote(ctx, "s1", "p1")
	if err != nil || staleVote == nil {
		t.Fatalf("Expected s1's o1 row, got %+v (%v)", staleVote, err)
	}

	// A competing request switches s1 to o2, retiring the o1 row.
	if _, _, err := coord.CastVote(ctx, "p1", "o2", "s1"); err != nil {
		t.Fatal(err)
	}

	events, cancel := reg.Subscribe("p1")
	defer cancel()

	// Now the request that still holds the o1 row casts for o3. Its
	// delete hits nothing, so it must re-read and retire the o2 row
	// instead of decrementing o1 again.
	sl := &staleReadLedger{MemoryLedger: mem, stale: staleVote}
	racer := NewCoordinator(sl, store, reg)

	_, outcome, err := racer.CastVote(ctx, "p1", "o3", "s1")
	if err != nil {
		t.Fatal(err)
	}
	if !outcome.Switched {
		t.Error("Expected the re-resolved cast to report a switch")
	}

	counts, err := store.Counts(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]int64{"o1": 0, "o2": 0, "o3": 1}
	for optionID, expected := range want {
		if counts[optionID] != expected {
			t.Errorf("tally(%s): expected %d, got %d", optionID, expected, counts[optionID])
		}
	}

	fromLedger, err := mem.CountVotes(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	for optionID, expected := range fromLedger {
		if counts[optionID] != expected {
			t.Errorf("tally diverged from ledger for %s: ledger %d, tally %d", optionID, expected, counts[optionID])
		}
	}

	// Exactly the o2 retirement and the o3 increment; no event may ever
	// carry a negative count.
	wantEvents := []models.ChangeEvent{
		{PollID: "p1", PollOptionID: "o2", Count: 0},
		{PollID: "p1", PollOptionID: "o3", Count: 1},
	}
	for i, expected := range wantEvents {
		got := <-events
		if got != expected {
			t.Errorf("Event %d: expected %+v, got %+v", i, expected, got)
		}
	}
	if len(events) != 0 {
		t.Errorf("Expected no further events, found %d buffered", len(events))
	}
}

func TestRecountRepairsDrift(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		sessionID := fmt.Sprintf("s%d", i)
		if _, _, err := f.coord.CastVote(ctx, "p1", "o1", sessionID); err != nil {
			t.Fatal(err)
		}
	}

	// Simulate partial-failure drift
	f.tally.Set(ctx, "p1", "o1", 7)

	events, cancel := f.reg.Subscribe("p1")
	defer cancel()

	counts, err := f.coord.Recount(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	if counts["o1"] != 3 {
		t.Errorf("Expected recount of 3, got %d", counts["o1"])
	}
	assertTally(t, f, "p1", map[string]int64{"o1": 3, "o2": 0})

	// The corrected option got an event; the untouched one did not.
	ev := <-events
	if ev.PollOptionID != "o1" || ev.Count != 3 {
		t.Errorf("Expected correction event {o1,3}, got %+v", ev)
	}
	if len(events) != 0 {
		t.Errorf("Expected 1 event, found %d more", len(events))
	}
}
