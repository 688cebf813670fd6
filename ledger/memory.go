// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/pollcast/models"
)

// MemoryLedger keeps votes in process memory with the same uniqueness
// semantics as the SQL ledger: the insert-or-conflict check happens under
// one lock, so concurrent same-session inserts resolve exactly like a
// database unique constraint. Used in tests and zero-infrastructure runs.
type MemoryLedger struct {
	mu      sync.Mutex
	votes   map[string]*models.Vote // vote id -> vote
	byKey   map[string]string       // session id + poll id -> vote id
	options map[string][]string     // poll id -> option ids
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		votes:   make(map[string]*models.Vote),
		byKey:   make(map[string]string),
		options: make(map[string][]string),
	}
}

// AddOption registers an option under a poll so OptionExists and
// CountVotes can answer for it. Test seeding helper; the SQL ledger
// learns its options from the poll_option table instead.
func (l *MemoryLedger) AddOption(pollID, optionID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.options[pollID] = append(l.options[pollID], optionID)
}

func (l *MemoryLedger) FindVote(_ context.Context, sessionID, pollID string) (*models.Vote, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id, ok := l.byKey[voteKey(sessionID, pollID)]
	if !ok {
		return nil, nil
	}
	v := *l.votes[id]
	return &v, nil
}

func (l *MemoryLedger) InsertVote(_ context.Context, sessionID, pollID, pollOptionID string) (*models.Vote, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := voteKey(sessionID, pollID)
	if _, taken := l.byKey[key]; taken {
		return nil, ErrDuplicateVote
	}

	v := &models.Vote{
		ID:           uuid.NewString(),
		SessionID:    sessionID,
		PollID:       pollID,
		PollOptionID: pollOptionID,
		CreatedAt:    time.Now().UTC(),
	}
	l.votes[v.ID] = v
	l.byKey[key] = v.ID

	out := *v
	return &out, nil
}

func (l *MemoryLedger) DeleteVote(_ context.Context, voteID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.votes[voteID]
	if !ok {
		return false, nil
	}
	delete(l.votes, voteID)
	delete(l.byKey, voteKey(v.SessionID, v.PollID))
	return true, nil
}

func (l *MemoryLedger) CountVotes(_ context.Context, pollID string) (map[string]int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	counts := make(map[string]int64)
	for _, optionID := range l.options[pollID] {
		counts[optionID] = 0
	}
	for _, v := range l.votes {
		if v.PollID == pollID {
			counts[v.PollOptionID]++
		}
	}
	return counts, nil
}

func (l *MemoryLedger) OptionExists(_ context.Context, pollID, optionID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, id := range l.options[pollID] {
		if id == optionID {
			return true, nil
		}
	}
	return false, nil
}

func (l *MemoryLedger) ListOptions(_ context.Context, pollID string) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ids := make([]string, len(l.options[pollID]))
	copy(ids, l.options[pollID])
	return ids, nil
}

func voteKey(sessionID, pollID string) string {
	return sessionID + "\x00" + pollID
}
