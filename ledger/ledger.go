// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"errors"

	"github.com/danielhkuo/pollcast/models"
)

// ErrDuplicateVote is returned by InsertVote when the (session, poll) pair
// already holds a vote row. Callers re-resolve the conflict as a switch or
// an already-voted rejection; they never retry the insert blindly.
var ErrDuplicateVote = errors.New("session already voted on this poll")

// Ledger is the durable vote store, the source of truth for cast votes.
// Implementations enforce at most one vote row per (session, poll).
type Ledger interface {
	// FindVote returns the session's current vote on a poll, or nil when
	// the session has not voted on it.
	FindVote(ctx context.Context, sessionID, pollID string) (*models.Vote, error)

	// InsertVote records a new vote. Returns ErrDuplicateVote when the
	// session already holds a vote on the poll.
	InsertVote(ctx context.Context, sessionID, pollID, pollOptionID string) (*models.Vote, error)

	// DeleteVote removes a vote row by id and reports whether a row was
	// actually removed. False without error means another request got to
	// the row first; callers must not act as if they retired it.
	DeleteVote(ctx context.Context, voteID string) (bool, error)

	// CountVotes recomputes per-option vote counts for a poll from the raw
	// rows, including zero counts for options nobody picked. Used by the
	// tally reconciliation path.
	CountVotes(ctx context.Context, pollID string) (map[string]int64, error)

	// OptionExists reports whether an option belongs to the given poll.
	OptionExists(ctx context.Context, pollID, optionID string) (bool, error)

	// ListOptions returns the ids of every option belonging to a poll.
	ListOptions(ctx context.Context, pollID string) ([]string, error)
}
