// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ledger is the durable vote store: one row per (session, poll),
the source of truth the tally store is derived from.

# Contract

	FindVote(ctx, sessionID, pollID)  -> *models.Vote or nil
	InsertVote(ctx, sessionID, pollID, optionID)
	DeleteVote(ctx, voteID)           -> whether a row was removed
	CountVotes(ctx, pollID)           -> per-option counts for recount
	OptionExists(ctx, pollID, optionID)
	ListOptions(ctx, pollID)          -> the poll's option ids

InsertVote returns ErrDuplicateVote when the session already holds a
vote on the poll. That error is how a concurrent same-session race is
surfaced: the loser re-resolves through FindVote instead of writing a
second row. DeleteVote arbitrates the mirror-image race: when two
requests try to retire the same row, only the one that actually removed
it gets true back, so only one of them settles the tally for it.

# Implementations

SQLLedger runs over database/sql and works with both the sqlite and
postgres drivers; the UNIQUE (session_id, poll_id) constraint does the
arbitration. MemoryLedger reproduces the same semantics with a keyed
map under one lock, so coordinator logic is testable without a live
database.
*/
package ledger
