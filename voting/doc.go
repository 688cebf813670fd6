// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voting contains the vote coordinator, the control logic between
the HTTP layer and the backing stores.

# Casting

	sessionID, outcome, err := coord.CastVote(ctx, pollID, optionID, sessionID)

One call makes at most one ledger delete, exactly one ledger insert on
success, at most two tally increments, and at most two change events.
The decision tree:

  - no session: mint one, record a first vote
  - session with no prior vote on the poll: record a first vote
  - prior vote, same option: ErrAlreadyVoted, nothing mutated
  - prior vote, different option: switch (delete old row, decrement old
    tally, publish, then record the new vote)

Two requests from the same session can race. On insert, the ledger's
uniqueness constraint picks the winner; on delete, only the request
whose delete actually removed the row settles its tally. Either loser
re-resolves through the lookup path, a bounded number of times. Ledger mutations complete before the paired tally update
is attempted, and in-flight mutations are not cancelled when the HTTP
client goes away.

# Reconciliation

Tallies are a cache over the ledger and can drift if a call fails
between the ledger write and the tally write. Recount recomputes a
poll's counts from the ledger, writes back any corrections, and
publishes events for the options it fixed.
*/
package voting
