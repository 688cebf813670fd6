// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Pollcast API.

# Handler Types

Each handler is a struct with its dependencies injected via constructor:

  - PollsHandler: poll creation and retrieval (db + tally store)
  - VotingHandler: vote casting and recount (coordinator + ledger)
  - LiveHandler: live tally streaming (tally store + pubsub registry,
    ledger for the option list backing the snapshot)

# Voting Flow

	POST /polls                     → CreatePoll
	GET  /polls/{pollId}            → GetPoll (options + ranked tallies)
	POST /polls/{pollId}/votes      → CastVote
	GET  /polls/{pollId}/results/live → Results (SSE stream)
	POST /polls/{pollId}/recount    → Recount

CastVote reads the signed "sessionId" cookie to recognize a returning
browser. First-time voters get a session minted and set on the response
(30 days, HttpOnly, path /). A vote for an option the session already
chose returns 400 with "You've already voted on this poll"; a vote for
a different option on the same poll switches the vote.

# Live Results

Results streams Server-Sent Events: a snapshot of current counts on
connect, then one JSON ChangeEvent per tally change, until the client
disconnects. Dashboards watching a poll update without polling.
*/
package handlers
