// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package tally is the ranked per-option vote counter: a cache over the
vote ledger, updated incrementally on every cast and rebuildable from
the ledger by recount.

# Contract

	newCount, err := store.Increment(ctx, pollID, optionID, +1)
	counts, err := store.Counts(ctx, pollID)
	err := store.Set(ctx, pollID, optionID, n)

Increment is atomic per key; the returned value is the post-increment
count as observed by that operation and goes verbatim into the change
event broadcast to subscribers. Counts is not a cross-option snapshot;
each option's value is independently consistent.

# Backends

MemoryStore holds counts under an RWMutex; the zero-infrastructure
default. RedisStore maps each poll to a sorted set ("poll:<id>") and
uses ZINCRBY, so counts are shared across server processes. The server
picks the backend from REDIS_URL at startup.

# Ranking

Ranked derives display order from raw counts (count descending, option
id ascending on ties). The store itself knows nothing about ranking.
*/
package tally
