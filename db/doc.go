// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles ledger schema creation.

Three tables: poll, poll_option, and vote. The vote table carries the
UNIQUE (session_id, poll_id) constraint that the whole system leans on
for vote deduplication; the database is the authoritative arbiter when
two requests from the same session race.

The DDL is written to the common subset of sqlite and postgres so the
same schema works under either configured driver:

	if err := db.CreateSchema(conn); err != nil { ... }
*/
package db
