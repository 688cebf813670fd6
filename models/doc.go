// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the domain types and HTTP request/response types
shared across the Pollcast packages.

Domain types mirror the ledger schema: Poll, Option, and Vote. A Vote
carries the session that cast it; the session id is excluded from JSON
so it never leaks through an API response.

OptionCount and ChangeEvent are derived types. OptionCount is a ranked
read over the tally store; ChangeEvent is the ephemeral message fanned
out to live subscribers and is never persisted.
*/
package models
