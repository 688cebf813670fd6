// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Pollcast API server.

Pollcast records anonymous votes on polls, deduplicates repeat votes per
browser session, and streams live tally updates to subscribers. One vote
per session per poll; voting again for a different option switches the
vote, voting for the same option is rejected.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=votes.db COOKIE_SECRET=... go run main.go

Or with flags:

	go run main.go -p 3318 -d votes.db -cookie-secret ...

# Configuration

Required settings:

  - DATABASE_URL (-d): ledger database (sqlite file or postgres URL)
  - COOKIE_SECRET (--cookie-secret): secret for session cookie HMAC

Optional settings:

  - PORT (-p): server port (default: 3318)
  - DATABASE_TYPE (-t): "sqlite" (default) or "postgres"
  - REDIS_URL (-r): Redis for tallies; in-memory when unset

# Architecture

The server uses a handler-based architecture with dependency injection:

  - ledger: durable vote store, source of truth (sql or memory)
  - tally: per-option ranked counters, a cache over the ledger
  - pubsub: topic-per-poll fan-out of tally change events
  - voting: the coordinator orchestrating ledger, tally, and pubsub
  - handlers: HTTP request handlers (polls, voting, live results)
  - router: route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: domain and request/response types
  - auth: session minting and cookie signing
  - db: ledger schema creation
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
