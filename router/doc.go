// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines all HTTP routes for the Pollcast API using
Go 1.22+ method-and-pattern routing.

NewRouter wires the vote coordinator to its collaborators (SQL ledger,
tally store, pubsub registry) and registers:

	GET  /health
	POST /polls
	GET  /polls/{pollId}
	POST /polls/{pollId}/votes
	POST /polls/{pollId}/recount
	GET  /polls/{pollId}/results/live
	GET  /

Request handlers are wrapped in logging middleware, except the live
results stream which logs its own attach/detach lifecycle.
*/
package router
