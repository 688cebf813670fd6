// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/pollcast/cliparse"
	"github.com/danielhkuo/pollcast/handlers"
	"github.com/danielhkuo/pollcast/ledger"
	"github.com/danielhkuo/pollcast/middleware"
	"github.com/danielhkuo/pollcast/pubsub"
	"github.com/danielhkuo/pollcast/tally"
	"github.com/danielhkuo/pollcast/voting"
)

func NewRouter(db *sql.DB, store tally.Store, registry *pubsub.Registry, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Wire the coordinator to its collaborators
	voteLedger := ledger.NewSQLLedger(db)
	coord := voting.NewCoordinator(voteLedger, store, registry)

	// Initialize handlers
	pollsHandler := handlers.NewPollsHandler(db, store)
	votingHandler := handlers.NewVotingHandler(coord, voteLedger, cfg)
	liveHandler := handlers.NewLiveHandler(store, registry, voteLedger)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Poll management
	mux.HandleFunc("POST /polls", middleware.WithLogging(pollsHandler.CreatePoll))
	mux.HandleFunc("GET /polls/{pollId}", middleware.WithLogging(pollsHandler.GetPoll))

	// Voting
	mux.HandleFunc("POST /polls/{pollId}/votes", middleware.WithLogging(votingHandler.CastVote))
	mux.HandleFunc("POST /polls/{pollId}/recount", middleware.WithLogging(votingHandler.Recount))

	// Live results (not log-wrapped per request; the stream lives for
	// the whole subscription and logs attach/detach itself)
	mux.HandleFunc("GET /polls/{pollId}/results/live", liveHandler.Results)

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pollcast API v1"))
	})

	return mux
}
