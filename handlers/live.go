// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/danielhkuo/pollcast/ledger"
	"github.com/danielhkuo/pollcast/middleware"
	"github.com/danielhkuo/pollcast/models"
	"github.com/danielhkuo/pollcast/pubsub"
	"github.com/danielhkuo/pollcast/tally"
)

type LiveHandler struct {
	tally    tally.Store
	registry *pubsub.Registry
	ledger   ledger.Ledger
}

func NewLiveHandler(store tally.Store, registry *pubsub.Registry, l ledger.Ledger) *LiveHandler {
	return &LiveHandler{tally: store, registry: registry, ledger: l}
}

// Results handles GET /polls/{pollId}/results/live
// Streams tally change events for one poll as Server-Sent Events:
// a snapshot of the current counts first, then one event per change
// until the client disconnects.
func (h *LiveHandler) Results(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("pollId")
	if uuid.Validate(pollID) != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "pollId must be a UUID")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	// Attach before the snapshot read so no change falls in the gap.
	// A change that lands in between shows up twice; counts are absolute,
	// so replaying a newer value is harmless.
	events, cancel := h.registry.Subscribe(pollID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	counts, err := h.tally.Counts(r.Context(), pollID)
	if err != nil {
		slog.Error("failed to read tallies for live stream", "error", err, "poll_id", pollID)
		return
	}
	// The tally only knows options that were ever touched; the snapshot
	// must still show every option, so backfill zeros from the poll.
	optionIDs, err := h.ledger.ListOptions(r.Context(), pollID)
	if err != nil {
		slog.Error("failed to list options for live stream", "error", err, "poll_id", pollID)
		return
	}
	for _, id := range optionIDs {
		if _, ok := counts[id]; !ok {
			counts[id] = 0
		}
	}
	for _, oc := range tally.Ranked(counts) {
		writeSSE(w, models.ChangeEvent{
			PollID:       pollID,
			PollOptionID: oc.PollOptionID,
			Count:        oc.Count,
		})
	}
	flusher.Flush()

	slog.Info("live subscriber attached", "poll_id", pollID, "remote", r.RemoteAddr)

	for {
		select {
		case <-r.Context().Done():
			slog.Info("live subscriber detached", "poll_id", pollID, "remote", r.RemoteAddr)
			return
		case ev, open := <-events:
			if !open {
				return
			}
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev models.ChangeEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		slog.Error("failed to encode change event", "error", err)
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", payload)
}
