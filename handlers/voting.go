// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/danielhkuo/pollcast/auth"
	"github.com/danielhkuo/pollcast/cliparse"
	"github.com/danielhkuo/pollcast/ledger"
	"github.com/danielhkuo/pollcast/middleware"
	"github.com/danielhkuo/pollcast/models"
	"github.com/danielhkuo/pollcast/voting"
)

type VotingHandler struct {
	coord  *voting.Coordinator
	ledger ledger.Ledger
	cfg    cliparse.Config
}

func NewVotingHandler(coord *voting.Coordinator, l ledger.Ledger, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{coord: coord, ledger: l, cfg: cfg}
}

// CastVote handles POST /polls/{pollId}/votes
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("pollId")
	if uuid.Validate(pollID) != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "pollId must be a UUID")
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if uuid.Validate(req.PollOptionID) != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "pollOptionId must be a UUID")
		return
	}

	exists, err := h.ledger.OptionExists(r.Context(), pollID, req.PollOptionID)
	if err != nil {
		slog.Error("failed to check option", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusBadRequest, "pollOptionId does not belong to this poll")
		return
	}

	// An unreadable or forged cookie is the same as no cookie: fresh voter.
	sessionID := ""
	if cookie, err := r.Cookie(models.SessionCookieName); err == nil {
		if id, err := auth.VerifySession(cookie.Value, h.cfg.CookieSecret); err == nil {
			sessionID = id
		}
	}

	effectiveSession, outcome, err := h.coord.CastVote(r.Context(), pollID, req.PollOptionID, sessionID)
	if errors.Is(err, voting.ErrAlreadyVoted) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "You've already voted on this poll")
		return
	}
	if err != nil {
		slog.Error("failed to cast vote", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	if outcome.SessionCreated {
		http.SetCookie(w, &http.Cookie{
			Name:     models.SessionCookieName,
			Value:    auth.SignSession(effectiveSession, h.cfg.CookieSecret),
			Path:     "/",
			MaxAge:   models.SessionCookieMaxAge,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	slog.Info("vote recorded",
		"poll_id", pollID, "option_id", req.PollOptionID,
		"switched", outcome.Switched, "new_session", outcome.SessionCreated)

	w.WriteHeader(http.StatusCreated)
}

// Recount handles POST /polls/{pollId}/recount
// Rebuilds the poll's tallies from the vote ledger.
func (h *VotingHandler) Recount(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("pollId")
	if uuid.Validate(pollID) != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "pollId must be a UUID")
		return
	}

	counts, err := h.coord.Recount(r.Context(), pollID)
	if err != nil {
		slog.Error("failed to recount poll", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Recount failed")
		return
	}

	slog.Info("poll recounted", "poll_id", pollID)

	middleware.JSONResponse(w, http.StatusOK, models.RecountResponse{Counts: counts})
}
