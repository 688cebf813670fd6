// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/pollcast/middleware"
	"github.com/danielhkuo/pollcast/models"
	"github.com/danielhkuo/pollcast/tally"
)

type PollsHandler struct {
	db    *sql.DB
	tally tally.Store
}

func NewPollsHandler(db *sql.DB, store tally.Store) *PollsHandler {
	return &PollsHandler{db: db, tally: store}
}

// CreatePoll handles POST /polls
func (h *PollsHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if len(req.Options) < 2 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "at least 2 options are required")
		return
	}
	for _, option := range req.Options {
		if option == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "option titles cannot be empty")
			return
		}
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	pollID := uuid.NewString()
	_, err = tx.Exec(`
		INSERT INTO poll (id, title, created_at)
		VALUES ($1, $2, $3)
	`, pollID, req.Title, time.Now().UTC())
	if err != nil {
		slog.Error("failed to insert poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	optionIDs := make([]string, 0, len(req.Options))
	for _, title := range req.Options {
		optionID := uuid.NewString()
		_, err = tx.Exec(`
			INSERT INTO poll_option (id, poll_id, title)
			VALUES ($1, $2, $3)
		`, optionID, pollID, title)
		if err != nil {
			slog.Error("failed to insert option", "error", err, "poll_id", pollID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
			return
		}
		optionIDs = append(optionIDs, optionID)
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	slog.Info("poll created", "poll_id", pollID, "options", len(optionIDs))

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{
		PollID:    pollID,
		OptionIDs: optionIDs,
	})
}

// GetPoll handles GET /polls/{pollId}
// Returns the poll, its options, and the current ranked tallies.
func (h *PollsHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("pollId")
	if uuid.Validate(pollID) != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "pollId must be a UUID")
		return
	}

	var poll models.Poll
	err := h.db.QueryRow(`
		SELECT id, title, created_at FROM poll WHERE id = $1
	`, pollID).Scan(&poll.ID, &poll.Title, &poll.CreatedAt)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to query poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	rows, err := h.db.Query(`
		SELECT id, poll_id, title
		FROM poll_option
		WHERE poll_id = $1
		ORDER BY id
	`, pollID)
	if err != nil {
		slog.Error("failed to query options", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	options := []models.Option{}
	for rows.Next() {
		var opt models.Option
		if err := rows.Scan(&opt.ID, &opt.PollID, &opt.Title); err != nil {
			slog.Error("failed to scan option", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read options", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	counts, err := h.tally.Counts(r.Context(), pollID)
	if err != nil {
		slog.Error("failed to read tallies", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to read tallies")
		return
	}
	// Options nobody voted for yet still show up with a zero count
	for _, opt := range options {
		if _, ok := counts[opt.ID]; !ok {
			counts[opt.ID] = 0
		}
	}

	middleware.JSONResponse(w, http.StatusOK, models.PollDetailsResponse{
		Poll:    poll,
		Options: options,
		Results: tally.Ranked(counts),
	})
}
