package models

import "time"

// Session cookie settings (anonymous voter identity)
const (
	SessionCookieName   = "sessionId"
	SessionCookieMaxAge = 60 * 60 * 24 * 30 // 30 days
)

// Request types

type CreatePollRequest struct {
	Title   string   `json:"title"`
	Options []string `json:"options"`
}

type CastVoteRequest struct {
	PollOptionID string `json:"pollOptionId"`
}

// Response types

type CreatePollResponse struct {
	PollID    string   `json:"poll_id"`
	OptionIDs []string `json:"option_ids"`
}

type PollDetailsResponse struct {
	Poll    Poll          `json:"poll"`
	Options []Option      `json:"options"`
	Results []OptionCount `json:"results"`
}

type RecountResponse struct {
	Counts map[string]int64 `json:"counts"`
}

// Domain types

type Poll struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type Option struct {
	ID     string `json:"id"`
	PollID string `json:"poll_id"`
	Title  string `json:"title"`
}

type Vote struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"-"` // Never expose in JSON
	PollID       string    `json:"poll_id"`
	PollOptionID string    `json:"poll_option_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// OptionCount is a per-option tally with its rank among the poll's options.
// Rank is assigned at read time, never stored.
type OptionCount struct {
	PollOptionID string `json:"poll_option_id"`
	Count        int64  `json:"count"`
	Rank         int    `json:"rank"`
}

// ChangeEvent notifies live subscribers that an option's tally moved.
// Count carries the post-change value observed by the atomic increment.
type ChangeEvent struct {
	PollID       string `json:"poll_id"`
	PollOptionID string `json:"poll_option_id"`
	Count        int64  `json:"count"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
