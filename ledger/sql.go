// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/pollcast/models"
)

// SQLLedger stores votes in a relational database (sqlite or postgres).
type SQLLedger struct {
	db *sql.DB
}

func NewSQLLedger(db *sql.DB) *SQLLedger {
	return &SQLLedger{db: db}
}

func (l *SQLLedger) FindVote(ctx context.Context, sessionID, pollID string) (*models.Vote, error) {
	var v models.Vote
	err := l.db.QueryRowContext(ctx, `
		SELECT id, session_id, poll_id, poll_option_id, created_at
		FROM vote
		WHERE session_id = $1 AND poll_id = $2
	`, sessionID, pollID).Scan(&v.ID, &v.SessionID, &v.PollID, &v.PollOptionID, &v.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query vote: %w", err)
	}
	return &v, nil
}

func (l *SQLLedger) InsertVote(ctx context.Context, sessionID, pollID, pollOptionID string) (*models.Vote, error) {
	v := models.Vote{
		ID:           uuid.NewString(),
		SessionID:    sessionID,
		PollID:       pollID,
		PollOptionID: pollOptionID,
		CreatedAt:    time.Now().UTC(),
	}

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO vote (id, session_id, poll_id, poll_option_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, v.ID, v.SessionID, v.PollID, v.PollOptionID, v.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateVote
		}
		return nil, fmt.Errorf("failed to insert vote: %w", err)
	}
	return &v, nil
}

func (l *SQLLedger) DeleteVote(ctx context.Context, voteID string) (bool, error) {
	res, err := l.db.ExecContext(ctx, `DELETE FROM vote WHERE id = $1`, voteID)
	if err != nil {
		return false, fmt.Errorf("failed to delete vote: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return affected > 0, nil
}

func (l *SQLLedger) CountVotes(ctx context.Context, pollID string) (map[string]int64, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT o.id, COUNT(v.id)
		FROM poll_option o
		LEFT JOIN vote v ON v.poll_option_id = o.id
		WHERE o.poll_id = $1
		GROUP BY o.id
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var optionID string
		var count int64
		if err := rows.Scan(&optionID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan vote count: %w", err)
		}
		counts[optionID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read vote counts: %w", err)
	}
	return counts, nil
}

func (l *SQLLedger) OptionExists(ctx context.Context, pollID, optionID string) (bool, error) {
	var exists bool
	err := l.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM poll_option
			WHERE poll_id = $1 AND id = $2
		)
	`, pollID, optionID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check option: %w", err)
	}
	return exists, nil
}

func (l *SQLLedger) ListOptions(ctx context.Context, pollID string) ([]string, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id FROM poll_option
		WHERE poll_id = $1
		ORDER BY id
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to list options: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan option id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read option ids: %w", err)
	}
	return ids, nil
}

// isUniqueViolation recognizes the (session_id, poll_id) constraint error
// from either configured driver.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite
		strings.Contains(msg, "duplicate key value violates unique constraint") // postgres
}
