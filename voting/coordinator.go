// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/pollcast/auth"
	"github.com/danielhkuo/pollcast/ledger"
	"github.com/danielhkuo/pollcast/models"
	"github.com/danielhkuo/pollcast/pubsub"
	"github.com/danielhkuo/pollcast/tally"
)

// ErrAlreadyVoted means the session already voted for this exact option.
// Nothing was mutated; callers surface it as a client error.
var ErrAlreadyVoted = errors.New("session already voted for this option")

// castRetries bounds how many times one CastVote call re-resolves after
// losing a same-session race, whether the loss shows up as an insert
// conflict or as the prior row vanishing mid-switch.
const castRetries = 2

// Outcome describes what a successful CastVote did.
type Outcome struct {
	// SessionCreated is true when the session id was minted during this
	// call; the HTTP layer then sets the cookie on the response.
	SessionCreated bool
	// Switched is true when an earlier vote on a different option was
	// retired in favor of this one.
	Switched bool
}

// Coordinator orchestrates a vote cast across the ledger, the tally
// store, and the change publisher. It is the sole tally writer and the
// sole event publisher.
type Coordinator struct {
	ledger    ledger.Ledger
	tally     tally.Store
	publisher *pubsub.Registry
}

func NewCoordinator(l ledger.Ledger, t tally.Store, p *pubsub.Registry) *Coordinator {
	return &Coordinator{ledger: l, tally: t, publisher: p}
}

// CastVote records sessionID's vote for optionID on pollID. An empty
// sessionID means a first-time voter: a session is minted and returned
// in effectiveSessionID with Outcome.SessionCreated set.
//
// An existing vote for the same option returns ErrAlreadyVoted. An
// existing vote for a different option is switched: the old row is
// deleted and its tally decremented (with a change event) before the
// new vote is recorded.
func (c *Coordinator) CastVote(ctx context.Context, pollID, optionID, sessionID string) (string, Outcome, error) {
	var out Outcome

	lookup := sessionID != ""
	if !lookup {
		sessionID = auth.NewSessionID()
		out.SessionCreated = true
	}

	// Mutations already issued must run to completion even if the caller
	// disconnects; there is no mid-operation rollback.
	ctx = context.WithoutCancel(ctx)

	for attempt := 0; ; attempt++ {
		if lookup {
			prev, err := c.ledger.FindVote(ctx, sessionID, pollID)
			if err != nil {
				return sessionID, out, fmt.Errorf("ledger lookup: %w", err)
			}
			if prev != nil {
				if prev.PollOptionID == optionID {
					return sessionID, out, ErrAlreadyVoted
				}
				retired, err := c.switchAway(ctx, prev)
				if err != nil {
					return sessionID, out, err
				}
				if !retired {
					// The row we read is gone: another request for
					// this session retired it first. Its tally was
					// settled by whoever removed it, so re-read the
					// current row instead of decrementing blindly.
					if attempt >= castRetries {
						return sessionID, out, fmt.Errorf(
							"unresolved vote conflict on poll %s", pollID)
					}
					slog.Info("concurrent vote conflict, re-resolving",
						"poll_id", pollID, "session_id", sessionID)
					continue
				}
				out.Switched = true
			}
		}

		_, err := c.ledger.InsertVote(ctx, sessionID, pollID, optionID)
		if err == nil {
			break
		}
		if errors.Is(err, ledger.ErrDuplicateVote) && attempt < castRetries {
			// Lost a same-session race: another request inserted first.
			// Re-resolve against the winner's row.
			slog.Info("concurrent vote conflict, re-resolving",
				"poll_id", pollID, "session_id", sessionID)
			lookup = true
			continue
		}
		return sessionID, out, fmt.Errorf("ledger insert: %w", err)
	}

	newCount, err := c.tally.Increment(ctx, pollID, optionID, 1)
	if err != nil {
		// Ledger row exists but the tally was not bumped; recount heals this.
		return sessionID, out, fmt.Errorf("tally increment: %w", err)
	}
	c.publish(pollID, optionID, newCount)

	return sessionID, out, nil
}

// switchAway retires a previous vote: ledger delete first, then the
// tally decrement, then the change event carrying the lowered count.
// The decrement and the event only happen when this call actually
// removed the row; a false return with no error means another request
// retired it first and its tally must be left alone.
func (c *Coordinator) switchAway(ctx context.Context, prev *models.Vote) (bool, error) {
	removed, err := c.ledger.DeleteVote(ctx, prev.ID)
	if err != nil {
		return false, fmt.Errorf("ledger delete: %w", err)
	}
	if !removed {
		return false, nil
	}
	newCount, err := c.tally.Increment(ctx, prev.PollID, prev.PollOptionID, -1)
	if err != nil {
		return true, fmt.Errorf("tally decrement: %w", err)
	}
	c.publish(prev.PollID, prev.PollOptionID, newCount)
	return true, nil
}

// Recount rebuilds a poll's tallies from the ledger, the reconciliation
// path for drift after a partial failure. Corrected options each get a
// change event.
func (c *Coordinator) Recount(ctx context.Context, pollID string) (map[string]int64, error) {
	ctx = context.WithoutCancel(ctx)

	counts, err := c.ledger.CountVotes(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("ledger recount: %w", err)
	}
	current, err := c.tally.Counts(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("tally read: %w", err)
	}

	for optionID, n := range counts {
		if current[optionID] == n {
			continue
		}
		if err := c.tally.Set(ctx, pollID, optionID, n); err != nil {
			return nil, fmt.Errorf("tally write-back: %w", err)
		}
		slog.Warn("tally drift corrected",
			"poll_id", pollID, "option_id", optionID,
			"was", current[optionID], "now", n)
		c.publish(pollID, optionID, n)
	}

	return counts, nil
}

// publish is fire-and-forget: delivery problems never fail a vote cast.
func (c *Coordinator) publish(pollID, optionID string, count int64) {
	c.publisher.Publish(pollID, models.ChangeEvent{
		PollID:       pollID,
		PollOptionID: optionID,
		Count:        count,
	})
}
