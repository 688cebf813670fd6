// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"context"
	"sort"

	"github.com/danielhkuo/pollcast/models"
)

// Store keeps per-poll, per-option vote counts. Counts are a projection
// over the vote ledger, maintained incrementally for speed and
// rebuildable by recount.
type Store interface {
	// Increment atomically adds delta (which may be negative) to one
	// option's count and returns the post-increment value. Concurrent
	// increments on the same key must not lose updates.
	Increment(ctx context.Context, pollID, optionID string, delta int64) (int64, error)

	// Counts returns the current per-option counts for a poll. Reads of
	// different options are not a single atomic snapshot.
	Counts(ctx context.Context, pollID string) (map[string]int64, error)

	// Set overwrites one option's count. Recount write-back path.
	Set(ctx context.Context, pollID, optionID string, count int64) error
}

// Ranked orders raw counts for display: highest count first, option id
// ascending on ties, with 1-based ranks. Ranking is derived at read time
// and never stored.
func Ranked(counts map[string]int64) []models.OptionCount {
	out := make([]models.OptionCount, 0, len(counts))
	for optionID, count := range counts {
		out = append(out, models.OptionCount{PollOptionID: optionID, Count: count})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].PollOptionID < out[j].PollOptionID
	})

	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
