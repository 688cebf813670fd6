// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const pollKeyPrefix = "poll:"

// RedisStore keeps each poll's counts in a Redis sorted set keyed
// "poll:<pollID>", one member per option scored by its count. ZINCRBY
// gives the atomic read-modify-write the Increment contract requires,
// and counts survive server restarts.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) key(pollID string) string {
	return pollKeyPrefix + pollID
}

func (s *RedisStore) Increment(ctx context.Context, pollID, optionID string, delta int64) (int64, error) {
	score, err := s.client.ZIncrBy(ctx, s.key(pollID), float64(delta), optionID).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment tally: %w", err)
	}
	return int64(score), nil
}

func (s *RedisStore) Counts(ctx context.Context, pollID string) (map[string]int64, error) {
	members, err := s.client.ZRangeWithScores(ctx, s.key(pollID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read tallies: %w", err)
	}

	counts := make(map[string]int64, len(members))
	for _, m := range members {
		optionID, ok := m.Member.(string)
		if !ok {
			continue
		}
		counts[optionID] = int64(m.Score)
	}
	return counts, nil
}

func (s *RedisStore) Set(ctx context.Context, pollID, optionID string, count int64) error {
	err := s.client.ZAdd(ctx, s.key(pollID), redis.Z{Score: float64(count), Member: optionID}).Err()
	if err != nil {
		return fmt.Errorf("failed to set tally: %w", err)
	}
	return nil
}
