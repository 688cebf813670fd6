// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"context"
	"sync"
)

// MemoryStore keeps counts in process memory. The default backend when
// no REDIS_URL is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	polls map[string]map[string]int64 // poll id -> option id -> count
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{polls: make(map[string]map[string]int64)}
}

func (s *MemoryStore) Increment(_ context.Context, pollID, optionID string, delta int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := s.polls[pollID]
	if counts == nil {
		counts = make(map[string]int64)
		s.polls[pollID] = counts
	}
	counts[optionID] += delta
	return counts[optionID], nil
}

func (s *MemoryStore) Counts(_ context.Context, pollID string) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]int64, len(s.polls[pollID]))
	for optionID, count := range s.polls[pollID] {
		out[optionID] = count
	}
	return out, nil
}

func (s *MemoryStore) Set(_ context.Context, pollID, optionID string, count int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := s.polls[pollID]
	if counts == nil {
		counts = make(map[string]int64)
		s.polls[pollID] = counts
	}
	counts[optionID] = count
	return nil
}
