// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pubsub

import (
	"sync"

	"github.com/danielhkuo/pollcast/models"
)

// DefaultBuffer is the per-subscriber channel capacity. A subscriber
// that falls this far behind starts losing events rather than slowing
// the publisher down.
const DefaultBuffer = 16

// Registry is a topic-per-poll fan-out bus. Topics are created on first
// subscribe and removed on last unsubscribe; with no subscribers
// attached, published events are dropped, not queued.
type Registry struct {
	mu     sync.Mutex
	topics map[string]map[chan models.ChangeEvent]struct{}
	buffer int
}

func NewRegistry() *Registry {
	return &Registry{
		topics: make(map[string]map[chan models.ChangeEvent]struct{}),
		buffer: DefaultBuffer,
	}
}

// Publish delivers ev to every subscriber currently attached to the
// poll's topic, in publish order per subscriber. Never blocks: a
// subscriber with a full buffer misses this event.
func (r *Registry) Publish(pollID string, ev models.ChangeEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for ch := range r.topics[pollID] {
		select {
		case ch <- ev:
		default:
			// subscriber not keeping up
		}
	}
}

// Subscribe attaches to a poll's topic and returns the event channel
// plus a cancel function. Only events published after Subscribe returns
// are delivered. Cancel detaches, closes the channel, and is safe to
// call more than once.
func (r *Registry) Subscribe(pollID string) (<-chan models.ChangeEvent, func()) {
	ch := make(chan models.ChangeEvent, r.buffer)

	r.mu.Lock()
	subs := r.topics[pollID]
	if subs == nil {
		subs = make(map[chan models.ChangeEvent]struct{})
		r.topics[pollID] = subs
	}
	subs[ch] = struct{}{}
	r.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.topics[pollID], ch)
			if len(r.topics[pollID]) == 0 {
				delete(r.topics, pollID)
			}
			r.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Subscribers reports how many subscribers a poll's topic currently has.
func (r *Registry) Subscribers(pollID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.topics[pollID])
}
