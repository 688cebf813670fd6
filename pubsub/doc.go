// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package pubsub fans tally change events out to live subscribers.

One topic per poll, held in an explicit Registry that is constructed in
main and injected where needed; there is no package-level state. A topic
exists only while it has subscribers.

	reg := pubsub.NewRegistry()

	events, cancel := reg.Subscribe(pollID)
	defer cancel()

	reg.Publish(pollID, ev)

Delivery is best-effort and fire-and-forget. Each subscriber owns a
bounded channel; Publish does a non-blocking send per subscriber, so a
slow reader loses events instead of stalling the vote path or other
subscribers. Events published to a topic with no subscribers are
dropped. Per-topic ordering is FIFO for any subscriber that keeps up;
nothing is ever replayed.
*/
package pubsub
