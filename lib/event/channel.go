// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

package event

import (
	"sync"
	"time"

	"github.com/sift-tui/sift/lib/clock"
)

// ChannelSource is a Source fed entirely by the application, for
// drivers that decode their own input or run the picker headless in
// tests. Events sent after Close are discarded.
type ChannelSource struct {
	clock     clock.Clock
	events    chan Event
	done      chan struct{}
	closeOnce sync.Once
}

// NewChannelSource returns a source with the given queue capacity. A
// nil clk selects the real clock.
func NewChannelSource(capacity int, clk clock.Clock) *ChannelSource {
	if clk == nil {
		clk = clock.Real()
	}
	return &ChannelSource{
		clock:  clk,
		events: make(chan Event, capacity),
		done:   make(chan struct{}),
	}
}

// Send queues an event, blocking while the queue is full. Returns
// false if the source has been closed.
func (source *ChannelSource) Send(event Event) bool {
	select {
	case <-source.done:
		return false
	default:
	}
	select {
	case source.events <- event:
		return true
	case <-source.done:
		return false
	}
}

// RecvTimeout returns the next queued event, (nil, nil) on timeout, or
// ErrDisconnected once the source is closed and drained.
func (source *ChannelSource) RecvTimeout(timeout time.Duration) (Event, error) {
	select {
	case event := <-source.events:
		return event, nil
	default:
	}
	select {
	case event := <-source.events:
		return event, nil
	case <-source.done:
		return nil, ErrDisconnected
	case <-source.clock.After(timeout):
		return nil, nil
	}
}

// Close marks the source disconnected. The picker aborts with an event
// source error on its next receive.
func (source *ChannelSource) Close() {
	source.closeOnce.Do(func() { close(source.done) })
}
