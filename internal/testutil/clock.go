package testutil

import (
	"sync"
	"time"
)

// Clock returns predetermined, strictly increasing timestamps.
//
// Ledger tests inject Clock.Now as the timestamp source so recorded
// rows carry stable times and ordering regardless of wall-clock
// behavior during the test run.
//
// Thread-safety: safe for concurrent use via internal mutex.
type Clock struct {
	mu   sync.Mutex
	next time.Time
	step time.Duration
}

// NewClock creates a clock starting at start and advancing by step on
// every Now call.
//
// Example:
//
//	clock := NewClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.Second)
//	clock.Now() // 2026-01-01T00:00:00Z
//	clock.Now() // 2026-01-01T00:00:01Z
func NewClock(start time.Time, step time.Duration) *Clock {
	return &Clock{next: start, step: step}
}

// Now returns the current timestamp and advances the clock.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.next
	c.next = c.next.Add(c.step)
	return now
}
