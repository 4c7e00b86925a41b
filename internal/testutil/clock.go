package testutil

import "sync"

// DefaultEpoch is the first timestamp a DeterministicClock hands out
// (2024-01-01T00:00:00Z).
const DefaultEpoch int64 = 1704067200

// DeterministicClock stands in for wall time wherever the journal stores
// a timestamp (runs.started_at, runs.finished_at).
//
// Each call to Unix returns the epoch plus the number of earlier calls,
// so the same scenario always writes the same timestamps.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DeterministicClock struct {
	mu    sync.Mutex
	epoch int64
	ticks int64
}

// NewDeterministicClock creates a clock starting at DefaultEpoch.
func NewDeterministicClock() *DeterministicClock {
	return NewDeterministicClockAt(DefaultEpoch)
}

// NewDeterministicClockAt creates a clock starting at the given unix second.
func NewDeterministicClockAt(epoch int64) *DeterministicClock {
	return &DeterministicClock{epoch: epoch}
}

// Unix returns the next timestamp in unix seconds.
func (c *DeterministicClock) Unix() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.epoch + c.ticks
	c.ticks++
	return now
}

// Ticks returns how many timestamps have been handed out.
func (c *DeterministicClock) Ticks() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticks
}

// Reset rewinds the clock to its epoch.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticks = 0
}
