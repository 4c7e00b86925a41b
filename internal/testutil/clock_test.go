package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeterministicClock_StartsAtEpoch(t *testing.T) {
	clock := NewDeterministicClock()
	assert.Equal(t, int64(0), clock.Ticks())
	assert.Equal(t, DefaultEpoch, clock.Unix())
	assert.Equal(t, DefaultEpoch+1, clock.Unix())
	assert.Equal(t, int64(2), clock.Ticks())
}

func TestDeterministicClock_CustomEpoch(t *testing.T) {
	clock := NewDeterministicClockAt(100)
	assert.Equal(t, int64(100), clock.Unix())
	assert.Equal(t, int64(101), clock.Unix())
}

func TestDeterministicClock_Reset(t *testing.T) {
	clock := NewDeterministicClockAt(10)
	clock.Unix()
	clock.Unix()

	clock.Reset()

	assert.Equal(t, int64(0), clock.Ticks())
	assert.Equal(t, int64(10), clock.Unix())
}

func TestDeterministicClock_ThreadSafe(t *testing.T) {
	clock := NewDeterministicClockAt(0)

	const goroutines = 10
	const perGoroutine = 100

	var mu sync.Mutex
	seen := make(map[int64]bool)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				ts := clock.Unix()
				mu.Lock()
				seen[ts] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, goroutines*perGoroutine, "every timestamp must be unique")
	assert.Equal(t, int64(goroutines*perGoroutine), clock.Ticks())
}
