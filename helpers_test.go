package cache_test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

//
// ================= TEST CLOCK =================
//

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

//
// ================= TEST METRICS =================
//

type countingMetrics struct {
	hits, misses, coalesced, evictions, expired, bypassed, failures atomic.Int64
}

func (m *countingMetrics) Hit()      { m.hits.Add(1) }
func (m *countingMetrics) Miss()     { m.misses.Add(1) }
func (m *countingMetrics) Coalesce() { m.coalesced.Add(1) }
func (m *countingMetrics) Eviction() { m.evictions.Add(1) }
func (m *countingMetrics) Expire()   { m.expired.Add(1) }
func (m *countingMetrics) Bypass()   { m.bypassed.Add(1) }
func (m *countingMetrics) Failure()  { m.failures.Add(1) }

//
// ================= TEST COMPUTATIONS =================
//

// counter hands out computations that record how often they ran.
type counter struct {
	mu    sync.Mutex
	calls map[string]int
}

func newCounter() *counter {
	return &counter{calls: make(map[string]int)}
}

func (c *counter) value(key string, v int) func(context.Context) (int, error) {
	return func(context.Context) (int, error) {
		c.mu.Lock()
		c.calls[key]++
		c.mu.Unlock()
		return v, nil
	}
}

func (c *counter) count(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[key]
}
