package policy

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// steppableClock lets tests move wall-clock time explicitly.
type steppableClock struct {
	mu  sync.Mutex
	now time.Time
}

func newSteppableClock(start time.Time) *steppableClock {
	return &steppableClock{now: start}
}

func (c *steppableClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *steppableClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestLimiter_MinuteWindow(t *testing.T) {
	// Start mid-window so the advance below stays inside the same minute.
	clock := newSteppableClock(time.Date(2025, 6, 1, 10, 30, 5, 0, time.UTC))
	limiter := NewLimiter(WithClock(clock.Now))

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("t1", 3, 0), "request %d should be admitted", i+1)
	}

	// 4th request in the same window is denied and does not increment.
	assert.False(t, limiter.Allow("t1", 3, 0))
	minute, _ := limiter.Usage("t1")
	assert.Equal(t, 3, minute)

	// Next minute window admits again.
	clock.Advance(time.Minute)
	assert.True(t, limiter.Allow("t1", 3, 0))
	minute, _ = limiter.Usage("t1")
	assert.Equal(t, 1, minute)
}

func TestLimiter_HourWindow(t *testing.T) {
	clock := newSteppableClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	limiter := NewLimiter(WithClock(clock.Now))

	// Generous minute limit, tight hour limit.
	assert.True(t, limiter.Allow("t1", 100, 2))
	clock.Advance(time.Minute)
	assert.True(t, limiter.Allow("t1", 100, 2))
	clock.Advance(time.Minute)
	assert.False(t, limiter.Allow("t1", 100, 2))

	// Crossing the hour boundary resets.
	clock.Advance(time.Hour)
	assert.True(t, limiter.Allow("t1", 100, 2))
}

func TestLimiter_ZeroLimitDisablesCheck(t *testing.T) {
	limiter := NewLimiter()
	for i := 0; i < 50; i++ {
		assert.True(t, limiter.Allow("t1", 0, 0))
	}
}

func TestLimiter_TenantsAreIndependent(t *testing.T) {
	clock := newSteppableClock(time.Date(2025, 6, 1, 10, 30, 5, 0, time.UTC))
	limiter := NewLimiter(WithClock(clock.Now))

	assert.True(t, limiter.Allow("t1", 1, 0))
	assert.False(t, limiter.Allow("t1", 1, 0))
	assert.True(t, limiter.Allow("t2", 1, 0))
}

func TestLimiter_ConcurrentNeverExceedsLimit(t *testing.T) {
	clock := newSteppableClock(time.Date(2025, 6, 1, 10, 30, 5, 0, time.UTC))
	limiter := NewLimiter(WithClock(clock.Now))

	const limit = 10
	const workers = 50

	var admitted int64
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Allow("t1", limit, 0) {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(limit), admitted)
	minute, _ := limiter.Usage("t1")
	assert.Equal(t, limit, minute)
}
