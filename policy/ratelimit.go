package policy

import (
	"sync"
	"time"
)

// Limiter tracks fixed-window request counts per tenant for the minute and
// hour windows. Windows are wall-clock aligned; a window resets the first
// time "now" falls past its boundary, not via background sweep.
//
// The limiter is safe for concurrent use within one process. Cross-process
// consistency is out of scope: when horizontally scaled, counters must be
// backed by an external atomic store instead.
type Limiter struct {
	mu      sync.Mutex
	tenants map[string]*tenantWindows
	now     func() time.Time
}

type windowCounter struct {
	windowStart time.Time
	count       int
}

type tenantWindows struct {
	minute windowCounter
	hour   windowCounter
}

// LimiterOption configures a Limiter.
type LimiterOption func(*Limiter)

// WithClock injects a time source. Tests use this to step across window
// boundaries deterministically.
func WithClock(now func() time.Time) LimiterOption {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLimiter creates an empty rate limiter.
func NewLimiter(opts ...LimiterOption) *Limiter {
	l := &Limiter{
		tenants: make(map[string]*tenantWindows),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow performs an atomic check-and-increment of both windows for the
// tenant. If admitting the request would exceed either limit, Allow returns
// false and neither counter is incremented. A limit of 0 disables that
// window's check.
func (l *Limiter) Allow(tenantID string, perMinute, perHour int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	tw, ok := l.tenants[tenantID]
	if !ok {
		tw = &tenantWindows{}
		l.tenants[tenantID] = tw
	}

	tw.minute.roll(now, time.Minute)
	tw.hour.roll(now, time.Hour)

	if perMinute > 0 && tw.minute.count+1 > perMinute {
		return false
	}
	if perHour > 0 && tw.hour.count+1 > perHour {
		return false
	}

	tw.minute.count++
	tw.hour.count++
	return true
}

// Usage reports the current counts for a tenant without incrementing.
func (l *Limiter) Usage(tenantID string) (minute, hour int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tw, ok := l.tenants[tenantID]
	if !ok {
		return 0, 0
	}
	now := l.now()
	tw.minute.roll(now, time.Minute)
	tw.hour.roll(now, time.Hour)
	return tw.minute.count, tw.hour.count
}

// roll resets the counter when now falls in a new wall-clock-aligned window.
func (w *windowCounter) roll(now time.Time, size time.Duration) {
	start := now.Truncate(size)
	if !start.Equal(w.windowStart) {
		w.windowStart = start
		w.count = 0
	}
}
