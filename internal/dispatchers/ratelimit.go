package dispatchers

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/footprint-tools/switchboard/internal/domain"
)

// callerLimiter keeps one token bucket per caller.
type callerLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[domain.CallerID]*limiterEntry
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newCallerLimiter(limit rate.Limit, burst int) *callerLimiter {
	if burst < 1 {
		burst = 1
	}
	return &callerLimiter{
		limit:    limit,
		burst:    burst,
		limiters: make(map[domain.CallerID]*limiterEntry),
	}
}

// Allow takes a token from the caller's bucket.
func (l *callerLimiter) Allow(id domain.CallerID) bool {
	l.mu.Lock()
	e, ok := l.limiters[id]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[id] = e
	}
	e.lastSeen = time.Now()
	l.mu.Unlock()
	return e.limiter.Allow()
}

// sweep forgets callers idle for longer than idle.
func (l *callerLimiter) sweep(now time.Time, idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for id, e := range l.limiters {
		if now.Sub(e.lastSeen) > idle {
			delete(l.limiters, id)
			n++
		}
	}
	return n
}

func (l *callerLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

func (l *callerLimiter) janitor(ctx context.Context, every, idle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.sweep(now, idle)
		}
	}
}
