// Package ratelimit gates per-channel send volume with a rolling one-hour
// window. Counters live in memory only, so the limit is effectively
// per-process-lifetime hour rather than a hard guarantee across restarts.
package ratelimit

import (
	"sync"
	"time"

	"github.com/alexhuynh/fit-outreach/internal/clock"
)

const Window = time.Hour

type Limiter struct {
	mu          sync.Mutex
	clk         clock.Clock
	limit       int
	count       int
	windowStart time.Time
}

func NewLimiter(limit int, clk clock.Clock) *Limiter {
	return &Limiter{
		clk:         clk,
		limit:       limit,
		windowStart: clk.Now(),
	}
}

// Allow reports whether another send fits in the current window. When the
// window has elapsed the counter resets and the window advances to now.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.resetIfElapsed()
	return l.count < l.limit
}

// RecordSend increments the counter. Callers must not record a send without
// a preceding successful Allow.
func (l *Limiter) RecordSend() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.resetIfElapsed()
	l.count++
}

// SentThisHour returns the count inside the current window.
func (l *Limiter) SentThisHour() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.resetIfElapsed()
	return l.count
}

func (l *Limiter) Limit() int { return l.limit }

func (l *Limiter) resetIfElapsed() {
	if l.clk.Now().Sub(l.windowStart) > Window {
		l.count = 0
		l.windowStart = l.clk.Now()
	}
}
