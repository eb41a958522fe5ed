// Package ratelimit implements a per-key sliding-window counter. Timestamps
// of allowed requests are kept in memory and pruned on each check, which is
// plenty for a single-process personal server.
package ratelimit

import (
	"sync"
	"time"
)

type Limiter struct {
	mu      sync.Mutex
	history map[string][]time.Time
}

func NewLimiter() *Limiter {
	return &Limiter{
		history: map[string][]time.Time{},
	}
}

type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Allow records one request under key if fewer than limit requests happened
// within the trailing window. A limit of zero or less disables the check.
func (l *Limiter) Allow(key string, limit int, window time.Duration, now time.Time) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limit <= 0 {
		return Result{Allowed: true}
	}

	entries := prune(l.history[key], now.Add(-window))

	result := Result{
		Allowed: len(entries) < limit,
		Limit:   limit,
	}
	if !result.Allowed {
		result.ResetAt = entries[0].Add(window)
		l.history[key] = entries
		return result
	}

	entries = append(entries, now)
	l.history[key] = entries
	result.Remaining = limit - len(entries)
	result.ResetAt = entries[0].Add(window)
	return result
}

func prune(entries []time.Time, cutoff time.Time) []time.Time {
	kept := entries[:0]
	for _, ts := range entries {
		if !ts.Before(cutoff) {
			kept = append(kept, ts)
		}
	}
	return kept
}
