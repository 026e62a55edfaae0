// Persona Engine - Privacy-Preserving Persona Intelligence & Targeting
// Copyright 2026 Vitrine Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vitrine-labs/persona-engine

// Package ratelimit implements the per-identity sliding-window admission
// limiter used on persona writes and uploads.
//
// Each identity keeps the timestamps of its admitted requests inside the
// current window. An admission first prunes timestamps older than the window,
// then admits only if fewer than the limit remain. The limiter is
// independent of the HTTP-level IP limiter; it keys on caller identity
// (wallet address) rather than network origin.
package ratelimit

import (
	"sync"
	"time"

	"github.com/vitrine-labs/persona-engine/internal/metrics"
)

// Limiter admits up to limit requests per identity per window.
type Limiter struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	limit   int
	window  time.Duration
	now     func() time.Time
}

// New creates a limiter admitting limit requests per window per identity.
func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		windows: make(map[string][]time.Time),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// Allow records and admits a request for identity if its window has
// capacity. Rejected requests are not recorded and do not extend the window.
func (l *Limiter) Allow(identity string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	kept := l.windows[identity][:0]
	for _, ts := range l.windows[identity] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.limit {
		l.windows[identity] = kept
		metrics.RateLimitRejections.Inc()
		return false
	}

	l.windows[identity] = append(kept, now)
	return true
}

// Remaining reports how many admissions identity has left in the current
// window without consuming one.
func (l *Limiter) Remaining(identity string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	live := 0
	for _, ts := range l.windows[identity] {
		if ts.After(cutoff) {
			live++
		}
	}
	if live >= l.limit {
		return 0
	}
	return l.limit - live
}

// Prune drops identities whose windows are fully expired. Intended to be
// called periodically to keep memory bounded.
func (l *Limiter) Prune() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	for identity, stamps := range l.windows {
		live := false
		for _, ts := range stamps {
			if ts.After(cutoff) {
				live = true
				break
			}
		}
		if !live {
			delete(l.windows, identity)
		}
	}
}

// PruneLoop runs Prune on the given interval until stop is closed.
func (l *Limiter) PruneLoop(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.Prune()
		case <-stop:
			return
		}
	}
}
