// Package ratelimit bounds outbound narrator calls with a sliding
// window, sized by default for the Gemini free tier (15 RPM).
package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lcampanari/gamebook-api/internal/errors"
	"github.com/lcampanari/gamebook-api/internal/pkg/clock"
)

const (
	// DefaultMaxRequests is the free-tier request budget per window
	DefaultMaxRequests = 15

	// DefaultWindow is the sliding window size
	DefaultWindow = time.Minute

	// waitMargin pads the computed wait so the oldest timestamp has
	// definitely left the window when we retry.
	waitMargin = 100 * time.Millisecond
)

// Usage is a snapshot of the limiter's window
type Usage struct {
	RequestsInWindow int           `json:"requests_in_window"`
	MaxRequests      int           `json:"max_requests"`
	Remaining        int           `json:"remaining"`
	Window           time.Duration `json:"window"`
}

// Config holds the limiter settings
type Config struct {
	MaxRequests int           // defaults to DefaultMaxRequests
	Window      time.Duration // defaults to DefaultWindow
	Clock       clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Clock == nil {
		return errors.InvalidArgument("clock is required")
	}
	if c.MaxRequests < 0 {
		return errors.InvalidArgument("max requests cannot be negative")
	}
	return nil
}

// Limiter is a thread-safe sliding-window rate limiter
type Limiter struct {
	maxRequests int
	window      time.Duration
	clock       clock.Clock

	mu       sync.Mutex
	requests []time.Time
}

// New creates a sliding-window limiter
func New(cfg *Config) (*Limiter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	maxRequests := cfg.MaxRequests
	if maxRequests == 0 {
		maxRequests = DefaultMaxRequests
	}
	window := cfg.Window
	if window == 0 {
		window = DefaultWindow
	}

	return &Limiter{
		maxRequests: maxRequests,
		window:      window,
		clock:       cfg.Clock,
	}, nil
}

// Acquire blocks until a request slot is free, or the context ends.
// It returns how long the caller waited.
func (l *Limiter) Acquire(ctx context.Context) (time.Duration, error) {
	var waited time.Duration

	for {
		l.mu.Lock()
		now := l.clock.Now()
		l.evict(now)

		if len(l.requests) < l.maxRequests {
			l.requests = append(l.requests, now)
			l.mu.Unlock()
			return waited, nil
		}

		wait := l.requests[0].Add(l.window).Sub(now) + waitMargin
		l.mu.Unlock()

		slog.Warn("rate limit reached, waiting",
			"wait", wait,
			"max_requests", l.maxRequests,
			"window", l.window,
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return waited, errors.WrapWithCode(ctx.Err(), errors.CodeCanceled, "canceled while rate limited")
		case <-timer.C:
			waited += wait
		}
	}
}

// Usage returns the current window occupancy
func (l *Limiter) Usage() Usage {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.evict(l.clock.Now())

	current := len(l.requests)
	remaining := l.maxRequests - current
	if remaining < 0 {
		remaining = 0
	}
	return Usage{
		RequestsInWindow: current,
		MaxRequests:      l.maxRequests,
		Remaining:        remaining,
		Window:           l.window,
	}
}

// evict drops timestamps outside the window. Caller holds the lock.
func (l *Limiter) evict(now time.Time) {
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(l.requests) && l.requests[i].Before(cutoff) {
		i++
	}
	l.requests = l.requests[i:]
}
