// Package clock provides time utilities for the application
package clock

import (
	"sync"
	"time"
)

//go:generate mockgen -destination=mock/mock.go -package=mockclock github.com/lcampanari/gamebook-api/internal/pkg/clock Clock

// Clock provides time functionality
type Clock interface {
	Now() time.Time
}

// Real implements Clock using actual system time
type Real struct{}

// Now returns the current time
func (c *Real) Now() time.Time {
	return time.Now()
}

// New returns a new real clock
func New() Clock {
	return &Real{}
}

// Fixed is a controllable clock for tests
type Fixed struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixed returns a clock frozen at the given time
func NewFixed(t time.Time) *Fixed {
	return &Fixed{now: t}
}

// Now returns the frozen time
func (c *Fixed) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the frozen time forward by d
func (c *Fixed) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
