package narrative

import (
	"context"
	"log/slog"

	"github.com/lcampanari/gamebook-api/internal/errors"
	"github.com/lcampanari/gamebook-api/internal/ratelimit"
)

// RateLimited wraps a generator so every narration first acquires a
// slot from the sliding-window limiter.
type RateLimited struct {
	inner   Generator
	limiter *ratelimit.Limiter
}

// NewRateLimited decorates a generator with the given limiter
func NewRateLimited(inner Generator, limiter *ratelimit.Limiter) (*RateLimited, error) {
	if inner == nil {
		return nil, errors.InvalidArgument("inner generator is required")
	}
	if limiter == nil {
		return nil, errors.InvalidArgument("limiter is required")
	}
	return &RateLimited{inner: inner, limiter: limiter}, nil
}

var _ Generator = (*RateLimited)(nil)

// Generate blocks for a limiter slot, then delegates
func (r *RateLimited) Generate(ctx context.Context, request *Request) (*Response, error) {
	waited, err := r.limiter.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	if waited > 0 {
		slog.Info("narration delayed by rate limiter", "waited", waited)
	}
	return r.inner.Generate(ctx, request)
}
