package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/amishk599/hunter/internal/model"
)

// SourceRateLimiter enforces a minimum delay between requests to the same upstream
// provider. Each provider gets its own token bucket with a burst of one.
type SourceRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter // key: provider name
	minDelay time.Duration
}

// NewSourceRateLimiter creates a limiter allowing one request per minDelay per
// provider. A zero minDelay disables limiting.
func NewSourceRateLimiter(minDelay time.Duration) *SourceRateLimiter {
	return &SourceRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		minDelay: minDelay,
	}
}

func (r *SourceRateLimiter) limiterFor(provider string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	if lim, ok := r.limiters[provider]; ok {
		return lim
	}
	limit := rate.Inf
	if r.minDelay > 0 {
		limit = rate.Every(r.minDelay)
	}
	lim := rate.NewLimiter(limit, 1)
	r.limiters[provider] = lim
	return lim
}

// SetDelay overrides the minimum delay for a single provider.
func (r *SourceRateLimiter) SetDelay(provider string, d time.Duration) {
	limit := rate.Inf
	if d > 0 {
		limit = rate.Every(d)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.limiters[provider] = rate.NewLimiter(limit, 1)
}

// Wait blocks until the provider's bucket allows another request.
// Returns an error if the context is cancelled (or would expire) while waiting.
func (r *SourceRateLimiter) Wait(ctx context.Context, provider string) error {
	if err := r.limiterFor(provider).Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait for %s: %w", provider, err)
	}
	return nil
}

// RateLimitedFetcher is a decorator that enforces provider-level rate limiting
// before delegating to the wrapped Fetcher.
type RateLimitedFetcher struct {
	inner    model.Fetcher
	limiter  *SourceRateLimiter
	provider string
}

// NewRateLimitedFetcher wraps a Fetcher with provider-level rate limiting.
// All fetchers hitting the same provider should share the same limiter instance.
func NewRateLimitedFetcher(inner model.Fetcher, limiter *SourceRateLimiter, provider string) *RateLimitedFetcher {
	return &RateLimitedFetcher{
		inner:    inner,
		limiter:  limiter,
		provider: provider,
	}
}

// Fetch waits for the limiter, then delegates to the wrapped fetcher.
func (f *RateLimitedFetcher) Fetch(ctx context.Context, q model.Query) ([]model.JobPosting, error) {
	if err := f.limiter.Wait(ctx, f.provider); err != nil {
		return nil, err
	}
	return f.inner.Fetch(ctx, q)
}
