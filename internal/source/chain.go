package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/amishk599/hunter/internal/model"
)

// Strategy is one named way of fetching from a provider.
type Strategy struct {
	Name    string
	Fetcher model.Fetcher
}

// Chain tries its strategies in order and returns the first non-empty result.
// An empty result from every strategy is not an error; the last error is returned
// only when every strategy failed.
type Chain struct {
	strategies []Strategy
	logger     *slog.Logger
}

// NewChain builds a fallback chain over strategies.
func NewChain(logger *slog.Logger, strategies ...Strategy) *Chain {
	return &Chain{strategies: strategies, logger: logger}
}

// Fetch implements model.Fetcher.
func (c *Chain) Fetch(ctx context.Context, q model.Query) ([]model.JobPosting, error) {
	var errs []error
	for _, s := range c.strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		postings, err := s.Fetcher.Fetch(ctx, q)
		if err != nil {
			c.logger.Debug("strategy failed, trying next", "strategy", s.Name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", s.Name, err))
			continue
		}
		if len(postings) > 0 {
			return postings, nil
		}
		c.logger.Debug("strategy returned nothing, trying next", "strategy", s.Name)
	}
	if len(errs) == len(c.strategies) && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return []model.JobPosting{}, nil
}

// FetcherFunc adapts a plain function to model.Fetcher.
type FetcherFunc func(ctx context.Context, q model.Query) ([]model.JobPosting, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, q model.Query) ([]model.JobPosting, error) {
	return f(ctx, q)
}
