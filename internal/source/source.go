// Package source turns fallible provider clients into Sources the orchestrator can
// call without ever seeing an error.
package source

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amishk599/hunter/internal/model"
)

// Guarded adapts a Fetcher to model.Source. Errors and panics are logged and turned
// into an empty result; output is capped at the query's MaxResults.
type Guarded struct {
	name    string
	fetcher model.Fetcher
	logger  *slog.Logger
}

// New wraps fetcher as a Source called name.
func New(name string, fetcher model.Fetcher, logger *slog.Logger) *Guarded {
	return &Guarded{
		name:    name,
		fetcher: fetcher,
		logger:  logger.With("source", name),
	}
}

// Name returns the provider name shown in reports and used for reliability weighting.
func (g *Guarded) Name() string { return g.name }

// Search runs the wrapped fetcher and never fails.
func (g *Guarded) Search(ctx context.Context, q model.Query) (postings []model.JobPosting) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("source panicked", "error", fmt.Errorf("%w: %v", model.ErrSourceFailure, r))
			postings = []model.JobPosting{}
		}
	}()

	found, err := g.fetcher.Fetch(ctx, q)
	if err != nil {
		if ctx.Err() != nil {
			g.logger.Debug("source cancelled", "error", err)
		} else {
			g.logger.Error("source fetch failed", "error", fmt.Errorf("%w: %w", model.ErrSourceFailure, err))
		}
		return []model.JobPosting{}
	}

	if q.MaxResults > 0 && len(found) > q.MaxResults {
		found = found[:q.MaxResults]
	}
	out := make([]model.JobPosting, 0, len(found))
	for _, p := range found {
		if p.Source == "" {
			p.Source = g.name
		}
		if p.Link == "" {
			p.Link = model.PlaceholderLink
		}
		out = append(out, p)
	}

	g.logger.Debug("source fetched", "found", len(out), "elapsed", time.Since(start).Round(time.Millisecond).String())
	return out
}
