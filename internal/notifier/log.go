package notifier

import (
	"log/slog"

	"github.com/amishk599/hunter/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes ranked postings to the given logger as structured messages.
type LogNotifier struct {
	logger   *slog.Logger
	maxItems int
}

// NewLogNotifier returns a notifier that logs the top maxItems postings via slog.
// maxItems <= 0 logs everything.
func NewLogNotifier(logger *slog.Logger, maxItems int) *LogNotifier {
	return &LogNotifier{logger: logger, maxItems: maxItems}
}

// Notify logs each posting with its rank and scores.
// Returns nil (stdout logging does not fail).
func (n *LogNotifier) Notify(req model.SearchRequest, postings []model.ScoredPosting) error {
	top := limit(postings, n.maxItems)
	n.logger.Info("search digest", "keywords", req.Keywords, "location", req.Location, "showing", len(top), "total", len(postings))
	for i, p := range top {
		n.logger.Info("job",
			"rank", i+1,
			"title", p.Title,
			"company", p.Company,
			"location", p.Location,
			"source", p.Source,
			"score", p.CombinedScore,
			"url", p.Link,
		)
	}
	return nil
}

func limit(postings []model.ScoredPosting, max int) []model.ScoredPosting {
	if max > 0 && len(postings) > max {
		return postings[:max]
	}
	return postings
}
