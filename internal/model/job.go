package model

import (
	"context"
	"strings"
	"time"
)

// MaxDescriptionLen is the maximum description length (in characters) kept after cleaning.
const MaxDescriptionLen = 200

// PlaceholderLink marks a posting whose provider gave no usable link.
const PlaceholderLink = "#"

// JobPosting is the unified representation of a job listing from any Source.
// Every field is always present; an empty string means "unknown".
type JobPosting struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Salary      string `json:"salary"`
	Description string `json:"description"`
	JobType     string `json:"job_type"`
	Link        string `json:"link"`
	Source      string `json:"source"` // name of the originating Source
}

// Clean returns a copy with surrounding whitespace removed, the location's inner
// whitespace collapsed and the description truncated to MaxDescriptionLen characters.
func (p JobPosting) Clean() JobPosting {
	p.Title = strings.TrimSpace(p.Title)
	p.Company = strings.TrimSpace(p.Company)
	p.Location = strings.Join(strings.Fields(p.Location), " ")
	p.Salary = strings.TrimSpace(p.Salary)
	p.JobType = strings.TrimSpace(p.JobType)
	p.Link = strings.TrimSpace(p.Link)
	p.Source = strings.TrimSpace(p.Source)
	p.Description = Truncate(strings.TrimSpace(p.Description), MaxDescriptionLen)
	return p
}

// Truncate cuts s to at most n characters (runes).
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// ScoredPosting is a JobPosting annotated by the ranker.
type ScoredPosting struct {
	JobPosting
	RelevanceScore float64 `json:"relevance_score"`
	SourceScore    float64 `json:"source_score"`
	CombinedScore  float64 `json:"combined_score"`
}

// Query holds the arguments of a single Source call.
type Query struct {
	Keywords   string
	Location   string
	JobType    string
	MaxResults int
}

// Source is an opaque provider of job postings. Search never fails: provider
// errors surface as an empty result. Implementations must be safe for concurrent use
// and must treat q.MaxResults as an upper bound.
type Source interface {
	Name() string
	Search(ctx context.Context, q Query) []JobPosting
}

// Fetcher is the fallible provider client behind a Source (API client or scraper).
type Fetcher interface {
	Fetch(ctx context.Context, q Query) ([]JobPosting, error)
}

// Notifier delivers a ranked result digest.
type Notifier interface {
	Notify(req SearchRequest, postings []ScoredPosting) error
}

// SearchHistory records completed aggregation runs.
type SearchHistory interface {
	RecordRun(ctx context.Context, req SearchRequest, res AggregationResult) error
	RecentRuns(ctx context.Context, limit int) ([]RunRecord, error)
	Cleanup(olderThan time.Duration) error
}

// RunRecord is one persisted search run.
type RunRecord struct {
	ID          int64
	Keywords    string
	Location    string
	JobType     string
	TotalFound  int
	UniqueFound int
	Elapsed     time.Duration
	Degraded    bool
	SlowSkipped bool
	CreatedAt   time.Time
}
