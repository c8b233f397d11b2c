package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// JobTypeAll disables job type filtering.
const JobTypeAll = "all"

// SearchRequest is one incoming query. It is a value type and is never mutated
// once handed to the orchestrator.
type SearchRequest struct {
	Keywords            string `json:"keywords"`
	Location            string `json:"location"`
	JobType             string `json:"job_type"`
	MaxResultsPerSource int    `json:"max_results_per_source"`
	IncludeLocal        bool   `json:"include_local"` // widen the Source set with regional scrapers
}

// Validate rejects requests the core refuses to run.
func (r SearchRequest) Validate() error {
	if strings.TrimSpace(r.Keywords) == "" {
		return errors.New("keywords must not be empty")
	}
	if r.MaxResultsPerSource <= 0 {
		return fmt.Errorf("max results per source must be positive, got %d", r.MaxResultsPerSource)
	}
	return nil
}

// Query builds the per-Source call arguments. MaxResultsPerSource is passed
// through unchanged to every Source.
func (r SearchRequest) Query() Query {
	jobType := r.JobType
	if strings.EqualFold(strings.TrimSpace(jobType), JobTypeAll) {
		jobType = ""
	}
	return Query{
		Keywords:   strings.TrimSpace(r.Keywords),
		Location:   strings.TrimSpace(r.Location),
		JobType:    jobType,
		MaxResults: r.MaxResultsPerSource,
	}
}

// PriorityGroup controls dispatch order and budget of a Source.
type PriorityGroup int

const (
	// GroupFast holds API-like Sources, dispatched first.
	GroupFast PriorityGroup = iota
	// GroupSlow holds scraper-like Sources, dispatched only when budget remains.
	GroupSlow
)

func (g PriorityGroup) String() string {
	switch g {
	case GroupFast:
		return "fast"
	case GroupSlow:
		return "slow"
	default:
		return fmt.Sprintf("group(%d)", int(g))
	}
}

// ParsePriorityGroup parses "fast" or "slow" (case-insensitive).
func ParsePriorityGroup(s string) (PriorityGroup, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fast", "":
		return GroupFast, nil
	case "slow":
		return GroupSlow, nil
	default:
		return GroupFast, fmt.Errorf("unknown priority group %q", s)
	}
}

// Outcome is how a single SourceTask ended.
type Outcome string

const (
	OutcomeOK        Outcome = "ok"
	OutcomeTimeout   Outcome = "timeout"
	OutcomeFailed    Outcome = "failed"
	OutcomeAbandoned Outcome = "abandoned" // group or global deadline fired first
	OutcomeSkipped   Outcome = "skipped"
)

// SourceReport summarizes one task of a run.
type SourceReport struct {
	Name    string        `json:"name"`
	Group   string        `json:"group"`
	Found   int           `json:"found"`
	Elapsed time.Duration `json:"elapsed"`
	Outcome Outcome       `json:"outcome"`
}

// AggregationResult is the cleaned, deduplicated and ranked output of one run.
type AggregationResult struct {
	Postings         []ScoredPosting `json:"postings"`
	TotalFound       int             `json:"total_found"`
	UniqueFound      int             `json:"unique_found"`
	Elapsed          time.Duration   `json:"elapsed"`
	Degraded         bool            `json:"degraded"`
	SlowGroupSkipped bool            `json:"slow_group_skipped"`
	Sources          []SourceReport  `json:"sources"`
}
