package scheduler

import "time"

// RunStats are the counters of a single aggregation run.
type RunStats struct {
	StartedAt        time.Time     `json:"started_at"`
	Elapsed          time.Duration `json:"elapsed"`
	TotalFound       int           `json:"total_found"`
	UniqueFound      int           `json:"unique_found"`
	FastDispatched   int           `json:"fast_dispatched"`
	SlowDispatched   int           `json:"slow_dispatched"`
	TimedOut         int           `json:"timed_out"`
	Failed           int           `json:"failed"`
	Abandoned        int           `json:"abandoned"`
	SlowGroupSkipped bool          `json:"slow_group_skipped"`
	Degraded         bool          `json:"degraded"`
}

// Statistics is a snapshot of the orchestrator's configuration and last run.
type Statistics struct {
	Budget  Budget   `json:"budget"`
	Runs    int      `json:"runs"`
	LastRun RunStats `json:"last_run"`
}
