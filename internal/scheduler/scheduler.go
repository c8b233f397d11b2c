package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/amishk599/hunter/internal/dedup"
	"github.com/amishk599/hunter/internal/model"
	"github.com/amishk599/hunter/internal/region"
)

// Ranker orders deduplicated postings for a request.
type Ranker interface {
	Rank(postings []model.JobPosting, req model.SearchRequest) []model.ScoredPosting
}

// Budget bounds one aggregation run.
type Budget struct {
	MaxTotalTime        time.Duration
	FastGroupTimeout    time.Duration
	SlowGroupTimeout    time.Duration
	MinRemainingForSlow time.Duration // below this remaining time the slow group is skipped
	MaxWorkers          int           // worker pool cap per group
}

// DefaultBudget returns the budget used when nothing is configured.
func DefaultBudget() Budget {
	return Budget{
		MaxTotalTime:        45 * time.Second,
		FastGroupTimeout:    15 * time.Second,
		SlowGroupTimeout:    30 * time.Second,
		MinRemainingForSlow: 5 * time.Second,
		MaxWorkers:          5,
	}
}

func (b Budget) withDefaults() Budget {
	d := DefaultBudget()
	if b.MaxTotalTime <= 0 {
		b.MaxTotalTime = d.MaxTotalTime
	}
	if b.FastGroupTimeout <= 0 {
		b.FastGroupTimeout = d.FastGroupTimeout
	}
	if b.SlowGroupTimeout <= 0 {
		b.SlowGroupTimeout = d.SlowGroupTimeout
	}
	if b.MinRemainingForSlow <= 0 {
		b.MinRemainingForSlow = d.MinRemainingForSlow
	}
	if b.MaxWorkers <= 0 {
		b.MaxWorkers = d.MaxWorkers
	}
	return b
}

// Orchestrator fans a search request out to the registered Sources in two priority
// groups, then deduplicates and ranks whatever came back in time.
type Orchestrator struct {
	budget Budget
	ranker Ranker
	logger *slog.Logger

	mu   sync.Mutex
	runs int
	last RunStats
}

// NewOrchestrator creates an orchestrator. Zero budget fields take DefaultBudget values.
func NewOrchestrator(budget Budget, ranker Ranker, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		budget: budget.withDefaults(),
		ranker: ranker,
		logger: logger,
	}
}

// Run executes one aggregation. It never panics and never fails: sources that time
// out or break contribute nothing, and an internal failure after collection yields the
// merged postings with Degraded set.
func (o *Orchestrator) Run(ctx context.Context, req model.SearchRequest, sources []Registration) (res model.AggregationResult) {
	start := time.Now()
	stats := RunStats{StartedAt: start}

	// merged always holds the most processed postings available, for the fallback path.
	var merged []model.JobPosting

	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("aggregation failed, returning merged postings",
				"error", fmt.Errorf("%w: %v", model.ErrAggregationDegraded, r),
				"merged", len(merged),
			)
			res = degradedResult(merged, res)
			stats.Degraded = true
		}
		res.Elapsed = time.Since(start)
		stats.TotalFound = res.TotalFound
		stats.UniqueFound = res.UniqueFound
		stats.Elapsed = res.Elapsed
		stats.SlowGroupSkipped = res.SlowGroupSkipped
		o.record(stats)
	}()

	runCtx, cancel := context.WithTimeout(ctx, o.budget.MaxTotalTime)
	defer cancel()

	q := req.Query()
	local := region.IsLocal(req.Location)
	fast, slow := splitGroups(sources, local || req.IncludeLocal)

	o.logger.Info("starting search",
		"keywords", q.Keywords,
		"location", q.Location,
		"local", local,
		"fast_sources", len(fast),
		"slow_sources", len(slow),
	)

	var collected []model.JobPosting

	fastTasks := o.buildTasks(fast, q, o.budget.FastGroupTimeout)
	stats.FastDispatched = len(fastTasks)
	fastOut, fastReports := o.runGroup(runCtx, model.GroupFast, fastTasks, o.budget.FastGroupTimeout)
	collected = appendGroup(collected, fastOut)
	res.Sources = append(res.Sources, fastReports...)
	merged = collected

	if len(slow) > 0 {
		remaining := o.budget.MaxTotalTime - time.Since(start)
		if remaining >= o.budget.MinRemainingForSlow && runCtx.Err() == nil {
			slowTasks := o.buildTasks(slow, q, o.budget.SlowGroupTimeout)
			stats.SlowDispatched = len(slowTasks)
			slowOut, slowReports := o.runGroup(runCtx, model.GroupSlow, slowTasks, min(o.budget.SlowGroupTimeout, remaining))
			collected = appendGroup(collected, slowOut)
			res.Sources = append(res.Sources, slowReports...)
			merged = collected
		} else {
			o.logger.Info("skipping slow group, not enough budget left",
				"remaining", remaining.Round(time.Millisecond).String(),
				"threshold", o.budget.MinRemainingForSlow.String(),
			)
			res.SlowGroupSkipped = true
			for _, reg := range slow {
				res.Sources = append(res.Sources, model.SourceReport{
					Name:    reg.Source.Name(),
					Group:   model.GroupSlow.String(),
					Outcome: model.OutcomeSkipped,
				})
			}
		}
	}

	for _, r := range res.Sources {
		switch r.Outcome {
		case model.OutcomeTimeout:
			stats.TimedOut++
		case model.OutcomeFailed:
			stats.Failed++
		case model.OutcomeAbandoned:
			stats.Abandoned++
		}
	}

	res.TotalFound = len(collected)

	cleaned := make([]model.JobPosting, len(collected))
	for i, p := range collected {
		cleaned[i] = p.Clean()
	}
	merged = cleaned

	unique := dedup.Dedup(cleaned)
	merged = unique
	res.UniqueFound = len(unique)

	res.Postings = o.ranker.Rank(unique, req)

	o.logger.Info("search complete",
		"total_found", res.TotalFound,
		"unique_found", res.UniqueFound,
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
		"slow_skipped", res.SlowGroupSkipped,
	)
	return res
}

// Statistics returns the configured budget and the counters of the last run.
func (o *Orchestrator) Statistics() Statistics {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Statistics{
		Budget:  o.budget,
		Runs:    o.runs,
		LastRun: o.last,
	}
}

func (o *Orchestrator) record(stats RunStats) {
	o.mu.Lock()
	o.runs++
	o.last = stats
	o.mu.Unlock()
}

func (o *Orchestrator) buildTasks(regs []Registration, q model.Query, groupTimeout time.Duration) []SourceTask {
	tasks := make([]SourceTask, 0, len(regs))
	for _, reg := range regs {
		tasks = append(tasks, newTask(reg, q, groupTimeout))
	}
	return tasks
}

// runGroup dispatches tasks on a bounded pool and waits until all of them report or
// the group deadline fires. Results are indexed by submission order.
func (o *Orchestrator) runGroup(ctx context.Context, group model.PriorityGroup, tasks []SourceTask, timeout time.Duration) ([][]model.JobPosting, []model.SourceReport) {
	results := make([][]model.JobPosting, len(tasks))
	reports := make([]model.SourceReport, len(tasks))
	for i, t := range tasks {
		reports[i] = model.SourceReport{Name: t.Name, Group: group.String(), Outcome: model.OutcomeAbandoned}
	}
	if len(tasks) == 0 {
		return results, reports
	}

	groupCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := ants.NewPool(min(len(tasks), o.budget.MaxWorkers))
	if err != nil {
		o.logger.Error("creating worker pool", "group", group.String(), "error", err)
		return results, reports
	}
	defer pool.Release()

	// Buffered so late tasks never block after the collector has stopped listening.
	done := make(chan taskResult, len(tasks))
	go func() {
		for i, t := range tasks {
			idx, task := i, t
			if err := pool.Submit(func() { done <- o.execute(groupCtx, idx, task) }); err != nil {
				done <- taskResult{index: idx, report: model.SourceReport{
					Name: task.Name, Group: group.String(), Outcome: model.OutcomeAbandoned,
				}}
			}
		}
	}()

	started := time.Now()
	for pending := len(tasks); pending > 0; pending-- {
		select {
		case r := <-done:
			results[r.index] = r.postings
			reports[r.index] = r.report
		case <-groupCtx.Done():
			o.logger.Warn("group deadline reached, abandoning remaining sources",
				"group", group.String(),
				"pending", pending,
				"waited", time.Since(started).Round(time.Millisecond).String(),
				"error", model.ErrGroupBudgetExhausted,
			)
			return results, reports
		}
	}
	return results, reports
}

// execute runs a single task inside a pool worker. The Source call runs in its own
// goroutine so the worker is released at the deadline even if the Source ignores ctx.
func (o *Orchestrator) execute(ctx context.Context, index int, t SourceTask) taskResult {
	start := time.Now()
	out := taskResult{index: index, report: model.SourceReport{Name: t.Name, Group: t.Group.String()}}

	if ctx.Err() != nil {
		out.report.Outcome = model.OutcomeAbandoned
		return out
	}

	taskCtx, cancel := context.WithTimeout(ctx, t.Timeout)
	defer cancel()

	type callResult struct {
		postings []model.JobPosting
		panicked any
	}
	ch := make(chan callResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- callResult{panicked: r}
			}
		}()
		ch <- callResult{postings: t.call(taskCtx)}
	}()

	select {
	case cr := <-ch:
		out.report.Elapsed = time.Since(start)
		if cr.panicked != nil {
			out.report.Outcome = model.OutcomeFailed
			o.logger.Error("source failed",
				"source", t.Name,
				"group", t.Group.String(),
				"error", fmt.Errorf("%w: panic: %v", model.ErrSourceFailure, cr.panicked),
			)
			return out
		}
		out.postings = cr.postings
		out.report.Found = len(cr.postings)
		out.report.Outcome = model.OutcomeOK
		o.logger.Info("source finished",
			"source", t.Name,
			"group", t.Group.String(),
			"found", len(cr.postings),
			"elapsed", out.report.Elapsed.Round(time.Millisecond).String(),
		)
	case <-taskCtx.Done():
		out.report.Elapsed = time.Since(start)
		out.report.Outcome = model.OutcomeTimeout
		if ctx.Err() != nil {
			out.report.Outcome = model.OutcomeAbandoned
		}
		o.logger.Warn("source abandoned",
			"source", t.Name,
			"group", t.Group.String(),
			"outcome", string(out.report.Outcome),
			"timeout", t.Timeout.String(),
			"error", model.ErrSourceTimeout,
		)
	}
	return out
}

func splitGroups(sources []Registration, includeSlow bool) (fast, slow []Registration) {
	for _, reg := range sources {
		if reg.Source == nil {
			continue
		}
		switch reg.Group {
		case model.GroupSlow:
			if includeSlow {
				slow = append(slow, reg)
			}
		default:
			fast = append(fast, reg)
		}
	}
	return fast, slow
}

func appendGroup(dst []model.JobPosting, group [][]model.JobPosting) []model.JobPosting {
	for _, postings := range group {
		dst = append(dst, postings...)
	}
	return dst
}

// degradedResult scores postings at the floor values, keeping discovery order.
func degradedResult(postings []model.JobPosting, partial model.AggregationResult) model.AggregationResult {
	out := model.AggregationResult{
		TotalFound:       partial.TotalFound,
		UniqueFound:      len(postings),
		Degraded:         true,
		SlowGroupSkipped: partial.SlowGroupSkipped,
		Sources:          partial.Sources,
		Postings:         make([]model.ScoredPosting, 0, len(postings)),
	}
	if out.TotalFound < len(postings) {
		out.TotalFound = len(postings)
	}
	for _, p := range postings {
		out.Postings = append(out.Postings, model.ScoredPosting{
			JobPosting:     p,
			RelevanceScore: 0.1,
			SourceScore:    1.0,
			CombinedScore:  1.1,
		})
	}
	return out
}
