package scheduler

import (
	"context"
	"time"

	"github.com/amishk599/hunter/internal/model"
)

// Registration is a configured Source together with its scheduling parameters.
type Registration struct {
	Source  model.Source
	Group   model.PriorityGroup
	Timeout time.Duration // per-task limit; zero falls back to the group timeout
}

// SourceTask binds one Source call, with its arguments captured, to a priority
// group and an individual timeout.
type SourceTask struct {
	Name    string
	Group   model.PriorityGroup
	Timeout time.Duration
	call    func(ctx context.Context) []model.JobPosting
}

func newTask(reg Registration, q model.Query, groupTimeout time.Duration) SourceTask {
	timeout := reg.Timeout
	if timeout <= 0 || timeout > groupTimeout {
		timeout = groupTimeout
	}
	src := reg.Source
	return SourceTask{
		Name:    src.Name(),
		Group:   reg.Group,
		Timeout: timeout,
		call: func(ctx context.Context) []model.JobPosting {
			return src.Search(ctx, q)
		},
	}
}

// taskResult is what a pooled task hands back to the group collector.
type taskResult struct {
	index    int
	postings []model.JobPosting
	report   model.SourceReport
}
