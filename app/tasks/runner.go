package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/lysyi3m/dealsteal/app/query"
)

var _ RunnerInterface = (*Runner)(nil)

type Summary struct {
	Stats
	Queries       int
	FailedQueries int
	Duration      time.Duration
}

type Runner struct {
	searcher         Searcher
	submitter        TaskSubmitter
	maxTimeRemaining time.Duration
	regions          []string
	projectID        string
}

func NewRunner(searcher Searcher, submitter TaskSubmitter, maxTimeRemaining time.Duration, regions []string, projectID string) *Runner {
	return &Runner{
		searcher:         searcher,
		submitter:        submitter,
		maxTimeRemaining: maxTimeRemaining,
		regions:          regions,
		projectID:        projectID,
	}
}

// Run executes one search task per query, in order. A failing query is
// logged and does not stop the remaining ones; cancellation does.
func (r *Runner) Run(ctx context.Context, queries []query.Query) (Summary, error) {
	started := time.Now()
	summary := Summary{}

	for _, q := range queries {
		task := NewSearchQueryTask(q, r.searcher, r.submitter, r.maxTimeRemaining, r.regions, r.projectID)
		err := r.executeTask(ctx, task)

		summary.Queries++
		summary.add(task.GetStats())

		if err != nil {
			if ctx.Err() != nil {
				summary.Duration = time.Since(started)
				return summary, ctx.Err()
			}
			summary.FailedQueries++
		}
	}

	summary.Duration = time.Since(started)

	slog.Info("Run completed",
		"queries", summary.Queries,
		"failed_queries", summary.FailedQueries,
		"listings", summary.Listings,
		"created", summary.Created,
		"skipped", summary.Skipped,
		"dry_run", summary.DryRun,
		"failed", summary.Failed,
		"duration", summary.Duration)

	return summary, nil
}

func (r *Runner) executeTask(ctx context.Context, task TaskInterface) error {
	task.Start()

	err := task.Execute(ctx)
	if err != nil {
		slog.Error("Task execution failed", "type", string(task.GetType()), "id", task.GetID(), "query", task.GetQueryName(), "error", err)
	}
	return err
}
