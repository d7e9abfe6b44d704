package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/dealsteal/app/query"
	"github.com/lysyi3m/dealsteal/app/todoist"
)

type SearchQueryTask struct {
	Task
	Query            query.Query
	searcher         Searcher
	submitter        TaskSubmitter
	maxTimeRemaining time.Duration
	regions          []string
	projectID        string
}

func NewSearchQueryTask(q query.Query, searcher Searcher, submitter TaskSubmitter, maxTimeRemaining time.Duration, regions []string, projectID string) *SearchQueryTask {
	return &SearchQueryTask{
		Task:             NewTask(TaskTypeSearchQuery, q.Name),
		Query:            q,
		searcher:         searcher,
		submitter:        submitter,
		maxTimeRemaining: maxTimeRemaining,
		regions:          regions,
		projectID:        projectID,
	}
}

// Execute searches for the query and submits every listing independently.
// Submission failures are counted and logged; only cancellation and search
// errors are returned.
func (t *SearchQueryTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	regions := t.Query.Regions
	if len(regions) == 0 {
		regions = t.regions
	}

	listings, err := t.searcher.Search(ctx, t.Query.Criteria(t.maxTimeRemaining), regions)
	if err != nil {
		return fmt.Errorf("failed to search: %w", err)
	}
	t.Stats.Listings = len(listings)

	for _, listing := range listings {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		result, err := t.submitter.SubmitTask(ctx, FormatTask(listing, t.projectID))
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			t.Stats.Failed++
			slog.Error("Failed to submit task", "query", t.QueryName, "item_id", listing.ItemID, "error", err)
			continue
		}

		switch result.Outcome {
		case todoist.OutcomeCreated:
			t.Stats.Created++
		case todoist.OutcomeSkipped:
			t.Stats.Skipped++
		case todoist.OutcomeDryRun:
			t.Stats.DryRun++
		}
	}

	slog.Info("Task completed",
		"type", string(t.Type),
		"query", t.QueryName,
		"duration", t.GetDuration(),
		"listings", t.Stats.Listings,
		"created", t.Stats.Created,
		"skipped", t.Stats.Skipped,
		"failed", t.Stats.Failed)

	return nil
}
