package tasks

import (
	"context"

	"github.com/lysyi3m/dealsteal/app/ebay"
	"github.com/lysyi3m/dealsteal/app/query"
	"github.com/lysyi3m/dealsteal/app/todoist"
)

// Searcher finds auction listings for one set of criteria across regions.
// Implemented by *ebay.Client.
type Searcher interface {
	Search(ctx context.Context, criteria ebay.Criteria, regions []string) ([]ebay.Listing, error)
}

// TaskSubmitter creates a to-do task unless the item was already used.
// Implemented by *todoist.Client.
type TaskSubmitter interface {
	SubmitTask(ctx context.Context, task todoist.NewTask) (todoist.SubmitResult, error)
}

type RunnerInterface interface {
	Run(ctx context.Context, queries []query.Query) (Summary, error)
}
