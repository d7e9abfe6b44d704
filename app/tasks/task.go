package tasks

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type TaskType string

const (
	TaskTypeSearchQuery TaskType = "search_query"
)

type TaskInterface interface {
	Execute(ctx context.Context) error
	GetID() string
	GetType() TaskType
	GetQueryName() string
	GetStats() Stats
	Start()
	GetDuration() time.Duration
}

// Stats counts what happened to the listings of one or more queries.
type Stats struct {
	Listings int
	Created  int
	Skipped  int
	DryRun   int
	Failed   int
}

func (s *Stats) add(o Stats) {
	s.Listings += o.Listings
	s.Created += o.Created
	s.Skipped += o.Skipped
	s.DryRun += o.DryRun
	s.Failed += o.Failed
}

type Task struct {
	ID        string
	Type      TaskType
	QueryName string
	StartedAt *time.Time
	Stats     Stats
}

func (t *Task) GetID() string {
	return t.ID
}

func (t *Task) GetType() TaskType {
	return t.Type
}

func (t *Task) GetQueryName() string {
	return t.QueryName
}

func (t *Task) GetStats() Stats {
	return t.Stats
}

func (t *Task) Start() {
	now := time.Now()
	t.StartedAt = &now
}

func (t *Task) GetDuration() time.Duration {
	if t.StartedAt == nil {
		return 0
	}
	return time.Since(*t.StartedAt)
}

func NewTask(taskType TaskType, queryName string) Task {
	return Task{
		ID:        uuid.NewString(),
		Type:      taskType,
		QueryName: queryName,
	}
}
