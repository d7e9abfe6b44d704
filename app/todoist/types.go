package todoist

import "fmt"

// NewTask is a task to be submitted. Empty optional fields are left out of
// the request body. ItemID is used only for deduplication and is never sent.
type NewTask struct {
	Content     string `json:"content"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
	ProjectID   string `json:"project_id,omitempty"`
	ItemID      string `json:"-"`
}

type Due struct {
	Date     string `json:"date"`
	String   string `json:"string"`
	Datetime string `json:"datetime,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

type Task struct {
	ID          string `json:"id"`
	ProjectID   string `json:"project_id"`
	Content     string `json:"content"`
	Description string `json:"description"`
	Due         *Due   `json:"due,omitempty"`
	URL         string `json:"url"`
	CreatedAt   string `json:"created_at"`
}

type Project struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	IsFavorite bool   `json:"is_favorite"`
	URL        string `json:"url"`
}

type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeSkipped Outcome = "skipped_duplicate"
	OutcomeDryRun  Outcome = "dry_run"
)

type SubmitResult struct {
	Outcome Outcome
	Task    *Task // set only for OutcomeCreated
}

// APIError is returned for any response outside the expected status range.
type APIError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("failed to %s: %d, %s", e.Operation, e.StatusCode, e.Body)
}
