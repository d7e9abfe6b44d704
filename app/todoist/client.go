package todoist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/lysyi3m/dealsteal/app/ledger"
)

type Config struct {
	BaseURL   string
	Token     string
	UserAgent string
	Timeout   time.Duration
	DryRun    bool
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	userAgent  string
	dryRun     bool
	ledger     ledger.Ledger
}

// NewClient creates a Todoist REST client. usedItems may be nil when no
// submissions carry an item ID.
func NewClient(cfg Config, usedItems ledger.Ledger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		userAgent:  cfg.UserAgent,
		dryRun:     cfg.DryRun,
		ledger:     usedItems,
	}
}

// SubmitTask creates task unless its ItemID is already in the ledger. The
// ledger is appended only after the service acknowledged creation, so a
// crash in between can produce a duplicate on the next run.
func (c *Client) SubmitTask(ctx context.Context, task NewTask) (SubmitResult, error) {
	if task.ItemID != "" && c.ledger != nil {
		used, err := c.ledger.Contains(ctx, task.ItemID)
		if err != nil {
			return SubmitResult{}, fmt.Errorf("failed to check ledger: %w", err)
		}
		if used {
			slog.Warn("Item was already used, task not submitted", "item_id", task.ItemID)
			return SubmitResult{Outcome: OutcomeSkipped}, nil
		}
	}

	if c.dryRun {
		slog.Info("Dry run, task not submitted",
			"item_id", task.ItemID,
			"content", task.Content,
			"due_date", task.DueDate)
		return SubmitResult{Outcome: OutcomeDryRun}, nil
	}

	status, body, err := c.do(ctx, http.MethodPost, "/tasks", task)
	if err != nil {
		return SubmitResult{}, err
	}
	if status < 200 || status > 299 {
		slog.Error("Failed to add task", "status", status, "body", string(body), "item_id", task.ItemID)
		return SubmitResult{}, &APIError{Operation: "add task", StatusCode: status, Body: string(body)}
	}

	var created Task
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &created); err != nil {
			return SubmitResult{}, fmt.Errorf("failed to decode created task: %w", err)
		}
	}

	slog.Info("Task successfully added", "task_id", created.ID, "item_id", task.ItemID)

	if task.ItemID != "" && c.ledger != nil {
		if err := c.ledger.Add(ctx, task.ItemID); err != nil {
			slog.Error("Failed to record used item", "item_id", task.ItemID, "task_id", created.ID, "error", err)
		}
	}

	return SubmitResult{Outcome: OutcomeCreated, Task: &created}, nil
}

// GetProjects returns all projects of the account
func (c *Client) GetProjects(ctx context.Context) ([]Project, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/projects", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		slog.Error("Failed to get projects", "status", status, "body", string(body))
		return nil, &APIError{Operation: "get projects", StatusCode: status, Body: string(body)}
	}

	var projects []Project
	if err := json.Unmarshal(body, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %w", err)
	}
	return projects, nil
}

// GetTask returns a single active task
func (c *Client) GetTask(ctx context.Context, taskID string) (*Task, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/tasks/"+url.PathEscape(taskID), nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		slog.Error("Failed to get task", "task_id", taskID, "status", status, "body", string(body))
		return nil, &APIError{Operation: "get task", StatusCode: status, Body: string(body)}
	}

	var task Task
	if err := json.Unmarshal(body, &task); err != nil {
		return nil, fmt.Errorf("failed to decode task: %w", err)
	}
	return &task, nil
}

// DeleteTask deletes a task; only 204 No Content counts as success
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	status, body, err := c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(taskID), nil)
	if err != nil {
		return err
	}
	if status != http.StatusNoContent {
		slog.Error("Failed to delete task", "task_id", taskID, "status", status, "body", string(body))
		return &APIError{Operation: "delete task", StatusCode: status, Body: string(body)}
	}

	slog.Info("Task successfully deleted", "task_id", taskID)
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return resp.StatusCode, body, nil
}
