package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/lysyi3m/dealsteal/app/cfg"
	"github.com/lysyi3m/dealsteal/app/ebay"
	"github.com/lysyi3m/dealsteal/app/ledger"
	"github.com/lysyi3m/dealsteal/app/query"
	"github.com/lysyi3m/dealsteal/app/tasks"
	"github.com/lysyi3m/dealsteal/app/todoist"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	config, rest, err := cfg.Load(args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if config == nil {
		// Help was shown
		return 0
	}

	logger := cfg.NewLogger(stderr, config.LogFormat, config.Debug).With("run_id", uuid.NewString())
	slog.SetDefault(logger)

	command := cfg.CommandRun
	if len(rest) > 0 {
		command = rest[0]
	}

	if err := config.Validate(command); err != nil {
		slog.Error("Invalid configuration", "command", command, "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch command {
	case cfg.CommandRun:
		err = runSearch(ctx, config)
	case cfg.CommandProjects:
		err = listProjects(ctx, config, stdout)
	case cfg.CommandGetTask, cfg.CommandDeleteTask:
		if len(rest) < 2 || rest[1] == "" {
			slog.Error("Task ID is required", "command", command)
			return 1
		}
		if command == cfg.CommandGetTask {
			err = printTask(ctx, config, rest[1], stdout)
		} else {
			err = newTodoistClient(config, nil).DeleteTask(ctx, rest[1])
		}
	}

	if err != nil {
		slog.Error("Command failed", "command", command, "error", err)
		return 1
	}
	return 0
}

func runSearch(ctx context.Context, config *cfg.Cfg) error {
	slog.Info("Starting DealSteal", "version", config.Version, "dry_run", config.DryRun)

	if err := ebay.ValidateRegions(config.Regions); err != nil {
		return fmt.Errorf("invalid regions: %w", err)
	}

	queries, err := query.NewLoader(config.QueriesDir).Load()
	if err != nil {
		return fmt.Errorf("failed to load queries: %w", err)
	}
	slog.Info("Queries loaded", "dir", config.QueriesDir, "count", len(queries))

	usedItems, err := ledger.Open(ctx, ledger.Options{
		Backend:  config.LedgerBackend,
		FilePath: config.LedgerPath,
		DBPath:   config.DBPath,
		RedisURL: config.RedisURL,
		RedisKey: config.RedisKey,
	})
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer func() {
		if err := usedItems.Close(); err != nil {
			slog.Warn("Failed to close ledger", "error", err)
		}
	}()

	searcher := ebay.NewClient(ebay.Config{
		APIURL:     config.EbayAPIURL,
		OAuthToken: config.EbayOAuthToken,
		AppID:      config.EbayAppID,
		UserAgent:  config.UserAgent,
		Timeout:    config.HTTPTimeout,
	})

	runner := tasks.NewRunner(searcher, newTodoistClient(config, usedItems),
		config.MaxTimeRemaining, config.Regions, config.TodoistProject)

	_, err = runner.Run(ctx, queries)
	if errors.Is(err, context.Canceled) {
		slog.Warn("Run interrupted")
	}
	return err
}

func listProjects(ctx context.Context, config *cfg.Cfg, w io.Writer) error {
	projects, err := newTodoistClient(config, nil).GetProjects(ctx)
	if err != nil {
		return err
	}
	for _, p := range projects {
		fmt.Fprintf(w, "%s %s\n", p.Name, p.ID)
	}
	return nil
}

func printTask(ctx context.Context, config *cfg.Cfg, taskID string, w io.Writer) error {
	task, err := newTodoistClient(config, nil).GetTask(ctx, taskID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(task)
}

func newTodoistClient(config *cfg.Cfg, usedItems ledger.Ledger) *todoist.Client {
	return todoist.NewClient(todoist.Config{
		BaseURL:   config.TodoistAPIURL,
		Token:     config.TodoistToken,
		UserAgent: config.UserAgent,
		Timeout:   config.HTTPTimeout,
		DryRun:    config.DryRun,
	}, usedItems)
}
