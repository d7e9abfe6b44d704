package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/dealsteal/app/database"
)

var _ Ledger = (*database.UsedItemRepository)(nil)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

type Options struct {
	Backend  string
	FilePath string
	DBPath   string
	RedisURL string
	RedisKey string
}

// Open constructs the ledger backend selected by opts.Backend.
func Open(ctx context.Context, opts Options) (Ledger, error) {
	switch opts.Backend {
	case BackendFile, "":
		slog.Debug("Using file ledger", "path", opts.FilePath)
		return NewFileLedger(opts.FilePath), nil

	case BackendSQLite:
		db, err := database.NewConnection(opts.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		version, dirty, err := database.RunMigrations(db)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}

		repo := database.NewUsedItemRepository(db)
		count, err := repo.GetUsedItemCount(ctx)
		if err != nil {
			repo.Close()
			return nil, err
		}

		slog.Debug("Using sqlite ledger",
			"path", opts.DBPath,
			"migration_version", version,
			"dirty", dirty,
			"used_items", count)

		return repo, nil

	case BackendRedis:
		l, err := NewRedisLedger(ctx, opts.RedisURL, opts.RedisKey)
		if err != nil {
			return nil, err
		}
		slog.Debug("Using redis ledger", "key", opts.RedisKey)
		return l, nil

	default:
		return nil, fmt.Errorf("unknown ledger backend %q", opts.Backend)
	}
}
