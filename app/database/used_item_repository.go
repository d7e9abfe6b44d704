package database

import (
	"context"
	"fmt"
)

// UsedItemRepository handles database operations for used item IDs
type UsedItemRepository struct {
	db *DB
}

// NewUsedItemRepository creates a new used item repository
func NewUsedItemRepository(db *DB) *UsedItemRepository {
	return &UsedItemRepository{db: db}
}

// Contains reports whether the item ID has already been recorded
func (r *UsedItemRepository) Contains(ctx context.Context, itemID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM used_items WHERE item_id = ?)`, itemID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check used item: %w", err)
	}
	return exists, nil
}

// Add records the item ID; recording it twice is a no-op
func (r *UsedItemRepository) Add(ctx context.Context, itemID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO used_items (item_id) VALUES (?) ON CONFLICT (item_id) DO NOTHING`, itemID)
	if err != nil {
		return fmt.Errorf("failed to store used item: %w", err)
	}
	return nil
}

// GetUsedItemCount returns the number of recorded item IDs
func (r *UsedItemRepository) GetUsedItemCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM used_items").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get used item count: %w", err)
	}
	return count, nil
}

// Close closes the underlying database
func (r *UsedItemRepository) Close() error {
	return r.db.Close()
}
