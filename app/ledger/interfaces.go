package ledger

import "context"

// Ledger records item IDs that already produced a submitted task.
// Implementations must treat a repeated Add of the same ID as harmless.
type Ledger interface {
	Contains(ctx context.Context, itemID string) (bool, error)
	Add(ctx context.Context, itemID string) error
	Close() error
}
