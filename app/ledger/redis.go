package ledger

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

var _ Ledger = (*RedisLedger)(nil)

// RedisLedger keeps used item IDs in a single Redis set.
type RedisLedger struct {
	client *redis.Client
	key    string
}

// NewRedisLedger parses redisURL and verifies connectivity.
func NewRedisLedger(ctx context.Context, redisURL, key string) (*RedisLedger, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisLedger{client: client, key: key}, nil
}

func (l *RedisLedger) Contains(ctx context.Context, itemID string) (bool, error) {
	used, err := l.client.SIsMember(ctx, l.key, itemID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check item %s: %w", itemID, err)
	}
	return used, nil
}

func (l *RedisLedger) Add(ctx context.Context, itemID string) error {
	if err := l.client.SAdd(ctx, l.key, itemID).Err(); err != nil {
		return fmt.Errorf("failed to add item %s: %w", itemID, err)
	}
	return nil
}

func (l *RedisLedger) Close() error {
	return l.client.Close()
}
