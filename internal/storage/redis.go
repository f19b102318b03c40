package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisCommands is the subset of *redis.Client the backend uses.
type redisCommands interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type redisBackend struct {
	redisClient redisCommands
	keyPrefix   string
	ttl         time.Duration
}

// NewRedisBackend stores items as plain redis strings that expire after ttl,
// which bounds them to the browsing session. A zero ttl keeps them forever.
func NewRedisBackend(redisClient *redis.Client, ttl time.Duration) Backend {
	return newRedisBackend(redisClient, ttl)
}

func newRedisBackend(redisClient redisCommands, ttl time.Duration) *redisBackend {
	return &redisBackend{
		redisClient: redisClient,
		keyPrefix:   "dogbrowser:selection:",
		ttl:         ttl,
	}
}

func (r *redisBackend) Name() string {
	return "redis"
}

func (r *redisBackend) SetItem(ctx context.Context, key string, value []byte) error {
	err := r.redisClient.Set(ctx, r.keyPrefix+key, value, r.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set item %s: %w", key, err)
	}
	return nil
}

func (r *redisBackend) GetItem(ctx context.Context, key string) ([]byte, error) {
	val, err := r.redisClient.Get(ctx, r.keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get item %s: %w", key, err)
	}
	return val, nil
}

func (r *redisBackend) RemoveItem(ctx context.Context, key string) error {
	err := r.redisClient.Del(ctx, r.keyPrefix+key).Err()
	if err != nil {
		return fmt.Errorf("failed to remove item %s: %w", key, err)
	}
	return nil
}
