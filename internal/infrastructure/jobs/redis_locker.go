package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const lockKeyPrefix = "shopsync:job:"

// RedisLocker implements Locker on Redis SET NX, so single-flight holds
// across every instance sharing the Redis deployment.
type RedisLocker struct {
	client *redis.Client
}

// NewRedisLocker creates a locker on an existing Redis client
func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

// Acquire implements Locker using an atomic SET NX with TTL. The TTL keeps
// a crashed instance from holding the lock forever.
func (l *RedisLocker) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	acquired, err := l.client.SetNX(ctx, lockKeyPrefix+name, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire job lock: %w", err)
	}
	return acquired, nil
}

// Release implements Locker
func (l *RedisLocker) Release(ctx context.Context, name string) error {
	if err := l.client.Del(ctx, lockKeyPrefix+name).Err(); err != nil {
		return fmt.Errorf("failed to release job lock: %w", err)
	}
	return nil
}

var _ Locker = (*RedisLocker)(nil)
