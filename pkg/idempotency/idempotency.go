// Package idempotency remembers which order an Idempotency-Key produced.
package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockTTL bounds how long a key stays locked if its holder never finishes.
const LockTTL = time.Minute

// Store maps client-supplied keys to created order IDs. A caller takes the
// key with TryLock before creating the order, so concurrent retries carrying
// the same key cannot both insert.
type Store interface {
	Recall(ctx context.Context, key string) (orderID string, ok bool, err error)
	TryLock(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
	Remember(ctx context.Context, key, orderID string) error
}

// RedisStore keeps key mappings in Redis with a TTL.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore returns a Redis-backed store.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func redisKey(key string) string {
	return "idemp:orders:" + key
}

func lockKey(key string) string {
	return "idemp:lock:orders:" + key
}

// Recall looks up the order ID stored for key.
func (s *RedisStore) Recall(ctx context.Context, key string) (string, bool, error) {
	val, err := s.rdb.Get(ctx, redisKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// TryLock reports whether the caller now holds key.
func (s *RedisStore) TryLock(ctx context.Context, key string) (bool, error) {
	return s.rdb.SetNX(ctx, lockKey(key), "1", LockTTL).Result()
}

// Release drops the lock on key so a later retry can proceed.
func (s *RedisStore) Release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, lockKey(key)).Err()
}

// Remember stores orderID under key.
func (s *RedisStore) Remember(ctx context.Context, key, orderID string) error {
	return s.rdb.Set(ctx, redisKey(key), orderID, s.ttl).Err()
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

var _ Store = (*RedisStore)(nil)
