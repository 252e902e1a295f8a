package scheduler

import (
    "context"
    "errors"
    "fmt"
    "time"

    "github.com/google/uuid"
    "github.com/redis/go-redis/v9"
)

const defaultLockTTL = 25 * time.Hour

// Lock coordinates exclusive sweep runs across service instances.
type Lock interface {
    Acquire(ctx context.Context) (bool, error)
    Release(ctx context.Context) error
}

// RedisLock implements Lock with SETNX plus a TTL.  The TTL is a safety
// net: a crashed holder's lock expires on its own one cycle later.
type RedisLock struct {
    client *redis.Client
    key    string
    ttl    time.Duration
    owner  string
}

// NewRedisLock constructs a Redis-backed lock.
func NewRedisLock(client *redis.Client, key string, ttl time.Duration) (*RedisLock, error) {
    if client == nil {
        return nil, errors.New("redis client required for lock")
    }
    if key == "" {
        return nil, errors.New("lock key is required")
    }
    if ttl <= 0 {
        ttl = defaultLockTTL
    }
    return &RedisLock{client: client, key: key, ttl: ttl}, nil
}

// Acquire tries to own the lock for the configured TTL.
func (l *RedisLock) Acquire(ctx context.Context) (bool, error) {
    owner := uuid.NewString()
    ok, err := l.client.SetNX(ctx, l.key, owner, l.ttl).Result()
    if err != nil {
        return false, fmt.Errorf("setnx: %w", err)
    }
    if ok {
        l.owner = owner
    }
    return ok, nil
}

// Release frees the lock only while the stored owner value still matches,
// so an expired-and-reacquired lock is never deleted out from under the
// new holder.
func (l *RedisLock) Release(ctx context.Context) error {
    if l.owner == "" {
        return nil
    }
    value, err := l.client.Get(ctx, l.key).Result()
    if err != nil {
        if errors.Is(err, redis.Nil) {
            return nil
        }
        return fmt.Errorf("read lock owner: %w", err)
    }
    if value != l.owner {
        return nil
    }
    if err := l.client.Del(ctx, l.key).Err(); err != nil {
        return fmt.Errorf("delete lock: %w", err)
    }
    l.owner = ""
    return nil
}

// noopLock is used when no Redis client is configured (single instance
// deployments); every acquire succeeds.
type noopLock struct{}

func (noopLock) Acquire(context.Context) (bool, error) { return true, nil }
func (noopLock) Release(context.Context) error         { return nil }

// NoopLock returns a Lock that always grants the run.
func NoopLock() Lock { return noopLock{} }
