package infra

import (
	"context"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// Locker hands out short-lived distributed locks, used to serialize
// per-tenant document numbering across backend instances.
type Locker struct {
	client *redislock.Client
}

func NewLocker(rdb *redis.Client) *Locker {
	return &Locker{client: redislock.New(rdb)}
}

// WithLock runs fn while holding the named lock. Acquisition retries with
// backoff for up to ~2s; a busy lock after that returns redislock.ErrNotObtained.
func (l *Locker) WithLock(ctx context.Context, key string, fn func() error) error {
	lock, err := l.client.Obtain(ctx, key, 5*time.Second, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 20),
	})
	if err != nil {
		return err
	}
	defer lock.Release(ctx)
	return fn()
}
