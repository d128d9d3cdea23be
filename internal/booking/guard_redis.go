package booking

import (
	"context"
	"time"

	"screening-backend/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// RedisGuard is a Guard backed by a Redis concurrency cap of one.
type RedisGuard struct {
	rdb redis.Scripter
	ttl time.Duration
}

func NewRedisGuard(rdb redis.Scripter, ttl time.Duration) *RedisGuard {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisGuard{rdb: rdb, ttl: ttl}
}

func (g *RedisGuard) Acquire(ctx context.Context, key string) (bool, error) {
	return utils.AcquireConcurrencyCap(ctx, g.rdb, key, 1, g.ttl)
}

func (g *RedisGuard) Release(ctx context.Context, key string) error {
	return utils.ReleaseConcurrencyCap(ctx, g.rdb, key)
}
