package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-mrp-service/pkg/cache"
	"github.com/fekuna/omnipos-mrp-service/pkg/logger"
)

// RedisLocker holds keys in Redis so several service replicas share them.
type RedisLocker struct {
	cache  *cache.RedisClient
	ttl    time.Duration
	logger logger.ZapLogger
}

func NewRedisLocker(c *cache.RedisClient, ttl time.Duration, log logger.ZapLogger) *RedisLocker {
	return &RedisLocker{cache: c, ttl: ttl, logger: log}
}

func (r *RedisLocker) Acquire(ctx context.Context, keys ...string) (func(), error) {
	keys = normalize(keys)
	held := make([]*redislock.Lock, 0, len(keys))

	releaseAll := func() {
		// Release with a fresh context; the request context may already be cancelled.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		for i := len(held) - 1; i >= 0; i-- {
			if err := held[i].Release(ctx); err != nil {
				r.logger.Warn("failed to release redis lock", zap.String("key", held[i].Key()), zap.Error(err))
			}
		}
	}

	for _, key := range keys {
		l, err := r.cache.AcquireLock(ctx, key, r.ttl)
		if err != nil {
			releaseAll()
			return nil, fmt.Errorf("acquire %s: %w", key, err)
		}
		held = append(held, l)
	}

	return releaseAll, nil
}
