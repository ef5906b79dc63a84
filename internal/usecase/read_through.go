package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	lockTTL     = 30 * time.Second
	lockBackoff = 300 * time.Millisecond
)

// readThrough serves key from cache or calls load and stores the result. Concurrent misses
// on the same key take a short lock so only one loader hits the store; the others wait
// once and retry the cache before loading themselves.
func readThrough[T any](ctx context.Context, cache SearchCache, logger *zap.Logger, key string, load func(context.Context) (T, error)) (T, error) {
	if cache == nil {
		return load(ctx)
	}

	var cached T
	if hit, err := cache.GetJSON(ctx, key, &cached); err == nil && hit {
		logger.Debug("cache hit", zap.String("key", key))
		return cached, nil
	}
	logger.Debug("cache miss", zap.String("key", key))

	lockKey := lockKeyFor(key)
	lockAcquired := false
	ok, err := cache.SetIfNotExists(ctx, lockKey, "1", lockTTL)
	switch {
	case err == nil && ok:
		lockAcquired = true
	case err == nil && !ok:
		jitter := time.Duration(time.Now().UnixNano()%201) * time.Millisecond
		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case <-time.After(lockBackoff + jitter):
		}
		if hit, err := cache.GetJSON(ctx, key, &cached); err == nil && hit {
			logger.Debug("cache hit after wait", zap.String("key", key))
			return cached, nil
		}
		logger.Debug("lock wait fallback", zap.String("key", lockKey))
	}

	out, err := load(ctx)
	if err != nil {
		if lockAcquired {
			_ = cache.Delete(ctx, lockKey)
		}
		return out, err
	}
	if err := cache.SetJSON(ctx, key, out, 0); err != nil {
		logger.Debug("cache set failed", zap.String("key", key), zap.Error(err))
	}
	if lockAcquired {
		_ = cache.Delete(ctx, lockKey)
	}
	return out, nil
}
