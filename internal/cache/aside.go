package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Aside implements the cache-aside pattern: return the cached value under
// key when present, otherwise call load, cache its result for ttl, and
// return it. When Redis is unavailable it degrades to calling load directly.
func Aside[T any](ctx context.Context, key string, ttl time.Duration, load func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if client != nil {
		raw, err := client.Get(ctx, key).Result()
		if err == nil {
			var cached T
			if unmarshalErr := json.Unmarshal([]byte(raw), &cached); unmarshalErr == nil {
				return cached, nil
			}
			// Corrupt entry, drop it and fall through to the loader
			client.Del(ctx, key)
		} else if !errors.Is(err, redis.Nil) {
			slog.Warn("cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	}

	value, err := load(ctx)
	if err != nil {
		return zero, err
	}

	if client != nil {
		if raw, marshalErr := json.Marshal(value); marshalErr == nil {
			if setErr := client.Set(ctx, key, raw, ttl).Err(); setErr != nil {
				slog.Warn("cache write failed", slog.String("key", key), slog.String("error", setErr.Error()))
			}
		}
	}

	return value, nil
}
