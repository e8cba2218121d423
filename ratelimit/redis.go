// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "ratelimit:"

// Redis is a fixed-window limiter backed by a shared Redis counter,
// for deployments where every instance must enforce the same global
// limit.
type Redis struct {
	client *redis.Client
}

func NewRedis(addr string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 2 * time.Second,
		ReadTimeout: 2 * time.Second,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &Redis{client: client}, nil
}

// Allow implements Limiter. INCR starts the window on the first
// request for a key; PEXPIRE bounds it. Redis failures log and allow,
// favoring availability over strict limiting.
func (r *Redis) Allow(key string, max int, window time.Duration) bool {
	ctx := context.Background()
	fullKey := redisKeyPrefix + key

	count, err := r.client.Incr(ctx, fullKey).Result()
	if err != nil {
		slog.Error("rate limit counter failed", "key", key, "error", err)
		return true
	}

	if count == 1 {
		if err := r.client.PExpire(ctx, fullKey, window).Err(); err != nil {
			slog.Error("rate limit expiry failed", "key", key, "error", err)
		}
	}

	return count <= int64(max)
}

func (r *Redis) Close() error {
	return r.client.Close()
}
