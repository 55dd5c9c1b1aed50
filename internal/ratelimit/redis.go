package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPrefix = "ratelimit:"

// Redis keeps counters in Redis so every instance shares the same window.
type Redis struct {
	client *redis.Client
	window time.Duration
	prefix string
}

// NewRedis connects to redisURL and builds a shared counter.
func NewRedis(redisURL string, window time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisWithClient(client, window), nil
}

// NewRedisWithClient builds a counter from an existing client.
func NewRedisWithClient(client *redis.Client, window time.Duration) *Redis {
	return &Redis{client: client, window: window, prefix: redisPrefix}
}

func (r *Redis) key(k string) string {
	return r.prefix + k
}

func (r *Redis) Hit(ctx context.Context, key string) (int, time.Time, error) {
	k := r.key(key)

	n, err := r.client.Incr(ctx, k).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("incr %s: %w", k, err)
	}
	if n == 1 {
		if err := r.client.Expire(ctx, k, r.window).Err(); err != nil {
			return 0, time.Time{}, fmt.Errorf("expire %s: %w", k, err)
		}
	}

	ttl, err := r.client.TTL(ctx, k).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("ttl %s: %w", k, err)
	}
	if ttl < 0 {
		// Counter lost its expiry; start a fresh window.
		if err := r.client.Expire(ctx, k, r.window).Err(); err != nil {
			return 0, time.Time{}, fmt.Errorf("expire %s: %w", k, err)
		}
		ttl = r.window
	}
	return int(n), time.Now().Add(ttl), nil
}

// Close closes the Redis client.
func (r *Redis) Close() error {
	return r.client.Close()
}
