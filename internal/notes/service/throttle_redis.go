package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// DefaultThrottlePrefix namespaces throttle keys in a shared redis.
const DefaultThrottlePrefix = "notes:throttle"

// reserveScript prunes, counts and reserves in one step. Scores are unix
// milliseconds supplied by the caller so every instance agrees on "now".
//
// KEYS[1] log key
// ARGV[1] now, ARGV[2] window, ARGV[3] limit, ARGV[4] member
// Returns {1, 0} when reserved, {0, oldest} when full.
var reserveScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)

if redis.call('ZCARD', key) >= limit then
	local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
	return {0, tonumber(oldest[2])}
end

redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return {1, 0}
`)

// RedisThrottleBackend keeps each address's log in a sorted set so every
// instance enforces the same limit.
type RedisThrottleBackend struct {
	client *redis.Client
	prefix string
}

func NewRedisThrottleBackend(client *redis.Client, prefix string) *RedisThrottleBackend {
	if prefix == "" {
		prefix = DefaultThrottlePrefix
	}
	return &RedisThrottleBackend{client: client, prefix: prefix}
}

func (b *RedisThrottleBackend) key(addr string) string {
	return fmt.Sprintf("%s:%s", b.prefix, addr)
}

func (b *RedisThrottleBackend) Reserve(ctx context.Context, key string, now time.Time, window time.Duration, limit int) (string, time.Time, bool, error) {
	member := uuid.NewString()

	res, err := reserveScript.Run(ctx, b.client,
		[]string{b.key(key)},
		now.UnixMilli(), window.Milliseconds(), limit, member,
	).Int64Slice()
	if err != nil {
		return "", time.Time{}, false, fmt.Errorf("redis throttle reserve: %w", err)
	}
	if len(res) != 2 {
		return "", time.Time{}, false, fmt.Errorf("redis throttle reserve: unexpected reply %v", res)
	}

	if res[0] == 0 {
		return "", time.UnixMilli(res[1]), false, nil
	}
	return member, time.Time{}, true, nil
}

func (b *RedisThrottleBackend) Release(ctx context.Context, key, slot string) error {
	if err := b.client.ZRem(ctx, b.key(key), slot).Err(); err != nil {
		return fmt.Errorf("redis throttle release: %w", err)
	}
	return nil
}
