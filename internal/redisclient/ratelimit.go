package redisclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateLimitKeyPrefix = "fittrack:ratelimit:"

// Fixed window counter: INCR, set EXPIRE on the first hit, report the remaining TTL.
var fixedWindowScript = redis.NewScript(`
local current = redis.call('INCR', KEYS[1])
if current == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return {current, ttl}
`)

var errUnexpectedScriptResult = errors.New("unexpected rate limit script result")

type RateLimiter struct {
	c      *Client
	limit  int
	window time.Duration
}

func NewRateLimiter(c *Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{c: c, limit: limit, window: window}
}

// Allow counts one hit for key and reports whether it fits in the current window.
func (r *RateLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	res, err := fixedWindowScript.Run(ctx, r.c.redisdb, []string{rateLimitKeyPrefix + key}, r.window.Milliseconds()).Result()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit check: %w", err)
	}

	vals, ok := res.([]interface{})
	if !ok || len(vals) != 2 {
		return false, 0, errUnexpectedScriptResult
	}

	count, ok1 := vals[0].(int64)
	ttlMs, ok2 := vals[1].(int64)
	if !ok1 || !ok2 {
		return false, 0, errUnexpectedScriptResult
	}

	if int(count) > r.limit {
		return false, time.Duration(ttlMs) * time.Millisecond, nil
	}

	return true, 0, nil
}
