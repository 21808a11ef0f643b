package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var errUnexpectedScriptReply = errors.New("unexpected rate limit script reply")

// Fixed-window counter: first INCR in a window sets the TTL, the remaining
// TTL doubles as Retry-After.
var redisFixedWindowScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
if count > tonumber(ARGV[1]) then
  local ttl = redis.call("PTTL", KEYS[1])
  if ttl < 0 then
    ttl = tonumber(ARGV[2])
  end
  return {0, ttl}
end
return {1, 0}
`)

type redisFixedWindowLimiter struct {
	client redis.UniversalClient
}

// NewRedisFixedWindowLimiter shares the window counters across replicas.
func NewRedisFixedWindowLimiter(client redis.UniversalClient) Limiter {
	return &redisFixedWindowLimiter{client: client}
}

func (l *redisFixedWindowLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error) {
	res, err := redisFixedWindowScript.Run(ctx, l.client, []string{key}, limit, window.Milliseconds()).Slice()
	if err != nil {
		return false, 0, err
	}
	if len(res) != 2 {
		return false, 0, errUnexpectedScriptReply
	}
	allowed, ok := res[0].(int64)
	if !ok {
		return false, 0, errUnexpectedScriptReply
	}
	ttlMs, ok := res[1].(int64)
	if !ok {
		return false, 0, errUnexpectedScriptReply
	}
	return allowed == 1, time.Duration(ttlMs) * time.Millisecond, nil
}
