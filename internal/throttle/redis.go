package throttle

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// takeScript implements one fixed-window check-then-admit atomically.
// The rejected path never touches the counter, so a client hammering a full
// window cannot extend it or push the count past the limit.
var takeScript = redis.NewScript(`
-- KEYS[1] = window counter key
-- ARGV[1] = limit (int)
-- ARGV[2] = window_ms (int)
--
-- Returns 1 if admitted, 0 if rejected.
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
if current >= tonumber(ARGV[1]) then
  return 0
end
current = redis.call('INCR', KEYS[1])
if current == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[2])
else
  -- Ensure TTL exists even if the key somehow lost it
  if redis.call('PTTL', KEYS[1]) < 0 then
    redis.call('PEXPIRE', KEYS[1], ARGV[2])
  end
end
return 1
`)

// RedisStore is the shared counter backend for multi-instance deployments.
// The window lives as a TTL'd counter key; expiry is the window reset.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) (*RedisStore, error) {
	if rdb == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &RedisStore{rdb: rdb}, nil
}

func (s *RedisStore) Take(ctx context.Context, b Bucket, clientKey string, now time.Time) (bool, error) {
	_ = now // redis owns window timing via key TTL

	key := fmt.Sprintf("throttle:%s:%s", b.Name, clientKey)
	res, err := takeScript.Run(ctx, s.rdb, []string{key}, b.Limit, b.Window.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}
