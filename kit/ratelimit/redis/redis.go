package redis

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	redisKit "github.com/superj80820/pharmacy-ocr/kit/cache/redis"
	"github.com/superj80820/pharmacy-ocr/kit/ratelimit"
)

const passLuaScript = `
	local key = KEYS[1]
	local max_requests = tonumber(ARGV[1])
	local expiry = tonumber(ARGV[2])
	local requests = tonumber(redis.call('GET', key) or '0')
	if (requests == 0) then
		redis.call('SET', key, 1, 'EX', expiry)
		return {1, 1, expiry}
	end

	local cur_expiry = tonumber(redis.call('TTL', key))
	if (cur_expiry < 0) then
		redis.call('EXPIRE', key, expiry)
		cur_expiry = expiry
	end
	if (requests < max_requests) then
		requests = redis.call('INCR', key)
		return {1, requests, cur_expiry}
	end
	return {0, requests, cur_expiry}
`

type cacheRateLimit struct {
	cache       *redisKit.Cache
	maxRequests int
	expiry      int
}

var _ ratelimit.RateLimit = (*cacheRateLimit)(nil)

// CreateCacheRateLimit counts requests in redis, expiry is the window length in seconds.
func CreateCacheRateLimit(cache *redisKit.Cache, maxRequests, expiry int) ratelimit.RateLimit {
	return &cacheRateLimit{cache: cache, maxRequests: maxRequests, expiry: expiry}
}

func (c *cacheRateLimit) Pass(ctx context.Context, key string) (pass bool, remaining, expiry int, err error) {
	result, err := c.cache.RunLua(ctx, passLuaScript, []string{key}, c.maxRequests, c.expiry).Slice()
	if err != nil {
		return false, 0, 0, errors.Wrap(err, "redis run lua script failed")
	}
	if len(result) != 3 {
		return false, 0, 0, errors.New(fmt.Sprintf("unexpected lua result length: %d", len(result)))
	}
	passFlag, err := toInt64(result[0])
	if err != nil {
		return false, 0, 0, errors.Wrap(err, "convert pass failed")
	}
	curRequests, err := toInt64(result[1])
	if err != nil {
		return false, 0, 0, errors.Wrap(err, "convert requests failed")
	}
	curExpiry, err := toInt64(result[2])
	if err != nil {
		return false, 0, 0, errors.Wrap(err, "convert expiry failed")
	}
	remaining = c.maxRequests - int(curRequests)
	if remaining < 0 {
		remaining = 0
	}
	return passFlag == 1, remaining, int(curExpiry), nil
}

func toInt64(val interface{}) (int64, error) {
	switch val := val.(type) {
	case int64:
		return val, nil
	case nil:
		return 0, nil
	default:
		return 0, errors.New(fmt.Sprintf("unexpected type=%T for int64", val))
	}
}
