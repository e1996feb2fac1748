package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Token bucket kept in a Redis hash so every replica shares one budget per IP.
var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local requested = tonumber(ARGV[4])

local bucket = redis.call('HMGET', key, 'tokens', 'updated_at')
local tokens = tonumber(bucket[1])
local updated_at = tonumber(bucket[2])

if tokens == nil or updated_at == nil then
    tokens = capacity
    updated_at = now
end

local elapsed = math.max(0, now - updated_at)
tokens = math.min(capacity, tokens + elapsed * rate)

local allowed = 0
local retry_after = 0

if tokens >= requested then
    tokens = tokens - requested
    allowed = 1
else
    retry_after = (requested - tokens) / rate
end

redis.call('HSET', key, 'tokens', tokens, 'updated_at', now)
redis.call('EXPIRE', key, 86400)

return {allowed, math.floor(tokens), math.ceil(retry_after)}
`)

type RedisRateLimiter struct {
	client   *redis.Client
	capacity int
	perSec   float64
	prefix   string
	now      func() time.Time
}

// NewRedisRateLimiter allows limit requests per window per client IP.
func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration) *RedisRateLimiter {
	if limit < 1 {
		limit = 1
	}
	return &RedisRateLimiter{
		client:   client,
		capacity: limit,
		perSec:   float64(limit) / window.Seconds(),
		prefix:   "rate_limit:",
		now:      time.Now,
	}
}

// Allow consumes one token for key. It returns the seconds to wait when denied.
func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	now := float64(rl.now().UnixNano()) / 1e9
	res, err := tokenBucketScript.Run(ctx, rl.client, []string{rl.prefix + key},
		rl.capacity, rl.perSec, now, 1).Int64Slice()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit script: %w", err)
	}
	if len(res) != 3 {
		return false, 0, fmt.Errorf("rate limit script: unexpected reply %v", res)
	}
	return res[0] == 1, int(res[2]), nil
}

// Middleware fails open when Redis is unreachable.
func (rl *RedisRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, retryAfter, err := rl.Allow(r.Context(), clientIP(r))
		if err != nil {
			log.Warn().Err(err).Msg("redis rate limiter unavailable; allowing request")
			next.ServeHTTP(w, r)
			return
		}
		if !allowed {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			writeError(w, http.StatusTooManyRequests, rateLimitMessage, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
