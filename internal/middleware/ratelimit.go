package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/shop-reservation/internal/config"
)

// LimitObserver is told about every rejected request.
type LimitObserver interface {
	RecordRateLimited()
}

// tokenBucketScript refills and takes one token atomically. It returns
// {allowed, remaining, retry_after_ms}.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local refill_tokens = tonumber(ARGV[3])
	local interval_ms = tonumber(ARGV[4])
	local ttl_seconds = tonumber(ARGV[5])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])

	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	if interval_ms > 0 and refill_tokens > 0 then
		local elapsed = math.max(0, now_ms - last_refill)
		local intervals = math.floor(elapsed / interval_ms)
		if intervals > 0 then
			tokens = math.min(capacity, tokens + (intervals * refill_tokens))
			last_refill = last_refill + (intervals * interval_ms)
		end
	end

	local allowed = 0
	local retry_after_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
	redis.call('EXPIRE', key, ttl_seconds)

	return { allowed, tokens, retry_after_ms }
`)

// NewTokenBucket limits requests with a token bucket per key (see
// buildRateKey). State lives in Redis so all instances share it. When rdb
// is nil, or a Redis call fails, the in-process limiter takes over if
// cfg.LocalFallback is set; otherwise requests pass.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client, obs LimitObserver) echo.MiddlewareFunc {
	if !cfg.Enabled {
		return passThrough
	}
	var local *localLimiter
	if cfg.LocalFallback {
		local = newLocalLimiter(cfg)
	}
	if rdb == nil {
		if local == nil {
			return passThrough
		}
		return local.middleware(cfg, obs)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := buildRateKey(cfg, c)
			args := []any{
				time.Now().UnixMilli(),
				cfg.Capacity,
				cfg.RefillTokens,
				cfg.RefillInterval.Milliseconds(),
				int64(cfg.TTL / time.Second),
			}
			vals, err := tokenBucketScript.Run(c.Request().Context(), rdb, []string{key}, args...).Result()
			if err != nil {
				if cfg.Debug {
					c.Logger().Warnf("[ratelimit] redis error for key=%s: %v", key, err)
				}
				if local != nil {
					allowed, remaining, retry := local.take(key)
					return finish(c, next, cfg, obs, key, allowed, remaining, retry)
				}
				return next(c)
			}

			arr, ok := vals.([]any)
			if !ok || len(arr) != 3 {
				if cfg.Debug {
					c.Logger().Warnf("[ratelimit] unexpected script result for key=%s: %#v", key, vals)
				}
				return next(c)
			}
			allowed := fmt.Sprint(arr[0]) == "1"
			retry := time.Duration(asInt64(arr[2])) * time.Millisecond
			return finish(c, next, cfg, obs, key, allowed, asInt64(arr[1]), retry)
		}
	}
}

// finish writes the rate-limit headers and either rejects with 429 or
// calls next.
func finish(c echo.Context, next echo.HandlerFunc, cfg config.RateLimitConfig, obs LimitObserver, key string, allowed bool, remaining int64, retry time.Duration) error {
	h := c.Response().Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
	h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
	if cfg.Debug {
		h.Set("X-RateLimit-Key", key)
	}
	if allowed {
		return next(c)
	}
	secs := int(math.Ceil(retry.Seconds()))
	if secs < 1 {
		secs = 1
	}
	h.Set("Retry-After", strconv.Itoa(secs))
	if obs != nil {
		obs.RecordRateLimited()
	}
	return c.JSON(http.StatusTooManyRequests, echo.Map{
		"error":       "too_many_requests",
		"message":     "rate limit exceeded",
		"retry_after": secs,
	})
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

func asInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	uid := subject(c)
	route := c.Request().Method + " " + c.Path()

	parts := []string{cfg.Prefix}
	switch strings.ToLower(cfg.KeyStrategy) {
	case "ip":
		parts = append(parts, "ip", ip)
	case "user":
		parts = append(parts, "user", uid)
	case "ip_user":
		parts = append(parts, "ip", ip, "user", uid)
	default:
		parts = append(parts, "ip", ip, "user", uid, "route", route)
	}
	return strings.Join(parts, ":")
}
