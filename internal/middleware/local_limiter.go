package middleware

import (
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/iliyamo/shop-reservation/internal/config"
)

// localLimiter keeps one rate.Limiter per key in process memory. Entries
// idle for longer than the configured TTL are swept on access.
type localLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	ttl       time.Duration
	buckets   map[string]*localBucket
	lastSweep time.Time
	now       func() time.Time
}

type localBucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func newLocalLimiter(cfg config.RateLimitConfig) *localLimiter {
	per := cfg.RefillInterval / time.Duration(cfg.RefillTokens)
	return &localLimiter{
		limit:   rate.Every(per),
		burst:   cfg.Capacity,
		ttl:     cfg.TTL,
		buckets: map[string]*localBucket{},
		now:     time.Now,
	}
}

// NewLocalLimiter is the in-process counterpart of NewTokenBucket, for
// single-instance deployments without Redis.
func NewLocalLimiter(cfg config.RateLimitConfig, obs LimitObserver) echo.MiddlewareFunc {
	if !cfg.Enabled {
		return passThrough
	}
	return newLocalLimiter(cfg).middleware(cfg, obs)
}

func (l *localLimiter) middleware(cfg config.RateLimitConfig, obs LimitObserver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := buildRateKey(cfg, c)
			allowed, remaining, retry := l.take(key)
			return finish(c, next, cfg, obs, key, allowed, remaining, retry)
		}
	}
}

// take consumes one token for key.
func (l *localLimiter) take(key string) (allowed bool, remaining int64, retry time.Duration) {
	now := l.now()

	l.mu.Lock()
	if now.Sub(l.lastSweep) > l.ttl {
		for k, b := range l.buckets {
			if now.Sub(b.lastSeen) > l.ttl {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}
	b, ok := l.buckets[key]
	if !ok {
		b = &localBucket{lim: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	l.mu.Unlock()

	r := b.lim.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, 0, delay
	}
	left := int64(b.lim.TokensAt(now))
	if left < 0 {
		left = 0
	}
	return true, left, 0
}
