package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"lion-connect-backend/pkg/apperror"
	"lion-connect-backend/pkg/security"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimitConfig holds configuration for one limited route group
type RateLimitConfig struct {
	// Requests per window
	Limit  int
	Window time.Duration
	// Key prefix in Redis, also namespaces the in-memory fallback
	KeyPrefix string
	// Reject with 503 instead of falling back when Redis errors
	FailClosed bool
	// Default: client IP
	KeyFunc func(*gin.Context) string
}

// Fixed window counter.
// KEYS[1] = counter key, ARGV[1] = window in seconds
// Returns: [count, ttl]
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

func GlobalRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:     limit,
		Window:    window,
		KeyPrefix: "lc:rl:ip:",
	}
}

// LoginRateLimitConfig is the strict limit for credential endpoints.
func LoginRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:      limit,
		Window:     window,
		KeyPrefix:  "lc:rl:login:",
		FailClosed: true,
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter counts requests in Redis when a client is configured and
// falls back to per-key token buckets in memory otherwise.
type RateLimiter struct {
	client *goredis.Client
	secLog *security.Logger

	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time
}

func NewRateLimiter(client *goredis.Client, secLog *security.Logger) *RateLimiter {
	return &RateLimiter{
		client:    client,
		secLog:    secLog,
		visitors:  make(map[string]*visitor),
		lastSweep: time.Now(),
	}
}

// Middleware builds a handler enforcing cfg.
func (rl *RateLimiter) Middleware(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	if cfg.Limit < 1 {
		cfg.Limit = 1
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}

	return func(c *gin.Context) {
		key := cfg.KeyPrefix + cfg.KeyFunc(c)

		allowed, remaining, retryAfter, err := rl.check(c.Request.Context(), key, cfg)
		if err != nil {
			if cfg.FailClosed {
				abort(c, apperror.New(http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.", err))
				return
			}
			allowed, remaining, retryAfter = rl.checkInMemory(key, cfg)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			if rl.secLog != nil {
				rl.secLog.LogRateLimitTriggered(c.Request.Context(), c.ClientIP(), c.GetHeader("User-Agent"), c.GetString(RequestIDKey), c.FullPath())
			}
			abort(c, apperror.TooManyRequests("Rate limit exceeded. Please try again later."))
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) check(ctx context.Context, key string, cfg RateLimitConfig) (bool, int, int, error) {
	if rl.client == nil {
		allowed, remaining, retryAfter := rl.checkInMemory(key, cfg)
		return allowed, remaining, retryAfter, nil
	}

	result, err := rl.client.Eval(ctx, rateLimitLuaScript, []string{key}, int(cfg.Window.Seconds())).Result()
	if err != nil {
		return false, 0, 0, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return false, 0, 0, fmt.Errorf("unexpected redis result format")
	}
	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)
	if ttl < 1 {
		ttl = 1
	}

	remaining := cfg.Limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return int(count) <= cfg.Limit, remaining, int(ttl), nil
}

// checkInMemory refills cfg.Limit tokens evenly over cfg.Window.
func (rl *RateLimiter) checkInMemory(key string, cfg RateLimitConfig) (bool, int, int) {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.sweep(now, cfg.Window)

	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Every(cfg.Window/time.Duration(cfg.Limit)), cfg.Limit)}
		rl.visitors[key] = v
	}
	v.lastSeen = now

	r := v.limiter.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, 0, int(math.Ceil(delay.Seconds()))
	}

	remaining := int(v.limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return true, remaining, 0
}

// sweep drops idle visitors at most once a minute. Caller holds rl.mu.
func (rl *RateLimiter) sweep(now time.Time, window time.Duration) {
	if now.Sub(rl.lastSweep) < time.Minute {
		return
	}
	expiry := window * 3
	if expiry < time.Minute {
		expiry = time.Minute
	}
	for k, v := range rl.visitors {
		if now.Sub(v.lastSeen) > expiry {
			delete(rl.visitors, k)
		}
	}
	rl.lastSweep = now
}
