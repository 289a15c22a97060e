package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-account-service/pkg/response"
)

// ipFromCtx extracts the client IP from Gin context, falling back to "unknown"
func ipFromCtx(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

func normalizePath(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

// KeyFunc builds a rate-limit key from the request.
type KeyFunc func(c *gin.Context) string

// KeyByIP returns a key function that limits by client IP only
func KeyByIP() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:ip:" + ipFromCtx(c)
	}
}

// KeyByIPAndPath returns a key function that limits by client IP and request path
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:path:" + normalizePath(c) + ":ip:" + ipFromCtx(c)
	}
}

// KeyByUserID limits per authenticated user, falling back to IP.
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		uid := c.GetString("userID")
		if uid == "" {
			return "rl:user:anon:ip:" + ipFromCtx(c)
		}
		return "rl:user:" + uid
	}
}

// INCR and set the window expiry on the first hit, atomically.
var incrExpireScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// AllowFunc reports whether a request skips the limiter.
type AllowFunc func(*gin.Context) bool

// hit counts one request against key and returns the running count and
// the time left in the current window.
func hit(ctx context.Context, rdb *redis.Client, key string, window time.Duration) (int, time.Duration, error) {
	count, err := incrExpireScript.Run(ctx, rdb, []string{key}, window.Milliseconds()).Int()
	if err != nil {
		return 0, 0, err
	}
	ttl, err := rdb.PTTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = window
	}
	return count, ttl, nil
}

// RateLimit is a fixed-window limiter backed by Redis. It sets the
// X-RateLimit-* headers and answers 429 once max is exceeded within window.
// A nil client disables it; Redis errors fail open.
func RateLimit(rdb *redis.Client, max int, window time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if rdb == nil || max <= 0 || window <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (allow != nil && allow(c)) {
			c.Next()
			return
		}

		count, ttl, err := hit(c.Request.Context(), rdb, keyFn(c), window)
		if err != nil {
			c.Next()
			return
		}
		resetSec := int(math.Ceil(ttl.Seconds()))

		c.Header("X-RateLimit-Limit", strconv.Itoa(max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(maxInt(max-count, 0)))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))

		if count > max {
			c.Header("Retry-After", strconv.Itoa(resetSec))
			response.Error[any](c, http.StatusTooManyRequests, "rate limit exceeded", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
