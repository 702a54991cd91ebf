package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimiterMiddleware applies a fixed window of limit requests per client IP,
// shared across instances through Redis. Requests pass when Redis is unavailable.
func RateLimiterMiddleware(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := "rate_limit:" + c.ClientIP()

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			slog.Warn("rate limiter skipped", "error", err)
			c.Next()
			return
		}

		if count == 1 {
			if err := rdb.Expire(ctx, key, window).Err(); err != nil {
				slog.Warn("rate limiter expire failed, dropping key", "key", key, "error", err)
				rdb.Del(ctx, key)
				c.Next()
				return
			}
		}

		ttl, err := rdb.TTL(ctx, key).Result()
		if err != nil || ttl <= 0 {
			ttl = window
		}

		setRateLimitHeaders(c, limit, int64(limit)-count, time.Now().Add(ttl))

		if count > int64(limit) {
			abortTooManyRequests(c, ttl)
			return
		}

		c.Next()
	}
}

func setRateLimitHeaders(c *gin.Context, limit int, remaining int64, reset time.Time) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Header("X-RateLimit-Remaining", strconv.FormatInt(max(0, remaining), 10))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))
}

func abortTooManyRequests(c *gin.Context, retryIn time.Duration) {
	seconds := int(retryIn.Round(time.Second).Seconds())
	c.Header("Retry-After", strconv.Itoa(max(1, seconds)))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"status":     "error",
		"message":    "Too many requests. Slow down!",
		"retry_in_s": seconds,
	})
}
