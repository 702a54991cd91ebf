package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const visitorIdleTimeout = 3 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LocalRateLimiter is the single-instance fallback used when Redis is not configured.
// Each client IP gets a token bucket refilling limit tokens per window.
type LocalRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	every    rate.Limit
	window   time.Duration
}

func NewLocalRateLimiter(limit int, window time.Duration) *LocalRateLimiter {
	if limit < 1 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &LocalRateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		every:    rate.Every(window / time.Duration(limit)),
		window:   window,
	}
}

func (l *LocalRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		limiter := l.get(c.ClientIP(), now)

		allowed := limiter.AllowN(now, 1)
		remaining := int64(limiter.TokensAt(now))
		setRateLimitHeaders(c, l.limit, remaining, now.Add(l.window))

		if !allowed {
			abortTooManyRequests(c, l.window/time.Duration(l.limit))
			return
		}

		c.Next()
	}
}

// Cleanup drops idle visitors every interval until ctx is cancelled.
func (l *LocalRateLimiter) Cleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.sweep(now)
		}
	}
}

func (l *LocalRateLimiter) get(ip string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, exists := l.visitors[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(l.every, l.limit)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

func (l *LocalRateLimiter) sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, v := range l.visitors {
		if now.Sub(v.lastSeen) > visitorIdleTimeout {
			delete(l.visitors, ip)
		}
	}
}
