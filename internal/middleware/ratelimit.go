package middleware

import (
	"net/http"
	"sync"
	"time"

	"flight-assistant/internal/logger"
	"flight-assistant/internal/metrics"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per key.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*bucket
	limit    rate.Limit
	burst    int
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const pruneAbove = 10000

func NewRateLimiter(perMinute, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*bucket),
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    burst,
	}
}

func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.limiters[key]
	if !ok {
		if len(rl.limiters) >= pruneAbove {
			rl.prune(now)
		}
		b = &bucket{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// prune drops buckets untouched for ten minutes; their tokens are full again
// by then.
func (rl *RateLimiter) prune(now time.Time) {
	for k, b := range rl.limiters {
		if now.Sub(b.lastSeen) > 10*time.Minute {
			delete(rl.limiters, k)
		}
	}
}

// RateLimit limits requests per session, falling back to the client IP when
// the session middleware did not run.
func RateLimit(perMinute, burst int) gin.HandlerFunc {
	limiter := NewRateLimiter(perMinute, burst)

	return func(c *gin.Context) {
		key := c.GetString(SessionKey)
		if key == "" {
			key = c.ClientIP()
		}
		if !limiter.Allow(key) {
			metrics.RateLimitedTotal.Inc()
			logger.Warn("rate limit exceeded", "key", key, "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": 60 / max(perMinute, 1),
			})
			return
		}
		c.Next()
	}
}
