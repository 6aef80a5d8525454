package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter is a fixed-window counter per key.
type RateLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	windows map[string]*rateWindow
}

type rateWindow struct {
	start time.Time
	count int
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		windows: make(map[string]*rateWindow),
	}
}

// Allow reports whether key may make another request. A non-positive limit
// disables limiting.
func (rl *RateLimiter) Allow(key string) bool {
	if rl.limit <= 0 {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[key]
	if !ok || now.Sub(w.start) >= rl.window {
		rl.windows[key] = &rateWindow{start: now, count: 1}
		rl.evictLocked(now)
		return true
	}
	if w.count >= rl.limit {
		return false
	}
	w.count++
	return true
}

func (rl *RateLimiter) evictLocked(now time.Time) {
	if len(rl.windows) < 1024 {
		return
	}
	for key, w := range rl.windows {
		if now.Sub(w.start) >= rl.window {
			delete(rl.windows, key)
		}
	}
}

// RetryAfter is the time left before key's current window resets.
func (rl *RateLimiter) RetryAfter(key string) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.windows[key]
	if !ok {
		return 0
	}
	if left := rl.window - rl.now().Sub(w.start); left > 0 {
		return left
	}
	return 0
}

func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return limitBy(limiter, "rate limit exceeded")
}

// LoginRateLimit allows five login attempts per minute per client address.
func LoginRateLimit() gin.HandlerFunc {
	return limitBy(NewRateLimiter(5, time.Minute), "too many authentication attempts, please try again later")
}

// RouteLimits maps gin route patterns to their own limiters. Routes without
// an entry pass through. The map must not change once Middleware is called.
type RouteLimits map[string]*RateLimiter

func (rl RouteLimits) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter, ok := rl[c.FullPath()]
		if !ok {
			c.Next()
			return
		}
		limitBy(limiter, "rate limit exceeded for "+c.FullPath())(c)
	}
}

func limitBy(limiter *RateLimiter, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if limiter.Allow(key) {
			c.Next()
			return
		}
		wait := int(math.Ceil(limiter.RetryAfter(key).Seconds()))
		c.Header("Retry-After", strconv.Itoa(wait))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":       message,
			"retry_after": wait,
		})
	}
}
