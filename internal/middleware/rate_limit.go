package middleware

import (
	"sync"
	"time"

	"go-payroll/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long a key may stay silent before its bucket is
// dropped. A dropped key starts again with a full burst.
const limiterIdleTTL = 10 * time.Minute

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedLimiter hands out one token bucket per key.
type KeyedLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	limit     rate.Limit
	burst     int
	now       func() time.Time
	lastSweep time.Time
}

func NewKeyedLimiter(limit rate.Limit, burst int) *KeyedLimiter {
	return &KeyedLimiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		burst:   burst,
		now:     time.Now,
	}
}

// Allow consumes one token from key's bucket.
func (l *KeyedLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > limiterIdleTTL {
		for k, b := range l.buckets {
			if now.Sub(b.lastSeen) > limiterIdleTTL {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// Len is the number of tracked keys.
func (l *KeyedLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// RateLimit throttles requests per key. An empty key is not limited.
func RateLimit(limiter *KeyedLimiter, keyOf func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyOf(c)
		if key != "" && !limiter.Allow(key) {
			abortWith(c, apperror.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}

func RateLimitByIP(limit rate.Limit, burst int) gin.HandlerFunc {
	return RateLimit(NewKeyedLimiter(limit, burst), func(c *gin.Context) string {
		return "ip:" + c.ClientIP()
	})
}

// RateLimitByUser must run after Authenticate; anonymous requests pass through.
func RateLimitByUser(limit rate.Limit, burst int) gin.HandlerFunc {
	return RateLimit(NewKeyedLimiter(limit, burst), func(c *gin.Context) string {
		if id := c.GetString(ContextUserID); id != "" {
			return "user:" + id
		}
		return ""
	})
}
