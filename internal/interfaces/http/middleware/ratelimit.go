package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/debtbook/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter hands out one token bucket per key. Buckets idle for longer
// than the idle timeout are dropped by Sweep.
type RateLimiter struct {
	mu          sync.Mutex
	limiters    map[string]*visitor
	limit       rate.Limit
	burst       int
	idleTimeout time.Duration
	now         func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows requests per window for each key, with bursts of up
// to requests
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	if requests <= 0 {
		requests = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		limiters:    make(map[string]*visitor),
		limit:       rate.Limit(float64(requests) / window.Seconds()),
		burst:       requests,
		idleTimeout: 2 * window,
		now:         time.Now,
	}
}

func (rl *RateLimiter) get(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.limiters[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[key] = v
	}
	v.lastSeen = rl.now()
	return v.limiter
}

// Allow reports whether a request for key may proceed now
func (rl *RateLimiter) Allow(key string) bool {
	return rl.get(key).AllowN(rl.now(), 1)
}

// Remaining returns the whole tokens left for key
func (rl *RateLimiter) Remaining(key string) int {
	tokens := rl.get(key).TokensAt(rl.now())
	return max(0, int(math.Floor(tokens)))
}

// Sweep removes buckets not used within the idle timeout
func (rl *RateLimiter) Sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cutoff := rl.now().Add(-rl.idleTimeout)
	for key, v := range rl.limiters {
		if v.lastSeen.Before(cutoff) {
			delete(rl.limiters, key)
		}
	}
}

// Len returns the number of tracked keys
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

// RateLimit limits requests per client IP
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if !limiter.Allow(key) {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(1/float64(limiter.limit)))))
			abortWithError(c, http.StatusTooManyRequests, dto.ErrCodeRateLimited, "Too many requests. Please try again later.")
			return
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.burst))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(key)))
		c.Next()
	}
}
