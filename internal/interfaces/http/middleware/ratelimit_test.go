package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/debtbook/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_PerKeyBurst(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(3, time.Minute)
	rl.now = func() time.Time { return now }

	for range 3 {
		assert.True(t, rl.Allow("10.0.0.1"))
	}
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"), "keys are limited independently")

	// one token refills every 20s
	now = now.Add(21 * time.Second)
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
}

func TestRateLimiter_Sweep(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(5, time.Minute)
	rl.now = func() time.Time { return now }

	rl.Allow("a")
	now = now.Add(90 * time.Second)
	rl.Allow("b")
	now = now.Add(45 * time.Second)

	rl.Sweep()
	assert.Equal(t, 1, rl.Len())
}

func TestRateLimitMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RateLimit(NewRateLimiter(2, time.Hour)))
	router.GET("/debts", func(c *gin.Context) { c.Status(http.StatusOK) })

	first := perform(router, http.MethodGet, "/debts", nil)
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, perform(router, http.MethodGet, "/debts", nil).Code)

	limited := perform(router, http.MethodGet, "/debts", nil)
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.NotEmpty(t, limited.Header().Get("Retry-After"))
	assert.Equal(t, dto.ErrCodeRateLimited, decodeError(t, limited.Body.Bytes()).Code)
}
