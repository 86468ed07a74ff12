package handler

import (
	"context"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/debtbook/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// defaultCheckTimeout bounds each readiness check
const defaultCheckTimeout = 2 * time.Second

// Checker probes one dependency. A nil error means healthy.
type Checker func(ctx context.Context) error

// HealthResponse is the body of the liveness and readiness probes
type HealthResponse struct {
	Status    string            `json:"status" example:"healthy"`
	Time      string            `json:"time" example:"2026-01-23T12:00:00Z"`
	Version   string            `json:"version,omitempty" example:"1.0.0"`
	GoVersion string            `json:"go_version,omitempty" example:"go1.25.5"`
	Uptime    string            `json:"uptime,omitempty" example:"1h30m45s"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthHandler serves /health and /ready
type HealthHandler struct {
	version   string
	startTime time.Time
	timeout   time.Duration
	checks    map[string]Checker
	now       func() time.Time
}

// HealthOption configures a HealthHandler
type HealthOption func(*HealthHandler)

// WithCheck adds a readiness check under name
func WithCheck(name string, check Checker) HealthOption {
	return func(h *HealthHandler) {
		h.checks[name] = check
	}
}

// WithCheckTimeout overrides the per-check timeout
func WithCheckTimeout(d time.Duration) HealthOption {
	return func(h *HealthHandler) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(version string, opts ...HealthOption) *HealthHandler {
	h := &HealthHandler{
		version: version,
		timeout: defaultCheckTimeout,
		checks:  make(map[string]Checker),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.startTime = h.now()
	return h
}

// Live godoc
// @ID           health
// @Summary      Liveness probe
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Live(c *gin.Context) {
	now := h.now()
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Time:      now.Format(time.RFC3339),
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    now.Sub(h.startTime).Round(time.Second).String(),
	})
}

// Ready godoc
// @ID           ready
// @Summary      Readiness probe
// @Description  Runs every dependency check concurrently. Any failure answers 503.
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	reqLog := logger.GetGinLogger(c)

	var (
		mu      sync.Mutex
		results = make(map[string]string, len(h.checks))
		healthy = true
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	for name, check := range h.checks {
		g.Go(func() error {
			checkCtx, cancel := context.WithTimeout(ctx, h.timeout)
			defer cancel()
			err := check(checkCtx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				reqLog.Warn("Readiness check failed", zap.String("check", name), zap.Error(err))
				results[name] = "error"
				healthy = false
				return nil
			}
			results[name] = "ok"
			return nil
		})
	}
	_ = g.Wait()

	resp := HealthResponse{
		Status: "healthy",
		Time:   h.now().Format(time.RFC3339),
		Checks: results,
	}
	if !healthy {
		resp.Status = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
