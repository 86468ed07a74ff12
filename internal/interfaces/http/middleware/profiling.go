package middleware

import (
	"context"
	"slices"
	"strings"

	"github.com/debtbook/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// ProfilingConfig holds configuration for the profiling middleware
type ProfilingConfig struct {
	Enabled   bool
	SkipPaths []string
}

// DefaultProfilingConfig returns default profiling middleware configuration
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:   true,
		SkipPaths: []string{"/health", "/ready"},
	}
}

// Profiling runs the rest of the chain under pyroscope labels for the
// controller, route, method and company. Place it after the JWT middleware.
func Profiling(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		if slices.Contains(cfg.SkipPaths, c.Request.URL.Path) {
			c.Next()
			return
		}

		route := c.FullPath()
		companyID := ""
		if p, ok := GetPrincipal(c); ok && p.CompanyID != nil {
			companyID = p.CompanyID.String()
		}
		labels := telemetry.HTTPRequestLabels(controllerFromRoute(route), route, c.Request.Method, companyID)

		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// controllerFromRoute returns the resource segment of a route pattern:
// "/api/v1/debts/:id/payments" -> "debts"
func controllerFromRoute(route string) string {
	for part := range strings.SplitSeq(route, "/") {
		if part == "" || part == "api" || isVersionSegment(part) || strings.HasPrefix(part, ":") {
			continue
		}
		return part
	}
	return ""
}

// isVersionSegment reports whether segment looks like v1, v2, ...
func isVersionSegment(segment string) bool {
	if len(segment) < 2 || (segment[0] != 'v' && segment[0] != 'V') {
		return false
	}
	for _, r := range segment[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
