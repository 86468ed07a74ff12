// Package middleware provides the gin middleware chain of the HTTP API.
package middleware

import (
	"net/http"

	"github.com/debtbook/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds configuration for the tracing middleware
type TracingConfig struct {
	ServiceName string
	Enabled     bool
	// SkipPaths are not traced (health probes)
	SkipPaths []string
}

// DefaultTracingConfig returns default tracing configuration
func DefaultTracingConfig(serviceName string) TracingConfig {
	return TracingConfig{
		ServiceName: serviceName,
		Enabled:     true,
		SkipPaths:   []string{"/health", "/ready"},
	}
}

// Tracing opens a server span per request through otelgin, named after the
// matched route pattern
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return otelgin.Middleware(cfg.ServiceName,
		otelgin.WithFilter(func(r *http.Request) bool {
			_, skipped := skip[r.URL.Path]
			return !skipped
		}),
	)
}

// SpanEnricher tags the request span with the request id and caller, then
// marks it as failed for 4xx and 5xx responses. It must run after Tracing
// and the JWT middleware.
func SpanEnricher() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			c.Next()
			return
		}

		if requestID := GetRequestID(c); requestID != "" {
			span.SetAttributes(attribute.String("request_id", requestID))
		}
		if p, ok := GetPrincipal(c); ok {
			span.SetAttributes(attribute.String("user_id", p.UserID.String()))
			if p.CompanyID != nil {
				span.SetAttributes(attribute.String(telemetry.SpanAttrCompanyID, p.CompanyID.String()))
			}
		}

		c.Next()

		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			return
		}
		span.SetAttributes(attribute.Int("http.status_code", status))
		if code, ok := c.Get(ErrorCodeKey); ok {
			if s, ok := code.(string); ok {
				span.SetAttributes(attribute.String("error.code", s))
			}
		}
		span.SetStatus(codes.Error, http.StatusText(status))
	}
}
