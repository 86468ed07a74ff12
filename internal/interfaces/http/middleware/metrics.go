package middleware

import (
	"time"

	"github.com/debtbook/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// httpMetrics holds the HTTP server instruments
type httpMetrics struct {
	requestTotal    *telemetry.Counter
	requestDuration *telemetry.Histogram
	requestSize     *telemetry.Histogram
	responseSize    *telemetry.Histogram
	activeRequests  metric.Int64UpDownCounter
}

var sizeBuckets = []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 500000, 1000000}

func newHTTPMetrics(meter metric.Meter) (*httpMetrics, error) {
	requestTotal, err := telemetry.NewCounter(meter,
		"http_server_request_total", "Total number of HTTP requests", "{request}")
	if err != nil {
		return nil, err
	}
	requestDuration, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http_server_request_duration_seconds",
		Description: "HTTP request latency distribution in seconds",
		Unit:        "s",
		Boundaries:  telemetry.HTTPDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	requestSize, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http_server_request_size_bytes",
		Description: "HTTP request body size distribution in bytes",
		Unit:        "By",
		Boundaries:  sizeBuckets,
	})
	if err != nil {
		return nil, err
	}
	responseSize, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http_server_response_size_bytes",
		Description: "HTTP response body size distribution in bytes",
		Unit:        "By",
		Boundaries:  sizeBuckets,
	})
	if err != nil {
		return nil, err
	}
	activeRequests, err := meter.Int64UpDownCounter("http_server_active_requests",
		metric.WithDescription("Number of currently active HTTP requests"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}

	return &httpMetrics{
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		requestSize:     requestSize,
		responseSize:    responseSize,
		activeRequests:  activeRequests,
	}, nil
}

// HTTPMetrics records request count, latency, sizes and in-flight requests.
// Routes are reported by pattern; the request counter also carries the
// status code and, once authenticated, the company.
func HTTPMetrics(mp *telemetry.MeterProvider, log *zap.Logger) gin.HandlerFunc {
	if mp == nil || !mp.IsEnabled() {
		return func(c *gin.Context) { c.Next() }
	}
	return HTTPMetricsWithMeter(mp.Meter("http.server"), log)
}

// HTTPMetricsWithMeter is HTTPMetrics on an existing meter
func HTTPMetricsWithMeter(meter metric.Meter, log *zap.Logger) gin.HandlerFunc {
	m, err := newHTTPMetrics(meter)
	if err != nil {
		if log != nil {
			log.Error("HTTP metrics disabled", zap.Error(err))
		}
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()

		m.activeRequests.Add(ctx, 1)
		c.Next()
		m.activeRequests.Add(ctx, -1)

		base := []attribute.KeyValue{
			telemetry.AttrHTTPMethod.String(c.Request.Method),
			telemetry.AttrHTTPRoute.String(routePattern(c)),
		}
		counted := append(base[:len(base):len(base)], telemetry.AttrHTTPStatusCode.Int(c.Writer.Status()))
		if p, ok := GetPrincipal(c); ok && p.CompanyID != nil {
			counted = append(counted, telemetry.AttrCompanyID.String(p.CompanyID.String()))
		}

		m.requestTotal.Inc(ctx, counted...)
		m.requestDuration.RecordDuration(ctx, time.Since(start), base...)
		if size := c.Request.ContentLength; size > 0 {
			m.requestSize.Record(ctx, float64(size), base...)
		}
		if size := c.Writer.Size(); size > 0 {
			m.responseSize.Record(ctx, float64(size), base...)
		}
	}
}

// routePattern returns the matched route pattern, not the raw path
func routePattern(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unknown"
}
