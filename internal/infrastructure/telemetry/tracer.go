// Package telemetry wires OpenTelemetry traces, metrics and logs plus
// Pyroscope profiling into the ledger service.
package telemetry

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/debtbook/backend/internal/infrastructure/config"
	otelpyroscope "github.com/grafana/otel-profiling-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ServiceVersion is reported as service.version; cmd/server overrides it
// with the build version.
var ServiceVersion = "1.0.0"

const shutdownTimeout = 10 * time.Second

func newResource(serviceName string) (*resource.Resource, error) {
	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(ServiceVersion),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}

// TracerProvider owns the SDK tracer provider. With telemetry disabled it
// holds nothing and hands out tracers from the global no-op provider.
type TracerProvider struct {
	provider     *sdktrace.TracerProvider
	logger       *zap.Logger
	serviceName  string
	spanProfiles atomic.Bool
}

// NewTracerProvider installs a batching OTLP/gRPC trace pipeline and the
// W3C trace-context and baggage propagators.
func NewTracerProvider(ctx context.Context, cfg config.TelemetryConfig, logger *zap.Logger) (*TracerProvider, error) {
	tp := &TracerProvider{logger: logger, serviceName: cfg.ServiceName}
	if !cfg.Enabled {
		logger.Info("Telemetry disabled, using no-op tracer provider")
		return tp, nil
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}
	res, err := newResource(cfg.ServiceName)
	if err != nil {
		return nil, err
	}

	tp.provider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(newSampler(cfg.SamplingRatio)),
	)
	otel.SetTracerProvider(tp.provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))

	logger.Info("OpenTelemetry TracerProvider initialized",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.Float64("sampling_ratio", cfg.SamplingRatio),
		zap.String("service_name", cfg.ServiceName),
	)
	return tp, nil
}

// newSampler keeps the upstream decision for child spans and samples new
// traces by ratio, clamped to [0, 1].
func newSampler(ratio float64) sdktrace.Sampler {
	root := sdktrace.TraceIDRatioBased(ratio)
	if ratio >= 1 {
		root = sdktrace.AlwaysSample()
	} else if ratio <= 0 {
		root = sdktrace.NeverSample()
	}
	return sdktrace.ParentBased(root)
}

// EnableSpanProfiles labels profiler samples with the active span id so
// Pyroscope can jump from a slow payment trace to its CPU profile. Call it
// after the profiler has started. Repeated calls are no-ops.
func (tp *TracerProvider) EnableSpanProfiles() {
	if tp.provider == nil || !tp.spanProfiles.CompareAndSwap(false, true) {
		return
	}
	otel.SetTracerProvider(otelpyroscope.NewTracerProvider(tp.provider))
	tp.logger.Info("Span profiles integration enabled", zap.String("service_name", tp.serviceName))
}

func (tp *TracerProvider) IsSpanProfilesEnabled() bool {
	return tp.spanProfiles.Load()
}

// Shutdown flushes buffered spans, bounded by shutdownTimeout.
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	if tp.provider == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := tp.provider.Shutdown(ctx); err != nil {
		tp.logger.Error("Error shutting down tracer provider", zap.Error(err))
		return fmt.Errorf("failed to shutdown tracer provider: %w", err)
	}
	tp.logger.Info("OpenTelemetry TracerProvider shutdown complete")
	return nil
}

func (tp *TracerProvider) Tracer(name string, opts ...trace.TracerOption) trace.Tracer {
	if tp.provider == nil {
		return otel.GetTracerProvider().Tracer(name, opts...)
	}
	return tp.provider.Tracer(name, opts...)
}

func (tp *TracerProvider) IsEnabled() bool {
	return tp.provider != nil
}

func (tp *TracerProvider) ForceFlush(ctx context.Context) error {
	if tp.provider == nil {
		return nil
	}
	return tp.provider.ForceFlush(ctx)
}
