package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/debtbook/backend/internal/infrastructure/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

const defaultMetricsInterval = 60 * time.Second

// Attribute keys shared by the ledger, HTTP and database instruments.
var (
	AttrCompanyID = attribute.Key("company_id")
	AttrOperation = attribute.Key("operation")
	AttrErrorCode = attribute.Key("error_code")

	AttrHTTPMethod     = attribute.Key("http.method")
	AttrHTTPStatusCode = attribute.Key("http.status_code")
	AttrHTTPRoute      = attribute.Key("http.route")

	AttrDBOperation = attribute.Key("db.operation")
	AttrDBTable     = attribute.Key("db.table")
	AttrDBState     = attribute.Key("db.pool.state")
)

// Bucket boundaries. Durations are in seconds, amounts in currency units.
var (
	HTTPDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	DBDurationBuckets   = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}
	AmountBuckets       = []float64{10, 50, 100, 500, 1000, 5000, 10000, 50000, 100000}
)

// MeterProvider owns the SDK meter provider. A zero provider falls back to
// the global one, which is a no-op unless something else installed it.
type MeterProvider struct {
	provider *sdkmetric.MeterProvider
	logger   *zap.Logger
}

// NewMeterProvider exports metrics over OTLP/gRPC when both
// telemetry.enabled and telemetry.metrics_enabled are set.
func NewMeterProvider(ctx context.Context, cfg config.TelemetryConfig, logger *zap.Logger) (*MeterProvider, error) {
	if !cfg.Enabled || !cfg.MetricsEnabled {
		logger.Info("Metrics disabled, using no-op meter provider")
		return &MeterProvider{logger: logger}, nil
	}

	interval := cfg.MetricsInterval
	if interval <= 0 {
		interval = defaultMetricsInterval
	}

	reader, err := newPeriodicReader(ctx, cfg, interval)
	if err != nil {
		return nil, err
	}
	res, err := newResource(cfg.ServiceName)
	if err != nil {
		return nil, err
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithResource(res), sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	logger.Info("OpenTelemetry MeterProvider initialized",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.Duration("export_interval", interval),
	)
	return &MeterProvider{provider: provider, logger: logger}, nil
}

func newPeriodicReader(ctx context.Context, cfg config.TelemetryConfig, interval time.Duration) (sdkmetric.Reader, error) {
	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}
	return sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval)), nil
}

// NewMeterProviderFromSDK wraps a provider built elsewhere, usually one
// backed by a ManualReader in tests.
func NewMeterProviderFromSDK(provider *sdkmetric.MeterProvider, logger *zap.Logger) *MeterProvider {
	return &MeterProvider{provider: provider, logger: logger}
}

func (mp *MeterProvider) Shutdown(ctx context.Context) error {
	if mp.provider == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := mp.provider.Shutdown(ctx); err != nil {
		mp.logger.Error("Error shutting down meter provider", zap.Error(err))
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}
	return nil
}

func (mp *MeterProvider) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	if mp.provider == nil {
		return otel.GetMeterProvider().Meter(name, opts...)
	}
	return mp.provider.Meter(name, opts...)
}

func (mp *MeterProvider) IsEnabled() bool {
	return mp.provider != nil
}

// Counter is an int64 counter with attribute varargs.
type Counter struct {
	inst metric.Int64Counter
}

func NewCounter(meter metric.Meter, name, description, unit string) (*Counter, error) {
	inst, err := meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter %s: %w", name, err)
	}
	return &Counter{inst: inst}, nil
}

func (c *Counter) Add(ctx context.Context, n int64, attrs ...attribute.KeyValue) {
	c.inst.Add(ctx, n, metric.WithAttributes(attrs...))
}

func (c *Counter) Inc(ctx context.Context, attrs ...attribute.KeyValue) {
	c.Add(ctx, 1, attrs...)
}

// HistogramOpts names a float64 histogram. Nil Boundaries keep the SDK
// defaults.
type HistogramOpts struct {
	Name        string
	Description string
	Unit        string
	Boundaries  []float64
}

// Histogram is a float64 histogram with attribute varargs.
type Histogram struct {
	inst metric.Float64Histogram
}

func NewHistogram(meter metric.Meter, opts HistogramOpts) (*Histogram, error) {
	instOpts := []metric.Float64HistogramOption{
		metric.WithDescription(opts.Description),
		metric.WithUnit(opts.Unit),
	}
	if len(opts.Boundaries) > 0 {
		instOpts = append(instOpts, metric.WithExplicitBucketBoundaries(opts.Boundaries...))
	}
	inst, err := meter.Float64Histogram(opts.Name, instOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create histogram %s: %w", opts.Name, err)
	}
	return &Histogram{inst: inst}, nil
}

func (h *Histogram) Record(ctx context.Context, v float64, attrs ...attribute.KeyValue) {
	h.inst.Record(ctx, v, metric.WithAttributes(attrs...))
}

// RecordDuration records d in seconds.
func (h *Histogram) RecordDuration(ctx context.Context, d time.Duration, attrs ...attribute.KeyValue) {
	h.Record(ctx, d.Seconds(), attrs...)
}
