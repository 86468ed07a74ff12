package telemetry

import (
	"context"
	"fmt"

	"github.com/debtbook/backend/internal/infrastructure/config"
	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerProvider wraps the OpenTelemetry LoggerProvider with lifecycle management.
type LoggerProvider struct {
	provider *sdklog.LoggerProvider
	logger   *zap.Logger
}

// NewLoggerProvider creates the OTLP log exporter. When logs export is
// disabled the provider is inert and NewZapOTELCore returns a no-op core.
func NewLoggerProvider(ctx context.Context, cfg config.TelemetryConfig, logger *zap.Logger) (*LoggerProvider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	lp := &LoggerProvider{logger: logger}

	if !cfg.Enabled || !cfg.LogsEnabled {
		logger.Info("OTEL logs export disabled")
		return lp, nil
	}

	exporterOpts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		exporterOpts = append(exporterOpts, otlploggrpc.WithInsecure())
	}
	exporter, err := otlploggrpc.New(ctx, exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP logs exporter: %w", err)
	}

	res, err := newResource(cfg.ServiceName)
	if err != nil {
		return nil, err
	}

	return NewLoggerProviderFromSDK(sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	), logger), nil
}

// NewLoggerProviderFromSDK wraps an already configured SDK provider and
// installs it globally.
func NewLoggerProviderFromSDK(provider *sdklog.LoggerProvider, logger *zap.Logger) *LoggerProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	global.SetLoggerProvider(provider)
	return &LoggerProvider{provider: provider, logger: logger}
}

// SetLogger replaces the logger used for lifecycle messages. The provider is
// created before the application logger exists, so main swaps it in later.
func (lp *LoggerProvider) SetLogger(logger *zap.Logger) {
	if logger != nil {
		lp.logger = logger
	}
}

// Shutdown flushes pending records and stops the exporter.
func (lp *LoggerProvider) Shutdown(ctx context.Context) error {
	if lp.provider == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := lp.provider.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown logger provider: %w", err)
	}
	lp.logger.Info("OpenTelemetry LoggerProvider shutdown complete")
	return nil
}

// IsEnabled reports whether records are exported.
func (lp *LoggerProvider) IsEnabled() bool {
	return lp != nil && lp.provider != nil
}

// NewZapOTELCore returns a core that forwards zap entries at or above level
// to the OTLP log pipeline.
func NewZapOTELCore(lp *LoggerProvider, serviceName string, level zapcore.Level) zapcore.Core {
	if !lp.IsEnabled() {
		return zapcore.NewNopCore()
	}
	core := otelzap.NewCore(serviceName, otelzap.WithLoggerProvider(lp.provider))
	return &levelFilterCore{Core: core, minLevel: level}
}

// levelFilterCore adds a minimum level to the otelzap core, which has none.
type levelFilterCore struct {
	zapcore.Core
	minLevel zapcore.Level
}

func (c *levelFilterCore) Enabled(lvl zapcore.Level) bool {
	return lvl >= c.minLevel && c.Core.Enabled(lvl)
}

func (c *levelFilterCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(entry.Level) {
		return ce
	}
	return c.Core.Check(entry, ce)
}

func (c *levelFilterCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelFilterCore{Core: c.Core.With(fields), minLevel: c.minLevel}
}
