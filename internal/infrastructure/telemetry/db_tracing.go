package telemetry

import (
	"errors"
	"time"

	"github.com/debtbook/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dbTracingStartKey contextKey = "otel_query_start_time"

// DBTracingPlugin adds otelgorm spans to every statement and annotates them
// with row counts, errors and slow-query events
type DBTracingPlugin struct {
	dbSystem      string
	logFullSQL    bool
	slowThreshold time.Duration
	logger        *zap.Logger
}

// NewDBTracingPlugin creates a tracing plugin for the given database driver
func NewDBTracingPlugin(cfg config.TelemetryConfig, driver string, logger *zap.Logger) *DBTracingPlugin {
	if logger == nil {
		logger = zap.NewNop()
	}
	dbSystem := "postgresql"
	if driver == config.DriverSQLite {
		dbSystem = "sqlite"
	}
	slow := cfg.DBSlowQueryThresh
	if slow <= 0 {
		slow = defaultSlowQuery
	}
	return &DBTracingPlugin{
		dbSystem:      dbSystem,
		logFullSQL:    cfg.DBLogFullSQL,
		slowThreshold: slow,
		logger:        logger,
	}
}

// Name returns the plugin name.
func (p *DBTracingPlugin) Name() string {
	return "debtbook:db_tracing"
}

// Initialize installs otelgorm and the span annotation callbacks. Query
// variables are left out of spans unless full SQL logging is on.
func (p *DBTracingPlugin) Initialize(db *gorm.DB) error {
	// Annotation callbacks go in first so they run while the otelgorm span
	// is still open.
	if err := registerTimedCallbacks(db, "otel_annotate", dbTracingStartKey, p.annotate); err != nil {
		return err
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.dbSystem)}
	if !p.logFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.String("db_system", p.dbSystem),
		zap.Bool("log_full_sql", p.logFullSQL),
		zap.Duration("slow_query_threshold", p.slowThreshold))
	return nil
}

func (p *DBTracingPlugin) annotate(db *gorm.DB, verb string, elapsed time.Duration) {
	if db.Statement.Context == nil {
		return
	}
	span := trace.SpanFromContext(db.Statement.Context)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.String("db.operation", verb))
	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}
	if elapsed > p.slowThreshold {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		span.AddEvent("slow_query_warning", trace.WithAttributes(
			attribute.Int64("duration_ms", elapsed.Milliseconds()),
			attribute.Int64("threshold_ms", p.slowThreshold.Milliseconds()),
		))
	}
}

// RegisterDBTracing installs the tracing plugin when tracing of database
// calls is enabled
func RegisterDBTracing(db *gorm.DB, cfg config.TelemetryConfig, driver string, logger *zap.Logger) error {
	if !cfg.Enabled || !cfg.DBTraceEnabled {
		return nil
	}
	return db.Use(NewDBTracingPlugin(cfg, driver, logger))
}

var _ gorm.Plugin = (*DBTracingPlugin)(nil)
