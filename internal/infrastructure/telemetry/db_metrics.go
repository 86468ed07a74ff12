package telemetry

import (
	"context"
	"database/sql"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	dbMetricsStartKey  contextKey = "db_metrics_start_time"
	defaultSlowQuery              = 200 * time.Millisecond
	dbMetricsMeterName            = "db.client"
)

// DBMetrics is a GORM plugin recording query counts and latency, plus
// connection pool gauges observed from sql.DB stats on each collection.
type DBMetrics struct {
	queryTotal     *Counter
	queryDuration  *Histogram
	slowQueryTotal *Counter

	slowThreshold time.Duration
	logger        *zap.Logger
	registration  metric.Registration
}

// NewDBMetrics creates the instruments. sqlDB may be nil to skip the pool
// gauges.
func NewDBMetrics(meter metric.Meter, sqlDB *sql.DB, slowThreshold time.Duration, logger *zap.Logger) (*DBMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if slowThreshold <= 0 {
		slowThreshold = defaultSlowQuery
	}

	m := &DBMetrics{slowThreshold: slowThreshold, logger: logger}

	var err error
	if m.queryTotal, err = NewCounter(meter, "db_query_total", "Total number of database queries by operation type", "{query}"); err != nil {
		return nil, err
	}
	if m.queryDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "db_query_duration_seconds",
		Description: "Database query latency distribution in seconds",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.slowQueryTotal, err = NewCounter(meter, "db_slow_query_total", "Total number of slow database queries", "{query}"); err != nil {
		return nil, err
	}

	if sqlDB != nil {
		if err := m.registerPoolGauges(meter, sqlDB); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *DBMetrics) registerPoolGauges(meter metric.Meter, sqlDB *sql.DB) error {
	connections, err := meter.Int64ObservableGauge("db_pool_connections",
		metric.WithDescription("Number of connections in the pool by state"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return err
	}
	maxConnections, err := meter.Int64ObservableGauge("db_pool_connections_max",
		metric.WithDescription("Maximum number of open connections"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return err
	}
	waitCount, err := meter.Int64ObservableCounter("db_pool_wait_total",
		metric.WithDescription("Total number of connections waited for"),
		metric.WithUnit("{wait}"))
	if err != nil {
		return err
	}

	m.registration, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := sqlDB.Stats()
		o.ObserveInt64(maxConnections, int64(stats.MaxOpenConnections))
		o.ObserveInt64(connections, int64(stats.Idle), metric.WithAttributes(AttrDBState.String("idle")))
		o.ObserveInt64(connections, int64(stats.InUse), metric.WithAttributes(AttrDBState.String("in_use")))
		o.ObserveInt64(connections, int64(stats.OpenConnections), metric.WithAttributes(AttrDBState.String("open")))
		o.ObserveInt64(waitCount, stats.WaitCount)
		return nil
	}, connections, maxConnections, waitCount)
	return err
}

// Name returns the plugin name.
func (m *DBMetrics) Name() string {
	return "debtbook:db_metrics"
}

// Initialize registers the GORM callbacks for metrics collection.
func (m *DBMetrics) Initialize(db *gorm.DB) error {
	return registerTimedCallbacks(db, "db_metrics", dbMetricsStartKey, func(db *gorm.DB, verb string, elapsed time.Duration) {
		m.RecordQuery(db.Statement.Context, verb, db.Statement.Table, elapsed)
	})
}

// RecordQuery records one executed statement
func (m *DBMetrics) RecordQuery(ctx context.Context, operation, table string, elapsed time.Duration) {
	if ctx == nil {
		ctx = context.Background()
	}
	op := AttrDBOperation.String(operation)
	m.queryTotal.Inc(ctx, op)
	m.queryDuration.RecordDuration(ctx, elapsed, op)

	if elapsed > m.slowThreshold {
		if table == "" {
			table = "unknown"
		}
		m.slowQueryTotal.Inc(ctx, op, AttrDBTable.String(table))
	}
}

// Stop unregisters the pool gauge callback
func (m *DBMetrics) Stop() error {
	if m.registration == nil {
		return nil
	}
	return m.registration.Unregister()
}

// RegisterDBMetrics installs query and pool metrics on db when metrics are
// enabled. It returns nil when there is nothing to collect.
func RegisterDBMetrics(db *gorm.DB, mp *MeterProvider, slowThreshold time.Duration, logger *zap.Logger) (*DBMetrics, error) {
	if mp == nil || !mp.IsEnabled() {
		return nil, nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	m, err := NewDBMetrics(mp.Meter(dbMetricsMeterName), sqlDB, slowThreshold, logger)
	if err != nil {
		return nil, err
	}
	if err := db.Use(m); err != nil {
		return nil, err
	}

	logger.Info("Database metrics registered", zap.Duration("slow_query_threshold", m.slowThreshold))
	return m, nil
}

var _ gorm.Plugin = (*DBMetrics)(nil)
