package logger

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const defaultSlowThreshold = 200 * time.Millisecond

// GormLogger routes GORM's output through zap, tagged with the request
// fields from ctx. Slow statements that hold a row lock are flagged so
// contention on a debt shows up without full SQL logging.
type GormLogger struct {
	logger        *zap.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
	fullSQL       bool
}

type GormLoggerOption func(*GormLogger)

// WithSlowThreshold sets the duration past which a statement logs at warn.
// Zero disables slow-query warnings.
func WithSlowThreshold(threshold time.Duration) GormLoggerOption {
	return func(l *GormLogger) { l.slowThreshold = threshold }
}

// WithFullSQL attaches the rendered statement, bound values included, to
// every entry. Errors always carry it.
func WithFullSQL(enabled bool) GormLoggerOption {
	return func(l *GormLogger) { l.fullSQL = enabled }
}

func NewGormLogger(base *zap.Logger, level gormlogger.LogLevel, opts ...GormLoggerOption) *GormLogger {
	l := &GormLogger{
		logger:        base.Named("gorm"),
		level:         level,
		slowThreshold: defaultSlowThreshold,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Info, msg, data)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Warn, msg, data)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Error, msg, data)
}

func (l *GormLogger) printf(ctx context.Context, at gormlogger.LogLevel, msg string, data []any) {
	if l.level < at {
		return
	}
	sugar := L(ctx, l.logger).Sugar()
	switch at {
	case gormlogger.Error:
		sugar.Errorf(msg, data...)
	case gormlogger.Warn:
		sugar.Warnf(msg, data...)
	default:
		sugar.Infof(msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	// Lookups by id miss routinely; the repositories turn that into NOT_FOUND.
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return
	}

	elapsed := time.Since(begin)
	slow := l.slowThreshold > 0 && elapsed > l.slowThreshold
	if err == nil && !slow && l.level < gormlogger.Info {
		return
	}

	sql, rows := fc()
	fields := []zap.Field{zap.Duration("elapsed", elapsed), zap.Int64("rows", rows)}
	if l.fullSQL || err != nil {
		fields = append(fields, zap.String("sql", sql))
	}
	log := L(ctx, l.logger)

	switch {
	case err != nil:
		if l.level >= gormlogger.Error {
			log.Error("SQL error", append(fields, zap.Error(err))...)
		}
	case slow:
		if l.level >= gormlogger.Warn {
			fields = append(fields,
				zap.Duration("threshold", l.slowThreshold),
				zap.Bool("row_lock", strings.Contains(strings.ToUpper(sql), "FOR UPDATE")),
			)
			log.Warn("Slow SQL", fields...)
		}
	default:
		log.Debug("SQL query", fields...)
	}
}

// MapGormLogLevel picks the GORM level for the application's log level.
// Anything unrecognised logs warnings and errors only.
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	}
	return gormlogger.Warn
}
