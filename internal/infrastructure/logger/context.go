package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
	companyIDKey contextKey = "company_id"
	userIDKey    contextKey = "user_id"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext retrieves the logger from context, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// WithRequestID stores the request ID for later log correlation
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithCompanyID stores the acting company for later log correlation
func WithCompanyID(ctx context.Context, companyID string) context.Context {
	return context.WithValue(ctx, companyIDKey, companyID)
}

// WithUserID stores the acting user for later log correlation
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

// GetCompanyID retrieves company ID from context
func GetCompanyID(ctx context.Context) string {
	v, _ := ctx.Value(companyIDKey).(string)
	return v
}

// GetUserID retrieves user ID from context
func GetUserID(ctx context.Context) string {
	v, _ := ctx.Value(userIDKey).(string)
	return v
}

// Fields returns the correlation fields found in ctx: trace and span IDs
// from the active OpenTelemetry span plus request, company and user IDs.
func Fields(ctx context.Context) []zap.Field {
	var fields []zap.Field
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	if v := GetRequestID(ctx); v != "" {
		fields = append(fields, zap.String("request_id", v))
	}
	if v := GetCompanyID(ctx); v != "" {
		fields = append(fields, zap.String("company_id", v))
	}
	if v := GetUserID(ctx); v != "" {
		fields = append(fields, zap.String("user_id", v))
	}
	return fields
}

// L returns base enriched with the correlation fields of ctx. When base is
// nil the logger stored in ctx is used.
//
//	logger.L(ctx, s.logger).Info("payment applied", zap.String("debt_id", id))
func L(ctx context.Context, base *zap.Logger) *zap.Logger {
	if base == nil {
		base = FromContext(ctx)
	}
	fields := Fields(ctx)
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}
