package telemetry

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of business spans.
const TracerName = "debtbook"

// Span attribute keys for ledger operations.
const (
	SpanAttrCompanyID = "company_id"
	SpanAttrClientID  = "client_id"
	SpanAttrDebtID    = "debt_id"
	SpanAttrPaymentID = "payment_id"
	SpanAttrAmount    = "amount"
	SpanAttrRemaining = "remaining_amount"
	SpanAttrFilter    = "filter"
	SpanAttrIsPaid    = "is_paid"
)

// StartSpan starts an internal span named spanName with optional attributes.
// The caller ends the span.
func StartSpan(ctx context.Context, spanName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	opts := []trace.SpanStartOption{trace.WithSpanKind(trace.SpanKindInternal)}
	if len(attrs) > 0 {
		opts = append(opts, trace.WithAttributes(attrs...))
	}
	return otel.GetTracerProvider().Tracer(TracerName).Start(ctx, spanName, opts...)
}

// StartServiceSpan starts a span named "{service}.{method}", e.g. "debt.create".
func StartServiceSpan(ctx context.Context, service, method string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return StartSpan(ctx, service+"."+method, attrs...)
}

// SetAttributes adds alternating key/value pairs to span. Non-string keys
// are skipped.
func SetAttributes(span trace.Span, keyValues ...any) {
	if span == nil {
		return
	}
	attrs := make([]attribute.KeyValue, 0, len(keyValues)/2)
	for i := 0; i+1 < len(keyValues); i += 2 {
		key, ok := keyValues[i].(string)
		if !ok {
			continue
		}
		attrs = append(attrs, toAttribute(key, keyValues[i+1]))
	}
	span.SetAttributes(attrs...)
}

// RecordError records err on span and marks it failed.
func RecordError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// SetOK marks span as successful.
func SetOK(span trace.Span) {
	if span == nil {
		return
	}
	span.SetStatus(codes.Ok, "")
}

// GetTraceID returns the trace ID of the span in ctx, or "".
func GetTraceID(ctx context.Context) string {
	id := trace.SpanFromContext(ctx).SpanContext().TraceID()
	if !id.IsValid() {
		return ""
	}
	return id.String()
}

func toAttribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case bool:
		return attribute.Bool(key, v)
	case decimal.Decimal:
		return attribute.String(key, v.StringFixed(2))
	case fmt.Stringer:
		return attribute.String(key, v.String())
	default:
		return attribute.String(key, fmt.Sprintf("%v", v))
	}
}
