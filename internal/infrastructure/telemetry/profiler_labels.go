package telemetry

import (
	"context"
	"maps"
	"slices"
	"strings"

	"github.com/grafana/pyroscope-go"
)

// Profiling label keys.
const (
	ProfilingLabelController = "controller"
	ProfilingLabelRoute      = "route"
	ProfilingLabelMethod     = "method"
	ProfilingLabelCompanyID  = "company_id"
	ProfilingLabelOperation  = "operation"
)

// MaxLabelValueLength caps label values to keep profile cardinality bounded.
const MaxLabelValueLength = 128

// highCardinalityLabels are dropped before labels reach the profiler.
var highCardinalityLabels = map[string]bool{
	"user_id":    true,
	"request_id": true,
	"trace_id":   true,
	"span_id":    true,
	"debt_id":    true,
	"payment_id": true,
	"client_id":  true,
}

// WithProfilingLabels runs fn with pprof labels attached, so CPU and
// allocation samples taken inside it can be sliced by those labels.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := sanitizeLabels(labels)
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// OperationLabels returns labels for a named ledger operation.
func OperationLabels(operation string, companyID string) map[string]string {
	labels := map[string]string{ProfilingLabelOperation: operation}
	if companyID != "" {
		labels[ProfilingLabelCompanyID] = companyID
	}
	return labels
}

// HTTPRequestLabels returns labels for an HTTP handler invocation.
func HTTPRequestLabels(controller, route, method, companyID string) map[string]string {
	labels := make(map[string]string, 4)
	for k, v := range map[string]string{
		ProfilingLabelController: controller,
		ProfilingLabelRoute:      route,
		ProfilingLabelMethod:     method,
		ProfilingLabelCompanyID:  companyID,
	} {
		if v != "" {
			labels[k] = v
		}
	}
	return labels
}

// sanitizeLabels returns sorted key/value pairs with empty, high-cardinality
// and malformed keys removed and long values truncated.
func sanitizeLabels(labels map[string]string) []string {
	if len(labels) == 0 {
		return nil
	}

	pairs := make([]string, 0, len(labels)*2)
	for _, key := range slices.Sorted(maps.Keys(labels)) {
		value := labels[key]
		if value == "" || highCardinalityLabels[key] {
			continue
		}
		clean := sanitizeLabelKey(key)
		if clean == "" {
			continue
		}
		if len(value) > MaxLabelValueLength {
			value = value[:MaxLabelValueLength]
		}
		pairs = append(pairs, clean, value)
	}
	return pairs
}

// sanitizeLabelKey lowercases the key and keeps only [a-z0-9_].
func sanitizeLabelKey(key string) string {
	key = strings.ToLower(key)
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)

	var b strings.Builder
	for _, c := range []byte(key) {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' {
			b.WriteByte(c)
		}
	}
	return b.String()
}
