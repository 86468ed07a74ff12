package middleware

import (
	"context"
	"net/http"
	"testing"

	"github.com/debtbook/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func spanAttrs(s sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := map[attribute.Key]attribute.Value{}
	for _, kv := range s.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func withPrincipal(p identity.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(PrincipalKey, p)
		c.Next()
	}
}

func TestTracing_Disabled(t *testing.T) {
	recorder := setupTestTracer(t)
	router := gin.New()
	router.Use(Tracing(TracingConfig{Enabled: false}))
	router.GET("/debts", func(c *gin.Context) { c.Status(http.StatusOK) })

	perform(router, http.MethodGet, "/debts", nil)
	assert.Empty(t, recorder.Ended())
}

func TestTracing_SkipsProbes(t *testing.T) {
	recorder := setupTestTracer(t)
	router := gin.New()
	router.Use(Tracing(DefaultTracingConfig("debtbook")))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/api/v1/debts", func(c *gin.Context) { c.Status(http.StatusOK) })

	perform(router, http.MethodGet, "/health", nil)
	perform(router, http.MethodGet, "/api/v1/debts", nil)

	require.Len(t, recorder.Ended(), 1)
	assert.Contains(t, recorder.Ended()[0].Name(), "/api/v1/debts")
}

func TestSpanEnricher_TagsCallerAndFailure(t *testing.T) {
	recorder := setupTestTracer(t)
	companyID := uuid.New()
	principal := identity.NewPrincipal(uuid.New(), "seller-1", &companyID, identity.RoleSeller)

	router := gin.New()
	router.Use(RequestID(), Tracing(DefaultTracingConfig("debtbook")), withPrincipal(principal), SpanEnricher())
	router.POST("/api/v1/payments", func(c *gin.Context) {
		c.Set(ErrorCodeKey, "ERR_INSUFFICIENT_REMAINING")
		c.Status(http.StatusUnprocessableEntity)
	})

	perform(router, http.MethodPost, "/api/v1/payments", map[string]string{RequestIDHeader: "req-9"})

	require.Len(t, recorder.Ended(), 1)
	span := recorder.Ended()[0]
	attrs := spanAttrs(span)
	assert.Equal(t, "req-9", attrs["request_id"].AsString())
	assert.Equal(t, principal.UserID.String(), attrs["user_id"].AsString())
	assert.Equal(t, companyID.String(), attrs["company_id"].AsString())
	assert.Equal(t, "ERR_INSUFFICIENT_REMAINING", attrs["error.code"].AsString())
	assert.Equal(t, codes.Error, span.Status().Code)
}

func TestSpanEnricher_SuccessLeavesStatus(t *testing.T) {
	recorder := setupTestTracer(t)
	router := gin.New()
	router.Use(Tracing(DefaultTracingConfig("debtbook")), SpanEnricher())
	router.GET("/api/v1/debts", func(c *gin.Context) { c.Status(http.StatusOK) })

	perform(router, http.MethodGet, "/api/v1/debts", nil)

	require.Len(t, recorder.Ended(), 1)
	assert.NotEqual(t, codes.Error, recorder.Ended()[0].Status().Code)
}

func TestSpanEnricher_NoSpan(t *testing.T) {
	router := gin.New()
	router.Use(SpanEnricher())
	router.GET("/debts", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	w := perform(router, http.MethodGet, "/debts", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
