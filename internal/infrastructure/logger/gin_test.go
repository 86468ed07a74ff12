package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func findHTTPLog(t *testing.T, recorded *observer.ObservedLogs) observer.LoggedEntry {
	t.Helper()
	entries := recorded.FilterMessage("HTTP Request").All()
	require.Len(t, entries, 1)
	return entries[0]
}

func TestGinMiddleware_LevelByStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		status int
		level  zapcore.Level
	}{
		{http.StatusOK, zapcore.InfoLevel},
		{http.StatusUnprocessableEntity, zapcore.WarnLevel},
		{http.StatusInternalServerError, zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			core, recorded := observer.New(zapcore.DebugLevel)
			router := gin.New()
			router.Use(GinMiddleware(zap.New(core)))
			router.GET("/debts", func(c *gin.Context) { c.Status(tt.status) })

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/debts?filter=overdue", nil))

			entry := findHTTPLog(t, recorded)
			assert.Equal(t, tt.level, entry.Level)
			assert.Equal(t, "filter=overdue", entry.ContextMap()["query"])
		})
	}
}

func TestGinMiddleware_PropagatesLoggerAndIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.InfoLevel)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(WithRequestID(c.Request.Context(), "req-42"))
		c.Next()
	})
	router.Use(GinMiddleware(zap.New(core)))
	router.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(WithCompanyID(c.Request.Context(), "company-7"))
		c.Next()
	})
	router.GET("/clients", func(c *gin.Context) {
		FromContext(c.Request.Context()).Info("inside handler")
		assert.NotNil(t, GetGinLogger(c))
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/clients", nil))

	inside := recorded.FilterMessage("inside handler").All()
	require.Len(t, inside, 1)
	assert.Equal(t, "req-42", inside[0].ContextMap()["request_id"])

	entry := findHTTPLog(t, recorded)
	assert.Equal(t, "req-42", entry.ContextMap()["request_id"])
	assert.Equal(t, "company-7", entry.ContextMap()["company_id"])
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.ErrorLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_INTERNAL")
	assert.Equal(t, 1, recorded.FilterMessage("Panic recovered").Len())
}

func TestGetGinLogger_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.NotNil(t, GetGinLogger(c))
}
