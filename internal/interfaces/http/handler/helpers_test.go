package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appledger "github.com/debtbook/backend/internal/application/ledger"
	"github.com/debtbook/backend/internal/domain/identity"
	"github.com/debtbook/backend/internal/infrastructure/cache"
	"github.com/debtbook/backend/internal/infrastructure/config"
	"github.com/debtbook/backend/internal/infrastructure/persistence"
	"github.com/debtbook/backend/internal/infrastructure/storage"
	"github.com/debtbook/backend/internal/interfaces/http/dto"
	"github.com/debtbook/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
	if err := middleware.SetupValidator(); err != nil {
		panic(err)
	}
}

// testAPI serves the ledger handlers over an in-memory SQLite database.
// Requests authenticate as whichever principal the caller passes.
type testAPI struct {
	engine   *gin.Engine
	database *persistence.Database
	archive  *storage.MemoryExportArchive
	now      time.Time
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	database, err := persistence.NewDatabase(&config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: ":memory:",
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate())
	t.Cleanup(func() { _ = database.Close() })

	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })

	api := &testAPI{database: database, archive: storage.NewMemoryExportArchive(), now: testNow}
	db := database.DB
	clientRepo := persistence.NewGormClientRepository(db)
	debtRepo := persistence.NewGormDebtRepository(db)
	paymentRepo := persistence.NewGormPaymentRepository(db)
	txScope := persistence.NewGormTransactionScope(db)
	guard := appledger.NewAccessScopeGuard()
	opts := []appledger.Option{
		appledger.WithClock(func() time.Time { return api.now }),
		appledger.WithListBatchSize(2),
		appledger.WithIdempotencyStore(store, time.Hour),
	}

	clients := NewClientHandler(appledger.NewClientService(clientRepo, debtRepo, txScope, guard, opts...))
	debtService := appledger.NewDebtService(debtRepo, paymentRepo, txScope, guard, opts...)
	debts := NewDebtHandler(debtService, appledger.NewPaymentService(paymentRepo, txScope, guard, opts...))
	exports := NewExportHandler(appledger.NewExportService(debtService, api.archive, guard, time.Minute, opts...))
	payments := NewPaymentHandler(appledger.NewPaymentService(paymentRepo, txScope, guard, opts...))

	r := gin.New()
	r.Use(middleware.RequestID(), func(c *gin.Context) {
		if raw := c.GetHeader("X-Test-Principal"); raw != "" {
			var p identity.Principal
			if err := json.Unmarshal([]byte(raw), &p); err == nil {
				c.Set(middleware.PrincipalKey, p)
			}
		}
		c.Next()
	})
	v1 := r.Group("/api/v1")
	v1.POST("/clients", clients.Create)
	v1.GET("/clients", clients.List)
	v1.GET("/clients/:id", clients.GetByID)
	v1.GET("/clients/:id/debts", clients.GetWithDebts)
	v1.POST("/debts", debts.Create)
	v1.GET("/debts", debts.List)
	v1.GET("/debts/export", debts.Export)
	v1.POST("/debts/export/archive", exports.Archive)
	v1.GET("/debts/:id", debts.GetByID)
	v1.GET("/debts/:id/payments", debts.ListPayments)
	v1.POST("/debts/:id/payments", debts.ApplyPayment)
	v1.POST("/payments", payments.Apply)
	v1.GET("/payments", payments.List)
	v1.GET("/payments/:id", payments.GetByID)

	api.engine = r
	return api
}

func seller(companyID uuid.UUID) identity.Principal {
	return identity.NewPrincipal(uuid.New(), "seller", &companyID, identity.RoleSeller)
}

func drifter() identity.Principal {
	return identity.NewPrincipal(uuid.New(), "drifter", nil, identity.RoleSeller)
}

// do sends a request as p. A nil body sends none; a string is sent raw.
func (a *testAPI) do(t *testing.T, p *identity.Principal, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf *bytes.Reader
	switch b := body.(type) {
	case nil:
		buf = bytes.NewReader(nil)
	case string:
		buf = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	if p != nil {
		raw, err := json.Marshal(p)
		require.NoError(t, err)
		req.Header.Set("X-Test-Principal", string(raw))
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

type envelope[T any] struct {
	Success bool          `json:"success"`
	Data    T             `json:"data"`
	Error   *dto.ErrorInfo `json:"error"`
	Meta    *dto.Meta      `json:"meta"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	env := decode[json.RawMessage](t, w)
	require.False(t, env.Success)
	require.NotNil(t, env.Error)
	return env.Error.Code
}

func (a *testAPI) createClient(t *testing.T, p identity.Principal, name, phone string) appledger.ClientResponse {
	t.Helper()
	w := a.do(t, &p, http.MethodPost, "/api/v1/clients", dto.CreateClientRequest{Name: name, Phone: phone})
	requireStatus(t, w, http.StatusCreated)
	return decode[appledger.ClientResponse](t, w).Data
}

func (a *testAPI) openDebt(t *testing.T, p identity.Principal, clientID uuid.UUID, body map[string]any) appledger.DebtResultResponse {
	t.Helper()
	body["client_id"] = clientID.String()
	w := a.do(t, &p, http.MethodPost, "/api/v1/debts", body)
	requireStatus(t, w, http.StatusCreated)
	return decode[appledger.DebtResultResponse](t, w).Data
}
