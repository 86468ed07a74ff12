package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/debtbook/backend/internal/domain/identity"
	"github.com/debtbook/backend/internal/infrastructure/auth"
	"github.com/debtbook/backend/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTService(opts ...auth.JWTOption) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		Issuer:                "debtbook-test",
		AccessTokenExpiration: 15 * time.Minute,
	}, opts...)
}

func issueToken(t *testing.T, svc *auth.JWTService, companyID *uuid.UUID) (string, auth.GenerateTokenInput) {
	t.Helper()
	input := auth.GenerateTokenInput{
		UserID:    uuid.New(),
		CompanyID: companyID,
		Username:  "seller-1",
		Role:      identity.RoleSeller,
	}
	token, _, err := svc.GenerateAccessToken(input)
	require.NoError(t, err)
	return token, input
}

func perform(r http.Handler, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
