package middleware

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/debtbook/backend/internal/domain/identity"
	"github.com/debtbook/backend/internal/infrastructure/auth"
	"github.com/debtbook/backend/internal/infrastructure/logger"
	"github.com/debtbook/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey   = "jwt_claims"
	PrincipalKey   = "principal"
	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
	// IdempotencyKeyHeader carries the client's idempotency key on payments
	IdempotencyKeyHeader = "Idempotency-Key"
)

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	// JWTService is required for token validation
	JWTService *auth.JWTService
	// TokenBlacklist is optional for checking revoked tokens
	TokenBlacklist auth.TokenBlacklist
	// SkipPaths are paths that don't require authentication
	SkipPaths []string
	// OnError replaces the default 401 response
	OnError func(c *gin.Context, err error)
	Logger  *zap.Logger
}

// DefaultJWTConfig returns default JWT middleware configuration
func DefaultJWTConfig(jwtService *auth.JWTService) JWTMiddlewareConfig {
	return JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths:  []string{"/health", "/ready"},
		Logger:     zap.NewNop(),
	}
}

// JWTAuthMiddleware creates JWT authentication middleware
func JWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(DefaultJWTConfig(jwtService))
}

// JWTAuthMiddlewareWithConfig validates the bearer token and attaches the
// caller's Principal to the request. A token whose claims cannot form a
// principal is rejected like an invalid token.
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		if slices.Contains(cfg.SkipPaths, c.Request.URL.Path) {
			c.Next()
			return
		}

		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			handleAuthError(c, cfg, auth.ErrInvalidToken, "Missing authorization header")
			return
		}
		tokenString, ok := strings.CutPrefix(authHeader, BearerPrefix)
		if !ok || strings.TrimSpace(tokenString) == "" {
			handleAuthError(c, cfg, auth.ErrInvalidToken, "Invalid authorization header format")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
		if err != nil {
			handleAuthError(c, cfg, err, "Token validation failed")
			return
		}

		if cfg.TokenBlacklist != nil && claims.ID != "" {
			blacklisted, err := cfg.TokenBlacklist.IsBlacklisted(c.Request.Context(), claims.ID)
			if err != nil {
				// Fail open: the blacklist store being down must not lock everyone out.
				cfg.Logger.Error("Failed to check token blacklist",
					zap.String("jti", claims.ID),
					zap.Error(err))
			} else if blacklisted {
				handleAuthError(c, cfg, auth.ErrTokenBlacklisted, "Token has been revoked")
				return
			}
		}

		principal, err := claims.Principal()
		if err != nil {
			handleAuthError(c, cfg, err, "Token claims are malformed")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(PrincipalKey, principal)

		ctx := logger.WithUserID(c.Request.Context(), principal.UserID.String())
		if principal.CompanyID != nil {
			ctx = logger.WithCompanyID(ctx, principal.CompanyID.String())
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// handleAuthError answers 401 with a code naming what was wrong with the token
func handleAuthError(c *gin.Context, cfg JWTMiddlewareConfig, err error, message string) {
	if cfg.OnError != nil {
		cfg.OnError(c, err)
		c.Abort()
		return
	}

	cfg.Logger.Warn("JWT authentication failed",
		zap.Error(err),
		zap.String("reason", message),
		zap.String("path", c.Request.URL.Path),
	)

	code, msg := dto.ErrCodeUnauthorized, "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, msg = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenBlacklisted):
		code, msg = dto.ErrCodeTokenRevoked, "Token has been revoked"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrInvalidClaims), errors.Is(err, auth.ErrMissingUserID):
		code, msg = dto.ErrCodeTokenInvalid, "Invalid token"
	}
	abortWithError(c, http.StatusUnauthorized, code, msg)
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(JWTClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetPrincipal returns the authenticated caller, if any
func GetPrincipal(c *gin.Context) (identity.Principal, bool) {
	if v, ok := c.Get(PrincipalKey); ok {
		if p, ok := v.(identity.Principal); ok {
			return p, true
		}
	}
	return identity.Principal{}, false
}
