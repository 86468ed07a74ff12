package auth

import (
	"errors"
	"time"

	"github.com/debtbook/backend/internal/domain/identity"
	"github.com/debtbook/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingUserID    = errors.New("missing user_id in claims")
	ErrTokenBlacklisted = errors.New("token has been revoked")
)

// Claims are the access token claims issued by the identity provider.
// CompanyID is empty for users without a company.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id,omitempty"`
	Username  string `json:"username"`
	Role      string `json:"role"`
}

// JWTService validates access tokens and, for tooling and tests, issues them
type JWTService struct {
	secret     []byte
	issuer     string
	expiration time.Duration
	now        func() time.Time
}

// JWTOption configures a JWTService
type JWTOption func(*JWTService)

// WithClock replaces the wall clock used for issuing and validating tokens
func WithClock(now func() time.Time) JWTOption {
	return func(s *JWTService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.JWTConfig, opts ...JWTOption) *JWTService {
	s := &JWTService{
		secret:     []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		expiration: cfg.AccessTokenExpiration,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateTokenInput contains input for token generation
type GenerateTokenInput struct {
	UserID    uuid.UUID
	CompanyID *uuid.UUID
	Username  string
	Role      identity.Role
}

// GenerateAccessToken signs an access token for input and returns it with
// its expiry
func (s *JWTService) GenerateAccessToken(input GenerateTokenInput) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.expiration)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   input.UserID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:   input.UserID.String(),
		Username: input.Username,
		Role:     string(input.Role),
	}
	if input.CompanyID != nil && *input.CompanyID != uuid.Nil {
		claims.CompanyID = input.CompanyID.String()
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// ValidateAccessToken validates an access token and returns its claims
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, parserOpts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.UserID == "" {
		return nil, ErrMissingUserID
	}
	return claims, nil
}

// Principal converts the claims into the caller identity. A malformed
// company_id is rejected rather than treated as "no company".
func (c *Claims) Principal() (identity.Principal, error) {
	userID, err := uuid.Parse(c.UserID)
	if err != nil || userID == uuid.Nil {
		return identity.Principal{}, ErrInvalidClaims
	}

	var companyID *uuid.UUID
	if c.CompanyID != "" {
		id, err := uuid.Parse(c.CompanyID)
		if err != nil {
			return identity.Principal{}, ErrInvalidClaims
		}
		companyID = &id
	}

	return identity.NewPrincipal(userID, c.Username, companyID, identity.ParseRole(c.Role)), nil
}

// GetExpiresAtTime returns the token's expiration time as time.Time
func (c *Claims) GetExpiresAtTime() time.Time {
	if c.ExpiresAt != nil {
		return c.ExpiresAt.Time
	}
	return time.Time{}
}

// RemainingTTL returns how long the token stays valid after now
func (c *Claims) RemainingTTL(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return max(c.ExpiresAt.Sub(now), 0)
}

// GetAccessTokenExpiration returns the access token expiration duration
func (s *JWTService) GetAccessTokenExpiration() time.Duration {
	return s.expiration
}

// Now returns the service clock's current time
func (s *JWTService) Now() time.Time {
	return s.now()
}
