package handler

import (
	"net/http"

	"github.com/debtbook/backend/internal/infrastructure/auth"
	"github.com/debtbook/backend/internal/interfaces/http/dto"
	"github.com/debtbook/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthHandler serves the session endpoints. Tokens are issued by the
// identity provider; this service only reads and revokes them.
type AuthHandler struct {
	BaseHandler
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(jwtService *auth.JWTService, blacklist auth.TokenBlacklist) *AuthHandler {
	return &AuthHandler{
		jwtService: jwtService,
		blacklist:  blacklist,
	}
}

// CurrentUserResponse describes the authenticated caller
type CurrentUserResponse struct {
	UserID    uuid.UUID  `json:"user_id"`
	Username  string     `json:"username"`
	CompanyID *uuid.UUID `json:"company_id,omitempty"`
	Role      string     `json:"role" example:"seller"`
}

// LogoutResponse is the body of a successful logout
type LogoutResponse struct {
	Message string `json:"message" example:"Logged out successfully"`
}

// Me godoc
// @ID           getCurrentUser
// @Summary      Current caller
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=CurrentUserResponse}
// @Failure      401 {object} dto.Response
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	h.Success(c, CurrentUserResponse{
		UserID:    p.UserID,
		Username:  p.Username,
		CompanyID: p.CompanyID,
		Role:      string(p.Role),
	})
}

// Logout godoc
// @ID           logout
// @Summary      Revoke the current token
// @Description  Blacklist the bearer token until it would have expired
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=LogoutResponse}
// @Failure      401 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil || claims.ID == "" {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
		return
	}

	ttl := claims.RemainingTTL(h.jwtService.Now())
	if ttl > 0 {
		if err := h.blacklist.AddToBlacklist(c.Request.Context(), claims.ID, ttl); err != nil {
			h.HandleDomainError(c, err)
			return
		}
	}

	h.Success(c, LogoutResponse{Message: "Logged out successfully"})
}
