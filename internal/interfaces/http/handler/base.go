package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/debtbook/backend/internal/domain/identity"
	"github.com/debtbook/backend/internal/domain/shared"
	"github.com/debtbook/backend/internal/infrastructure/logger"
	"github.com/debtbook/backend/internal/interfaces/http/dto"
	"github.com/debtbook/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response and records the code for the tracing
// middleware
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	code = dto.NormalizeErrorCode(code)
	c.Set(middleware.ErrorCodeKey, code)
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// HandleBindError answers a request whose body or query failed to bind
func (h *BaseHandler) HandleBindError(c *gin.Context, err error) {
	var (
		validationErrs validator.ValidationErrors
		syntaxErr      *json.SyntaxError
		typeErr        *json.UnmarshalTypeError
		tooLarge       *http.MaxBytesError
	)
	switch {
	case errors.As(err, &validationErrs):
		c.Set(middleware.ErrorCodeKey, dto.ErrCodeValidation)
		middleware.HandleValidationError(c, err)
	case errors.As(err, &tooLarge):
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Request body too large")
	case errors.Is(err, io.EOF):
		h.BadRequest(c, "Request body is required")
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Malformed JSON body")
	case errors.As(err, &typeErr):
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Field "+typeErr.Field+" has the wrong type")
	default:
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, err.Error())
	}
}

// HandleDomainError converts service errors to HTTP responses. Anything that
// is not a DomainError is logged and answered as a 500 without detail.
func (h *BaseHandler) HandleDomainError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		h.Error(c, dto.GetHTTPStatus(code), code, domainErr.Message)
		return
	}

	logger.GetGinLogger(c).Error("request failed", zap.Error(err))
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
}

// principal returns the authenticated caller. Routes are mounted behind the
// JWT middleware, so a miss means a wiring error.
func (h *BaseHandler) principal(c *gin.Context) (identity.Principal, bool) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
		return identity.Principal{}, false
	}
	return p, true
}

// pathUUID parses a UUID path parameter, answering 400 when it is malformed
func (h *BaseHandler) pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid "+name+": must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

func toFilter(req dto.ListRequest) shared.Filter {
	return shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		Search:   req.Search,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
	}.Normalize()
}
