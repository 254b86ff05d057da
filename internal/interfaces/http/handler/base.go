// Package handler holds the gin handlers of the bills service.
package handler

import (
	"errors"
	"net/http"

	"github.com/billed/backend/internal/domain/bill"
	"github.com/billed/backend/internal/domain/shared"
	"github.com/billed/backend/internal/infrastructure/logger"
	"github.com/billed/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BaseHandler provides the response helpers shared by every handler
type BaseHandler struct{}

// Success responds 200 with data
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Error responds with an error envelope carrying the request ID
func (h *BaseHandler) Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest responds 400
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// Unauthorized responds 401
func (h *BaseHandler) Unauthorized(c *gin.Context, code, message string) {
	h.Error(c, http.StatusUnauthorized, code, message)
}

// InternalError responds 500 without leaking err
func (h *BaseHandler) InternalError(c *gin.Context) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An internal error occurred")
}

// HandleError maps err to a response. Store transport failures keep their
// own status and "Erreur <status>" message.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	if bill.IsTransportError(err) {
		te := bill.AsTransportError(err)
		logger.L(c.Request.Context()).Warn("Bill store failure", zap.Error(err))
		h.Error(c, te.StatusCode, dto.ErrCodeTransport, te.Message)
		return
	}
	h.HandleDomainError(c, err)
}

// HandleDomainError answers with the HTTP status of a DomainError, or 500
func (h *BaseHandler) HandleDomainError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		h.Error(c, dto.GetHTTPStatus(code), code, domainErr.Message)
		return
	}
	logger.L(c.Request.Context()).Error("Unhandled error", zap.Error(err))
	h.InternalError(c)
}

func getRequestID(c *gin.Context) string {
	return c.GetString(logger.RequestIDKey)
}
