package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teasupply/backend/internal/domain/shared"
	"github.com/teasupply/backend/internal/interfaces/http/dto"
	"github.com/teasupply/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a 200 success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a 200 success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.respondError(c, dto.ErrCodeBadRequest, message)
}

// BindingError sends a 400 with validator errors flattened per field
func (h *BaseHandler) BindingError(c *gin.Context, err error) {
	h.respondError(c, dto.ErrCodeValidation, middleware.FormatBindingError(err))
}

// HandleError maps an application error to the proper HTTP response.
// Domain errors translate through the code table; storage deadline
// overruns map to STORAGE_TIMEOUT; everything else is an opaque 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.respondError(c, dto.NormalizeErrorCode(domainErr.Code), domainErr.Message)
		return
	}
	if errors.Is(err, context.DeadlineExceeded) {
		h.respondError(c, dto.ErrCodeStorageTimeout, shared.ErrStorageTimeout.Message)
		return
	}
	h.respondError(c, dto.ErrCodeInternal, "Internal server error")
}

func (h *BaseHandler) respondError(c *gin.Context, code, message string) {
	status := dto.GetHTTPStatus(code)
	requestID := middleware.GetRequestID(c)
	c.JSON(status, dto.NewErrorResponseWithRequestID(code, message, requestID))
}
