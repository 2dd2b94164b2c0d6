package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wallet/withdrawal/internal/domain/shared"
	"github.com/wallet/withdrawal/internal/infrastructure/logger"
	"github.com/wallet/withdrawal/internal/interfaces/http/dto"
	"github.com/wallet/withdrawal/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a 200 response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a 200 response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response with an explicit status
func (h *BaseHandler) Error(c *gin.Context, status int, code, message string) {
	c.Set(middleware.ErrorCodeKey, code)
	c.JSON(status, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// HandleError maps an error to a response. Errors carrying a code keep it
// and its status from dto.ErrorCodeHTTPStatus; anything else is logged and
// reported as INTERNAL_ERROR without leaking its message.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	requestID := middleware.GetRequestID(c)

	var coded shared.CodedError
	if errors.As(err, &coded) {
		code := coded.ErrorCode()
		var details any
		var detailed shared.DetailedError
		if errors.As(err, &detailed) {
			details = detailed.ErrorDetails()
		}
		c.Set(middleware.ErrorCodeKey, code)
		c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithDetails(code, coded.Error(), requestID, details))
		return
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		h.Error(c, http.StatusGatewayTimeout, dto.CodeRequestTimeout, "The request did not complete in time")
		return
	}

	logger.GetGinLogger(c).Error("Unhandled request error", zap.Error(err))
	h.Error(c, http.StatusInternalServerError, dto.CodeInternal, "An unexpected error occurred")
}

// parseUUIDParam reads a path parameter as a UUID, reporting a
// ValidationError named after field when it is malformed
func parseUUIDParam(c *gin.Context, param, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return uuid.Nil, shared.NewValidationError(field, "must be a valid UUID")
	}
	return id, nil
}

// bindPage reads page/page_size query parameters, applying defaults
func bindPage(c *gin.Context) (dto.PageRequest, error) {
	req := dto.DefaultPageRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		return req, err
	}
	return req, nil
}
