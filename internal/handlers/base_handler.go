package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/records-service/internal/utils"
)

// ErrorResponse is the standard error payload
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse wraps successful responses that carry a message
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// BaseHandler provides shared logging helpers for all handlers
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs an incoming request with request-scoped context
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	logger := utils.LoggerFromContext(c.Request.Context(), h.logger)
	args = append(args, "method", c.Request.Method, "path", c.Request.URL.Path)
	logger.Info(msg, args...)
}

// LogError logs a handler-level error with request-scoped context
func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	logger := utils.LoggerFromContext(c.Request.Context(), h.logger)
	args = append(args, "error", err, "method", c.Request.Method, "path", c.Request.URL.Path)
	logger.Error(msg, args...)
}
