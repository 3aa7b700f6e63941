package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/devcatalyst/intake-service/internal/services"
	"github.com/devcatalyst/intake-service/internal/utils"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ===== REQUEST STRUCTURES =====

type LoginRequest struct {
	Password string `json:"password"`
}

type EvaluationLoginRequest struct {
	Team     string `json:"team" validate:"required"`
	Password string `json:"password"`
}

type RollNumberRequest struct {
	RollNumber string `json:"roll_number" validate:"required"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides common logging functionality for all handlers
type BaseHandler struct {
	logger utils.Logger
}

// NewBaseHandler creates a new base handler with logging capability
func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{
		logger: logger,
	}
}

// log returns the request-scoped logger, which already carries the request id,
// method and path.
func (h *BaseHandler) log(c *gin.Context) utils.Logger {
	return utils.GetLoggerFromContext(c, h.logger)
}

func (h *BaseHandler) sessionFields(c *gin.Context, additionalFields []interface{}) []interface{} {
	var fields []interface{}
	if session, ok := services.SessionFromContext(c.Request.Context()); ok {
		fields = append(fields, "scope", session.Scope)
		if session.Track != "" {
			fields = append(fields, "track", session.Track)
		}
	}
	return append(fields, additionalFields...)
}

// LogRequest logs incoming HTTP requests with context information
func (h *BaseHandler) LogRequest(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := append(h.sessionFields(c, additionalFields), "remote_addr", c.ClientIP())
	h.log(c).Info(message, fields...)
}

// LogError logs error details with context information
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	h.log(c).LogError(err, message, h.sessionFields(c, additionalFields)...)
}

// LogInfo logs informational messages with context
func (h *BaseHandler) LogInfo(c *gin.Context, message string, additionalFields ...interface{}) {
	h.log(c).Info(message, h.sessionFields(c, additionalFields)...)
}

// LogWarn logs warning messages with context
func (h *BaseHandler) LogWarn(c *gin.Context, message string, additionalFields ...interface{}) {
	h.log(c).Warn(message, h.sessionFields(c, additionalFields)...)
}

// RespondWithError sends a consistent error response and logs it
func (h *BaseHandler) RespondWithError(c *gin.Context, statusCode int, message string, err error, details ...interface{}) {
	errorResp := ErrorResponse{
		Success: false,
		Message: message,
	}

	if len(details) > 0 {
		errorResp.Details = details[0]
	}

	if err != nil && statusCode >= 500 {
		h.LogError(c, err, message, "status_code", statusCode)
	} else {
		h.LogWarn(c, message, "status_code", statusCode)
	}

	c.JSON(statusCode, errorResp)
}

// RespondWithSuccess sends a consistent success response and logs it
func (h *BaseHandler) RespondWithSuccess(c *gin.Context, statusCode int, message string, data interface{}, additionalFields ...interface{}) {
	fields := []interface{}{"status_code", statusCode}
	fields = append(fields, additionalFields...)
	h.LogInfo(c, message, fields...)

	c.JSON(statusCode, SuccessResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}
