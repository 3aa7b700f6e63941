package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devcatalyst/intake-service/internal/services"
)

// Messages shown to clients. Store failures never leak their cause.
const (
	MsgInvalidRequest   = "Invalid request"
	MsgInvalidAnswers   = "Some answers are missing or invalid. Please review the form and try again."
	MsgStoreFailure     = "Failed to save your response. Please try again."
	MsgInternal         = "Internal server error"
	MsgIncorrectSecret  = "Incorrect password"
	MsgSessionExpired   = "Session expired. Please sign in again."
	MsgUnauthorized     = "Authentication required"
	MsgForbidden        = "This session cannot access this area"
	MsgNotConfigured    = "Server is not configured for this operation."
	MsgDashboardSecret  = "Dashboard password not configured on server."
	MsgEvaluationSecret = "Evaluation password not configured on server."
)

// handleServiceError maps service errors to HTTP responses.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		h.RespondWithError(c, http.StatusBadRequest, "Validation failed", err, validationErrors.ByField())
		return
	}

	var configErr *services.ConfigurationError
	if errors.As(err, &configErr) {
		h.RespondWithError(c, http.StatusInternalServerError, MsgNotConfigured, err)
		return
	}

	var notFound *services.NotFoundError
	if errors.As(err, &notFound) {
		h.RespondWithError(c, http.StatusNotFound, notFound.Error(), err)
		return
	}

	var storeErr *services.StoreError
	if errors.As(err, &storeErr) {
		h.RespondWithError(c, http.StatusInternalServerError, MsgStoreFailure, err)
		return
	}

	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		h.RespondWithError(c, http.StatusUnauthorized, MsgIncorrectSecret, err)
	case errors.Is(err, services.ErrSessionExpired):
		h.RespondWithError(c, http.StatusUnauthorized, MsgSessionExpired, err)
	case errors.Is(err, services.ErrSessionScope):
		h.RespondWithError(c, http.StatusForbidden, MsgForbidden, err)
	case services.IsUnauthorized(err):
		h.RespondWithError(c, http.StatusUnauthorized, MsgUnauthorized, err)
	case services.IsNotFound(err):
		h.RespondWithError(c, http.StatusNotFound, err.Error(), err)
	default:
		h.RespondWithError(c, http.StatusInternalServerError, MsgInternal, err)
	}
}

// bindJSON decodes the body and struct-validates it, answering 400 on failure.
func (h *BaseHandler) bindJSON(c *gin.Context, v validatorFunc, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, MsgInvalidRequest, err, err.Error())
		return false
	}
	if v == nil {
		return true
	}
	if err := v(dst); err != nil {
		h.handleServiceError(c, err)
		return false
	}
	return true
}

type validatorFunc func(interface{}) error
