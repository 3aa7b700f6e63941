package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/devcatalyst/intake-service/internal/services"
	"github.com/devcatalyst/intake-service/internal/utils"
	"github.com/devcatalyst/intake-service/internal/validator"
)

type AuthHandler struct {
	BaseHandler
	sessionService services.SessionService
	validator      *validator.Validator
}

func NewAuthHandler(sessionService services.SessionService, v *validator.Validator, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
		validator:      v,
	}
}

type sessionResponse struct {
	Success   bool   `json:"success"`
	Token     string `json:"token"`
	Track     string `json:"track,omitempty"`
	ExpiresAt string `json:"expires_at"`
}

// CheckDashboard exchanges the dashboard password for a session
// @Summary Dashboard login
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Password"
// @Success 200 {object} sessionResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/check [post]
func (h *AuthHandler) CheckDashboard(c *gin.Context) {
	var req LoginRequest
	if !h.bindJSON(c, nil, &req) {
		return
	}

	session, err := h.sessionService.Login(c.Request.Context(), req.Password)
	if err != nil {
		if services.IsConfiguration(err) {
			h.RespondWithError(c, http.StatusInternalServerError, MsgDashboardSecret, err)
			return
		}
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessionResponse{
		Success:   true,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.Format(time.RFC3339),
	})
}

// CheckEvaluation exchanges a team's evaluation password for a team-scoped session
// @Summary Evaluation login
// @Tags auth
// @Accept json
// @Produce json
// @Param body body EvaluationLoginRequest true "Team and password"
// @Success 200 {object} sessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/evaluation [post]
func (h *AuthHandler) CheckEvaluation(c *gin.Context) {
	var req EvaluationLoginRequest
	if !h.bindJSON(c, h.validator.Validate, &req) {
		return
	}

	session, err := h.sessionService.LoginEvaluation(c.Request.Context(), req.Team, req.Password)
	if err != nil {
		if services.IsConfiguration(err) {
			h.RespondWithError(c, http.StatusInternalServerError, MsgEvaluationSecret, err)
			return
		}
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessionResponse{
		Success:   true,
		Token:     session.Token,
		Track:     session.Track,
		ExpiresAt: session.ExpiresAt.Format(time.RFC3339),
	})
}

// Logout ends the caller's session
// @Summary Logout
// @Tags auth
// @Success 200 {object} SuccessResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	token := sessionToken(c.Request)
	if token == "" {
		h.RespondWithError(c, http.StatusUnauthorized, MsgUnauthorized, nil)
		return
	}
	if err := h.sessionService.Logout(c.Request.Context(), token); err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Signed out", nil)
}
