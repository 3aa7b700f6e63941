package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devcatalyst/intake-service/internal/models"
	"github.com/devcatalyst/intake-service/internal/services"
	"github.com/devcatalyst/intake-service/internal/utils"
	"github.com/devcatalyst/intake-service/internal/validator"
)

type EvaluationHandler struct {
	BaseHandler
	evaluationService services.EvaluationService
	validator         *validator.Validator
}

func NewEvaluationHandler(evaluationService services.EvaluationService, v *validator.Validator, logger utils.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		BaseHandler:       NewBaseHandler(logger),
		evaluationService: evaluationService,
		validator:         v,
	}
}

// RecordEvaluation appends an evaluator's scores to the team's tab
// @Summary Record evaluation
// @Tags evaluations
// @Accept json
// @Produce json
// @Security SessionToken
// @Param body body models.EvaluationRequest true "Evaluation"
// @Success 201 {object} SuccessResponse{data=models.Evaluation}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /evaluations [post]
func (h *EvaluationHandler) RecordEvaluation(c *gin.Context) {
	var req models.EvaluationRequest
	if !h.bindJSON(c, h.validator.Validate, &req) {
		return
	}

	// A team session may only write to its own tab.
	session, ok := services.SessionFromContext(c.Request.Context())
	if !ok {
		h.RespondWithError(c, http.StatusUnauthorized, MsgUnauthorized, nil)
		return
	}
	if team, _ := services.TeamKeyword(req.Team); team != session.Track {
		h.handleServiceError(c, services.ErrSessionScope)
		return
	}

	h.LogRequest(c, "Recording evaluation", "roll_number", req.RollNumber)

	evaluation, err := h.evaluationService.Record(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusCreated, "Evaluation saved successfully", evaluation)
}
