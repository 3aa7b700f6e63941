package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/devcatalyst/intake-service/internal/models"
	"github.com/devcatalyst/intake-service/internal/services"
	"github.com/devcatalyst/intake-service/internal/utils"
	"github.com/devcatalyst/intake-service/internal/validator"
)

const HeaderSubmissionID = "X-Submission-ID"

type IntakeHandler struct {
	BaseHandler
	intakeService services.IntakeService
	validator     *validator.Validator
}

func NewIntakeHandler(intakeService services.IntakeService, v *validator.Validator, logger utils.Logger) *IntakeHandler {
	return &IntakeHandler{
		BaseHandler:   NewBaseHandler(logger),
		intakeService: intakeService,
		validator:     v,
	}
}

// Submit appends an application to the primary sheet
// @Summary Submit application
// @Tags intake
// @Accept json
// @Produce json
// @Param X-Submission-ID header string false "Client-assigned submission id"
// @Param track query string false "Append to the track's tab instead of the primary sheet"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /submit [post]
func (h *IntakeHandler) Submit(c *gin.Context) {
	var answers models.AnswerSet
	if err := c.ShouldBindJSON(&answers); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, MsgInvalidRequest, err)
		return
	}

	submissionID := c.GetHeader(HeaderSubmissionID)
	track := strings.TrimSpace(c.Query("track"))
	h.LogRequest(c, "Submitting application", "submission_id", submissionID, "track", track)

	var (
		sub *models.Submission
		err error
	)
	if track != "" {
		sub, err = h.intakeService.SubmitToTrack(c.Request.Context(), track, answers, submissionID)
	} else {
		sub, err = h.intakeService.Submit(c.Request.Context(), answers, submissionID)
	}
	if err != nil {
		if services.IsValidation(err) {
			h.RespondWithError(c, http.StatusBadRequest, MsgInvalidAnswers, err)
			return
		}
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Application submitted successfully", gin.H{
		"submission_id": sub.ID,
	}, "submission_id", sub.ID)
}

// CheckRollNumber reports whether an application with the roll number exists
// @Summary Check roll number
// @Tags intake
// @Accept json
// @Produce json
// @Param body body RollNumberRequest true "Roll number"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /check-roll-number [post]
func (h *IntakeHandler) CheckRollNumber(c *gin.Context) {
	var req RollNumberRequest
	if !h.bindJSON(c, h.validator.Validate, &req) {
		return
	}

	exists, err := h.intakeService.CheckRollNumber(c.Request.Context(), req.RollNumber)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	resp := gin.H{"success": true, "exists": exists}
	if exists {
		resp["message"] = "Application already exists"
	}
	c.JSON(http.StatusOK, resp)
}
