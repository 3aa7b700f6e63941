package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devcatalyst/intake-service/internal/models"
	"github.com/devcatalyst/intake-service/internal/utils"
	"github.com/devcatalyst/intake-service/internal/validator"
)

type FormHandler struct {
	BaseHandler
	view validator.FormView
}

func NewFormHandler(form *models.FormSchema, logger utils.Logger) *FormHandler {
	return &FormHandler{
		BaseHandler: NewBaseHandler(logger),
		view:        validator.Render(form),
	}
}

// GetForm returns the render contract for the application form
// @Summary Get form
// @Tags form
// @Produce json
// @Success 200 {object} SuccessResponse{data=validator.FormView}
// @Router /form [get]
func (h *FormHandler) GetForm(c *gin.Context) {
	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: h.view})
}
