package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devcatalyst/intake-service/internal/services"
	"github.com/devcatalyst/intake-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ResponsesHandler struct {
	BaseHandler
	aggregationService services.AggregationService
}

func NewResponsesHandler(aggregationService services.AggregationService, logger utils.Logger) *ResponsesHandler {
	return &ResponsesHandler{
		BaseHandler:        NewBaseHandler(logger),
		aggregationService: aggregationService,
	}
}

// ListResponses returns every candidate aggregate in submission order
// @Summary List responses
// @Tags responses
// @Produce json
// @Security SessionToken
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /responses [get]
func (h *ResponsesHandler) ListResponses(c *gin.Context) {
	records, err := h.aggregationService.Aggregate(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: records})
}

// ExportResponses downloads the aggregates as an xlsx workbook
// @Summary Export responses
// @Tags responses
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security SessionToken
// @Success 200 {file} file
// @Router /responses/export [get]
func (h *ResponsesHandler) ExportResponses(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.aggregationService.Export(c.Request.Context(), &buf); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogInfo(c, "Exported responses", "bytes", buf.Len())
	c.Header("Content-Disposition", `attachment; filename="candidates.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
