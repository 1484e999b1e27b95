package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/surveyforge/survey-service/internal/services"
	"github.com/surveyforge/survey-service/internal/utils"
)

type ResultsHandler struct {
	BaseHandler
	results services.ResultsService
	export  services.ExportService
}

func NewResultsHandler(results services.ResultsService, export services.ExportService, logger utils.Logger) *ResultsHandler {
	return &ResultsHandler{
		BaseHandler: NewBaseHandler(logger),
		results:     results,
		export:      export,
	}
}

// GetResults returns aggregated results for a survey
// @Summary Get survey results
// @Tags results
// @Produce json
// @Param id path int true "Survey ID"
// @Success 200 {object} services.ResultsSummary
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /surveys/{id}/results [get]
func (h *ResultsHandler) GetResults(c *gin.Context) {
	h.LogRequest(c, "Getting survey results")

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	summary, err := h.results.ComputeResults(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ExportCSV downloads the raw responses as CSV
// @Summary Export responses as CSV
// @Tags results
// @Produce text/csv
// @Param id path int true "Survey ID"
// @Success 200 {file} file
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /surveys/{id}/export/csv [get]
func (h *ResultsHandler) ExportCSV(c *gin.Context) {
	h.LogRequest(c, "Exporting responses as CSV")
	h.serveExport(c, h.export.ExportCSV)
}

// ExportXLSX downloads the raw responses as an Excel workbook
// @Summary Export responses as XLSX
// @Tags results
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path int true "Survey ID"
// @Success 200 {file} file
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /surveys/{id}/export/xlsx [get]
func (h *ResultsHandler) ExportXLSX(c *gin.Context) {
	h.LogRequest(c, "Exporting responses as XLSX")
	h.serveExport(c, h.export.ExportXLSX)
}

func (h *ResultsHandler) serveExport(c *gin.Context, exportFn func(ctx context.Context, surveyID uint, ownerID string) (*services.ExportResult, error)) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := exportFn(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
