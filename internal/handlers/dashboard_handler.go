package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/surveyforge/survey-service/internal/services"
	"github.com/surveyforge/survey-service/internal/utils"
)

type DashboardHandler struct {
	BaseHandler
	service services.DashboardService
}

func NewDashboardHandler(service services.DashboardService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// GetSummary returns the caller's dashboard: aggregate counts plus the most
// recently answered surveys
// @Summary Get dashboard summary
// @Tags dashboard
// @Produce json
// @Success 200 {object} services.DashboardSummary
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /dashboard [get]
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	h.LogRequest(c, "Getting dashboard summary")

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}

	summary, err := h.service.GetSummary(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
