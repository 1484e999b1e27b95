package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/surveyforge/survey-service/internal/services"
	"github.com/surveyforge/survey-service/internal/utils"
)

// PublicHandler serves the respondent-facing endpoints. Authentication is
// optional here: anonymous respondents are first-class citizens.
type PublicHandler struct {
	BaseHandler
	surveys   services.SurveyService
	responses services.ResponseService
}

func NewPublicHandler(surveys services.SurveyService, responses services.ResponseService, logger utils.Logger) *PublicHandler {
	return &PublicHandler{
		BaseHandler: NewBaseHandler(logger),
		surveys:     surveys,
		responses:   responses,
	}
}

// GetPublishedSurvey returns a published survey for filling in
// @Summary Get a published survey
// @Tags public
// @Produce json
// @Param id path int true "Survey ID"
// @Success 200 {object} models.Survey
// @Failure 404 {object} ErrorResponse "Not found or not published"
// @Router /public/surveys/{id} [get]
func (h *PublicHandler) GetPublishedSurvey(c *gin.Context) {
	h.LogRequest(c, "Getting published survey")

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	survey, err := h.surveys.GetPublished(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, survey)
}

// SubmitResponse accepts one submission for a published survey
// @Summary Submit a response
// @Tags public
// @Accept json
// @Produce json
// @Param id path int true "Survey ID"
// @Param request body services.SubmitResponseRequest true "Answers keyed by question id"
// @Success 201 {object} services.SubmitResponseResult
// @Failure 400 {object} ErrorResponse "Missing required answers"
// @Failure 409 {object} ErrorResponse "Survey not accepting responses"
// @Router /public/surveys/{id}/responses [post]
func (h *PublicHandler) SubmitResponse(c *gin.Context) {
	h.LogRequest(c, "Submitting response")

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.SubmitResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	// The path wins over whatever survey id the body carries.
	req.SurveyID = id
	req.IPAddress = c.ClientIP()
	req.UserAgent = c.Request.UserAgent()

	result, err := h.responses.Submit(c.Request.Context(), &req, GetOptionalUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}
