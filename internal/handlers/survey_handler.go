package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/surveyforge/survey-service/internal/models"
	"github.com/surveyforge/survey-service/internal/repositories"
	"github.com/surveyforge/survey-service/internal/services"
	"github.com/surveyforge/survey-service/internal/storage"
	"github.com/surveyforge/survey-service/internal/utils"
	"github.com/surveyforge/survey-service/internal/validator"
)

type SurveyHandler struct {
	BaseHandler
	service   services.SurveyService
	images    storage.ImageStorage
	validator *validator.Validator
}

func NewSurveyHandler(service services.SurveyService, images storage.ImageStorage, validator *validator.Validator, logger utils.Logger) *SurveyHandler {
	return &SurveyHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		images:      images,
		validator:   validator,
	}
}

// ===== SURVEY ENDPOINTS =====

// SaveSurvey creates a survey or reconciles an existing one
// @Summary Save a survey definition
// @Description Create a new survey, or apply the full definition to an existing one
// @Tags surveys
// @Accept json
// @Produce json
// @Param request body services.SaveSurveyRequest true "Survey definition"
// @Success 200 {object} map[string]uint
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /surveys [post]
func (h *SurveyHandler) SaveSurvey(c *gin.Context) {
	h.LogRequest(c, "Saving survey")

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}

	var req services.SaveSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	surveyID, err := h.service.Save(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"survey_id": surveyID})
}

// GetSurvey returns the full survey definition for editing
// @Summary Get a survey for editing
// @Tags surveys
// @Produce json
// @Param id path int true "Survey ID"
// @Success 200 {object} services.SurveyView
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /surveys/{id} [get]
func (h *SurveyHandler) GetSurvey(c *gin.Context) {
	h.LogRequest(c, "Getting survey for edit")

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.service.GetForEdit(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// ListSurveys returns the caller's surveys
// @Summary List own surveys
// @Tags surveys
// @Produce json
// @Param page query int false "Page (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Param search query string false "Title search"
// @Param published query bool false "Filter by publication state"
// @Success 200 {object} services.SurveyListResponse
// @Router /surveys [get]
func (h *SurveyHandler) ListSurveys(c *gin.Context) {
	h.LogRequest(c, "Listing surveys")

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}

	filters := buildSurveyFilters(c)

	list, err := h.service.ListByOwner(c.Request.Context(), userID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// DeleteSurvey deletes a survey with everything attached to it
// @Summary Delete a survey
// @Tags surveys
// @Param id path int true "Survey ID"
// @Success 204
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /surveys/{id} [delete]
func (h *SurveyHandler) DeleteSurvey(c *gin.Context) {
	h.LogRequest(c, "Deleting survey")

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ===== PUBLICATION ENDPOINTS =====

// PublishSurvey makes a survey available to respondents
// @Summary Publish a survey
// @Tags surveys
// @Param id path int true "Survey ID"
// @Success 204
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 409 {object} ErrorResponse "Already published or has no questions"
// @Router /surveys/{id}/publish [post]
func (h *SurveyHandler) PublishSurvey(c *gin.Context) {
	h.LogRequest(c, "Publishing survey")

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Publish(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UnpublishSurvey takes a survey offline
// @Summary Unpublish a survey
// @Tags surveys
// @Param id path int true "Survey ID"
// @Success 204
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /surveys/{id}/unpublish [post]
func (h *SurveyHandler) UnpublishSurvey(c *gin.Context) {
	h.LogRequest(c, "Unpublishing survey")

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Unpublish(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ===== TEMPLATE ENDPOINTS =====

// ListTemplates returns the available survey templates
// @Summary List survey templates
// @Tags templates
// @Produce json
// @Success 200 {array} models.SurveyTemplate
// @Router /templates [get]
func (h *SurveyHandler) ListTemplates(c *gin.Context) {
	h.LogRequest(c, "Listing templates")

	templates, err := h.service.ListTemplates(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, templates)
}

// CreateFromTemplate creates a new survey from a template
// @Summary Instantiate a template
// @Tags templates
// @Produce json
// @Param id path int true "Template ID"
// @Success 201 {object} map[string]uint
// @Failure 404 {object} ErrorResponse "Template not found"
// @Router /templates/{id}/surveys [post]
func (h *SurveyHandler) CreateFromTemplate(c *gin.Context) {
	h.LogRequest(c, "Creating survey from template")

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	surveyID, err := h.service.CreateFromTemplate(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"survey_id": surveyID})
}

// ===== IMAGE ENDPOINTS =====

// UploadImage stores an image for a survey and returns its public path
// @Summary Upload a survey image
// @Tags surveys
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Survey ID"
// @Param file formData file true "Image file"
// @Success 201 {object} map[string]string
// @Failure 400 {object} ErrorResponse "Unsupported type or too large"
// @Router /surveys/{id}/images [post]
func (h *SurveyHandler) UploadImage(c *gin.Context) {
	h.LogRequest(c, "Uploading survey image")

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	// Ownership gate before touching the filesystem.
	if _, err := h.service.GetForEdit(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing file",
			Details: "multipart field 'file' is required",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Unreadable file"})
		return
	}
	defer file.Close()

	path, err := h.images.Save(c.Request.Context(), id, fileHeader.Filename, file, fileHeader.Size)
	if err != nil {
		switch err {
		case storage.ErrUnsupportedImageType, storage.ErrImageTooLarge:
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Rejected file",
				Details: err.Error(),
			})
		default:
			h.handleServiceError(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"path": path})
}

// buildSurveyFilters reads list filters from query parameters.
func buildSurveyFilters(c *gin.Context) repositories.SurveyFilters {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "20"))
	if err != nil || size < 1 {
		size = 20
	}
	if size > 100 {
		size = 100
	}

	filters := repositories.SurveyFilters{
		Search:    c.Query("search"),
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
		Limit:     size,
		Offset:    (page - 1) * size,
	}

	if published := c.Query("published"); published != "" {
		value := published == "true"
		filters.IsPublished = &value
	}
	if surveyType := c.Query("type"); surveyType != "" {
		t := models.SurveyType(surveyType)
		filters.Type = &t
	}

	return filters
}
