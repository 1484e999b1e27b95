package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/surveyforge/survey-service/internal/repositories"
	"github.com/surveyforge/survey-service/internal/services"
	"github.com/surveyforge/survey-service/internal/utils"
)

// ErrorResponse is the uniform error body for all endpoints
type ErrorResponse struct {
	Message string      `json:"message"`
	Details string      `json:"details,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// BaseHandler provides shared helpers for all handlers
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string) {
	h.logger.WithContext(c.Request.Context()).Info(msg,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string) {
	h.logger.WithContext(c.Request.Context()).Error(msg,
		"error", err,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	)
}

// parseIDParam reads a positive numeric path parameter.
func (h *BaseHandler) parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid id parameter",
			Details: name + " must be a positive integer",
		})
		return 0, false
	}
	return uint(id), true
}

// handleServiceError maps service errors to HTTP status codes. Permission
// failures come back as 403 without revealing whether the resource exists.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var verrs services.ValidationErrors

	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Errors:  verrs,
		})
	case services.IsPermissionError(err):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Forbidden",
		})
	case services.IsPublicationError(err):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Publication conflict",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrSurveyNotFound),
		errors.Is(err, services.ErrTemplateNotFound),
		errors.Is(err, services.ErrResponseNotFound),
		repositories.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Not found",
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
