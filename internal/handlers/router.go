package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/surveyforge/survey-service/internal/config"
	"github.com/surveyforge/survey-service/internal/models"
	"github.com/surveyforge/survey-service/internal/repositories"
	"github.com/surveyforge/survey-service/internal/services"
	"github.com/surveyforge/survey-service/internal/storage"
	"github.com/surveyforge/survey-service/internal/utils"
	"github.com/surveyforge/survey-service/internal/validator"
)

type HandlerManager struct {
	surveyHandler    *SurveyHandler
	publicHandler    *PublicHandler
	resultsHandler   *ResultsHandler
	dashboardHandler *DashboardHandler
	authMiddleware   *CasdoorAuthMiddleware

	uploadDir string
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
	casdoorConfig config.CasdoorConfig,
	userRepo repositories.UserRepository,
	images storage.ImageStorage,
	uploadDir string,
) *HandlerManager {
	authMiddleware := NewCasdoorAuthMiddleware(casdoorConfig, userRepo)

	return &HandlerManager{
		surveyHandler:    NewSurveyHandler(serviceManager.Survey(), images, validator, logger),
		publicHandler:    NewPublicHandler(serviceManager.Survey(), serviceManager.Response(), logger),
		resultsHandler:   NewResultsHandler(serviceManager.Results(), serviceManager.Export(), logger),
		dashboardHandler: NewDashboardHandler(serviceManager.Dashboard(), logger),
		authMiddleware:   authMiddleware,
		uploadDir:        uploadDir,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")

	// Public routes: optional authentication so non-anonymous surveys can
	// attribute responses to a logged-in respondent.
	public := v1.Group("/public")
	public.Use(hm.authMiddleware.OptionalAuthMiddleware())
	{
		public.GET("/surveys/:id", hm.publicHandler.GetPublishedSurvey)
		public.POST("/surveys/:id/responses", hm.publicHandler.SubmitResponse)
	}

	// Authenticated routes
	authed := v1.Group("")
	authed.Use(hm.authMiddleware.AuthMiddleware())
	{
		creatorOnly := hm.authMiddleware.RequireRoleMiddleware(models.RoleCreator)

		surveys := authed.Group("/surveys")
		{
			surveys.POST("", creatorOnly, hm.surveyHandler.SaveSurvey)
			surveys.GET("", creatorOnly, hm.surveyHandler.ListSurveys)
			surveys.GET("/:id", creatorOnly, hm.surveyHandler.GetSurvey)
			surveys.DELETE("/:id", creatorOnly, hm.surveyHandler.DeleteSurvey)

			surveys.POST("/:id/publish", creatorOnly, hm.surveyHandler.PublishSurvey)
			surveys.POST("/:id/unpublish", creatorOnly, hm.surveyHandler.UnpublishSurvey)

			surveys.POST("/:id/images", creatorOnly, hm.surveyHandler.UploadImage)

			surveys.GET("/:id/results", creatorOnly, hm.resultsHandler.GetResults)
			surveys.GET("/:id/export/csv", creatorOnly, hm.resultsHandler.ExportCSV)
			surveys.GET("/:id/export/xlsx", creatorOnly, hm.resultsHandler.ExportXLSX)
		}

		templates := authed.Group("/templates")
		{
			templates.GET("", creatorOnly, hm.surveyHandler.ListTemplates)
			templates.POST("/:id/surveys", creatorOnly, hm.surveyHandler.CreateFromTemplate)
		}

		dashboard := authed.Group("/dashboard")
		dashboard.Use(creatorOnly)
		{
			dashboard.GET("", hm.dashboardHandler.GetSummary)
		}
	}

	// Stored survey images
	router.Static("/uploads", hm.uploadDir)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "survey-service",
		})
	})
}
