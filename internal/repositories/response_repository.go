package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/surveyforge/survey-service/internal/models"
)

// ResponseRepository interface for submission persistence and reads
type ResponseRepository interface {
	// Create persists the response row only; answers are inserted separately
	// once the response id exists.
	Create(ctx context.Context, tx *gorm.DB, response *models.SurveyResponse) error
	CreateAnswers(ctx context.Context, tx *gorm.DB, answers []models.UserAnswer) error

	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.SurveyResponse, error)
	ListBySurvey(ctx context.Context, tx *gorm.DB, surveyID uint, filters ResponseFilters) ([]*models.SurveyResponse, int64, error)
	CountBySurvey(ctx context.Context, tx *gorm.DB, surveyID uint) (int64, error)
}

// TemplateRepository interface for survey template reads
type TemplateRepository interface {
	List(ctx context.Context, tx *gorm.DB) ([]*models.SurveyTemplate, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.SurveyTemplate, error)
}

// DashboardRepository interface for creator dashboard analytics
type DashboardRepository interface {
	GetCreatorStats(ctx context.Context, tx *gorm.DB, creatorID string) (*CreatorStats, error)
	GetRecentActivity(ctx context.Context, tx *gorm.DB, creatorID string, limit int) ([]SurveyActivity, error)
}

// UserRepository interface for user operations (read-only for the survey service)
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.User, error)

	ExistsByID(ctx context.Context, id string) (bool, error)
	HasRole(ctx context.Context, id string, role models.UserRole) (bool, error)
}
