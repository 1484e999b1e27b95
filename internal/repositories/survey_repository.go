package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/surveyforge/survey-service/internal/models"
)

// SurveyRepository interface for survey-specific operations
type SurveyRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, survey *models.Survey) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Survey, error)
	Update(ctx context.Context, tx *gorm.DB, survey *models.Survey) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// Graph loads. All child collections come back ordered by their Order
	// column; questions include options.
	GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Survey, error)
	GetPublished(ctx context.Context, tx *gorm.DB, id uint) (*models.Survey, error)
	GetWithResponses(ctx context.Context, tx *gorm.DB, id uint) (*models.Survey, error)

	// Query operations
	List(ctx context.Context, tx *gorm.DB, filters SurveyFilters) ([]*models.Survey, int64, error)
	GetByCreator(ctx context.Context, tx *gorm.DB, creatorID string, filters SurveyFilters) ([]*models.Survey, int64, error)

	// Publication
	UpdatePublication(ctx context.Context, tx *gorm.DB, id uint, published bool) error

	// Validation and checks
	IsOwner(ctx context.Context, tx *gorm.DB, id uint, userID string) (bool, error)
	CountQuestions(ctx context.Context, tx *gorm.DB, id uint) (int64, error)
	CountResponses(ctx context.Context, tx *gorm.DB, id uint) (int64, error)
}

// QuestionRepository interface for question operations inside a survey graph
type QuestionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, question *models.Question) error
	Update(ctx context.Context, tx *gorm.DB, question *models.Question) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, surveyID uint, ids []uint) error
	GetBySurvey(ctx context.Context, tx *gorm.DB, surveyID uint) ([]*models.Question, error)
}

// AnswerOptionRepository interface for answer option operations
type AnswerOptionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, option *models.AnswerOption) error
	Update(ctx context.Context, tx *gorm.DB, option *models.AnswerOption) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, questionID uint, ids []uint) error
}

// SectionRepository interface for section operations
type SectionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, section *models.Section) error
	Update(ctx context.Context, tx *gorm.DB, section *models.Section) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, surveyID uint, ids []uint) error
}

// MediaRepository interface for media operations
type MediaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, media *models.Media) error
	Update(ctx context.Context, tx *gorm.DB, media *models.Media) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, surveyID uint, ids []uint) error

	// ClearQuestionRefs nulls the question attachment of media rows pointing
	// at the given questions. Used before questions are deleted so media
	// survives its question.
	ClearQuestionRefs(ctx context.Context, tx *gorm.DB, questionIDs []uint) error
}
