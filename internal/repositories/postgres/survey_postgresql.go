package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/surveyforge/survey-service/internal/cache"
	"github.com/surveyforge/survey-service/internal/models"
	"github.com/surveyforge/survey-service/internal/repositories"
)

type SurveyPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewSurveyPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.SurveyRepository {
	return &SurveyPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// getDB returns the transaction DB if provided, otherwise returns the default DB
func (s *SurveyPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}

// Create creates a new survey and invalidates creator listings
func (s *SurveyPostgreSQL) Create(ctx context.Context, tx *gorm.DB, survey *models.Survey) error {
	if err := s.getDB(tx).WithContext(ctx).Create(survey).Error; err != nil {
		return fmt.Errorf("failed to create survey: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, s.cacheManager.Survey, fmt.Sprintf("creator:%s:*", survey.CreatorID))
	cache.SafeInvalidatePattern(ctx, s.cacheManager.Survey, "list:*")

	return nil
}

// GetByID retrieves a survey row without its child collections
func (s *SurveyPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Survey, error) {
	var survey models.Survey
	err := s.getDB(tx).WithContext(ctx).First(&survey, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get survey: %w", err)
	}
	return &survey, nil
}

// GetByIDWithDetails retrieves a survey with its full ordered graph
func (s *SurveyPostgreSQL) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Survey, error) {
	var survey models.Survey
	err := s.preloadGraph(s.getDB(tx).WithContext(ctx)).First(&survey, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get survey details: %w", err)
	}

	survey.QuestionsCount = len(survey.Questions)
	return &survey, nil
}

// GetPublished retrieves a published survey graph with caching. Respondents
// hit this on every page load, so it is the one read worth caching hard.
func (s *SurveyPostgreSQL) GetPublished(ctx context.Context, tx *gorm.DB, id uint) (*models.Survey, error) {
	cacheKey := fmt.Sprintf("published:%d", id)
	var survey models.Survey

	err := s.cacheManager.Survey.CacheOrExecute(ctx, cacheKey, &survey, cache.SurveyCacheConfig.TTL, func() (interface{}, error) {
		var dbSurvey models.Survey
		err := s.preloadGraph(s.getDB(tx).WithContext(ctx)).
			Where("is_published = ?", true).
			First(&dbSurvey, id).Error
		if err != nil {
			return nil, err
		}
		dbSurvey.QuestionsCount = len(dbSurvey.Questions)
		return &dbSurvey, nil
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}

	return &survey, nil
}

// GetWithResponses retrieves the survey graph plus every response with answers.
// Never cached: results must reflect submissions immediately.
func (s *SurveyPostgreSQL) GetWithResponses(ctx context.Context, tx *gorm.DB, id uint) (*models.Survey, error) {
	var survey models.Survey
	err := s.preloadGraph(s.getDB(tx).WithContext(ctx)).
		Preload("Responses", func(db *gorm.DB) *gorm.DB {
			return db.Order("survey_responses.submitted_at ASC")
		}).
		Preload("Responses.Answers").
		Preload("Responses.Answers.SelectedOption").
		First(&survey, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get survey with responses: %w", err)
	}

	survey.QuestionsCount = len(survey.Questions)
	survey.ResponsesCount = int64(len(survey.Responses))
	return &survey, nil
}

// List retrieves surveys with filters and pagination
func (s *SurveyPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.SurveyFilters) ([]*models.Survey, int64, error) {
	query := s.getDB(tx).WithContext(ctx).Model(&models.Survey{})

	query = s.helpers.ApplySurveyFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = s.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	var surveys []*models.Survey
	if err := query.Find(&surveys).Error; err != nil {
		return nil, 0, err
	}

	return surveys, total, nil
}

// GetByCreator retrieves all surveys of one creator with response counts
func (s *SurveyPostgreSQL) GetByCreator(ctx context.Context, tx *gorm.DB, creatorID string, filters repositories.SurveyFilters) ([]*models.Survey, int64, error) {
	filters.CreatorID = &creatorID
	surveys, total, err := s.List(ctx, tx, filters)
	if err != nil {
		return nil, 0, err
	}

	for _, survey := range surveys {
		count, err := s.CountResponses(ctx, tx, survey.ID)
		if err != nil {
			return nil, 0, err
		}
		survey.ResponsesCount = count
	}

	return surveys, total, nil
}

// Update rewrites the survey scalar columns and invalidates cache
func (s *SurveyPostgreSQL) Update(ctx context.Context, tx *gorm.DB, survey *models.Survey) error {
	if err := s.getDB(tx).WithContext(ctx).Model(&models.Survey{}).Where("id = ?", survey.ID).Updates(map[string]interface{}{
		"title":                  survey.Title,
		"description":            survey.Description,
		"type":                   survey.Type,
		"is_anonymous":           survey.IsAnonymous,
		"end_date":               survey.EndDate,
		"theme_color":            survey.ThemeColor,
		"background_color":       survey.BackgroundColor,
		"header_image_path":      survey.HeaderImagePath,
		"header_font_family":     survey.HeaderFontFamily,
		"header_font_size":       survey.HeaderFontSize,
		"question_font_family":   survey.QuestionFontFamily,
		"question_font_size":     survey.QuestionFontSize,
		"text_font_family":       survey.TextFontFamily,
		"text_font_size":         survey.TextFontSize,
		"is_test_mode":           survey.IsTestMode,
		"grade_publication":      survey.GradePublication,
		"show_incorrect_answers": survey.ShowIncorrectAnswers,
		"show_correct_answers":   survey.ShowCorrectAnswers,
		"show_points":            survey.ShowPoints,
		"default_max_points":     survey.DefaultMaxPoints,
		"version":                survey.Version,
		"updated_at":             survey.UpdatedAt,
	}).Error; err != nil {
		return fmt.Errorf("failed to update survey: %w", err)
	}

	cache.InvalidateSurveyCache(ctx, s.cacheManager, survey.ID, survey.CreatorID)

	return nil
}

// UpdatePublication flips the published flag only
func (s *SurveyPostgreSQL) UpdatePublication(ctx context.Context, tx *gorm.DB, id uint, published bool) error {
	var survey models.Survey
	if err := s.getDB(tx).WithContext(ctx).Select("id, creator_id").First(&survey, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repositories.ErrNotFound
		}
		return fmt.Errorf("failed to get survey before publication update: %w", err)
	}

	if err := s.getDB(tx).WithContext(ctx).Model(&models.Survey{}).
		Where("id = ?", id).
		Update("is_published", published).Error; err != nil {
		return fmt.Errorf("failed to update publication state: %w", err)
	}

	cache.InvalidateSurveyCache(ctx, s.cacheManager, id, survey.CreatorID)

	return nil
}

// Delete hard deletes a survey; the database cascades to questions, options,
// sections, media, responses and answers
func (s *SurveyPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	var survey models.Survey
	if err := s.getDB(tx).WithContext(ctx).Select("id, creator_id").First(&survey, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repositories.ErrNotFound
		}
		return fmt.Errorf("failed to get survey before delete: %w", err)
	}

	if err := s.getDB(tx).WithContext(ctx).Delete(&models.Survey{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete survey: %w", err)
	}

	cache.InvalidateSurveyCache(ctx, s.cacheManager, id, survey.CreatorID)

	return nil
}

// IsOwner checks survey ownership
func (s *SurveyPostgreSQL) IsOwner(ctx context.Context, tx *gorm.DB, id uint, userID string) (bool, error) {
	var count int64
	err := s.getDB(tx).WithContext(ctx).
		Model(&models.Survey{}).
		Where("id = ? AND creator_id = ?", id, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check survey ownership: %w", err)
	}
	return count > 0, nil
}

// CountQuestions counts questions of a survey
func (s *SurveyPostgreSQL) CountQuestions(ctx context.Context, tx *gorm.DB, id uint) (int64, error) {
	var count int64
	err := s.getDB(tx).WithContext(ctx).
		Model(&models.Question{}).
		Where("survey_id = ?", id).
		Count(&count).Error
	return count, err
}

// CountResponses counts submissions of a survey
func (s *SurveyPostgreSQL) CountResponses(ctx context.Context, tx *gorm.DB, id uint) (int64, error) {
	var count int64
	err := s.getDB(tx).WithContext(ctx).
		Model(&models.SurveyResponse{}).
		Where("survey_id = ?", id).
		Count(&count).Error
	return count, err
}

// preloadGraph attaches the ordered child collections of a survey
func (s *SurveyPostgreSQL) preloadGraph(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.order ASC, questions.id ASC")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("answer_options.order ASC, answer_options.id ASC")
		}).
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("sections.order ASC, sections.id ASC")
		}).
		Preload("Media", func(db *gorm.DB) *gorm.DB {
			return db.Order("media.order ASC, media.id ASC")
		})
}
