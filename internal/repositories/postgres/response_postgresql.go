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

type ResponsePostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewResponsePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.ResponseRepository {
	return &ResponsePostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (r *ResponsePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// Create persists the response row. Answers follow in CreateAnswers once the
// generated id is known.
func (r *ResponsePostgreSQL) Create(ctx context.Context, tx *gorm.DB, response *models.SurveyResponse) error {
	if err := r.getDB(tx).WithContext(ctx).Omit("Answers").Create(response).Error; err != nil {
		return fmt.Errorf("failed to create response: %w", err)
	}

	cache.InvalidateResponseCache(ctx, r.cacheManager, response.SurveyID)

	return nil
}

func (r *ResponsePostgreSQL) CreateAnswers(ctx context.Context, tx *gorm.DB, answers []models.UserAnswer) error {
	if len(answers) == 0 {
		return nil
	}
	if err := r.getDB(tx).WithContext(ctx).Create(&answers).Error; err != nil {
		return fmt.Errorf("failed to create answers: %w", err)
	}
	return nil
}

func (r *ResponsePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.SurveyResponse, error) {
	var response models.SurveyResponse
	err := r.getDB(tx).WithContext(ctx).
		Preload("Answers").
		Preload("Answers.SelectedOption").
		First(&response, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get response: %w", err)
	}
	return &response, nil
}

func (r *ResponsePostgreSQL) ListBySurvey(ctx context.Context, tx *gorm.DB, surveyID uint, filters repositories.ResponseFilters) ([]*models.SurveyResponse, int64, error) {
	query := r.getDB(tx).WithContext(ctx).
		Model(&models.SurveyResponse{}).
		Where("survey_id = ?", surveyID)

	query = r.helpers.ApplyResponseFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = r.helpers.ApplyPaginationAndSort(query, "submitted_at", "asc", filters.Limit, filters.Offset)

	var responses []*models.SurveyResponse
	err := query.
		Preload("Answers").
		Preload("Answers.SelectedOption").
		Find(&responses).Error
	if err != nil {
		return nil, 0, err
	}

	return responses, total, nil
}

func (r *ResponsePostgreSQL) CountBySurvey(ctx context.Context, tx *gorm.DB, surveyID uint) (int64, error) {
	var count int64
	err := r.getDB(tx).WithContext(ctx).
		Model(&models.SurveyResponse{}).
		Where("survey_id = ?", surveyID).
		Count(&count).Error
	return count, err
}
