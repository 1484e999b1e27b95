package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/surveyforge/survey-service/internal/models"
	"github.com/surveyforge/survey-service/internal/repositories"
)

type DashboardPostgreSQL struct {
	db *gorm.DB
}

func NewDashboardPostgreSQL(db *gorm.DB) repositories.DashboardRepository {
	return &DashboardPostgreSQL{db: db}
}

func (d *DashboardPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return d.db
}

// GetCreatorStats aggregates survey and response counters for one creator
func (d *DashboardPostgreSQL) GetCreatorStats(ctx context.Context, tx *gorm.DB, creatorID string) (*repositories.CreatorStats, error) {
	db := d.getDB(tx).WithContext(ctx)
	stats := &repositories.CreatorStats{}

	if err := db.Model(&models.Survey{}).
		Where("creator_id = ?", creatorID).
		Count(&stats.TotalSurveys).Error; err != nil {
		return nil, fmt.Errorf("failed to count surveys: %w", err)
	}

	if err := db.Model(&models.Survey{}).
		Where("creator_id = ? AND is_published = ?", creatorID, true).
		Count(&stats.PublishedSurveys).Error; err != nil {
		return nil, fmt.Errorf("failed to count published surveys: %w", err)
	}
	stats.DraftSurveys = stats.TotalSurveys - stats.PublishedSurveys

	if err := db.Model(&models.SurveyResponse{}).
		Joins("JOIN surveys ON surveys.id = survey_responses.survey_id").
		Where("surveys.creator_id = ?", creatorID).
		Count(&stats.TotalResponses).Error; err != nil {
		return nil, fmt.Errorf("failed to count responses: %w", err)
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	if err := db.Model(&models.SurveyResponse{}).
		Joins("JOIN surveys ON surveys.id = survey_responses.survey_id").
		Where("surveys.creator_id = ? AND survey_responses.submitted_at >= ?", creatorID, weekAgo).
		Count(&stats.ResponsesLastWeek).Error; err != nil {
		return nil, fmt.Errorf("failed to count recent responses: %w", err)
	}

	return stats, nil
}

// GetRecentActivity lists the creator's surveys with response counts, most
// recently answered first
func (d *DashboardPostgreSQL) GetRecentActivity(ctx context.Context, tx *gorm.DB, creatorID string, limit int) ([]repositories.SurveyActivity, error) {
	if limit <= 0 {
		limit = 10
	}

	var activity []repositories.SurveyActivity
	err := d.getDB(tx).WithContext(ctx).
		Model(&models.Survey{}).
		Select(`surveys.id AS survey_id,
			surveys.title,
			surveys.is_published,
			COUNT(survey_responses.id) AS responses,
			COALESCE(MAX(survey_responses.submitted_at), surveys.updated_at) AS last_answer`).
		Joins("LEFT JOIN survey_responses ON survey_responses.survey_id = surveys.id").
		Where("surveys.creator_id = ?", creatorID).
		Group("surveys.id").
		Order("last_answer DESC").
		Limit(limit).
		Scan(&activity).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get recent activity: %w", err)
	}

	return activity, nil
}
