package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/surveyforge/survey-service/internal/models"
	"github.com/surveyforge/survey-service/internal/repositories"
)

// SharedHelpers contains common database operations
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// CountResponses counts submissions for a survey
func (h *SharedHelpers) CountResponses(ctx context.Context, surveyID uint) (int64, error) {
	var count int64
	err := h.db.WithContext(ctx).
		Model(&models.SurveyResponse{}).
		Where("survey_id = ?", surveyID).
		Count(&count).Error
	return count, err
}

// ApplySurveyFilters applies common filters to survey queries
func (h *SharedHelpers) ApplySurveyFilters(query *gorm.DB, filters repositories.SurveyFilters) *gorm.DB {
	if filters.CreatorID != nil {
		query = query.Where("creator_id = ?", *filters.CreatorID)
	}
	if filters.IsPublished != nil {
		query = query.Where("is_published = ?", *filters.IsPublished)
	}
	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}
	if filters.Search != "" {
		query = query.Where("title ILIKE ?", "%"+filters.Search+"%")
	}
	return query
}

// ApplyResponseFilters applies common filters to response queries
func (h *SharedHelpers) ApplyResponseFilters(query *gorm.DB, filters repositories.ResponseFilters) *gorm.DB {
	if filters.RespondentID != nil {
		query = query.Where("respondent_id = ?", *filters.RespondentID)
	}
	if filters.DateFrom != nil {
		query = query.Where("submitted_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("submitted_at <= ?", *filters.DateTo)
	}
	return query
}

// ApplyPaginationAndSort applies pagination and sorting with SQL injection protection
func (h *SharedHelpers) ApplyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, limit, offset int) *gorm.DB {
	// Whitelist allowed sort columns
	allowedSortColumns := map[string]bool{
		"created_at":   true,
		"updated_at":   true,
		"submitted_at": true,
		"id":           true,
		"title":        true,
		"type":         true,
	}

	if sortBy == "" || !allowedSortColumns[sortBy] {
		sortBy = "created_at"
	}

	if sortOrder != "asc" && sortOrder != "ASC" {
		sortOrder = "DESC"
	} else {
		sortOrder = "ASC"
	}

	query = query.Order(sortBy + " " + sortOrder)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	return query
}
