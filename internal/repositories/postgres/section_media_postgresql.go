package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/surveyforge/survey-service/internal/models"
	"github.com/surveyforge/survey-service/internal/repositories"
)

// SectionPostgreSQL persists survey sections
type SectionPostgreSQL struct {
	db *gorm.DB
}

func NewSectionPostgreSQL(db *gorm.DB) repositories.SectionRepository {
	return &SectionPostgreSQL{db: db}
}

func (s *SectionPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}

func (s *SectionPostgreSQL) Create(ctx context.Context, tx *gorm.DB, section *models.Section) error {
	if err := s.getDB(tx).WithContext(ctx).Create(section).Error; err != nil {
		return fmt.Errorf("failed to create section: %w", err)
	}
	return nil
}

func (s *SectionPostgreSQL) Update(ctx context.Context, tx *gorm.DB, section *models.Section) error {
	if err := s.getDB(tx).WithContext(ctx).Model(&models.Section{}).
		Where("id = ? AND survey_id = ?", section.ID, section.SurveyID).
		Updates(map[string]interface{}{
			"title":       section.Title,
			"description": section.Description,
			"order":       section.Order,
			"updated_at":  section.UpdatedAt,
		}).Error; err != nil {
		return fmt.Errorf("failed to update section: %w", err)
	}
	return nil
}

func (s *SectionPostgreSQL) DeleteByIDs(ctx context.Context, tx *gorm.DB, surveyID uint, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.getDB(tx).WithContext(ctx).
		Where("survey_id = ? AND id IN ?", surveyID, ids).
		Delete(&models.Section{}).Error; err != nil {
		return fmt.Errorf("failed to delete sections: %w", err)
	}
	return nil
}

// MediaPostgreSQL persists survey media
type MediaPostgreSQL struct {
	db *gorm.DB
}

func NewMediaPostgreSQL(db *gorm.DB) repositories.MediaRepository {
	return &MediaPostgreSQL{db: db}
}

func (m *MediaPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return m.db
}

func (m *MediaPostgreSQL) Create(ctx context.Context, tx *gorm.DB, media *models.Media) error {
	if err := m.getDB(tx).WithContext(ctx).Create(media).Error; err != nil {
		return fmt.Errorf("failed to create media: %w", err)
	}
	return nil
}

func (m *MediaPostgreSQL) Update(ctx context.Context, tx *gorm.DB, media *models.Media) error {
	if err := m.getDB(tx).WithContext(ctx).Model(&models.Media{}).
		Where("id = ? AND survey_id = ?", media.ID, media.SurveyID).
		Updates(map[string]interface{}{
			"type":        media.Type,
			"url":         media.URL,
			"title":       media.Title,
			"description": media.Description,
			"order":       media.Order,
			"question_id": media.QuestionID,
			"updated_at":  media.UpdatedAt,
		}).Error; err != nil {
		return fmt.Errorf("failed to update media: %w", err)
	}
	return nil
}

func (m *MediaPostgreSQL) DeleteByIDs(ctx context.Context, tx *gorm.DB, surveyID uint, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := m.getDB(tx).WithContext(ctx).
		Where("survey_id = ? AND id IN ?", surveyID, ids).
		Delete(&models.Media{}).Error; err != nil {
		return fmt.Errorf("failed to delete media: %w", err)
	}
	return nil
}

// ClearQuestionRefs detaches media from questions about to be deleted
func (m *MediaPostgreSQL) ClearQuestionRefs(ctx context.Context, tx *gorm.DB, questionIDs []uint) error {
	if len(questionIDs) == 0 {
		return nil
	}
	if err := m.getDB(tx).WithContext(ctx).Model(&models.Media{}).
		Where("question_id IN ?", questionIDs).
		Update("question_id", nil).Error; err != nil {
		return fmt.Errorf("failed to clear media question refs: %w", err)
	}
	return nil
}
