package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/surveyforge/survey-service/internal/models"
	"github.com/surveyforge/survey-service/internal/repositories"
)

type TemplatePostgreSQL struct {
	db *gorm.DB
}

func NewTemplatePostgreSQL(db *gorm.DB) repositories.TemplateRepository {
	return &TemplatePostgreSQL{db: db}
}

func (t *TemplatePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return t.db
}

func (t *TemplatePostgreSQL) List(ctx context.Context, tx *gorm.DB) ([]*models.SurveyTemplate, error) {
	var templates []*models.SurveyTemplate
	err := t.getDB(tx).WithContext(ctx).
		Order("title ASC").
		Find(&templates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

func (t *TemplatePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.SurveyTemplate, error) {
	var template models.SurveyTemplate
	err := t.getDB(tx).WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("template_questions.order ASC, template_questions.id ASC")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("template_options.order ASC, template_options.id ASC")
		}).
		First(&template, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return &template, nil
}
