package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/surveyforge/survey-service/internal/models"
	"github.com/surveyforge/survey-service/internal/repositories"
)

// QuestionPostgreSQL persists questions. Reconciliation in the service layer
// drives Create/Update/DeleteByIDs inside one transaction.
type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

func (q *QuestionPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return q.db
}

func (q *QuestionPostgreSQL) Create(ctx context.Context, tx *gorm.DB, question *models.Question) error {
	if err := q.getDB(tx).WithContext(ctx).Create(question).Error; err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

func (q *QuestionPostgreSQL) Update(ctx context.Context, tx *gorm.DB, question *models.Question) error {
	if err := q.getDB(tx).WithContext(ctx).Model(&models.Question{}).
		Where("id = ? AND survey_id = ?", question.ID, question.SurveyID).
		Updates(map[string]interface{}{
			"text":        question.Text,
			"type":        question.Type,
			"is_required": question.IsRequired,
			"order":       question.Order,
			"updated_at":  question.UpdatedAt,
		}).Error; err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}
	return nil
}

// DeleteByIDs deletes the given questions of a survey; options cascade. The
// survey_id guard keeps a stray id from touching another survey.
func (q *QuestionPostgreSQL) DeleteByIDs(ctx context.Context, tx *gorm.DB, surveyID uint, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := q.getDB(tx).WithContext(ctx).
		Where("survey_id = ? AND id IN ?", surveyID, ids).
		Delete(&models.Question{}).Error; err != nil {
		return fmt.Errorf("failed to delete questions: %w", err)
	}
	return nil
}

func (q *QuestionPostgreSQL) GetBySurvey(ctx context.Context, tx *gorm.DB, surveyID uint) ([]*models.Question, error) {
	var questions []*models.Question
	err := q.getDB(tx).WithContext(ctx).
		Where("survey_id = ?", surveyID).
		Order("\"order\" ASC, id ASC").
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("answer_options.order ASC, answer_options.id ASC")
		}).
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get survey questions: %w", err)
	}
	return questions, nil
}

// AnswerOptionPostgreSQL persists answer options of a question
type AnswerOptionPostgreSQL struct {
	db *gorm.DB
}

func NewAnswerOptionPostgreSQL(db *gorm.DB) repositories.AnswerOptionRepository {
	return &AnswerOptionPostgreSQL{db: db}
}

func (o *AnswerOptionPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return o.db
}

func (o *AnswerOptionPostgreSQL) Create(ctx context.Context, tx *gorm.DB, option *models.AnswerOption) error {
	if err := o.getDB(tx).WithContext(ctx).Create(option).Error; err != nil {
		return fmt.Errorf("failed to create answer option: %w", err)
	}
	return nil
}

func (o *AnswerOptionPostgreSQL) Update(ctx context.Context, tx *gorm.DB, option *models.AnswerOption) error {
	if err := o.getDB(tx).WithContext(ctx).Model(&models.AnswerOption{}).
		Where("id = ? AND question_id = ?", option.ID, option.QuestionID).
		Updates(map[string]interface{}{
			"text":       option.Text,
			"order":      option.Order,
			"is_other":   option.IsOther,
			"updated_at": option.UpdatedAt,
		}).Error; err != nil {
		return fmt.Errorf("failed to update answer option: %w", err)
	}
	return nil
}

func (o *AnswerOptionPostgreSQL) DeleteByIDs(ctx context.Context, tx *gorm.DB, questionID uint, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := o.getDB(tx).WithContext(ctx).
		Where("question_id = ? AND id IN ?", questionID, ids).
		Delete(&models.AnswerOption{}).Error; err != nil {
		return fmt.Errorf("failed to delete answer options: %w", err)
	}
	return nil
}
