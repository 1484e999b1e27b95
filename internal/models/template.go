package models

import "time"

// SurveyTemplate is a read-mostly blueprint a creator can instantiate into a
// fresh unpublished survey. Template questions and options are copied, never
// shared, so later edits to the survey leave the template untouched.
type SurveyTemplate struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Title       string     `json:"title" gorm:"not null;size:200"`
	Description string     `json:"description" gorm:"not null;default:'';type:text"`
	Type        SurveyType `json:"type" gorm:"default:Questionnaire;size:30"`
	CreatedAt   time.Time  `json:"created_at"`

	Questions []TemplateQuestion `json:"questions" gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE"`
}

type TemplateQuestion struct {
	ID         uint         `json:"id" gorm:"primaryKey"`
	TemplateID uint         `json:"template_id" gorm:"not null;index"`
	Text       string       `json:"text" gorm:"not null;type:text"`
	Type       QuestionType `json:"type" gorm:"not null;size:30"`
	IsRequired bool         `json:"is_required" gorm:"not null;default:false"`
	Order      int          `json:"order" gorm:"not null;default:0"`

	Options []TemplateOption `json:"options" gorm:"foreignKey:TemplateQuestionID;constraint:OnDelete:CASCADE"`
}

type TemplateOption struct {
	ID                 uint   `json:"id" gorm:"primaryKey"`
	TemplateQuestionID uint   `json:"template_question_id" gorm:"not null;index"`
	Text               string `json:"text" gorm:"not null;type:text"`
	Order              int    `json:"order" gorm:"not null;default:0"`
}

func (SurveyTemplate) TableName() string {
	return "survey_templates"
}

func (TemplateQuestion) TableName() string {
	return "template_questions"
}

func (TemplateOption) TableName() string {
	return "template_options"
}
