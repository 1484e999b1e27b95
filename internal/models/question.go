package models

import "time"

type QuestionType string

const (
	ShortText      QuestionType = "ShortText"
	ParagraphText  QuestionType = "ParagraphText"
	SingleChoice   QuestionType = "SingleChoice"
	MultipleChoice QuestionType = "MultipleChoice"
	Dropdown       QuestionType = "Dropdown"
	Scale          QuestionType = "Scale"
)

type Question struct {
	ID         uint         `json:"id" gorm:"primaryKey"`
	SurveyID   uint         `json:"survey_id" gorm:"not null;index"`
	Text       string       `json:"text" gorm:"not null;type:text" validate:"required,min=1"`
	Type       QuestionType `json:"type" gorm:"not null;size:30" validate:"required"`
	IsRequired bool         `json:"is_required" gorm:"not null;default:false"`
	Order      int          `json:"order" gorm:"not null;default:0;index"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`

	// Relations
	Options []AnswerOption `json:"options" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
}

// AnswerOption is one selectable choice of a choice-type question.
type AnswerOption struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	QuestionID uint      `json:"question_id" gorm:"not null;index"`
	Text       string    `json:"text" gorm:"not null;type:text"`
	Order      int       `json:"order" gorm:"not null;default:0"`
	IsOther    bool      `json:"is_other" gorm:"not null;default:false"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UsesOptions reports whether this question type carries answer options.
func (t QuestionType) UsesOptions() bool {
	switch t {
	case SingleChoice, MultipleChoice, Dropdown, Scale:
		return true
	}
	return false
}

func (Question) TableName() string {
	return "questions"
}

func (AnswerOption) TableName() string {
	return "answer_options"
}
