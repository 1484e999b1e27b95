package models

import (
	"time"

	"gorm.io/datatypes"
)

// SurveyResponse is one completed submission. RespondentID stays nil for
// anonymous surveys even when the caller was authenticated.
type SurveyResponse struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	SurveyID     uint           `json:"survey_id" gorm:"not null;index"`
	RespondentID *string        `json:"respondent_id" gorm:"index;size:255"`
	SubmittedAt  time.Time      `json:"submitted_at" gorm:"not null;index"`
	Metadata     datatypes.JSON `json:"metadata" gorm:"type:jsonb"`

	// Relations
	Answers []UserAnswer `json:"answers" gorm:"foreignKey:ResponseID;constraint:OnDelete:CASCADE"`
}

// UserAnswer is one answer row. Text questions fill TextAnswer; choice
// questions fill SelectedOptionID, one row per selected option.
type UserAnswer struct {
	ID               uint    `json:"id" gorm:"primaryKey"`
	ResponseID       uint    `json:"response_id" gorm:"not null;index"`
	QuestionID       uint    `json:"question_id" gorm:"not null;index"`
	TextAnswer       *string `json:"text_answer" gorm:"type:text"`
	SelectedOptionID *uint   `json:"selected_option_id" gorm:"index"`

	// Relations
	SelectedOption *AnswerOption `json:"selected_option,omitempty" gorm:"foreignKey:SelectedOptionID"`
}

func (SurveyResponse) TableName() string {
	return "survey_responses"
}

func (UserAnswer) TableName() string {
	return "user_answers"
}
