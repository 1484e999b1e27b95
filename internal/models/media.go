package models

import "time"

type MediaType string

const (
	MediaImage MediaType = "Image"
	MediaVideo MediaType = "Video"
)

type Media struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	SurveyID    uint      `json:"survey_id" gorm:"not null;index"`
	Type        MediaType `json:"type" gorm:"not null;size:20;default:Image" validate:"omitempty,oneof=Image Video"`
	URL         string    `json:"url" gorm:"not null;size:500" validate:"required,max=500"`
	Title       *string   `json:"title" gorm:"size:200" validate:"omitempty,max=200"`
	Description *string   `json:"description" gorm:"type:text" validate:"omitempty,max=2000"`
	Order       int       `json:"order" gorm:"not null;default:0"`

	// Optional attachment to a question. Cleared (not deleted) when the
	// question goes away.
	QuestionID *uint `json:"question_id" gorm:"index;constraint:OnDelete:SET NULL"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Media) TableName() string {
	return "media"
}
