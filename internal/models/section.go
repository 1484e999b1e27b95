package models

import "time"

// Section groups questions visually when a survey is rendered. Sections do not
// own questions; ordering interleaves them with questions by Order.
type Section struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	SurveyID    uint      `json:"survey_id" gorm:"not null;index"`
	Title       string    `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Description *string   `json:"description" gorm:"type:text" validate:"omitempty,max=2000"`
	Order       int       `json:"order" gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Section) TableName() string {
	return "sections"
}
