package models

import (
	"time"
)

type SurveyType string

const (
	SurveyQuestionnaire SurveyType = "Questionnaire"
	SurveyPoll          SurveyType = "Poll"
)

type GradePublicationType string

const (
	GradeImmediately       GradePublicationType = "Immediately"
	GradeAfterManualReview GradePublicationType = "AfterManualReview"
)

type Survey struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Title       string     `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description string     `json:"description" gorm:"not null;default:'';type:text" validate:"max=2000"`
	Type        SurveyType `json:"type" gorm:"default:Questionnaire;size:30" validate:"omitempty,oneof=Questionnaire Poll"`
	IsPublished bool       `json:"is_published" gorm:"not null;default:false;index"`
	IsAnonymous bool       `json:"is_anonymous" gorm:"not null;default:true"`
	EndDate     *time.Time `json:"end_date"`

	// Theme settings
	ThemeColor         string  `json:"theme_color" gorm:"size:20;default:#673AB7"`
	BackgroundColor    string  `json:"background_color" gorm:"size:20;default:#F3E5F5"`
	HeaderImagePath    *string `json:"header_image_path" gorm:"size:500"`
	HeaderFontFamily   string  `json:"header_font_family" gorm:"size:100;default:Roboto"`
	HeaderFontSize     int     `json:"header_font_size" gorm:"default:24"`
	QuestionFontFamily string  `json:"question_font_family" gorm:"size:100;default:Roboto"`
	QuestionFontSize   int     `json:"question_font_size" gorm:"default:16"`
	TextFontFamily     string  `json:"text_font_family" gorm:"size:100;default:Roboto"`
	TextFontSize       int     `json:"text_font_size" gorm:"default:14"`

	// Test-mode settings
	IsTestMode           bool                 `json:"is_test_mode" gorm:"not null;default:false"`
	GradePublication     GradePublicationType `json:"grade_publication" gorm:"size:30;default:Immediately" validate:"omitempty,oneof=Immediately AfterManualReview"`
	ShowIncorrectAnswers bool                 `json:"show_incorrect_answers" gorm:"not null;default:false"`
	ShowCorrectAnswers   bool                 `json:"show_correct_answers" gorm:"not null;default:false"`
	ShowPoints           bool                 `json:"show_points" gorm:"not null;default:false"`
	DefaultMaxPoints     int                  `json:"default_max_points" gorm:"default:1"`

	// Metadata
	CreatorID string    `json:"creator_id" gorm:"not null;index;size:255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Version counter, diagnostic only. Writes are last-write-wins.
	Version int `json:"version" gorm:"default:1"`

	// Relations
	Questions []Question       `json:"questions" gorm:"foreignKey:SurveyID;constraint:OnDelete:CASCADE"`
	Sections  []Section        `json:"sections" gorm:"foreignKey:SurveyID;constraint:OnDelete:CASCADE"`
	Media     []Media          `json:"media" gorm:"foreignKey:SurveyID;constraint:OnDelete:CASCADE"`
	Responses []SurveyResponse `json:"-" gorm:"foreignKey:SurveyID;constraint:OnDelete:CASCADE"`
	Creator   User             `json:"creator" gorm:"foreignKey:CreatorID"`

	// Computed fields (not stored)
	QuestionsCount int   `json:"questions_count" gorm:"-"`
	ResponsesCount int64 `json:"responses_count" gorm:"-"`
}

func (Survey) TableName() string {
	return "surveys"
}
