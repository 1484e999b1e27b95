package validator

import (
	"time"

	"github.com/surveyforge/survey-service/internal/models"
)

// SaveSurveyRequest is the full survey definition sent by the editor. Scalars
// replace the stored values wholesale; child collections are reconciled by id.
// A nil child slice means the same as an empty one: delete everything stored.
type SaveSurveyRequest struct {
	ID          *uint             `json:"id"`
	Title       string            `json:"title" validate:"required,survey_title"`
	Description string            `json:"description" validate:"max=2000"`
	Type        models.SurveyType `json:"type" validate:"omitempty,oneof=Questionnaire Poll"`
	IsPublished bool              `json:"is_published"`
	IsAnonymous bool              `json:"is_anonymous"`
	EndDate     *time.Time        `json:"end_date"`

	Theme    ThemeSettingsRequest    `json:"theme"`
	TestMode TestModeSettingsRequest `json:"test_mode"`

	Questions []SaveQuestionRequest `json:"questions" validate:"omitempty,dive"`
	Sections  []SaveSectionRequest  `json:"sections" validate:"omitempty,dive"`
	Media     []SaveMediaRequest    `json:"media" validate:"omitempty,dive"`
}

// SaveQuestionRequest carries one question definition. ID present means the
// client is editing a stored question; absent means a new one.
type SaveQuestionRequest struct {
	ID         *uint                     `json:"id"`
	Text       string                    `json:"text" validate:"required,min=1,max=2000"`
	Type       models.QuestionType       `json:"type" validate:"required,question_type"`
	IsRequired bool                      `json:"is_required"`
	Order      int                       `json:"order" validate:"min=0"`
	Options    []SaveAnswerOptionRequest `json:"options" validate:"omitempty,dive"`
}

type SaveAnswerOptionRequest struct {
	ID      *uint  `json:"id"`
	Text    string `json:"text" validate:"max=500"`
	Order   int    `json:"order" validate:"min=0"`
	IsOther bool   `json:"is_other"`
}

type SaveSectionRequest struct {
	ID          *uint   `json:"id"`
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Order       int     `json:"order" validate:"min=0"`
}

type SaveMediaRequest struct {
	ID          *uint            `json:"id"`
	Type        models.MediaType `json:"type" validate:"omitempty,oneof=Image Video"`
	URL         string           `json:"url" validate:"required,max=500"`
	Title       *string          `json:"title" validate:"omitempty,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	Order       int              `json:"order" validate:"min=0"`
	QuestionID  *uint            `json:"question_id"`
}

// ThemeSettingsRequest replaces the stored theme wholesale on every save.
// Zero-valued fields land on the survey defaults.
type ThemeSettingsRequest struct {
	ThemeColor         string `json:"theme_color" validate:"omitempty,max=20"`
	BackgroundColor    string `json:"background_color" validate:"omitempty,max=20"`
	HeaderImagePath    string `json:"header_image_path" validate:"omitempty,max=500"`
	HeaderFontFamily   string `json:"header_font_family" validate:"omitempty,max=100"`
	HeaderFontSize     int    `json:"header_font_size" validate:"omitempty,min=8,max=96"`
	QuestionFontFamily string `json:"question_font_family" validate:"omitempty,max=100"`
	QuestionFontSize   int    `json:"question_font_size" validate:"omitempty,min=8,max=96"`
	TextFontFamily     string `json:"text_font_family" validate:"omitempty,max=100"`
	TextFontSize       int    `json:"text_font_size" validate:"omitempty,min=8,max=96"`
}

// TestModeSettingsRequest replaces the stored test-mode settings wholesale on
// every save.
type TestModeSettingsRequest struct {
	IsTestMode           bool                        `json:"is_test_mode"`
	GradePublication     models.GradePublicationType `json:"grade_publication" validate:"omitempty,oneof=Immediately AfterManualReview"`
	ShowIncorrectAnswers bool                        `json:"show_incorrect_answers"`
	ShowCorrectAnswers   bool                        `json:"show_correct_answers"`
	ShowPoints           bool                        `json:"show_points"`
	DefaultMaxPoints     int                         `json:"default_max_points" validate:"omitempty,min=1,max=100"`
}

// AnswerPayload is the raw per-question answer of a submission. Text question
// types read TextAnswer, choice types read SelectedOptionIDs; the irrelevant
// field is ignored.
type AnswerPayload struct {
	TextAnswer        string `json:"text_answer"`
	SelectedOptionIDs []uint `json:"selected_option_ids"`
}

// SubmitResponseRequest is one respondent submission keyed by question id.
type SubmitResponseRequest struct {
	SurveyID uint                    `json:"survey_id" validate:"required"`
	Answers  map[uint]AnswerPayload  `json:"answers"`

	// Captured by the handler, stored as response metadata.
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}
