package services

import (
	"context"
	"time"

	"github.com/surveyforge/survey-service/internal/models"
	"github.com/surveyforge/survey-service/internal/repositories"
	"github.com/surveyforge/survey-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type SaveSurveyRequest = validator.SaveSurveyRequest
type SaveQuestionRequest = validator.SaveQuestionRequest
type SaveAnswerOptionRequest = validator.SaveAnswerOptionRequest
type SaveSectionRequest = validator.SaveSectionRequest
type SaveMediaRequest = validator.SaveMediaRequest
type ThemeSettingsRequest = validator.ThemeSettingsRequest
type TestModeSettingsRequest = validator.TestModeSettingsRequest
type SubmitResponseRequest = validator.SubmitResponseRequest
type AnswerPayload = validator.AnswerPayload

type SurveyView struct {
	*models.Survey
	CanEdit   bool `json:"can_edit"`
	CanDelete bool `json:"can_delete"`
}

type SurveyListResponse struct {
	Surveys []*SurveyView `json:"surveys"`
	Total   int64         `json:"total"`
	Page    int           `json:"page"`
	Size    int           `json:"size"`
}

type SubmitResponseResult struct {
	ResponseID  uint      `json:"response_id"`
	SurveyID    uint      `json:"survey_id"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// ===== RESULTS DTOs =====

// QuestionResult is one question's aggregated summary. OptionCounts carries
// every option of the question, zero included; TextAnswers keeps duplicates
// in submission order.
type QuestionResult struct {
	QuestionID   uint                `json:"question_id"`
	Text         string              `json:"text"`
	Type         models.QuestionType `json:"type"`
	OptionCounts map[uint]int        `json:"option_counts,omitempty"`
	OptionTexts  map[uint]string     `json:"option_texts,omitempty"`
	OptionOrder  []uint              `json:"option_order,omitempty"`
	TextAnswers  []string            `json:"text_answers,omitempty"`
	AverageScore float64             `json:"average_score"`
}

type ResultsSummary struct {
	SurveyID       uint             `json:"survey_id"`
	Title          string           `json:"title"`
	TotalResponses int              `json:"total_responses"`
	Questions      []QuestionResult `json:"questions"`
}

// ===== EXPORT DTOs =====

type ExportResult struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

// ===== DASHBOARD DTOs =====

type DashboardSummary struct {
	Stats    *repositories.CreatorStats    `json:"stats"`
	Activity []repositories.SurveyActivity `json:"activity"`
}

// ===== SERVICE INTERFACES =====

// SurveyService owns the survey definition lifecycle: save (create or full
// reconcile), reads for editing and public delivery, publication, templates
// and deletion. Caller identity is always an explicit parameter.
type SurveyService interface {
	Save(ctx context.Context, req *SaveSurveyRequest, ownerID string) (uint, error)
	GetForEdit(ctx context.Context, id uint, ownerID string) (*SurveyView, error)
	GetPublished(ctx context.Context, id uint) (*models.Survey, error)
	ListByOwner(ctx context.Context, ownerID string, filters repositories.SurveyFilters) (*SurveyListResponse, error)
	Delete(ctx context.Context, id uint, ownerID string) error

	Publish(ctx context.Context, id uint, ownerID string) error
	Unpublish(ctx context.Context, id uint, ownerID string) error

	ListTemplates(ctx context.Context) ([]*models.SurveyTemplate, error)
	CreateFromTemplate(ctx context.Context, templateID uint, ownerID string) (uint, error)
}

// ResponseService ingests submissions against published surveys.
// callerID is nil for unauthenticated respondents.
type ResponseService interface {
	Submit(ctx context.Context, req *SubmitResponseRequest, callerID *string) (*SubmitResponseResult, error)
}

// ResultsService aggregates submissions into per-question summaries.
type ResultsService interface {
	ComputeResults(ctx context.Context, surveyID uint, ownerID string) (*ResultsSummary, error)
}

// ExportService projects raw responses into downloadable files.
type ExportService interface {
	ExportCSV(ctx context.Context, surveyID uint, ownerID string) (*ExportResult, error)
	ExportXLSX(ctx context.Context, surveyID uint, ownerID string) (*ExportResult, error)
}

// EventService publishes domain events. Publishing failures are logged and
// never propagate to the request path.
type EventService interface {
	SurveyPublished(ctx context.Context, surveyID uint, ownerID string)
	ResponseSubmitted(ctx context.Context, surveyID, responseID uint)
	Close() error
}

// DashboardService serves creator-facing aggregate stats.
type DashboardService interface {
	GetSummary(ctx context.Context, ownerID string) (*DashboardSummary, error)
}

// ServiceManager wires and owns all services
type ServiceManager interface {
	Survey() SurveyService
	Response() ResponseService
	Results() ResultsService
	Export() ExportService
	Events() EventService
	Dashboard() DashboardService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
