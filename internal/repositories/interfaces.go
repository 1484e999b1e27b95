package repositories

import (
	"time"

	"github.com/surveyforge/survey-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type SurveyFilters struct {
	CreatorID   *string            `json:"creator_id"`
	IsPublished *bool              `json:"is_published"`
	Type        *models.SurveyType `json:"type"`
	Search      string             `json:"search"`
	Limit       int                `json:"limit"`
	Offset      int                `json:"offset"`
	SortBy      string             `json:"sort_by"`    // "created_at", "title", "updated_at"
	SortOrder   string             `json:"sort_order"` // "asc", "desc"
}

type ResponseFilters struct {
	RespondentID *string    `json:"respondent_id"`
	DateFrom     *time.Time `json:"date_from"`
	DateTo       *time.Time `json:"date_to"`
	Limit        int        `json:"limit"`
	Offset       int        `json:"offset"`
}

// UserFilters defines filters for user queries
type UserFilters struct {
	Query  string // Search query for name or email
	Limit  int    // Page size
	Offset int    // Offset for pagination
}

// ===== SHARED STATISTICS STRUCTS =====

type CreatorStats struct {
	TotalSurveys      int64 `json:"total_surveys"`
	PublishedSurveys  int64 `json:"published_surveys"`
	DraftSurveys      int64 `json:"draft_surveys"`
	TotalResponses    int64 `json:"total_responses"`
	ResponsesLastWeek int64 `json:"responses_last_week"`
}

type SurveyActivity struct {
	SurveyID    uint      `json:"survey_id"`
	Title       string    `json:"title"`
	IsPublished bool      `json:"is_published"`
	Responses   int64     `json:"responses"`
	LastAnswer  time.Time `json:"last_answer"`
}
