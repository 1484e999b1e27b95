package services

import (
	"testing"
	"time"

	"github.com/surveyforge/survey-service/internal/models"
)

func exportSurvey() *models.Survey {
	submitted := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	respondent := "user-7"

	return &models.Survey{
		ID:    1,
		Title: "Team check-in",
		Questions: []models.Question{
			{ID: 1, Text: "Comments", Type: models.ShortText},
			{ID: 2, Text: "Toppings", Type: models.MultipleChoice, Options: []models.AnswerOption{
				{ID: 10, Text: "Cheese"},
				{ID: 11, Text: "Olives"},
			}},
		},
		Responses: []models.SurveyResponse{
			{
				ID:          100,
				SubmittedAt: submitted,
				Answers: []models.UserAnswer{
					{QuestionID: 1, TextAnswer: strPtr("all good")},
					{QuestionID: 2, SelectedOptionID: uintPtr(10)},
					{QuestionID: 2, SelectedOptionID: uintPtr(11)},
				},
			},
			{
				ID:           101,
				RespondentID: &respondent,
				SubmittedAt:  submitted.Add(time.Hour),
				Answers: []models.UserAnswer{
					{QuestionID: 2, SelectedOptionID: uintPtr(11)},
				},
			},
		},
	}
}

func TestBuildExportRows(t *testing.T) {
	rows := buildExportRows(exportSurvey())

	if len(rows) != 3 {
		t.Fatalf("expected header + 2 responses, got %d rows", len(rows))
	}

	header := rows[0]
	if header[0] != "Response ID" || header[3] != "Comments" || header[4] != "Toppings" {
		t.Errorf("unexpected header: %v", header)
	}

	first := rows[1]
	if first[0] != "100" {
		t.Errorf("expected response id 100, got %q", first[0])
	}
	if first[2] != "anonymous" {
		t.Errorf("nil respondent must export as anonymous, got %q", first[2])
	}
	if first[3] != "all good" {
		t.Errorf("text answer cell = %q", first[3])
	}
	if first[4] != "Cheese; Olives" {
		t.Errorf("multi-choice cell = %q, want joined option texts", first[4])
	}

	second := rows[2]
	if second[2] != "user-7" {
		t.Errorf("respondent cell = %q", second[2])
	}
	if second[3] != "" {
		t.Errorf("unanswered question must export empty, got %q", second[3])
	}
	if second[4] != "Olives" {
		t.Errorf("single selection cell = %q", second[4])
	}
}

func TestBuildExportRows_NoResponses(t *testing.T) {
	survey := exportSurvey()
	survey.Responses = nil

	rows := buildExportRows(survey)
	if len(rows) != 1 {
		t.Fatalf("expected header only, got %d rows", len(rows))
	}
}
