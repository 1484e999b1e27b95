package services

import (
	"reflect"
	"testing"

	"github.com/surveyforge/survey-service/internal/models"
)

func TestAnswersByQuestion(t *testing.T) {
	responses := []models.SurveyResponse{
		{ID: 1, Answers: []models.UserAnswer{
			{QuestionID: 1, TextAnswer: strPtr("first")},
			{QuestionID: 2, SelectedOptionID: uintPtr(10)},
		}},
		{ID: 2, Answers: []models.UserAnswer{
			{QuestionID: 1, TextAnswer: strPtr("second")},
		}},
	}

	byQuestion := answersByQuestion(responses)

	if len(byQuestion[1]) != 2 {
		t.Errorf("expected 2 answers for question 1, got %d", len(byQuestion[1]))
	}
	if *byQuestion[1][0].TextAnswer != "first" || *byQuestion[1][1].TextAnswer != "second" {
		t.Error("submission order not preserved")
	}
	if len(byQuestion[2]) != 1 {
		t.Errorf("expected 1 answer for question 2, got %d", len(byQuestion[2]))
	}
}

func TestComputeQuestionResult_Text(t *testing.T) {
	q := &models.Question{ID: 1, Text: "How was it?", Type: models.ParagraphText}

	result := computeQuestionResult(q, []models.UserAnswer{
		{QuestionID: 1, TextAnswer: strPtr("good")},
		{QuestionID: 1, TextAnswer: strPtr("good")},
		{QuestionID: 1, TextAnswer: strPtr("bad")},
	})

	want := []string{"good", "good", "bad"}
	if !reflect.DeepEqual(result.TextAnswers, want) {
		t.Errorf("TextAnswers = %v, want %v (duplicates kept, order kept)", result.TextAnswers, want)
	}
	if result.OptionCounts != nil {
		t.Error("text questions carry no option counts")
	}
}

func TestComputeQuestionResult_ChoiceSeedsAllOptions(t *testing.T) {
	q := &models.Question{ID: 2, Type: models.SingleChoice, Options: []models.AnswerOption{
		{ID: 10, Text: "Yes", Order: 1},
		{ID: 11, Text: "No", Order: 2},
		{ID: 12, Text: "Maybe", Order: 3},
	}}

	result := computeQuestionResult(q, []models.UserAnswer{
		{QuestionID: 2, SelectedOptionID: uintPtr(10)},
	})

	if len(result.OptionCounts) != 3 {
		t.Fatalf("expected all 3 options seeded, got %v", result.OptionCounts)
	}
	if result.OptionCounts[10] != 1 || result.OptionCounts[11] != 0 || result.OptionCounts[12] != 0 {
		t.Errorf("unexpected counts: %v", result.OptionCounts)
	}
	if result.OptionTexts[12] != "Maybe" {
		t.Errorf("option texts incomplete: %v", result.OptionTexts)
	}
	if !reflect.DeepEqual(result.OptionOrder, []uint{10, 11, 12}) {
		t.Errorf("option order = %v", result.OptionOrder)
	}
}

func strPtr(s string) *string { return &s }
