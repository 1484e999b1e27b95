package validator

import (
	"testing"
	"time"

	"github.com/surveyforge/survey-service/internal/models"
)

func validSaveRequest() *SaveSurveyRequest {
	return &SaveSurveyRequest{
		Title: "Customer feedback",
		Type:  models.SurveyQuestionnaire,
		Questions: []SaveQuestionRequest{
			{Text: "Any comments?", Type: models.ParagraphText, Order: 1},
			{Text: "Rate us", Type: models.Scale, Order: 2, Options: []SaveAnswerOptionRequest{
				{Text: "1", Order: 1},
				{Text: "5", Order: 5},
			}},
		},
	}
}

func hasErrorForField(errs ValidationErrors, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

func TestValidateSurveySave(t *testing.T) {
	bv := NewBusinessValidator()

	t.Run("valid definition passes", func(t *testing.T) {
		if errs := bv.ValidateSurveySave(validSaveRequest()); len(errs) > 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
	})

	t.Run("blank title fails", func(t *testing.T) {
		req := validSaveRequest()
		req.Title = "   "
		errs := bv.ValidateSurveySave(req)
		if len(errs) == 0 {
			t.Fatal("expected a title error")
		}
	})

	t.Run("past end date fails", func(t *testing.T) {
		req := validSaveRequest()
		past := time.Now().Add(-time.Hour)
		req.EndDate = &past
		errs := bv.ValidateSurveySave(req)
		if !hasErrorForField(errs, "end_date") {
			t.Fatalf("expected end_date error, got %v", errs)
		}
	})

	t.Run("choice question without options fails", func(t *testing.T) {
		req := validSaveRequest()
		req.Questions = append(req.Questions, SaveQuestionRequest{
			Text: "Pick one", Type: models.SingleChoice, Order: 3,
		})
		errs := bv.ValidateSurveySave(req)
		if !hasErrorForField(errs, "questions[2].options") {
			t.Fatalf("expected options error, got %v", errs)
		}
	})

	t.Run("text question with options fails", func(t *testing.T) {
		req := validSaveRequest()
		req.Questions[0].Options = []SaveAnswerOptionRequest{{Text: "stray", Order: 1}}
		errs := bv.ValidateSurveySave(req)
		if !hasErrorForField(errs, "questions[0].options") {
			t.Fatalf("expected options error, got %v", errs)
		}
	})

	t.Run("empty option text fails unless marked other", func(t *testing.T) {
		req := validSaveRequest()
		req.Questions[1].Options[0].Text = "  "
		errs := bv.ValidateSurveySave(req)
		if !hasErrorForField(errs, "questions[1].options[0].text") {
			t.Fatalf("expected option text error, got %v", errs)
		}

		req.Questions[1].Options[0].IsOther = true
		if errs := bv.ValidateSurveySave(req); len(errs) > 0 {
			t.Fatalf("an 'other' option may be blank, got %v", errs)
		}
	})

	t.Run("unknown question type fails", func(t *testing.T) {
		req := validSaveRequest()
		req.Questions[0].Type = models.QuestionType("Matrix")
		errs := bv.ValidateSurveySave(req)
		if len(errs) == 0 {
			t.Fatal("expected a question type error")
		}
	})
}

func TestValidatePublish(t *testing.T) {
	bv := NewBusinessValidator()

	tests := []struct {
		name          string
		isPublished   bool
		questionCount int
		wantErrors    int
	}{
		{"draft with questions publishes", false, 3, 0},
		{"already published", true, 3, 1},
		{"no questions", false, 0, 1},
		{"published and empty", true, 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := bv.ValidatePublish(tt.isPublished, tt.questionCount)
			if len(errs) != tt.wantErrors {
				t.Errorf("got %d errors, want %d: %v", len(errs), tt.wantErrors, errs)
			}
		})
	}
}
