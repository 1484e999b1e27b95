package services

import (
	"strings"
	"testing"

	"github.com/surveyforge/survey-service/internal/models"
	"github.com/surveyforge/survey-service/internal/validator"
)

func submissionQuestions() []models.Question {
	return []models.Question{
		{ID: 1, Type: models.ShortText, IsRequired: true},
		{ID: 2, Type: models.SingleChoice, IsRequired: true, Options: []models.AnswerOption{
			{ID: 10, QuestionID: 2}, {ID: 11, QuestionID: 2},
		}},
		{ID: 3, Type: models.MultipleChoice, Options: []models.AnswerOption{
			{ID: 20, QuestionID: 3}, {ID: 21, QuestionID: 3},
		}},
	}
}

func TestBuildResponseAnswers(t *testing.T) {
	t.Run("valid submission", func(t *testing.T) {
		rows, dropped, errs := buildResponseAnswers(submissionQuestions(), map[uint]AnswerPayload{
			1: {TextAnswer: "fine"},
			2: {SelectedOptionIDs: []uint{11}},
			3: {SelectedOptionIDs: []uint{20, 21}},
		})
		if len(errs) > 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if dropped != 0 {
			t.Errorf("expected no dropped ids, got %d", dropped)
		}
		if len(rows) != 4 {
			t.Errorf("expected 4 answer rows, got %d", len(rows))
		}
	})

	t.Run("required failures accumulate across questions", func(t *testing.T) {
		_, _, errs := buildResponseAnswers(submissionQuestions(), map[uint]AnswerPayload{
			3: {SelectedOptionIDs: []uint{20}},
		})
		if len(errs) != 2 {
			t.Fatalf("expected 2 required errors, got %d: %v", len(errs), errs)
		}
		fields := []string{errs[0].Field, errs[1].Field}
		if !contains(fields, "answers.1") || !contains(fields, "answers.2") {
			t.Errorf("expected errors for questions 1 and 2, got %v", fields)
		}
	})

	t.Run("foreign question ids are ignored", func(t *testing.T) {
		rows, dropped, errs := buildResponseAnswers(submissionQuestions(), map[uint]AnswerPayload{
			1:   {TextAnswer: "ok"},
			2:   {SelectedOptionIDs: []uint{10}},
			999: {TextAnswer: "does not belong here"},
		})
		if len(errs) > 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if dropped != 0 {
			t.Errorf("expected no dropped option ids, got %d", dropped)
		}
		for _, r := range rows {
			if r.QuestionID == 999 {
				t.Error("answer row created for a question the survey does not contain")
			}
		}
	})

	t.Run("foreign options on a required question drop silently", func(t *testing.T) {
		rows, dropped, errs := buildResponseAnswers(submissionQuestions(), map[uint]AnswerPayload{
			1: {TextAnswer: "ok"},
			2: {SelectedOptionIDs: []uint{20}}, // belongs to question 3
		})
		if len(errs) > 0 {
			t.Fatalf("dropped options must not produce errors, got %v", errs)
		}
		if dropped != 1 {
			t.Errorf("expected 1 dropped id, got %d", dropped)
		}
		for _, r := range rows {
			if r.QuestionID == 2 {
				t.Error("no answer row may survive for question 2")
			}
		}
		if len(rows) != 1 {
			t.Errorf("expected only the text answer row, got %d", len(rows))
		}
	})

	t.Run("whitespace text does not satisfy a required question", func(t *testing.T) {
		_, _, errs := buildResponseAnswers(submissionQuestions(), map[uint]AnswerPayload{
			1: {TextAnswer: "   "},
			2: {SelectedOptionIDs: []uint{10}},
		})
		if len(errs) != 1 || errs[0].Field != "answers.1" {
			t.Fatalf("expected a required error for question 1, got %v", errs)
		}
	})
}

func TestResolveRespondent(t *testing.T) {
	caller := "user-42"

	tests := []struct {
		name     string
		survey   *models.Survey
		callerID *string
		want     *string
	}{
		{"anonymous survey drops identity", &models.Survey{IsAnonymous: true}, &caller, nil},
		{"anonymous survey without caller", &models.Survey{IsAnonymous: true}, nil, nil},
		{"identified survey keeps caller", &models.Survey{IsAnonymous: false}, &caller, &caller},
		{"identified survey without caller", &models.Survey{IsAnonymous: false}, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveRespondent(tt.survey, tt.callerID)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("resolveRespondent() = %v, want %v", got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("resolveRespondent() = %q, want %q", *got, *tt.want)
			}
		})
	}
}

func TestBuildResponseMetadata(t *testing.T) {
	t.Run("empty request yields nil", func(t *testing.T) {
		if meta := buildResponseMetadata(&validator.SubmitResponseRequest{}); meta != nil {
			t.Errorf("expected nil metadata, got %s", meta)
		}
	})

	t.Run("captures ip and user agent", func(t *testing.T) {
		meta := buildResponseMetadata(&validator.SubmitResponseRequest{
			IPAddress: "203.0.113.9",
			UserAgent: "curl/8.0",
		})
		if meta == nil {
			t.Fatal("expected metadata")
		}
		if !strings.Contains(string(meta), "203.0.113.9") || !strings.Contains(string(meta), "curl/8.0") {
			t.Errorf("metadata incomplete: %s", meta)
		}
	})
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
