package services

import (
	"testing"

	"github.com/surveyforge/survey-service/internal/models"
	"github.com/surveyforge/survey-service/internal/validator"
)

func choiceQuestion(t models.QuestionType, optionIDs ...uint) *models.Question {
	q := &models.Question{ID: 1, Type: t}
	for i, id := range optionIDs {
		q.Options = append(q.Options, models.AnswerOption{ID: id, QuestionID: q.ID, Order: i + 1})
	}
	return q
}

func TestBehaviorFor_HasAnswer(t *testing.T) {
	tests := []struct {
		name    string
		qtype   models.QuestionType
		payload validator.AnswerPayload
		want    bool
	}{
		{"short text with value", models.ShortText, validator.AnswerPayload{TextAnswer: "hello"}, true},
		{"short text whitespace only", models.ShortText, validator.AnswerPayload{TextAnswer: "   "}, false},
		{"paragraph empty", models.ParagraphText, validator.AnswerPayload{}, false},
		{"single choice with selection", models.SingleChoice, validator.AnswerPayload{SelectedOptionIDs: []uint{5}}, true},
		{"single choice empty", models.SingleChoice, validator.AnswerPayload{}, false},
		{"multiple choice with selections", models.MultipleChoice, validator.AnswerPayload{SelectedOptionIDs: []uint{1, 2}}, true},
		{"scale with selection", models.Scale, validator.AnswerPayload{SelectedOptionIDs: []uint{3}}, true},
		{"unknown type never answered", models.QuestionType("Matrix"), validator.AnswerPayload{TextAnswer: "x"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := behaviorFor(tt.qtype).hasAnswer(tt.payload); got != tt.want {
				t.Errorf("hasAnswer() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildChoiceAnswers_DropsForeignOptions(t *testing.T) {
	q := choiceQuestion(models.MultipleChoice, 10, 11, 12)

	answers, dropped := buildChoiceAnswers(q, validator.AnswerPayload{
		SelectedOptionIDs: []uint{10, 99, 12, 100},
	})

	if len(answers) != 2 {
		t.Fatalf("expected 2 answer rows, got %d", len(answers))
	}
	if dropped != 2 {
		t.Errorf("expected 2 dropped ids, got %d", dropped)
	}
	if *answers[0].SelectedOptionID != 10 || *answers[1].SelectedOptionID != 12 {
		t.Errorf("unexpected option ids: %d, %d", *answers[0].SelectedOptionID, *answers[1].SelectedOptionID)
	}
}

func TestSingleSelectBehavior_OnlyFirstOwnedCounts(t *testing.T) {
	q := choiceQuestion(models.SingleChoice, 20, 21)

	t.Run("first owned id wins", func(t *testing.T) {
		answers, dropped := behaviorFor(models.SingleChoice).buildAnswers(q, validator.AnswerPayload{
			SelectedOptionIDs: []uint{21, 20},
		})
		if len(answers) != 1 {
			t.Fatalf("expected 1 answer row, got %d", len(answers))
		}
		if *answers[0].SelectedOptionID != 21 {
			t.Errorf("expected option 21, got %d", *answers[0].SelectedOptionID)
		}
		if dropped != 0 {
			t.Errorf("expected no dropped ids, got %d", dropped)
		}
	})

	t.Run("foreign id before owned id", func(t *testing.T) {
		answers, dropped := behaviorFor(models.Dropdown).buildAnswers(q, validator.AnswerPayload{
			SelectedOptionIDs: []uint{99, 20},
		})
		if len(answers) != 1 {
			t.Fatalf("expected 1 answer row, got %d", len(answers))
		}
		if *answers[0].SelectedOptionID != 20 {
			t.Errorf("expected option 20, got %d", *answers[0].SelectedOptionID)
		}
		if dropped != 1 {
			t.Errorf("expected 1 dropped id, got %d", dropped)
		}
	})
}

func TestTextBehavior_TrimsAnswer(t *testing.T) {
	q := &models.Question{ID: 2, Type: models.ShortText}

	answers, dropped := behaviorFor(models.ShortText).buildAnswers(q, validator.AnswerPayload{
		TextAnswer: "  an answer  ",
	})

	if dropped != 0 {
		t.Errorf("expected no dropped ids, got %d", dropped)
	}
	if len(answers) != 1 {
		t.Fatalf("expected 1 answer row, got %d", len(answers))
	}
	if *answers[0].TextAnswer != "an answer" {
		t.Errorf("expected trimmed answer, got %q", *answers[0].TextAnswer)
	}
}

func TestAggregateOptionCounts_KeepsZeroesAndIgnoresUnseeded(t *testing.T) {
	q := choiceQuestion(models.MultipleChoice, 1, 2, 3)
	result := computeQuestionResult(q, []models.UserAnswer{
		{QuestionID: 1, SelectedOptionID: uintPtr(1)},
		{QuestionID: 1, SelectedOptionID: uintPtr(1)},
		{QuestionID: 1, SelectedOptionID: uintPtr(3)},
		{QuestionID: 1, SelectedOptionID: uintPtr(77)}, // stale row, option deleted since
	})

	if result.OptionCounts[1] != 2 || result.OptionCounts[2] != 0 || result.OptionCounts[3] != 1 {
		t.Errorf("unexpected counts: %v", result.OptionCounts)
	}
	if _, ok := result.OptionCounts[77]; ok {
		t.Error("unseeded option must not appear in counts")
	}
}

func TestAggregateScale(t *testing.T) {
	q := choiceQuestion(models.Scale, 1, 2, 3, 4, 5) // orders 1..5

	t.Run("averages option orders", func(t *testing.T) {
		result := computeQuestionResult(q, []models.UserAnswer{
			{QuestionID: 1, SelectedOptionID: uintPtr(2)}, // order 2
			{QuestionID: 1, SelectedOptionID: uintPtr(5)}, // order 5
		})
		if result.AverageScore != 3.5 {
			t.Errorf("expected average 3.5, got %v", result.AverageScore)
		}
		if result.OptionCounts[2] != 1 || result.OptionCounts[5] != 1 {
			t.Errorf("unexpected counts: %v", result.OptionCounts)
		}
	})

	t.Run("no answers means zero average", func(t *testing.T) {
		result := computeQuestionResult(q, nil)
		if result.AverageScore != 0 {
			t.Errorf("expected zero average, got %v", result.AverageScore)
		}
	})

	t.Run("orders of zero do not contribute", func(t *testing.T) {
		scale := &models.Question{ID: 9, Type: models.Scale, Options: []models.AnswerOption{
			{ID: 50, Order: 0},
			{ID: 51, Order: 2},
		}}
		result := computeQuestionResult(scale, []models.UserAnswer{
			{QuestionID: 9, SelectedOptionID: uintPtr(50)},
			{QuestionID: 9, SelectedOptionID: uintPtr(51)},
		})
		if result.AverageScore != 2 {
			t.Errorf("expected average 2, got %v", result.AverageScore)
		}
	})
}

func uintPtr(v uint) *uint { return &v }
