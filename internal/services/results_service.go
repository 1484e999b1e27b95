package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/surveyforge/survey-service/internal/models"
	"github.com/surveyforge/survey-service/internal/repositories"
)

type resultsService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewResultsService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) ResultsService {
	return &resultsService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

// ComputeResults aggregates every response of the survey into per-question
// summaries. Only the owner may see them.
func (s *resultsService) ComputeResults(ctx context.Context, surveyID uint, ownerID string) (*ResultsSummary, error) {
	survey, err := s.repo.Survey().GetWithResponses(ctx, s.db, surveyID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewPermissionError(ownerID, surveyID, "survey", "read results", "survey does not exist or belongs to another user")
		}
		return nil, fmt.Errorf("failed to load survey with responses: %w", err)
	}
	if survey.CreatorID != ownerID {
		return nil, NewPermissionError(ownerID, surveyID, "survey", "read results", "survey does not exist or belongs to another user")
	}

	byQuestion := answersByQuestion(survey.Responses)

	results := make([]QuestionResult, 0, len(survey.Questions))
	for i := range survey.Questions {
		q := &survey.Questions[i]
		results = append(results, computeQuestionResult(q, byQuestion[q.ID]))
	}

	return &ResultsSummary{
		SurveyID:       survey.ID,
		Title:          survey.Title,
		TotalResponses: len(survey.Responses),
		Questions:      results,
	}, nil
}

// answersByQuestion flattens all responses into per-question answer rows,
// preserving submission order.
func answersByQuestion(responses []models.SurveyResponse) map[uint][]models.UserAnswer {
	byQuestion := make(map[uint][]models.UserAnswer)
	for _, r := range responses {
		for _, a := range r.Answers {
			byQuestion[a.QuestionID] = append(byQuestion[a.QuestionID], a)
		}
	}
	return byQuestion
}

// computeQuestionResult builds one question's summary. Option-bearing types
// are pre-seeded with a zero count for every option, so options nobody picked
// still show up.
func computeQuestionResult(q *models.Question, answers []models.UserAnswer) QuestionResult {
	result := QuestionResult{
		QuestionID: q.ID,
		Text:       q.Text,
		Type:       q.Type,
	}

	if q.Type.UsesOptions() {
		result.OptionCounts = make(map[uint]int, len(q.Options))
		result.OptionTexts = make(map[uint]string, len(q.Options))
		result.OptionOrder = make([]uint, 0, len(q.Options))
		for _, o := range q.Options {
			result.OptionCounts[o.ID] = 0
			result.OptionTexts[o.ID] = o.Text
			result.OptionOrder = append(result.OptionOrder, o.ID)
		}
	}

	behaviorFor(q.Type).aggregate(q, answers, &result)
	return result
}
