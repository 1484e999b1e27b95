package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/surveyforge/survey-service/internal/models"
	"github.com/surveyforge/survey-service/internal/repositories"
	"github.com/surveyforge/survey-service/internal/validator"
)

type responseService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
	events EventService
}

func NewResponseService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, events EventService) ResponseService {
	return &responseService{
		repo:   repo,
		db:     db,
		logger: logger,
		events: events,
	}
}

// Submit ingests one submission against a published survey. Required-question
// failures are accumulated across the whole submission before anything is
// written; a valid submission persists the response row and its answer rows
// in one transaction.
func (s *responseService) Submit(ctx context.Context, req *SubmitResponseRequest, callerID *string) (*SubmitResponseResult, error) {
	s.logger.Info("Submitting response", "survey_id", req.SurveyID, "authenticated", callerID != nil)

	survey, err := s.repo.Survey().GetByIDWithDetails(ctx, s.db, req.SurveyID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSurveyNotFound
		}
		return nil, fmt.Errorf("failed to load survey: %w", err)
	}

	now := time.Now()
	if !survey.IsPublished {
		return nil, NewPublicationError(survey.ID, "survey is not accepting responses")
	}
	if survey.EndDate != nil && survey.EndDate.Before(now) {
		return nil, NewPublicationError(survey.ID, "survey has ended")
	}

	answers, dropped, errs := buildResponseAnswers(survey.Questions, req.Answers)
	if len(errs) > 0 {
		return nil, errs
	}
	if dropped > 0 {
		s.logger.Debug("Dropped foreign option ids from submission",
			"survey_id", survey.ID, "dropped", dropped)
	}

	response := &models.SurveyResponse{
		SurveyID:     survey.ID,
		RespondentID: resolveRespondent(survey, callerID),
		SubmittedAt:  now,
		Metadata:     buildResponseMetadata(req),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Response().Create(ctx, tx, response); err != nil {
			return err
		}
		if len(answers) == 0 {
			return nil
		}
		for i := range answers {
			answers[i].ResponseID = response.ID
		}
		return s.repo.Response().CreateAnswers(ctx, tx, answers)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist response: %w", err)
	}

	if s.events != nil {
		s.events.ResponseSubmitted(ctx, survey.ID, response.ID)
	}

	s.logger.Info("Response submitted", "survey_id", survey.ID, "response_id", response.ID)

	return &SubmitResponseResult{
		ResponseID:  response.ID,
		SurveyID:    survey.ID,
		SubmittedAt: response.SubmittedAt,
	}, nil
}

// buildResponseAnswers walks the survey's questions in order and turns the
// submitted payloads into answer rows. Required questions without an answer
// are all reported together. Payloads keyed by a question id the survey does
// not contain are ignored. Selected option ids belonging to other questions
// are dropped and counted, never reported as errors; a question whose ids
// were all dropped simply ends up with zero answer rows.
func buildResponseAnswers(questions []models.Question, payloads map[uint]AnswerPayload) ([]models.UserAnswer, int, ValidationErrors) {
	var rows []models.UserAnswer
	var errs ValidationErrors
	dropped := 0

	for i := range questions {
		q := &questions[i]
		behavior := behaviorFor(q.Type)
		payload := payloads[q.ID]

		if !behavior.hasAnswer(payload) {
			if q.IsRequired {
				errs = append(errs, validator.ValidationError{
					Field:   fmt.Sprintf("answers.%d", q.ID),
					Message: "an answer to this question is required",
					Rule:    "required",
				})
			}
			continue
		}

		built, droppedHere := behavior.buildAnswers(q, payload)
		dropped += droppedHere
		rows = append(rows, built...)
	}

	return rows, dropped, errs
}

// resolveRespondent decides what identity, if any, a response carries.
// Anonymous surveys never record one, no matter who the caller was.
func resolveRespondent(survey *models.Survey, callerID *string) *string {
	if survey.IsAnonymous {
		return nil
	}
	return callerID
}

func buildResponseMetadata(req *SubmitResponseRequest) datatypes.JSON {
	if req.IPAddress == "" && req.UserAgent == "" {
		return nil
	}
	meta, err := json.Marshal(map[string]string{
		"ip_address": req.IPAddress,
		"user_agent": req.UserAgent,
	})
	if err != nil {
		return nil
	}
	return datatypes.JSON(meta)
}
