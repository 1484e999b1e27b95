package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/surveyforge/survey-service/internal/models"
	"github.com/surveyforge/survey-service/internal/repositories"
	"github.com/surveyforge/survey-service/internal/validator"
)

type surveyService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	events    EventService
}

func NewSurveyService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, events EventService) SurveyService {
	return &surveyService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		events:    events,
	}
}

// ===== SAVE (CREATE OR RECONCILE) =====

// Save persists a full survey definition. A request without an id creates the
// survey; a request with an id reconciles the stored graph against the
// definition inside one transaction: scalars are replaced wholesale, child
// collections are diffed by id (delete stale, update matched, insert new),
// recursively for answer options.
func (s *surveyService) Save(ctx context.Context, req *SaveSurveyRequest, ownerID string) (uint, error) {
	s.logger.Info("Saving survey", "owner_id", ownerID, "survey_id", req.ID, "title", req.Title)

	if errs := s.validator.GetBusinessValidator().ValidateSurveySave(req); len(errs) > 0 {
		return 0, errs
	}

	var surveyID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		survey, err := s.resolveTarget(ctx, tx, req, ownerID)
		if err != nil {
			return err
		}

		if err := s.reconcileQuestions(ctx, tx, survey, req.Questions); err != nil {
			return err
		}
		if err := s.reconcileSections(ctx, tx, survey, req.Sections); err != nil {
			return err
		}
		if err := s.reconcileMedia(ctx, tx, survey, req); err != nil {
			return err
		}

		surveyID = survey.ID
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("Survey saved successfully", "survey_id", surveyID, "owner_id", ownerID)

	return surveyID, nil
}

// resolveTarget loads the stored survey for an id-bearing request or creates
// a fresh one. An id that does not exist or belongs to another user fails the
// same way, so callers cannot probe for foreign survey ids.
func (s *surveyService) resolveTarget(ctx context.Context, tx *gorm.DB, req *SaveSurveyRequest, ownerID string) (*models.Survey, error) {
	now := time.Now()

	if req.ID != nil && *req.ID != 0 {
		survey, err := s.repo.Survey().GetByIDWithDetails(ctx, tx, *req.ID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, NewPermissionError(ownerID, *req.ID, "survey", "update", "survey does not exist or belongs to another user")
			}
			return nil, fmt.Errorf("failed to load survey for save: %w", err)
		}
		if survey.CreatorID != ownerID {
			return nil, NewPermissionError(ownerID, *req.ID, "survey", "update", "survey does not exist or belongs to another user")
		}

		applySurveyScalars(survey, req, now)
		survey.Version++
		if err := s.repo.Survey().Update(ctx, tx, survey); err != nil {
			return nil, err
		}
		return survey, nil
	}

	survey := newSurveyFromRequest(req, ownerID, now)
	if err := s.repo.Survey().Create(ctx, tx, survey); err != nil {
		return nil, err
	}
	return survey, nil
}

// reconcileQuestions diffs the stored questions against the incoming
// definition. Orders are renumbered first so duplicates coming from the
// editor cannot persist.
func (s *surveyService) reconcileQuestions(ctx context.Context, tx *gorm.DB, survey *models.Survey, incoming []SaveQuestionRequest) error {
	incoming = normalizeQuestionOrders(incoming)

	storedByID := make(map[uint]*models.Question, len(survey.Questions))
	for i := range survey.Questions {
		storedByID[survey.Questions[i].ID] = &survey.Questions[i]
	}

	stale := staleQuestionIDs(survey.Questions, incoming)
	if len(stale) > 0 {
		// Media attached to deleted questions survives, detached.
		if err := s.repo.Media().ClearQuestionRefs(ctx, tx, stale); err != nil {
			return err
		}
		if err := s.repo.Question().DeleteByIDs(ctx, tx, survey.ID, stale); err != nil {
			return err
		}
	}

	now := time.Now()
	for _, qreq := range incoming {
		if qreq.ID != nil {
			if stored, ok := storedByID[*qreq.ID]; ok {
				applyQuestionFields(stored, &qreq, now)
				if err := s.repo.Question().Update(ctx, tx, stored); err != nil {
					return err
				}
				if err := s.reconcileOptions(ctx, tx, stored, qreq.Options); err != nil {
					return err
				}
				continue
			}
		}

		// No id, or an id we do not hold: insert as a new question.
		question := &models.Question{
			SurveyID:   survey.ID,
			Text:       qreq.Text,
			Type:       qreq.Type,
			IsRequired: qreq.IsRequired,
			Order:      qreq.Order,
		}
		if err := s.repo.Question().Create(ctx, tx, question); err != nil {
			return err
		}
		for _, oreq := range qreq.Options {
			option := &models.AnswerOption{
				QuestionID: question.ID,
				Text:       oreq.Text,
				Order:      oreq.Order,
				IsOther:    oreq.IsOther,
			}
			if err := s.repo.AnswerOption().Create(ctx, tx, option); err != nil {
				return err
			}
		}
	}

	return nil
}

// reconcileOptions applies the same id-matched diff one level down, to the
// options of a matched question.
func (s *surveyService) reconcileOptions(ctx context.Context, tx *gorm.DB, question *models.Question, incoming []SaveAnswerOptionRequest) error {
	incoming = normalizeOptionOrders(incoming)

	storedByID := make(map[uint]*models.AnswerOption, len(question.Options))
	for i := range question.Options {
		storedByID[question.Options[i].ID] = &question.Options[i]
	}

	stale := staleOptionIDs(question.Options, incoming)
	if err := s.repo.AnswerOption().DeleteByIDs(ctx, tx, question.ID, stale); err != nil {
		return err
	}

	now := time.Now()
	for _, oreq := range incoming {
		if oreq.ID != nil {
			if stored, ok := storedByID[*oreq.ID]; ok {
				applyOptionFields(stored, &oreq, now)
				if err := s.repo.AnswerOption().Update(ctx, tx, stored); err != nil {
					return err
				}
				continue
			}
		}

		option := &models.AnswerOption{
			QuestionID: question.ID,
			Text:       oreq.Text,
			Order:      oreq.Order,
			IsOther:    oreq.IsOther,
		}
		if err := s.repo.AnswerOption().Create(ctx, tx, option); err != nil {
			return err
		}
	}

	return nil
}

func (s *surveyService) reconcileSections(ctx context.Context, tx *gorm.DB, survey *models.Survey, incoming []SaveSectionRequest) error {
	storedByID := make(map[uint]*models.Section, len(survey.Sections))
	for i := range survey.Sections {
		storedByID[survey.Sections[i].ID] = &survey.Sections[i]
	}

	stale := staleSectionIDs(survey.Sections, incoming)
	if err := s.repo.Section().DeleteByIDs(ctx, tx, survey.ID, stale); err != nil {
		return err
	}

	now := time.Now()
	for _, sreq := range incoming {
		if sreq.ID != nil {
			if stored, ok := storedByID[*sreq.ID]; ok {
				applySectionFields(stored, &sreq, now)
				if err := s.repo.Section().Update(ctx, tx, stored); err != nil {
					return err
				}
				continue
			}
		}

		section := &models.Section{
			SurveyID:    survey.ID,
			Title:       sreq.Title,
			Description: sreq.Description,
			Order:       sreq.Order,
		}
		if err := s.repo.Section().Create(ctx, tx, section); err != nil {
			return err
		}
	}

	return nil
}

func (s *surveyService) reconcileMedia(ctx context.Context, tx *gorm.DB, survey *models.Survey, req *SaveSurveyRequest) error {
	// Incoming media may only reference questions that survived the diff.
	validQuestions := survivingQuestionIDs(survey.Questions, req.Questions)

	storedByID := make(map[uint]*models.Media, len(survey.Media))
	for i := range survey.Media {
		storedByID[survey.Media[i].ID] = &survey.Media[i]
	}

	stale := staleMediaIDs(survey.Media, req.Media)
	if err := s.repo.Media().DeleteByIDs(ctx, tx, survey.ID, stale); err != nil {
		return err
	}

	now := time.Now()
	for _, mreq := range req.Media {
		questionID := mreq.QuestionID
		if questionID != nil {
			if _, ok := validQuestions[*questionID]; !ok {
				questionID = nil
			}
		}

		if mreq.ID != nil {
			if stored, ok := storedByID[*mreq.ID]; ok {
				applyMediaFields(stored, &mreq, questionID, now)
				if err := s.repo.Media().Update(ctx, tx, stored); err != nil {
					return err
				}
				continue
			}
		}

		media := &models.Media{
			SurveyID:    survey.ID,
			Type:        mreq.Type,
			URL:         mreq.URL,
			Title:       mreq.Title,
			Description: mreq.Description,
			Order:       mreq.Order,
			QuestionID:  questionID,
		}
		if media.Type == "" {
			media.Type = models.MediaImage
		}
		if err := s.repo.Media().Create(ctx, tx, media); err != nil {
			return err
		}
	}

	return nil
}

// ===== READS =====

func (s *surveyService) GetForEdit(ctx context.Context, id uint, ownerID string) (*SurveyView, error) {
	survey, err := s.repo.Survey().GetByIDWithDetails(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewPermissionError(ownerID, id, "survey", "read", "survey does not exist or belongs to another user")
		}
		return nil, fmt.Errorf("failed to get survey: %w", err)
	}
	if survey.CreatorID != ownerID {
		return nil, NewPermissionError(ownerID, id, "survey", "read", "survey does not exist or belongs to another user")
	}

	return &SurveyView{Survey: survey, CanEdit: true, CanDelete: true}, nil
}

func (s *surveyService) GetPublished(ctx context.Context, id uint) (*models.Survey, error) {
	survey, err := s.repo.Survey().GetPublished(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSurveyNotFound
		}
		return nil, fmt.Errorf("failed to get published survey: %w", err)
	}
	return survey, nil
}

func (s *surveyService) ListByOwner(ctx context.Context, ownerID string, filters repositories.SurveyFilters) (*SurveyListResponse, error) {
	if filters.SortBy == "" {
		filters.SortBy = "created_at"
	}

	surveys, total, err := s.repo.Survey().GetByCreator(ctx, s.db, ownerID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list surveys: %w", err)
	}

	views := make([]*SurveyView, len(surveys))
	for i, survey := range surveys {
		views[i] = &SurveyView{Survey: survey, CanEdit: true, CanDelete: true}
	}

	page, size := pageFromFilters(filters.Limit, filters.Offset)
	return &SurveyListResponse{
		Surveys: views,
		Total:   total,
		Page:    page,
		Size:    size,
	}, nil
}

// ===== DELETE =====

func (s *surveyService) Delete(ctx context.Context, id uint, ownerID string) error {
	s.logger.Info("Deleting survey", "survey_id", id, "owner_id", ownerID)

	isOwner, err := s.repo.Survey().IsOwner(ctx, s.db, id, ownerID)
	if err != nil {
		return fmt.Errorf("ownership check failed: %w", err)
	}
	if !isOwner {
		return NewPermissionError(ownerID, id, "survey", "delete", "survey does not exist or belongs to another user")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.Survey().Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Survey deleted", "survey_id", id)
	return nil
}

// ===== PUBLICATION =====

func (s *surveyService) Publish(ctx context.Context, id uint, ownerID string) error {
	s.logger.Info("Publishing survey", "survey_id", id, "owner_id", ownerID)

	survey, err := s.repo.Survey().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return NewPermissionError(ownerID, id, "survey", "publish", "survey does not exist or belongs to another user")
		}
		return fmt.Errorf("failed to get survey: %w", err)
	}
	if survey.CreatorID != ownerID {
		return NewPermissionError(ownerID, id, "survey", "publish", "survey does not exist or belongs to another user")
	}

	questionCount, err := s.repo.Survey().CountQuestions(ctx, s.db, id)
	if err != nil {
		return fmt.Errorf("failed to count questions: %w", err)
	}

	if errs := s.validator.GetBusinessValidator().ValidatePublish(survey.IsPublished, int(questionCount)); len(errs) > 0 {
		return NewPublicationError(id, errs.Error())
	}

	if err := s.repo.Survey().UpdatePublication(ctx, s.db, id, true); err != nil {
		return err
	}

	if s.events != nil {
		s.events.SurveyPublished(ctx, id, ownerID)
	}

	s.logger.Info("Survey published", "survey_id", id)
	return nil
}

func (s *surveyService) Unpublish(ctx context.Context, id uint, ownerID string) error {
	s.logger.Info("Unpublishing survey", "survey_id", id, "owner_id", ownerID)

	isOwner, err := s.repo.Survey().IsOwner(ctx, s.db, id, ownerID)
	if err != nil {
		return fmt.Errorf("ownership check failed: %w", err)
	}
	if !isOwner {
		return NewPermissionError(ownerID, id, "survey", "unpublish", "survey does not exist or belongs to another user")
	}

	return s.repo.Survey().UpdatePublication(ctx, s.db, id, false)
}

// ===== TEMPLATES =====

func (s *surveyService) ListTemplates(ctx context.Context) ([]*models.SurveyTemplate, error) {
	return s.repo.Template().List(ctx, s.db)
}

// CreateFromTemplate instantiates a template as a new unpublished survey
// owned by the caller. Questions and options are copied, never shared.
func (s *surveyService) CreateFromTemplate(ctx context.Context, templateID uint, ownerID string) (uint, error) {
	s.logger.Info("Creating survey from template", "template_id", templateID, "owner_id", ownerID)

	template, err := s.repo.Template().GetByID(ctx, s.db, templateID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return 0, ErrTemplateNotFound
		}
		return 0, fmt.Errorf("failed to get template: %w", err)
	}

	var surveyID uint
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		survey := &models.Survey{
			Title:       template.Title,
			Description: template.Description,
			Type:        template.Type,
			IsAnonymous: true,
			CreatorID:   ownerID,
			Version:     1,
		}
		if err := s.repo.Survey().Create(ctx, tx, survey); err != nil {
			return err
		}

		for _, tq := range template.Questions {
			question := &models.Question{
				SurveyID:   survey.ID,
				Text:       tq.Text,
				Type:       tq.Type,
				IsRequired: tq.IsRequired,
				Order:      tq.Order,
			}
			if err := s.repo.Question().Create(ctx, tx, question); err != nil {
				return err
			}
			for _, to := range tq.Options {
				option := &models.AnswerOption{
					QuestionID: question.ID,
					Text:       to.Text,
					Order:      to.Order,
				}
				if err := s.repo.AnswerOption().Create(ctx, tx, option); err != nil {
					return err
				}
			}
		}

		surveyID = survey.ID
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("Survey created from template", "survey_id", surveyID, "template_id", templateID)
	return surveyID, nil
}
