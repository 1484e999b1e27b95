package services

import (
	"sort"
	"time"

	"github.com/surveyforge/survey-service/internal/models"
)

// ===== SCALAR APPLICATION =====

// Defaults for zero-valued settings, matching the column defaults so a save
// leaves the survey in the same state a fresh insert would.
const (
	defaultThemeColor       = "#673AB7"
	defaultBackgroundColor  = "#F3E5F5"
	defaultFontFamily       = "Roboto"
	defaultHeaderFontSize   = 24
	defaultQuestionFontSize = 16
	defaultTextFontSize     = 14
	defaultMaxPoints        = 1
)

// newSurveyFromRequest builds a fresh survey from the definition.
func newSurveyFromRequest(req *SaveSurveyRequest, ownerID string, now time.Time) *models.Survey {
	survey := &models.Survey{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		IsPublished: req.IsPublished,
		IsAnonymous: req.IsAnonymous,
		EndDate:     req.EndDate,
		CreatorID:   ownerID,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if survey.Type == "" {
		survey.Type = models.SurveyQuestionnaire
	}

	applyThemeSettings(survey, req.Theme)
	applyTestModeSettings(survey, req.TestMode)
	return survey
}

// applySurveyScalars replaces every stored scalar with the incoming
// definition, the published flag included. The result depends only on the
// definition, never on what was stored before.
func applySurveyScalars(survey *models.Survey, req *SaveSurveyRequest, now time.Time) {
	survey.Title = req.Title
	survey.Description = req.Description
	survey.Type = req.Type
	if survey.Type == "" {
		survey.Type = models.SurveyQuestionnaire
	}
	survey.IsPublished = req.IsPublished
	survey.IsAnonymous = req.IsAnonymous
	survey.EndDate = req.EndDate
	survey.UpdatedAt = now

	applyThemeSettings(survey, req.Theme)
	applyTestModeSettings(survey, req.TestMode)
}

// applyThemeSettings replaces the whole stored theme with the incoming one.
// Zero-valued fields land on the defaults.
func applyThemeSettings(survey *models.Survey, theme ThemeSettingsRequest) {
	survey.ThemeColor = stringOrDefault(theme.ThemeColor, defaultThemeColor)
	survey.BackgroundColor = stringOrDefault(theme.BackgroundColor, defaultBackgroundColor)
	if theme.HeaderImagePath == "" {
		survey.HeaderImagePath = nil
	} else {
		path := theme.HeaderImagePath
		survey.HeaderImagePath = &path
	}
	survey.HeaderFontFamily = stringOrDefault(theme.HeaderFontFamily, defaultFontFamily)
	survey.HeaderFontSize = intOrDefault(theme.HeaderFontSize, defaultHeaderFontSize)
	survey.QuestionFontFamily = stringOrDefault(theme.QuestionFontFamily, defaultFontFamily)
	survey.QuestionFontSize = intOrDefault(theme.QuestionFontSize, defaultQuestionFontSize)
	survey.TextFontFamily = stringOrDefault(theme.TextFontFamily, defaultFontFamily)
	survey.TextFontSize = intOrDefault(theme.TextFontSize, defaultTextFontSize)
}

// applyTestModeSettings replaces the whole stored test-mode block with the
// incoming one.
func applyTestModeSettings(survey *models.Survey, tm TestModeSettingsRequest) {
	survey.IsTestMode = tm.IsTestMode
	survey.GradePublication = tm.GradePublication
	if survey.GradePublication == "" {
		survey.GradePublication = models.GradeImmediately
	}
	survey.ShowIncorrectAnswers = tm.ShowIncorrectAnswers
	survey.ShowCorrectAnswers = tm.ShowCorrectAnswers
	survey.ShowPoints = tm.ShowPoints
	survey.DefaultMaxPoints = intOrDefault(tm.DefaultMaxPoints, defaultMaxPoints)
}

func stringOrDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func intOrDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func applyQuestionFields(q *models.Question, req *SaveQuestionRequest, now time.Time) {
	q.Text = req.Text
	q.Type = req.Type
	q.IsRequired = req.IsRequired
	q.Order = req.Order
	q.UpdatedAt = now
}

func applyOptionFields(o *models.AnswerOption, req *SaveAnswerOptionRequest, now time.Time) {
	o.Text = req.Text
	o.Order = req.Order
	o.IsOther = req.IsOther
	o.UpdatedAt = now
}

func applySectionFields(s *models.Section, req *SaveSectionRequest, now time.Time) {
	s.Title = req.Title
	s.Description = req.Description
	s.Order = req.Order
	s.UpdatedAt = now
}

func applyMediaFields(m *models.Media, req *SaveMediaRequest, questionID *uint, now time.Time) {
	if req.Type != "" {
		m.Type = req.Type
	}
	m.URL = req.URL
	m.Title = req.Title
	m.Description = req.Description
	m.Order = req.Order
	m.QuestionID = questionID
	m.UpdatedAt = now
}

// ===== ID-SET DIFFING =====

// staleQuestionIDs returns the ids of stored questions absent from the
// incoming definition, in stored order.
func staleQuestionIDs(stored []models.Question, incoming []SaveQuestionRequest) []uint {
	keep := make(map[uint]struct{}, len(incoming))
	for _, q := range incoming {
		if q.ID != nil {
			keep[*q.ID] = struct{}{}
		}
	}

	var stale []uint
	for _, q := range stored {
		if _, ok := keep[q.ID]; !ok {
			stale = append(stale, q.ID)
		}
	}
	return stale
}

func staleOptionIDs(stored []models.AnswerOption, incoming []SaveAnswerOptionRequest) []uint {
	keep := make(map[uint]struct{}, len(incoming))
	for _, o := range incoming {
		if o.ID != nil {
			keep[*o.ID] = struct{}{}
		}
	}

	var stale []uint
	for _, o := range stored {
		if _, ok := keep[o.ID]; !ok {
			stale = append(stale, o.ID)
		}
	}
	return stale
}

func staleSectionIDs(stored []models.Section, incoming []SaveSectionRequest) []uint {
	keep := make(map[uint]struct{}, len(incoming))
	for _, s := range incoming {
		if s.ID != nil {
			keep[*s.ID] = struct{}{}
		}
	}

	var stale []uint
	for _, s := range stored {
		if _, ok := keep[s.ID]; !ok {
			stale = append(stale, s.ID)
		}
	}
	return stale
}

func staleMediaIDs(stored []models.Media, incoming []SaveMediaRequest) []uint {
	keep := make(map[uint]struct{}, len(incoming))
	for _, m := range incoming {
		if m.ID != nil {
			keep[*m.ID] = struct{}{}
		}
	}

	var stale []uint
	for _, m := range stored {
		if _, ok := keep[m.ID]; !ok {
			stale = append(stale, m.ID)
		}
	}
	return stale
}

// survivingQuestionIDs is the set of stored question ids the incoming
// definition keeps. Media rows may only reference these.
func survivingQuestionIDs(stored []models.Question, incoming []SaveQuestionRequest) map[uint]struct{} {
	storedIDs := make(map[uint]struct{}, len(stored))
	for _, q := range stored {
		storedIDs[q.ID] = struct{}{}
	}

	surviving := make(map[uint]struct{}, len(incoming))
	for _, q := range incoming {
		if q.ID == nil {
			continue
		}
		if _, ok := storedIDs[*q.ID]; ok {
			surviving[*q.ID] = struct{}{}
		}
	}
	return surviving
}

// ===== ORDER NORMALIZATION =====

// normalizeQuestionOrders sorts the incoming questions by their requested
// order and renumbers duplicates so stored orders are strictly increasing.
// The sort is stable, so editor order breaks ties.
func normalizeQuestionOrders(incoming []SaveQuestionRequest) []SaveQuestionRequest {
	if len(incoming) == 0 {
		return incoming
	}

	sorted := make([]SaveQuestionRequest, len(incoming))
	copy(sorted, incoming)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})

	prev := sorted[0].Order
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Order <= prev {
			sorted[i].Order = prev + 1
		}
		prev = sorted[i].Order
	}
	return sorted
}

func normalizeOptionOrders(incoming []SaveAnswerOptionRequest) []SaveAnswerOptionRequest {
	if len(incoming) == 0 {
		return incoming
	}

	sorted := make([]SaveAnswerOptionRequest, len(incoming))
	copy(sorted, incoming)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})

	prev := sorted[0].Order
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Order <= prev {
			sorted[i].Order = prev + 1
		}
		prev = sorted[i].Order
	}
	return sorted
}

// ===== PAGINATION =====

// pageFromFilters converts limit/offset into 1-based page numbers for list
// responses. A zero limit means a single unbounded page.
func pageFromFilters(limit, offset int) (page, size int) {
	if limit <= 0 {
		return 1, 0
	}
	return offset/limit + 1, limit
}
