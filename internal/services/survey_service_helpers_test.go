package services

import (
	"reflect"
	"testing"
	"time"

	"github.com/surveyforge/survey-service/internal/models"
)

func TestStaleQuestionIDs(t *testing.T) {
	stored := []models.Question{{ID: 1}, {ID: 2}, {ID: 3}}

	tests := []struct {
		name     string
		incoming []SaveQuestionRequest
		want     []uint
	}{
		{
			name:     "nil incoming deletes everything",
			incoming: nil,
			want:     []uint{1, 2, 3},
		},
		{
			name: "matched ids survive",
			incoming: []SaveQuestionRequest{
				{ID: uintPtr(1)},
				{ID: uintPtr(3)},
			},
			want: []uint{2},
		},
		{
			name: "new questions do not protect stored ones",
			incoming: []SaveQuestionRequest{
				{Text: "new"},
				{ID: uintPtr(2)},
			},
			want: []uint{1, 3},
		},
		{
			name: "unknown incoming id deletes nothing extra",
			incoming: []SaveQuestionRequest{
				{ID: uintPtr(1)}, {ID: uintPtr(2)}, {ID: uintPtr(3)}, {ID: uintPtr(99)},
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := staleQuestionIDs(stored, tt.incoming)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("staleQuestionIDs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSurvivingQuestionIDs(t *testing.T) {
	stored := []models.Question{{ID: 1}, {ID: 2}}
	incoming := []SaveQuestionRequest{
		{ID: uintPtr(2)},
		{ID: uintPtr(42)}, // not ours, will be inserted fresh
		{Text: "new"},
	}

	surviving := survivingQuestionIDs(stored, incoming)

	if _, ok := surviving[2]; !ok {
		t.Error("question 2 should survive")
	}
	if _, ok := surviving[1]; ok {
		t.Error("question 1 was dropped and must not survive")
	}
	if _, ok := surviving[42]; ok {
		t.Error("a foreign id must not survive")
	}
}

func TestNormalizeQuestionOrders(t *testing.T) {
	incoming := []SaveQuestionRequest{
		{Text: "c", Order: 2},
		{Text: "a", Order: 1},
		{Text: "b", Order: 1},
		{Text: "d", Order: 5},
	}

	got := normalizeQuestionOrders(incoming)

	wantTexts := []string{"a", "b", "c", "d"}
	wantOrders := []int{1, 2, 3, 5}
	for i := range got {
		if got[i].Text != wantTexts[i] {
			t.Errorf("position %d: got text %q, want %q", i, got[i].Text, wantTexts[i])
		}
		if got[i].Order != wantOrders[i] {
			t.Errorf("position %d: got order %d, want %d", i, got[i].Order, wantOrders[i])
		}
	}

	// Input must stay untouched.
	if incoming[0].Text != "c" || incoming[0].Order != 2 {
		t.Error("normalizeQuestionOrders must not mutate its input")
	}
}

func TestApplySurveyScalars(t *testing.T) {
	now := time.Now()
	survey := &models.Survey{
		ID:          7,
		Title:       "old",
		IsPublished: true,
		ThemeColor:  "#FFFFFF",
		IsTestMode:  true,
	}

	req := &SaveSurveyRequest{
		Title:       "new title",
		Description: "desc",
		IsAnonymous: true,
		Theme:       ThemeSettingsRequest{ThemeColor: "#112233"},
	}

	applySurveyScalars(survey, req, now)

	if survey.Title != "new title" || survey.Description != "desc" {
		t.Errorf("scalars not replaced: %+v", survey)
	}
	if survey.IsPublished {
		t.Error("the published flag must follow the definition")
	}
	if survey.ThemeColor != "#112233" {
		t.Errorf("theme color not replaced, got %q", survey.ThemeColor)
	}
	if survey.IsTestMode {
		t.Error("absent test-mode settings must reset")
	}
	if !survey.UpdatedAt.Equal(now) {
		t.Error("updated_at not set")
	}

	t.Run("published flag can be set on save", func(t *testing.T) {
		req.IsPublished = true
		applySurveyScalars(survey, req, now)
		if !survey.IsPublished {
			t.Error("published flag not applied")
		}
	})
}

func TestApplyThemeSettings_FullReplace(t *testing.T) {
	path := "/uploads/surveys/1/old.png"
	survey := &models.Survey{
		ThemeColor:      "#000000",
		BackgroundColor: "#111111",
		HeaderFontSize:  48,
		HeaderImagePath: &path,
	}

	applyThemeSettings(survey, ThemeSettingsRequest{HeaderFontSize: 32})

	if survey.HeaderFontSize != 32 {
		t.Errorf("expected header font size 32, got %d", survey.HeaderFontSize)
	}
	if survey.ThemeColor != "#673AB7" || survey.BackgroundColor != "#F3E5F5" {
		t.Error("absent theme fields must reset to the defaults, not keep stored values")
	}
	if survey.HeaderImagePath != nil {
		t.Error("absent header image must reset to nil")
	}
}

func TestNewSurveyFromRequest_Defaults(t *testing.T) {
	now := time.Now()
	survey := newSurveyFromRequest(&SaveSurveyRequest{Title: "t"}, "user-1", now)

	if survey.Type != models.SurveyQuestionnaire {
		t.Errorf("expected default type Questionnaire, got %q", survey.Type)
	}
	if survey.CreatorID != "user-1" {
		t.Errorf("creator not set: %q", survey.CreatorID)
	}
	if survey.Version != 1 {
		t.Errorf("expected version 1, got %d", survey.Version)
	}
	if survey.IsPublished {
		t.Error("an empty definition starts unpublished")
	}
	if survey.ThemeColor != "#673AB7" || survey.HeaderFontFamily != "Roboto" {
		t.Errorf("theme defaults not applied: %+v", survey)
	}
	if survey.GradePublication != models.GradeImmediately || survey.DefaultMaxPoints != 1 {
		t.Errorf("test-mode defaults not applied: %+v", survey)
	}
}

func TestReapplyingSameDefinitionIsNoOp(t *testing.T) {
	now := time.Now()
	incoming := []SaveQuestionRequest{
		{ID: uintPtr(1), Text: "How was it?", Type: models.ShortText, IsRequired: true, Order: 1},
		{ID: uintPtr(2), Text: "Pick one", Type: models.SingleChoice, Order: 2},
	}

	stored := []models.Question{{ID: 1}, {ID: 2}}
	for i := range stored {
		applyQuestionFields(&stored[i], &incoming[i], now)
	}

	if stale := staleQuestionIDs(stored, incoming); stale != nil {
		t.Errorf("an identical definition must delete nothing, got %v", stale)
	}

	again := make([]models.Question, len(stored))
	copy(again, stored)
	for i := range again {
		applyQuestionFields(&again[i], &incoming[i], now)
	}
	if !reflect.DeepEqual(stored, again) {
		t.Errorf("second apply changed the questions:\nfirst  %+v\nsecond %+v", stored, again)
	}

	normalized := normalizeQuestionOrders(incoming)
	if !reflect.DeepEqual(normalized, normalizeQuestionOrders(normalized)) {
		t.Error("normalizing an already-normalized definition must change nothing")
	}
}

func TestPageFromFilters(t *testing.T) {
	tests := []struct {
		name     string
		limit    int
		offset   int
		wantPage int
		wantSize int
	}{
		{"first page", 20, 0, 1, 20},
		{"third page", 10, 20, 3, 10},
		{"no limit", 0, 0, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, size := pageFromFilters(tt.limit, tt.offset)
			if page != tt.wantPage || size != tt.wantSize {
				t.Errorf("pageFromFilters(%d, %d) = (%d, %d), want (%d, %d)",
					tt.limit, tt.offset, page, size, tt.wantPage, tt.wantSize)
			}
		})
	}
}
