package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/surveyforge/survey-service/internal/models"
	"github.com/surveyforge/survey-service/internal/repositories"
)

const (
	csvContentType  = "text/csv"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	exportSheetName = "Responses"
)

type exportService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

func (s *exportService) ExportCSV(ctx context.Context, surveyID uint, ownerID string) (*ExportResult, error) {
	survey, err := s.loadForExport(ctx, surveyID, ownerID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.WriteAll(buildExportRows(survey)); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}

	s.logger.Info("Exported survey responses as CSV", "survey_id", surveyID, "responses", len(survey.Responses))

	return &ExportResult{
		FileName:    fmt.Sprintf("survey_%d_responses.csv", surveyID),
		ContentType: csvContentType,
		Data:        buf.Bytes(),
	}, nil
}

func (s *exportService) ExportXLSX(ctx context.Context, surveyID uint, ownerID string) (*ExportResult, error) {
	survey, err := s.loadForExport(ctx, surveyID, ownerID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for rowIdx, row := range buildExportRows(survey) {
		for colIdx, value := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return nil, fmt.Errorf("failed to build cell name: %w", err)
			}
			if err := f.SetCellValue(exportSheetName, cell, value); err != nil {
				return nil, fmt.Errorf("failed to set cell: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.Info("Exported survey responses as XLSX", "survey_id", surveyID, "responses", len(survey.Responses))

	return &ExportResult{
		FileName:    fmt.Sprintf("survey_%d_responses.xlsx", surveyID),
		ContentType: xlsxContentType,
		Data:        buf.Bytes(),
	}, nil
}

func (s *exportService) loadForExport(ctx context.Context, surveyID uint, ownerID string) (*models.Survey, error) {
	survey, err := s.repo.Survey().GetWithResponses(ctx, s.db, surveyID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewPermissionError(ownerID, surveyID, "survey", "export", "survey does not exist or belongs to another user")
		}
		return nil, fmt.Errorf("failed to load survey with responses: %w", err)
	}
	if survey.CreatorID != ownerID {
		return nil, NewPermissionError(ownerID, surveyID, "survey", "export", "survey does not exist or belongs to another user")
	}
	return survey, nil
}

// buildExportRows projects the survey's responses into a flat table: one row
// per response, one column per question, choice answers joined with "; ".
func buildExportRows(survey *models.Survey) [][]string {
	header := []string{"Response ID", "Submitted At", "Respondent"}
	for i := range survey.Questions {
		header = append(header, survey.Questions[i].Text)
	}

	optionTexts := make(map[uint]string)
	for i := range survey.Questions {
		for _, o := range survey.Questions[i].Options {
			optionTexts[o.ID] = o.Text
		}
	}

	rows := [][]string{header}
	for _, response := range survey.Responses {
		byQuestion := make(map[uint][]string)
		for _, a := range response.Answers {
			cellValue := answerCellValue(a, optionTexts)
			if cellValue != "" {
				byQuestion[a.QuestionID] = append(byQuestion[a.QuestionID], cellValue)
			}
		}

		row := []string{
			fmt.Sprintf("%d", response.ID),
			response.SubmittedAt.Format(time.RFC3339),
			respondentLabel(response.RespondentID),
		}
		for i := range survey.Questions {
			row = append(row, strings.Join(byQuestion[survey.Questions[i].ID], "; "))
		}
		rows = append(rows, row)
	}

	return rows
}

func answerCellValue(a models.UserAnswer, optionTexts map[uint]string) string {
	if a.TextAnswer != nil {
		return *a.TextAnswer
	}
	if a.SelectedOptionID != nil {
		if text, ok := optionTexts[*a.SelectedOptionID]; ok {
			return text
		}
	}
	return ""
}

func respondentLabel(respondentID *string) string {
	if respondentID == nil {
		return "anonymous"
	}
	return *respondentID
}
