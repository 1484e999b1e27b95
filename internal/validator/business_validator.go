package validator

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/surveyforge/survey-service/internal/models"
)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateSurveySave validates a full survey definition before reconciliation
func (bv *BusinessValidator) ValidateSurveySave(req *SaveSurveyRequest) ValidationErrors {
	var errors ValidationErrors

	// Basic struct validation
	errors = append(errors, bv.Validate(req)...)

	// Definition-level business validations
	errors = append(errors, bv.validateSurveyBusinessRules(req)...)

	return errors
}

// ValidatePublish validates the draft -> published transition
func (bv *BusinessValidator) ValidatePublish(isPublished bool, questionCount int) ValidationErrors {
	var errors ValidationErrors

	if isPublished {
		errors = append(errors, ValidationError{
			Field:   "is_published",
			Message: "survey is already published",
			Value:   isPublished,
			Rule:    "business_logic",
		})
	}

	if questionCount == 0 {
		errors = append(errors, ValidationError{
			Field:   "questions",
			Message: "survey must have at least one question before publishing",
			Value:   questionCount,
			Rule:    "business_logic",
		})
	}

	return errors
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	// Title validation (1-200 characters after trimming)
	bv.validate.RegisterValidation("survey_title", func(fl validator.FieldLevel) bool {
		title := strings.TrimSpace(fl.Field().String())
		return len(title) >= 1 && len(title) <= 200
	})

	// Question type validation
	bv.validate.RegisterValidation("question_type", func(fl validator.FieldLevel) bool {
		qType := fl.Field().String()
		validTypes := []models.QuestionType{
			models.ShortText, models.ParagraphText,
			models.SingleChoice, models.MultipleChoice,
			models.Dropdown, models.Scale,
		}
		for _, vt := range validTypes {
			if models.QuestionType(qType) == vt {
				return true
			}
		}
		return false
	})
}

// validateSurveyBusinessRules validates definition rules struct tags cannot express
func (bv *BusinessValidator) validateSurveyBusinessRules(req *SaveSurveyRequest) ValidationErrors {
	var errors ValidationErrors

	// End date, when set on save, must not already be in the past
	if req.EndDate != nil && req.EndDate.Before(time.Now()) {
		errors = append(errors, ValidationError{
			Field:   "end_date",
			Message: "must be in the future",
			Value:   req.EndDate,
			Rule:    "business_logic",
		})
	}

	for i, q := range req.Questions {
		// Choice questions need at least one option to be answerable
		if q.Type.UsesOptions() && len(q.Options) == 0 {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("questions[%d].options", i),
				Message: "choice question must have at least one option",
				Value:   q.Type,
				Rule:    "business_logic",
			})
		}

		// Text questions must not carry options
		if !q.Type.UsesOptions() && len(q.Options) > 0 {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("questions[%d].options", i),
				Message: "text question cannot have options",
				Value:   q.Type,
				Rule:    "business_logic",
			})
		}

		for j, o := range q.Options {
			if strings.TrimSpace(o.Text) == "" && !o.IsOther {
				errors = append(errors, ValidationError{
					Field:   fmt.Sprintf("questions[%d].options[%d].text", i, j),
					Message: "option text cannot be empty",
					Value:   o.Text,
					Rule:    "business_logic",
				})
			}
		}
	}

	return errors
}
