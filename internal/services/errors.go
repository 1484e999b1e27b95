package services

import (
	"errors"
	"fmt"

	"github.com/surveyforge/survey-service/internal/validator"
)

// Sentinel errors
var (
	ErrSurveyNotFound   = errors.New("survey not found")
	ErrTemplateNotFound = errors.New("survey template not found")
	ErrResponseNotFound = errors.New("response not found")
)

// ValidationErrors is re-exported so handlers can match accumulated
// validation failures coming out of any service
type ValidationErrors = validator.ValidationErrors

// PermissionError signals the caller may not act on the resource. It also
// covers the id-exists-but-owned-by-someone-else case: callers cannot tell a
// foreign survey from a missing one.
type PermissionError struct {
	UserID     string
	ResourceID uint
	Resource   string
	Action     string
	Reason     string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s %d: %s",
		e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

// NewPermissionError creates a permission error
func NewPermissionError(userID string, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// PublicationError signals an operation that requires a different publication
// state: publishing an empty or already-published survey, or submitting to an
// unpublished one.
type PublicationError struct {
	SurveyID uint
	Reason   string
}

func (e *PublicationError) Error() string {
	return fmt.Sprintf("publication error on survey %d: %s", e.SurveyID, e.Reason)
}

// NewPublicationError creates a publication error
func NewPublicationError(surveyID uint, reason string) *PublicationError {
	return &PublicationError{SurveyID: surveyID, Reason: reason}
}

// IsPermissionError reports whether err is a permission failure
func IsPermissionError(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}

// IsPublicationError reports whether err is a publication-state failure
func IsPublicationError(err error) bool {
	var pe *PublicationError
	return errors.As(err, &pe)
}

// IsValidationError reports whether err carries accumulated validation failures
func IsValidationError(err error) bool {
	var ve ValidationErrors
	return errors.As(err, &ve)
}
