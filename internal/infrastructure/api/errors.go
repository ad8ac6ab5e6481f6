package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hiredesk/hiredesk/internal/application"
	"github.com/hiredesk/hiredesk/internal/domain"
)

// mapDomainError maps domain/application errors to HTTP errors.
// unknown errors become 500 without leaking internals.
func mapDomainError(err error) error {
	switch {
	case isNotFoundError(err):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case isConflictError(err):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, application.ErrNotAuthorized):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case isValidationError(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}

// isNotFoundError checks if the error indicates a missing entity.
func isNotFoundError(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, application.ErrOfferNotFound) ||
		errors.Is(err, application.ErrCreatorNotFound) ||
		errors.Is(err, application.ErrRequesterNotFound) ||
		errors.Is(err, application.ErrReviewerNotFound)
}

// isConflictError checks if the error indicates a state conflict.
func isConflictError(err error) bool {
	return errors.Is(err, domain.ErrAlreadyExists) ||
		errors.Is(err, application.ErrSlugAlreadyExists) ||
		errors.Is(err, application.ErrAlreadyApplied) ||
		errors.Is(err, application.ErrRequestPending)
}

// validationErrors are the domain rule violations a caller can fix.
var validationErrors = []error{
	domain.ErrInvalidInput,
	domain.ErrInvalidRole,
	domain.ErrInvalidStage,
	domain.ErrStageTransition,
	domain.ErrStageTerminal,
	domain.ErrStageNotInterviewing,
	domain.ErrInterviewInPast,
	domain.ErrInterviewDuration,
	domain.ErrInterviewNotScheduled,
	domain.ErrInterviewScore,
	domain.ErrInvalidInterviewStatus,
	domain.ErrAccessNotPending,
	domain.ErrAccessReasonEmpty,
	domain.ErrInvalidAccessStatus,
	domain.ErrSlugEmpty,
	domain.ErrSlugTooShort,
	domain.ErrSlugTooLong,
	domain.ErrSlugInvalid,
	domain.ErrEmailEmpty,
	domain.ErrEmailTooLong,
	domain.ErrEmailInvalid,
	application.ErrOfferNotOpen,
}

// isValidationError checks if the error indicates a client-side mistake.
func isValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	// malformed uuids from the id parsers
	return strings.Contains(err.Error(), "invalid") && strings.Contains(err.Error(), "id")
}
