package utils

import (
	"errors"
	"net/http"
)

// Domain-level errors returned by the service layer.
var (
	ErrNotFound           = errors.New("not_found")
	ErrInvalidPhone       = errors.New("invalid_phone")
	ErrInvalidStatus      = errors.New("invalid_status")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrAccountDisabled    = errors.New("account_disabled")
	ErrInvalidToken       = errors.New("invalid_token")
	ErrWeakPassword       = errors.New("weak_password")
	ErrRateLimitExceeded  = errors.New("rate_limit_exceeded")
	ErrUnknownReportType  = errors.New("unknown_report_type")
)

// AppError carries an HTTP status and public message from services to handlers.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError is a shorthand used by services.
func NewAppError(status int, code, msg string, err error) *AppError {
	return &AppError{StatusCode: status, Code: code, Message: msg, Err: err}
}

// HandleAppError maps known errors onto JSON error responses.
func HandleAppError(w http.ResponseWriter, err error) {
	var appErr *AppError
	switch {
	case errors.As(err, &appErr):
		RespondErrorWithCode(w, appErr.StatusCode, appErr.Code, appErr.Message, nil, appErr.Err)
	case errors.Is(err, ErrNotFound):
		RespondErrorWithCode(w, http.StatusNotFound, ErrCodeNotFound, "Resource not found", nil)
	case errors.Is(err, ErrInvalidPhone):
		RespondErrorWithCode(w, http.StatusBadRequest, ErrCodeValidation,
			"Invalid phone number format. Please enter a valid Indian phone number.", nil)
	case errors.Is(err, ErrInvalidStatus):
		RespondErrorWithCode(w, http.StatusBadRequest, ErrCodeValidation, "Invalid status", nil)
	case errors.Is(err, ErrInvalidCredentials):
		RespondErrorWithCode(w, http.StatusUnauthorized, ErrCodeInvalidCredentials, "Invalid email or password", nil)
	case errors.Is(err, ErrAccountDisabled):
		RespondErrorWithCode(w, http.StatusForbidden, ErrCodeForbidden, "Account is disabled", nil)
	case errors.Is(err, ErrInvalidToken):
		RespondErrorWithCode(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Invalid or expired token", nil)
	case errors.Is(err, ErrWeakPassword):
		RespondErrorWithCode(w, http.StatusBadRequest, ErrCodeValidation,
			"Password must be at least 8 characters with uppercase, lowercase, and a number", nil)
	case errors.Is(err, ErrUnknownReportType):
		RespondErrorWithCode(w, http.StatusBadRequest, ErrCodeValidation, "Unknown report type", nil)
	default:
		RespondErrorWithCode(w, http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred", nil, err)
	}
}
