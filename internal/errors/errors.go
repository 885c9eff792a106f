// Package errors provides custom error types for the WealthPath API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrAccountLocked      = &AppError{Code: "ACCOUNT_LOCKED", Message: "Account is temporarily locked", StatusCode: http.StatusLocked}
	ErrInvalidToken       = &AppError{Code: "INVALID_TOKEN", Message: "Invalid or expired token", StatusCode: http.StatusUnauthorized}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Goal errors.
var (
	ErrGoalNotFound = &AppError{Code: "GOAL_NOT_FOUND", Message: "Goal not found", StatusCode: http.StatusNotFound}
)

// Portfolio errors.
var (
	ErrHoldingNotFound = &AppError{Code: "HOLDING_NOT_FOUND", Message: "Holding not found", StatusCode: http.StatusNotFound}
	ErrEmptyPortfolio  = &AppError{Code: "EMPTY_PORTFOLIO", Message: "Portfolio has no holdings", StatusCode: http.StatusBadRequest}
)

// SIP errors.
var (
	ErrSIPNotFound = &AppError{Code: "SIP_NOT_FOUND", Message: "SIP not found", StatusCode: http.StatusNotFound}
)

// Rebalancing errors.
var (
	ErrPlanNotActionable = &AppError{Code: "PLAN_NOT_ACTIONABLE", Message: "Portfolio is well-balanced within target ranges", StatusCode: http.StatusUnprocessableEntity}
	ErrExecutionNotFound = &AppError{Code: "EXECUTION_NOT_FOUND", Message: "Rebalancing execution not found", StatusCode: http.StatusNotFound}
)

// Risk assessment errors.
var (
	ErrAssessmentNotFound = &AppError{Code: "ASSESSMENT_NOT_FOUND", Message: "No risk assessment on record", StatusCode: http.StatusNotFound}
	ErrIncompleteAnswers  = &AppError{Code: "INCOMPLETE_ANSWERS", Message: "All questions must be answered", StatusCode: http.StatusBadRequest}
)
