package response

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeForbidden     = "FORBIDDEN"
	ErrCodeInternal      = "INTERNAL_ERROR"
	ErrCodeModeLocked    = "MODE_LOCKED"
	ErrCodeNetwork       = "NETWORK_ERROR"

	// ErrCodeStaleData is reserved for responses overtaken by a newer request.
	// Nothing raises it yet: concurrent calls are last-arrival-wins.
	ErrCodeStaleData = "STALE_DATA"
)

// AppError is the error type returned by the service layer
type AppError struct {
	Code    string
	Message string
	Details string
	Err     error
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError with the given code
func NewAppError(code, message, details string) *AppError {
	return &AppError{Code: code, Message: message, Details: details}
}

// NewValidationError creates a VALIDATION_ERROR
func NewValidationError(message, details string) *AppError {
	return NewAppError(ErrCodeValidation, message, details)
}

// NewNotFoundError creates a NOT_FOUND error
func NewNotFoundError(message, details string) *AppError {
	return NewAppError(ErrCodeNotFound, message, details)
}

// NewForbiddenError creates a FORBIDDEN error
func NewForbiddenError(message, details string) *AppError {
	return NewAppError(ErrCodeForbidden, message, details)
}

// NewModeLockedError creates a MODE_LOCKED error
func NewModeLockedError(message, details string) *AppError {
	return NewAppError(ErrCodeModeLocked, message, details)
}

// NewNetworkError wraps a failed outbound call
func NewNetworkError(message string, err error) *AppError {
	appErr := NewAppError(ErrCodeNetwork, message, "")
	if err != nil {
		appErr.Details = err.Error()
		appErr.Err = err
	}
	return appErr
}

// HasCode reports whether err is an AppError with the given code
func HasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
