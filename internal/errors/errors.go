package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"ttestcalc/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, keeping the code of an inner AppError
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    codeFor(err),
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the error code if it's an AppError, otherwise it classifies
// domain sentinels and falls back to "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	if code := codeFor(err); code != CodeInternalError {
		return code
	}
	return "UNKNOWN"
}

// HTTPStatus maps an error to the status code the API responds with
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case CodeInvalidInput, CodeValidationError:
		return http.StatusBadRequest
	case CodeDivisionByZero, CodeNonFinite:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConfigInvalid, CodeDatabaseError, CodeInternalError:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

func codeFor(err error) string {
	switch {
	case core.IsInvalidInput(err):
		return CodeInvalidInput
	case core.IsDivisionByZero(err):
		return CodeDivisionByZero
	case core.IsNonFinite(err):
		return CodeNonFinite
	case core.IsNotFoundError(err):
		return CodeNotFound
	}
	return CodeInternalError
}

// Predefined error codes
const (
	CodeConfigInvalid   = "CONFIG_INVALID"
	CodeDatabaseError   = "DATABASE_ERROR"
	CodeValidationError = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeInternalError   = "INTERNAL_ERROR"
	CodeInvalidInput    = "INVALID_INPUT"
	CodeDivisionByZero  = "DIVISION_BY_ZERO"
	CodeNonFinite       = "NON_FINITE_RESULT"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func ValidationError(message string) *AppError {
	return New(CodeValidationError, message)
}
