package errors

import (
	"fmt"
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

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
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

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code string) bool {
	return GetCode(err) == code
}

// Predefined error codes
const (
	CodeConfigInvalid         = "CONFIG_INVALID"
	CodeDatabaseError         = "DATABASE_ERROR"
	CodeInternalError         = "INTERNAL_ERROR"
	CodeInvalidSelection      = "INVALID_SELECTION"
	CodeUnsupportedColumnType = "UNSUPPORTED_COLUMN_TYPE"
	CodeEmptyInput            = "EMPTY_INPUT"
	CodeNumericInstability    = "NUMERIC_INSTABILITY"
	CodeNotFound              = "NOT_FOUND"
)

// Common error constructors

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string) *AppError {
	return New(CodeDatabaseError, message)
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

// InvalidSelection reports a column selection outside the analysis type's
// arity bounds. Computation is not attempted.
func InvalidSelection(message string) *AppError {
	return New(CodeInvalidSelection, message)
}

// UnsupportedColumnType reports an analysis invoked on a column whose
// semantic type it does not accept.
func UnsupportedColumnType(message string) *AppError {
	return New(CodeUnsupportedColumnType, message)
}

// EmptyInput reports that zero rows remain after missingness exclusion.
// Engines normally resolve this with a well-formed empty result; the code
// exists for the few places that must signal it explicitly.
func EmptyInput(message string) *AppError {
	return New(CodeEmptyInput, message)
}

// NumericInstability reports a computation failure (non-convergence,
// singular matrix) distinct from empty input.
func NumericInstability(message string) *AppError {
	return New(CodeNumericInstability, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}
