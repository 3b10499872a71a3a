package errors

import (
	"fmt"
	"strings"
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
		Code:    CodeInternalFailure,
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
	if appErr, ok := err.(*AppError); ok {
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

// Predefined error codes
const (
	CodeUnsupportedFormat      = "UNSUPPORTED_FORMAT"
	CodeAmbiguousSheet         = "AMBIGUOUS_SHEET_SELECTION"
	CodeUnreadableDocument     = "UNREADABLE_DOCUMENT"
	CodeMissingRequiredColumns = "MISSING_REQUIRED_COLUMNS"
	CodeConfigInvalid          = "CONFIG_INVALID"
	CodeNotFound               = "NOT_FOUND"
	CodeInvalidInput           = "INVALID_INPUT"
	CodeInternalFailure        = "INTERNAL_FAILURE"
)

// Common error constructors
func UnsupportedFormat(hint string) *AppError {
	return New(CodeUnsupportedFormat, fmt.Sprintf("unsupported file format %q", hint))
}

func AmbiguousSheet(sheetCount int) *AppError {
	return New(CodeAmbiguousSheet,
		fmt.Sprintf("workbook contains %d sheets and no single sheet could be selected", sheetCount))
}

func UnreadableDocument(cause error) *AppError {
	return &AppError{
		Code:    CodeUnreadableDocument,
		Message: "document could not be parsed",
		Cause:   cause,
	}
}

func MissingRequiredColumns(columns []string) *AppError {
	return New(CodeMissingRequiredColumns,
		fmt.Sprintf("missing required column(s): %s", strings.Join(columns, ", ")))
}

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func InternalFailure(message string) *AppError {
	return New(CodeInternalFailure, message)
}

// IsUserFacing reports whether the error carries a code safe to return to
// the caller verbatim. Anything else is surfaced as a generic internal
// failure.
func IsUserFacing(err error) bool {
	switch GetCode(err) {
	case CodeUnsupportedFormat, CodeAmbiguousSheet, CodeUnreadableDocument,
		CodeMissingRequiredColumns, CodeInvalidInput, CodeNotFound:
		return true
	}
	return false
}
