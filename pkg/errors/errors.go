// Package errors defines common error types for the application.
package errors

import (
	"errors"
	"fmt"
)

// Error codes for the application.
const (
	CodeUnknown         = "UNKNOWN_ERROR"
	CodeMalformedRecord = "MALFORMED_RECORD"
	CodeEmptyBatch      = "EMPTY_BATCH"
	CodeEmptyFile       = "EMPTY_FILE"
	CodeParseError      = "PARSE_ERROR"
	CodeInvalidInput    = "INVALID_INPUT"
	CodeStorageError    = "STORAGE_ERROR"
	CodeRenderError     = "RENDER_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeConfigError     = "CONFIG_ERROR"
)

// AppError represents an application error with a code and message.
type AppError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError.
func New(code string, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new AppError with a formatted message.
func Newf(code string, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with an AppError.
func Wrap(code string, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error instances.
var (
	// ErrMalformedRecord is returned when a tree node lacks a required field.
	// It aborts construction of the whole tree and, in the CLI, the batch.
	ErrMalformedRecord = New(CodeMalformedRecord, "malformed record")
	// ErrEmptyBatch is returned when no tree reaches hotness bucketing.
	ErrEmptyBatch   = New(CodeEmptyBatch, "empty batch")
	ErrEmptyFile    = New(CodeEmptyFile, "empty file")
	ErrParseError   = New(CodeParseError, "parse error")
	ErrInvalidInput = New(CodeInvalidInput, "invalid input")
	ErrStorageError = New(CodeStorageError, "storage error")
	ErrNotFound     = New(CodeNotFound, "resource not found")
	ErrConfigError  = New(CodeConfigError, "configuration error")
)

// IsMalformedRecord checks if the error is a malformed record error.
func IsMalformedRecord(err error) bool {
	return errors.Is(err, ErrMalformedRecord)
}

// IsEmptyBatch checks if the error is an empty batch error.
func IsEmptyBatch(err error) bool {
	return errors.Is(err, ErrEmptyBatch)
}

// IsEmptyFile checks if the error is an empty file error.
func IsEmptyFile(err error) bool {
	return errors.Is(err, ErrEmptyFile)
}

// IsParseError checks if the error is a parse error.
func IsParseError(err error) bool {
	return errors.Is(err, ErrParseError)
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidInput checks if the error is an invalid input error.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsStorageError checks if the error is a storage error.
func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorageError)
}

// IsConfigError checks if the error is a configuration error.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfigError)
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}
