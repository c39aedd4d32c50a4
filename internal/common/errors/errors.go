// Package errors provides standardized error handling for the agent pipelines.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeCompletionFailed  ErrorCode = "COMPLETION_FAILED"
	ErrCodeCompletionTimeout ErrorCode = "COMPLETION_TIMEOUT"

	ErrCodeStructuredParseFailed ErrorCode = "STRUCTURED_PARSE_FAILED"
	ErrCodeIntentParsingFailed   ErrorCode = "INTENT_PARSING_FAILED"

	ErrCodeUnsupportedFileType ErrorCode = "UNSUPPORTED_FILE_TYPE"
	ErrCodeFileSaveFailed      ErrorCode = "FILE_SAVE_FAILED"
	ErrCodeFileReadFailed      ErrorCode = "FILE_READ_FAILED"

	ErrCodePDFExtractionFailed ErrorCode = "PDF_EXTRACTION_FAILED"
	ErrCodeCSVParseFailed      ErrorCode = "CSV_PARSE_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeSessionNotFound          ErrorCode = "SESSION_NOT_FOUND"

	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInternalError    ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewCompletionFailedError creates a retryable remote-completion error.
func NewCompletionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCompletionFailed,
		Message:   "Completion API call failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCompletionTimeoutError creates a retryable completion timeout error.
func NewCompletionTimeoutError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCompletionTimeout,
		Message:   "Completion API call timed out",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStructuredParseFailedError creates a non-retryable parse error.
// Callers are expected to substitute a deterministic fallback instead of
// surfacing this to the user.
func NewStructuredParseFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStructuredParseFailed,
		Message:   "Model output could not be parsed as JSON",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnsupportedFileTypeError creates a non-retryable validation error.
func NewUnsupportedFileTypeError(fileType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnsupportedFileType,
		Message:   fmt.Sprintf("Unsupported file type: %s. Please upload PDF or CSV files.", fileType),
		Details:   fmt.Sprintf("fileType: %s", fileType),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFileSaveFailedError creates a non-retryable filesystem error naming the path.
func NewFileSaveFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeFileSaveFailed,
		Message:   "Failed to save file",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFileReadFailedError creates a non-retryable filesystem error naming the path.
func NewFileReadFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeFileReadFailed,
		Message:   "Failed to read file",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPDFExtractionFailedError creates a non-retryable extraction error.
func NewPDFExtractionFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePDFExtractionFailed,
		Message:   "Failed to extract text from PDF",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCSVParseFailedError creates a non-retryable tabular parse error.
func NewCSVParseFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCSVParseFailed,
		Message:   "Failed to parse CSV file",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionNotFoundError creates a non-retryable lookup error.
func NewSessionNotFoundError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionNotFound,
		Message:   "Session not found",
		Details:   fmt.Sprintf("sessionId: %s", sessionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationFailedError creates a non-retryable request validation error.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Request validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unexpected fault.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternalError,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Error Classification
// ==========================

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return NewInternalError(err)
}

// GetRetryCount returns how many retries a code warrants before surfacing.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCompletionTimeout:
		return 1
	case ErrCodeCompletionFailed,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed:
		return 2
	default:
		return 0
	}
}

// GetErrorCategory groups codes for logging and metrics.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeCompletionFailed, ErrCodeCompletionTimeout:
		return "remote_call"
	case ErrCodeStructuredParseFailed, ErrCodeIntentParsingFailed:
		return "parse"
	case ErrCodeFileSaveFailed, ErrCodeFileReadFailed,
		ErrCodePDFExtractionFailed, ErrCodeCSVParseFailed:
		return "io"
	case ErrCodeUnsupportedFileType, ErrCodeValidationFailed:
		return "validation"
	case ErrCodeDatabaseConnectionFailed, ErrCodeQueryExecutionFailed,
		ErrCodeSessionNotFound:
		return "database"
	default:
		return "internal"
	}
}
