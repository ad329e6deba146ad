package errors

import (
	"fmt"
)

// RecallError is the structured error type for recall.
// It provides context for error handling, logging, and user presentation.
type RecallError struct {
	// Code is the unique error code (e.g., "ERR_201_FILE_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Validation, Internal).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error
}

// Error implements the error interface.
func (e *RecallError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *RecallError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with RecallError.
func (e *RecallError) Is(target error) bool {
	if t, ok := target.(*RecallError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *RecallError) WithDetail(key, value string) *RecallError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// New creates a new RecallError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *RecallError {
	return &RecallError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates a RecallError from an existing error.
// The error's message becomes the RecallError message.
func Wrap(code string, err error) *RecallError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// NotFound creates an error for a path that does not exist or is unreadable.
func NotFound(path string, cause error) *RecallError {
	return New(ErrCodeFileNotFound, fmt.Sprintf("not found: %s", path), cause).
		WithDetail("path", path)
}

// FileRead creates an error for a document file that could not be read.
func FileRead(path string, cause error) *RecallError {
	return New(ErrCodeFileUnreadable, fmt.Sprintf("cannot read %s", path), cause).
		WithDetail("path", path)
}

// NotUTF8 creates an error for a document file that is not valid UTF-8.
func NotUTF8(path string) *RecallError {
	return New(ErrCodeFileNotUTF8, fmt.Sprintf("not valid UTF-8: %s", path), nil).
		WithDetail("path", path)
}

// StoreInit creates a fatal error for a store that cannot be opened or created.
func StoreInit(message string, cause error) *RecallError {
	return New(ErrCodeStoreInit, message, cause)
}

// QueryInvalid creates an error for malformed query text.
func QueryInvalid(message string) *RecallError {
	return New(ErrCodeQueryInvalid, message, nil)
}

// QueryEmpty creates an error for empty query text.
func QueryEmpty() *RecallError {
	return New(ErrCodeQueryEmpty, "query text is empty", nil)
}

// RecordInvalid creates an error for an indexed record with missing fields.
func RecordInvalid(message string) *RecallError {
	return New(ErrCodeRecordInvalid, message, nil)
}

// ConfigInvalid creates a configuration-related error.
func ConfigInvalid(message string, cause error) *RecallError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return GetCode(err) == ErrCodeFileNotFound
}

// IsQueryError reports whether err is an empty/malformed query error.
func IsQueryError(err error) bool {
	code := GetCode(err)
	return code == ErrCodeQueryInvalid || code == ErrCodeQueryEmpty
}

// IsFatal checks if an error has fatal severity.
// Fatal errors abort the current operation.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if re, ok := err.(*RecallError); ok {
		return re.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from a RecallError.
// Returns empty string if not a RecallError.
func GetCode(err error) string {
	if re, ok := err.(*RecallError); ok {
		return re.Code
	}
	return ""
}

// GetCategory extracts the category from a RecallError.
// Returns empty string if not a RecallError.
func GetCategory(err error) Category {
	if re, ok := err.(*RecallError); ok {
		return re.Category
	}
	return ""
}
