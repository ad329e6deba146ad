// Package errors provides structured error handling for recall.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO errors (file, disk, store)
//   - 4XX: Validation errors (records, queries)
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file and store I/O errors.
	CategoryIO Category = "IO"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigInvalid = "ERR_101_CONFIG_INVALID"

	// IO errors (200-299)
	ErrCodeFileNotFound   = "ERR_201_FILE_NOT_FOUND"
	ErrCodeFileUnreadable = "ERR_202_FILE_UNREADABLE"
	ErrCodeFileNotUTF8    = "ERR_203_FILE_NOT_UTF8"
	ErrCodeStoreInit      = "ERR_205_STORE_INIT"
	ErrCodeStoreCorrupt   = "ERR_206_STORE_CORRUPT"

	// Validation errors (400-499)
	ErrCodeRecordInvalid = "ERR_401_RECORD_INVALID"
	ErrCodeQueryInvalid  = "ERR_403_QUERY_INVALID"
	ErrCodeQueryEmpty    = "ERR_404_QUERY_EMPTY"

	// Internal errors (500-599)
	ErrCodeInternal = "ERR_501_INTERNAL"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode derives default severity from error code.
// Store-level failures abort the whole operation; per-file read
// failures are skipped and logged during rebuild.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeStoreInit, ErrCodeStoreCorrupt:
		return SeverityFatal
	case ErrCodeFileUnreadable, ErrCodeFileNotUTF8:
		return SeverityWarning
	default:
		return SeverityError
	}
}
