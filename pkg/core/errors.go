package core

import "errors"

// Error kinds. Callers match them with errors.Is; concrete errors wrap them
// with context.
var (
	// ErrNotFound is returned by read lookups for an unknown id.
	ErrNotFound = errors.New("not found")

	// ErrStorageUnavailable means a backend could not be opened.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrStorageWriteFailed means a backend rejected a write.
	ErrStorageWriteFailed = errors.New("storage write failed")

	// ErrValidationRejected means a mutation was refused before any state changed.
	ErrValidationRejected = errors.New("validation rejected")

	// ErrImportFormatInvalid means an import document lacks the required shape.
	ErrImportFormatInvalid = errors.New("invalid import format")

	// ErrServiceUnavailable means the summary service is not configured.
	ErrServiceUnavailable = errors.New("summary service unavailable")

	// ErrServiceError means the summary service call failed.
	ErrServiceError = errors.New("summary service error")
)
