package shared

import "fmt"

var (
	// Input validation errors: surfaced as 400, never retried.
	ErrValidation = fmt.Errorf("validation failed")

	// ErrStorageUnavailable means the backing store connection could not
	// be obtained. Surfaced as 500.
	ErrStorageUnavailable = fmt.Errorf("storage unavailable")

	// ErrOperationFailed wraps any other storage-layer failure; the
	// underlying message travels along as diagnostic detail.
	ErrOperationFailed = fmt.Errorf("operation failed")

	// Authentication errors
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrNotFound           = fmt.Errorf("not found")
)
