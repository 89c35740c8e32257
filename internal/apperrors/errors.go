package apperrors

import "errors"

// Sentinel errors for the service. Callers classify failures with
// errors.Is and wrap context in with fmt.Errorf("...: %w", Err...).
var (
	// ErrInvalidInput marks malformed or out-of-domain input: non-positive
	// terms, non-finite amounts, invalid dates. Detected before any
	// computation proceeds.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks a missing row.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a failed optimistic-concurrency check on a ledger
	// update. The caller re-fetches and retries.
	ErrConflict = errors.New("concurrent modification")

	// ErrPersistence marks a failure reported by the storage backend. It is
	// surfaced unchanged; the service never retries automatically.
	ErrPersistence = errors.New("persistence failure")
)
