/*
errors.go - Centralized error types shared by the engine's outer layers

PURPOSE:
  The income engine itself never fails: malformed optional fields degrade to
  documented fallbacks. Errors only exist at the boundary, where records are
  validated and persisted. They are collected here so the stores and the API
  agree on what each failure means.

ERROR CATEGORIES:
  1. Store errors - Missing or duplicate records
  2. Validation errors - Records rejected before they reach the store

USAGE:
  if errors.Is(err, generic.ErrNotFound) {
      // 404
  }

SEE ALSO:
  - income/validate.go: Produces ValidationError
  - api/handlers.go: Maps errors to HTTP status codes
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is returned when a referenced record doesn't exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateClient is returned when a client name is already taken.
	ErrDuplicateClient = errors.New("client already exists")

	// ErrDuplicateNonWorkDay is returned when a date is already marked as a
	// non-work day. A date appears at most once.
	ErrDuplicateNonWorkDay = errors.New("date already marked as non-work day")

	// ErrInvalidRecord is returned when a record fails boundary validation.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrInvalidPeriod is returned for a year/month outside the calendar range.
	ErrInvalidPeriod = errors.New("invalid year or month")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError names the offending field of a rejected record.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidRecord
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRecord) ||
		errors.Is(err, ErrInvalidPeriod)
}

// IsConflict returns true if the write collided with an existing record.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateClient) ||
		errors.Is(err, ErrDuplicateNonWorkDay)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
