/*
errors.go - Centralized error types for the planning engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The planning, factory and store packages wrap these with context.

ERROR CATEGORIES:
  1. Data errors - a record the engine cannot process (skipped, batch continues)
  2. Validation errors - a record that violates a business rule
  3. Structural errors - nothing to compute against (catalog absent)

PROPAGATION:
  The engine never fails a whole batch because one record is malformed.
  DataError values are collected next to the results; only ErrCatalogMissing
  and ErrInvalidPeriod come back as a returned error.

SEE ALSO:
  - planning/timeline.go: Collects DataError for skipped projects
  - planning/validate.go: Produces ValidationError
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
	// ErrCatalogMissing is returned when no resource catalog was supplied at all.
	ErrCatalogMissing = errors.New("resource catalog missing")

	// ErrMissingField is returned when a required record field is absent.
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidPeriod is returned when a period is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrInvalidAllocation is returned for percentages outside (0, 100] or
	// allocation spans outside their project.
	ErrInvalidAllocation = errors.New("invalid allocation")

	// ErrInvalidRecord covers any other malformed field value.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrDanglingReference is returned when a name points at no known record.
	ErrDanglingReference = errors.New("dangling reference")

	// ErrNotFound is returned when a named record doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateName is returned when a name is already taken by another kind.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrUnsupported is returned when a store lacks an optional capability.
	ErrUnsupported = errors.New("operation not supported by store")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// DataError describes a record the engine skipped.
type DataError struct {
	Entity string // "person", "team", "department", "project"
	Name   string
	Field  string
	Err    error
}

func (e *DataError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s %q: %v", e.Entity, e.Name, e.Err)
	}
	return fmt.Sprintf("%s %q: %s: %v", e.Entity, e.Name, e.Field, e.Err)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// ValidationError describes a business rule violation on one field.
type ValidationError struct {
	Entity  string
	Name    string
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %q: %s: %s", e.Entity, e.Name, e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationErrors is a batch of violations reported together.
type ValidationErrors []*ValidationError

func (ve ValidationErrors) Error() string {
	switch len(ve) {
	case 0:
		return "no validation errors"
	case 1:
		return ve[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more)", ve[0].Error(), len(ve)-1)
	}
}

// Unwrap exposes every violation to errors.Is / errors.As.
func (ve ValidationErrors) Unwrap() []error {
	errs := make([]error, len(ve))
	for i, e := range ve {
		errs[i] = e
	}
	return errs
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidAllocation) ||
		errors.Is(err, ErrInvalidRecord) ||
		errors.Is(err, ErrDanglingReference)
}

// IsConflict returns true if the error is a naming collision.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateName)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
