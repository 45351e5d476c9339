// Package shared contains common domain types, errors, and events that are
// used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation   = errors.New("validation error")
	ErrInvalidInput = errors.New("invalid input")
	ErrEmptyValue   = errors.New("value cannot be empty")

	// State errors
	ErrInvalidState    = errors.New("invalid state")
	ErrStateTransition = errors.New("invalid state transition")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")

	// Concurrency errors
	ErrConcurrentModification = errors.New("concurrent modification detected")
	ErrOptimisticLock         = errors.New("optimistic lock failure")

	// External service errors
	ErrExternalService    = errors.New("external service error")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "registration", "catalog"
	Op      string // Operation that failed, e.g., "Create", "Approve"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e == target {
		return true
	}
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Registration domain errors
var (
	ErrSubmissionNotFound     = NewDomainError("registration", "Find", ErrNotFound, "submission not found")
	ErrDuplicateSubmission    = NewDomainError("registration", "Create", ErrAlreadyExists, "active submission already exists for this term")
	ErrTerminalState          = NewDomainError("registration", "Transition", ErrInvalidState, "submission is in a terminal state")
	ErrUnauthorizedTransition = NewDomainError("registration", "Transition", ErrUnauthorized, "role is not authorized for the current stage")
	ErrVersionConflict        = NewDomainError("registration", "Update", ErrOptimisticLock, "submission was modified concurrently")
)

// Registration validation errors
var (
	ErrModuleCount      = NewDomainError("registration", "Validate", ErrValidation, "exactly six modules must be selected")
	ErrDuplicateModule  = NewDomainError("registration", "Validate", ErrValidation, "duplicate module in selection")
	ErrModuleNotOffered = NewDomainError("registration", "Validate", ErrValidation, "module is not offered by the student's faculty")
	ErrMissingField     = NewDomainError("registration", "Validate", ErrEmptyValue, "required field is missing")
	ErrUnknownRole      = NewDomainError("registration", "Validate", ErrInvalidInput, "role has no place in the approval pipeline")
)

// Catalog domain errors
var (
	ErrFacultyUnknown = NewDomainError("catalog", "Find", ErrNotFound, "faculty not found in catalog")
	ErrInvalidModule  = NewDomainError("catalog", "Validate", ErrValidation, "invalid module definition")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue)
}

// IsConflict checks if the error indicates a lost concurrent race.
func IsConflict(err error) bool {
	return errors.Is(err, ErrOptimisticLock) ||
		errors.Is(err, ErrConcurrentModification)
}
