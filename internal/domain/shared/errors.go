// Package shared contains common domain types, errors and value objects
// that are used across all domain packages. This package has zero external dependencies.
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
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// State errors
	ErrInvalidState = errors.New("invalid state")
	ErrExpired      = errors.New("expired")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "student", "grade", "teacher"
	Op      string // Operation that failed, e.g., "Create", "Update"
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

// Teacher domain errors
var (
	ErrTeacherNotFound      = NewDomainError("teacher", "Find", ErrNotFound, "Teacher not found")
	ErrEmailAlreadyExists   = NewDomainError("teacher", "Register", ErrAlreadyExists, "Email already registered")
	ErrInvalidEmail         = NewDomainError("teacher", "Validate", ErrInvalidFormat, "value is not a valid email address")
	ErrEmptyPassword        = NewDomainError("teacher", "Validate", ErrInvalidFormat, "password must not be empty")
	ErrPasswordTooLong      = NewDomainError("teacher", "Validate", ErrInvalidFormat, "password must be at most 72 bytes")
	ErrInvalidCredentials   = NewDomainError("teacher", "Authenticate", ErrUnauthorized, "Incorrect email or password")
	ErrCouldNotValidate     = NewDomainError("teacher", "ValidateToken", ErrUnauthorized, "Could not validate credentials")
	ErrTeacherInactive      = NewDomainError("teacher", "ValidateToken", ErrUnauthorized, "Inactive teacher")
	ErrInvalidTeacherFields = NewDomainError("teacher", "Validate", ErrInvalidFormat, "full_name must not be empty")
)

// Student domain errors
var (
	ErrStudentNotFound     = NewDomainError("student", "Find", ErrNotFound, "Student not found")
	ErrInvalidStudentName  = NewDomainError("student", "Validate", ErrInvalidFormat, "full_name must not be empty")
	ErrInvalidStudentGroup = NewDomainError("student", "Validate", ErrInvalidFormat, "class_group must not be empty")
)

// Subject domain errors
var (
	ErrSubjectNotFound      = NewDomainError("subject", "Find", ErrNotFound, "Subject not found")
	ErrSubjectAlreadyExists = NewDomainError("subject", "Create", ErrAlreadyExists, "Subject already exists")
	ErrInvalidSubjectName   = NewDomainError("subject", "Validate", ErrInvalidFormat, "name must not be empty")
	ErrSubjectHasGrades     = NewDomainError("subject", "Delete", ErrInvalidState, "Cannot delete subject with existing grades. Delete grades first.")
)

// Grade domain errors
var (
	ErrGradeNotFound    = NewDomainError("grade", "Find", ErrNotFound, "Grade not found")
	ErrGradeOutOfRange  = NewDomainError("grade", "Validate", ErrValueOutOfRange, "Grade must be between 1 and 5")
	ErrInvalidGradeDate = NewDomainError("grade", "Validate", ErrInvalidFormat, "date must be a valid calendar date")
)

// Pagination errors
var (
	ErrInvalidSkip  = NewDomainError("page", "Validate", ErrInvalidFormat, "skip must be greater than or equal to 0")
	ErrInvalidLimit = NewDomainError("page", "Validate", ErrInvalidFormat, "limit must be greater than 0")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsUnauthorized checks if the error should be reported as an authentication failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrExpired)
}

// MessageOf extracts the human-readable message of the outermost DomainError.
// Returns an empty string for non-domain errors.
func MessageOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}
