package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrIndexUnavailable is returned when a query arrives before the first successful corpus rebuild
	ErrIndexUnavailable = errors.New("index unavailable")

	// ErrDocumentNotFound is returned when a document is not found
	ErrDocumentNotFound = errors.New("document not found")

	// ErrStoreAccess is returned when the record store collaborator fails
	ErrStoreAccess = errors.New("store access failure")

	// ErrMalformedDocument is returned when a single document cannot be scored or classified
	ErrMalformedDocument = errors.New("malformed document")

	// ErrJobNotFound is returned when a job is not found
	ErrJobNotFound = errors.New("job not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// IndexUnavailableError is returned by queries issued before the corpus index was first built.
// It lets callers tell "no matches" apart from "index not ready".
type IndexUnavailableError struct {
	Operation string
}

func (e *IndexUnavailableError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("cannot %s: corpus index has not been built yet", e.Operation)
	}
	return "corpus index has not been built yet"
}

func (e *IndexUnavailableError) Is(target error) bool {
	return target == ErrIndexUnavailable
}

// NewIndexUnavailableError creates a new IndexUnavailableError
func NewIndexUnavailableError(operation string) *IndexUnavailableError {
	return &IndexUnavailableError{Operation: operation}
}

// DocumentNotFoundError represents a document not found error with context
type DocumentNotFoundError struct {
	DocumentID string
}

func (e *DocumentNotFoundError) Error() string {
	return fmt.Sprintf("document with ID '%s' not found", e.DocumentID)
}

func (e *DocumentNotFoundError) Is(target error) bool {
	return target == ErrDocumentNotFound
}

// NewDocumentNotFoundError creates a new DocumentNotFoundError
func NewDocumentNotFoundError(documentID string) *DocumentNotFoundError {
	return &DocumentNotFoundError{DocumentID: documentID}
}

// StoreAccessError wraps a failure reported by the record store.
// The original error stays reachable through Unwrap; the engine never retries it.
type StoreAccessError struct {
	Operation string
	Err       error
}

func (e *StoreAccessError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Operation, e.Err)
}

func (e *StoreAccessError) Is(target error) bool {
	return target == ErrStoreAccess
}

func (e *StoreAccessError) Unwrap() error {
	return e.Err
}

// NewStoreAccessError creates a new StoreAccessError
func NewStoreAccessError(operation string, err error) *StoreAccessError {
	return &StoreAccessError{Operation: operation, Err: err}
}

// MalformedDocumentError describes why one document was skipped by a batch operation
type MalformedDocumentError struct {
	DocumentID string
	Field      string
	Err        error
}

func (e *MalformedDocumentError) Error() string {
	if e.DocumentID != "" {
		return fmt.Sprintf("document '%s' has malformed %s: %v", e.DocumentID, e.Field, e.Err)
	}
	return fmt.Sprintf("document has malformed %s: %v", e.Field, e.Err)
}

func (e *MalformedDocumentError) Is(target error) bool {
	return target == ErrMalformedDocument
}

func (e *MalformedDocumentError) Unwrap() error {
	return e.Err
}

// NewMalformedDocumentError creates a new MalformedDocumentError
func NewMalformedDocumentError(documentID, field string, err error) *MalformedDocumentError {
	return &MalformedDocumentError{DocumentID: documentID, Field: field, Err: err}
}

// JobNotFoundError represents a job not found error with context
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job with ID '%s' not found", e.JobID)
}

func (e *JobNotFoundError) Is(target error) bool {
	return target == ErrJobNotFound
}

// NewJobNotFoundError creates a new JobNotFoundError
func NewJobNotFoundError(jobID string) *JobNotFoundError {
	return &JobNotFoundError{JobID: jobID}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
