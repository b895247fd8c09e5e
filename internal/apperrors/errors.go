// Package apperrors provides sentinel and custom error types for the application.
package apperrors

// ErrValidation represents a validation error.
// Use when client input fails validation.
var ErrValidation = &ValidationError{}

// ValidationError is a sentinel error for validation failures.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new ValidationError with a custom message.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	if e.Field != "" {
		return "validation failed for field: " + e.Field
	}

	return "validation error"
}

// Is implements the error interface for error comparison.
func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)

	return ok
}

// ErrNotReady is the sentinel for not-ready conditions: the subsystem has no indexed
// documents yet, or a collaborator failed to initialize.
var ErrNotReady = &NotReadyError{}

// NotReadyError is a sentinel error for not-ready conditions.
type NotReadyError struct {
	Message string
}

// NewNotReadyError creates a NotReadyError with a custom message.
func NewNotReadyError(message string) *NotReadyError {
	return &NotReadyError{Message: message}
}

// Error implements the error interface.
func (e *NotReadyError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return "subsystem not ready"
}

// Is implements the error interface for error comparison.
func (e *NotReadyError) Is(target error) bool {
	_, ok := target.(*NotReadyError)

	return ok
}

// ErrRetrieval is the sentinel for store query failures.
var ErrRetrieval = &RetrievalError{}

// RetrievalError is a sentinel error for relational store query failures.
type RetrievalError struct {
	Message string
	Cause   error
}

// NewRetrievalError creates a RetrievalError wrapping the underlying cause.
func NewRetrievalError(message string, cause error) *RetrievalError {
	return &RetrievalError{Message: message, Cause: cause}
}

// Error implements the error interface.
func (e *RetrievalError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return "retrieval failed"
}

// Unwrap returns the underlying cause.
func (e *RetrievalError) Unwrap() error {
	return e.Cause
}

// Is implements the error interface for error comparison.
func (e *RetrievalError) Is(target error) bool {
	_, ok := target.(*RetrievalError)

	return ok
}

// ErrEmbedding is the sentinel for embedding collaborator failures.
var ErrEmbedding = &EmbeddingError{}

// EmbeddingError is a sentinel error for failures producing an embedding vector.
type EmbeddingError struct {
	Message string
	Cause   error
}

// NewEmbeddingError creates an EmbeddingError wrapping the underlying cause.
func NewEmbeddingError(message string, cause error) *EmbeddingError {
	return &EmbeddingError{Message: message, Cause: cause}
}

// Error implements the error interface.
func (e *EmbeddingError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return "embedding failed"
}

// Unwrap returns the underlying cause.
func (e *EmbeddingError) Unwrap() error {
	return e.Cause
}

// Is implements the error interface for error comparison.
func (e *EmbeddingError) Is(target error) bool {
	_, ok := target.(*EmbeddingError)

	return ok
}

// ErrGeneration is the sentinel for generation collaborator failures.
var ErrGeneration = &GenerationError{}

// GenerationError is a sentinel error for failures producing answer text.
type GenerationError struct {
	Message string
	Cause   error
}

// NewGenerationError creates a GenerationError wrapping the underlying cause.
func NewGenerationError(message string, cause error) *GenerationError {
	return &GenerationError{Message: message, Cause: cause}
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return "generation failed"
}

// Unwrap returns the underlying cause.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is implements the error interface for error comparison.
func (e *GenerationError) Is(target error) bool {
	_, ok := target.(*GenerationError)

	return ok
}

// ErrNotFound represents a "not found" error.
// Use when a requested resource doesn't exist.
var ErrNotFound = &NotFoundError{}

// NotFoundError is a sentinel error for resources that are not found.
type NotFoundError struct {
	Resource string
	Message  string
}

// NewNotFoundError creates a new NotFoundError with a custom message.
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	if e.Resource != "" {
		return e.Resource + " not found"
	}

	return "resource not found"
}

// Is implements the error interface for error comparison.
func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)

	return ok
}
