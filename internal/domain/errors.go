package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation  = "VALIDATION_ERROR"
	ErrCodeNotFound    = "NOT_FOUND"
	ErrCodeEmbedding   = "EMBEDDING_ERROR"
	ErrCodePersistence = "PERSISTENCE_ERROR"
	ErrCodeGeneration  = "GENERATION_ERROR"
	ErrCodeStorage     = "STORAGE_ERROR"
)

// Validation errors
var (
	ErrInvalidWorkItemType = NewDomainError(ErrCodeValidation, "invalid work item type")
	ErrMissingTitle        = NewDomainError(ErrCodeValidation, "title is required")
	ErrMissingQuestion     = NewDomainError(ErrCodeValidation, "message is required")
	ErrInvalidTopK         = NewDomainError(ErrCodeValidation, "k must be a positive integer")
)

// Not found errors
var (
	ErrWorkItemNotFound = NewDomainError(ErrCodeNotFound, "work item not found")
)

// NewEmbeddingError wraps a failed embedding-service call.
func NewEmbeddingError(err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeEmbedding, "embedding request failed", err)
}

// NewPersistenceError wraps a failed store operation.
func NewPersistenceError(err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodePersistence, "store operation failed", err)
}

// NewGenerationError wraps a failed language-model invocation.
func NewGenerationError(err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeGeneration, "model invocation failed", err)
}
