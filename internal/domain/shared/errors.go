package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap exposes the underlying infrastructure error, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is reports whether target is a DomainError with the same code.
// This lets callers match on the sentinel values below with errors.Is
// even when the returned error carries extra detail.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapDomainError creates a domain error carrying an underlying cause
func WrapDomainError(code, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Error codes
const (
	CodeNotFound                  = "NOT_FOUND"
	CodeInvalidInput              = "INVALID_INPUT"
	CodeTemplateNotFound          = "TEMPLATE_NOT_FOUND"
	CodeMissingResetContext       = "MISSING_RESET_CONTEXT"
	CodeSequenceReservationFailed = "SEQUENCE_RESERVATION_FAILED"
	CodeInternal                  = "INTERNAL_ERROR"
)

// Common domain errors
var (
	ErrNotFound                  = NewDomainError(CodeNotFound, "Resource not found")
	ErrInvalidInput              = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrTemplateNotFound          = NewDomainError(CodeTemplateNotFound, "No active document template found")
	ErrMissingResetContext       = NewDomainError(CodeMissingResetContext, "Missing context value required by reset rule")
	ErrSequenceReservationFailed = NewDomainError(CodeSequenceReservationFailed, "Failed to reserve sequence numbers")
)
