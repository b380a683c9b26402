package shared

import "fmt"

// DomainError carries a machine-readable code alongside a human message.
// Handlers translate codes into HTTP statuses at the interface layer.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

func NewDomainErrorf(code, format string, args ...interface{}) *DomainError {
	return &DomainError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Sentinel errors shared across layers. They are DomainError values so that
// callers can match them with errors.Is and handlers can read the code off
// errors.As, whichever fits.
var (
	ErrNotFound            = &DomainError{Code: CodeNotFound, Message: "record not found"}
	ErrAlreadyExists       = &DomainError{Code: CodeAlreadyExists, Message: "record already exists"}
	ErrInvalidInput        = &DomainError{Code: CodeInvalidInput, Message: "invalid input"}
	ErrInsufficientStock   = &DomainError{Code: CodeInsufficientStock, Message: "insufficient stock"}
	ErrInsufficientBalance = &DomainError{Code: "INSUFFICIENT_BALANCE", Message: "insufficient balance"}
	ErrInvalidState        = &DomainError{Code: CodeInvalidState, Message: "invalid state transition"}
	ErrUnauthorized        = &DomainError{Code: "UNAUTHORIZED", Message: "unauthorized"}
	ErrForbidden           = &DomainError{Code: "FORBIDDEN", Message: "forbidden"}
	ErrConflict            = &DomainError{Code: CodeConflict, Message: "conflict"}
)

// Common domain error codes used across contexts.
const (
	CodeNotFound          = "NOT_FOUND"
	CodeAlreadyExists     = "ALREADY_EXISTS"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeInvalidState      = "INVALID_STATE"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeConflict          = "CONFLICT"
)
