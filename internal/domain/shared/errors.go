package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same error code
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes shared across the domain packages
const (
	CodeNotFound           = "NOT_FOUND"
	CodeAlreadyExists      = "ALREADY_EXISTS"
	CodeValidation         = "VALIDATION_ERROR"
	CodeNotAuthorized      = "NOT_AUTHORIZED"
	CodeInvalidState       = "INVALID_STATE"
	CodeEmptyBasket        = "EMPTY_BASKET"
	CodeInvalidContact     = "INVALID_CONTACT"
	CodeExternalFetch      = "EXTERNAL_FETCH_ERROR"
	CodeFeedMalformed      = "FEED_MALFORMED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeAccountInactive    = "ACCOUNT_INACTIVE"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeQueueFull          = "QUEUE_FULL"
)

// Common domain errors
var (
	ErrNotFound       = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists  = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput   = NewDomainError(CodeValidation, "Invalid input provided")
	ErrNotAuthorized  = NewDomainError(CodeNotAuthorized, "Not authorized to perform this action")
	ErrInvalidState   = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrEmptyBasket    = NewDomainError(CodeEmptyBasket, "Basket is empty")
	ErrInvalidContact = NewDomainError(CodeInvalidContact, "Contact does not belong to the account")
)

// CodeOf returns the domain error code carried by err, or "" when err is not a DomainError
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
