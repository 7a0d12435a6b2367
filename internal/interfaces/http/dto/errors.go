package dto

import (
	"net/http"

	"github.com/shopfront/backend/internal/domain/shared"
)

// Error codes produced by the HTTP layer itself. Domain codes live in shared.
const (
	ErrCodeValidation      = shared.CodeValidation
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeTokenExpired    = "TOKEN_EXPIRED"
	ErrCodeTokenRevoked    = "TOKEN_REVOKED"
	ErrCodeRateLimited     = "RATE_LIMITED"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	shared.CodeNotAuthorized:      http.StatusForbidden,
	shared.CodeValidation:         http.StatusBadRequest,
	shared.CodeNotFound:           http.StatusNotFound,
	shared.CodeEmptyBasket:        http.StatusUnprocessableEntity,
	shared.CodeInvalidContact:     http.StatusUnprocessableEntity,
	shared.CodeInvalidState:       http.StatusConflict,
	shared.CodeExternalFetch:      http.StatusBadGateway,
	shared.CodeFeedMalformed:      http.StatusUnprocessableEntity,
	shared.CodeAlreadyExists:      http.StatusConflict,
	shared.CodeInvalidCredentials: http.StatusUnauthorized,
	shared.CodeAccountInactive:    http.StatusForbidden,
	shared.CodeInvalidToken:       http.StatusBadRequest,
	shared.CodeQueueFull:          http.StatusServiceUnavailable,

	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeUnauthorized:    http.StatusUnauthorized,
	ErrCodeTokenExpired:    http.StatusUnauthorized,
	ErrCodeTokenRevoked:    http.StatusUnauthorized,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeInternal:        http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for an error code, 500 when unknown
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
