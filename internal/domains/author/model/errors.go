package model

import (
	"errors"
	"net/http"
)

// =====================================================
// CUSTOM ERROR CODES
// =====================================================
const (
	ErrCodeAuthorNotFound  = "AUT001"
	ErrCodeValidation      = "AUT002"
	ErrCodeDuplicateEmail  = "AUT003"
	ErrCodeVersionMismatch = "AUT004"
	ErrCodeInvalidAPIKey   = "AUT005"
)

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrAuthorNotFound  = errors.New("author not found")
	ErrValidation      = errors.New("validation failed")
	ErrDuplicateEmail  = errors.New("an author with this email already exists")
	ErrVersionMismatch = errors.New("version mismatch - concurrent modification detected")
	ErrInvalidAPIKey   = errors.New("invalid editor API key")
)

// =====================================================
// CUSTOM ERROR TYPE
// =====================================================
type AuthorError struct {
	Code    string
	Message string
	Err     error
}

func (e *AuthorError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AuthorError) Unwrap() error {
	return e.Err
}

// NewValidationError wraps a field-level reason as a validation failure.
func NewValidationError(reason string) *AuthorError {
	return &AuthorError{
		Code:    ErrCodeValidation,
		Message: reason,
		Err:     ErrValidation,
	}
}

// =====================================================
// HTTP MAPPING
// =====================================================

// ToErrorCode resolves err to its business error code. Unrecognized
// errors map to the empty string so handlers fall through to a 500.
func ToErrorCode(err error) string {
	var authorErr *AuthorError
	if errors.As(err, &authorErr) {
		return authorErr.Code
	}

	switch {
	case errors.Is(err, ErrAuthorNotFound):
		return ErrCodeAuthorNotFound
	case errors.Is(err, ErrDuplicateEmail):
		return ErrCodeDuplicateEmail
	case errors.Is(err, ErrVersionMismatch):
		return ErrCodeVersionMismatch
	case errors.Is(err, ErrInvalidAPIKey):
		return ErrCodeInvalidAPIKey
	case errors.Is(err, ErrValidation):
		return ErrCodeValidation
	default:
		return ""
	}
}

// ToHTTPStatus maps business error codes to HTTP status codes.
func ToHTTPStatus(code string) int {
	statusMap := map[string]int{
		ErrCodeAuthorNotFound:  http.StatusNotFound,
		ErrCodeValidation:      http.StatusUnprocessableEntity,
		ErrCodeDuplicateEmail:  http.StatusConflict,
		ErrCodeVersionMismatch: http.StatusConflict,
		ErrCodeInvalidAPIKey:   http.StatusUnauthorized,
	}

	if status, exists := statusMap[code]; exists {
		return status
	}
	return http.StatusInternalServerError
}
