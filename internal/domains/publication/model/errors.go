package model

import (
	"errors"
	"fmt"
	"net/http"
)

// =====================================================
// CUSTOM ERROR CODES
// =====================================================
const (
	ErrCodePublicationNotFound  = "PUB001"
	ErrCodeValidation           = "PUB002"
	ErrCodeIllegalTransition    = "PUB003"
	ErrCodeTransitionRule       = "PUB004"
	ErrCodeVersionMismatch      = "PUB005"
	ErrCodeAuthorNotFound       = "PUB006"
	ErrCodeDirectoryUnavailable = "PUB007"
	ErrCodeNotEditable          = "PUB008"
	ErrCodeCannotDelete         = "PUB009"
	ErrCodeAttachmentNotFound   = "PUB010"
	ErrCodeAttachmentTooLarge   = "PUB011"
	ErrCodeInvalidStatus        = "PUB012"
)

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrPublicationNotFound  = errors.New("publication not found")
	ErrValidation           = errors.New("validation failed")
	ErrIllegalTransition    = errors.New("status transition not allowed")
	ErrVersionMismatch      = errors.New("version mismatch - concurrent modification detected")
	ErrAuthorNotFound       = errors.New("author not found")
	ErrDirectoryUnavailable = errors.New("author directory unavailable")
	ErrCannotDelete         = errors.New("published publications cannot be deleted")
	ErrAttachmentNotFound   = errors.New("attachment not found")
	ErrAttachmentTooLarge   = errors.New("attachment exceeds maximum size")
	ErrInvalidStatus        = errors.New("invalid publication status")

	// Transition-rule and editability failures are validation failures:
	// errors.Is(err, ErrValidation) holds for both.
	ErrTransitionRule = fmt.Errorf("transition rule violated: %w", ErrValidation)
	ErrNotEditable    = fmt.Errorf("publication content can only be edited in DRAFT or IN_REVIEW: %w", ErrValidation)
)

// =====================================================
// CUSTOM ERROR TYPE
// =====================================================
type PublicationError struct {
	Code    string
	Message string
	Err     error
}

func (e *PublicationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *PublicationError) Unwrap() error {
	return e.Err
}

// NewPublicationError creates a new PublicationError
func NewPublicationError(code, message string, err error) *PublicationError {
	return &PublicationError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewValidationError wraps a field-level reason as a validation failure.
func NewValidationError(reason string) *PublicationError {
	return &PublicationError{
		Code:    ErrCodeValidation,
		Message: reason,
		Err:     ErrValidation,
	}
}

// NewTransitionRuleError reports which rule blocked a transition.
func NewTransitionRuleError(reason string) *PublicationError {
	return &PublicationError{
		Code:    ErrCodeTransitionRule,
		Message: reason,
		Err:     ErrTransitionRule,
	}
}

// =====================================================
// HTTP MAPPING
// =====================================================

// ToErrorCode resolves err to its business error code. Unrecognized
// errors map to the empty string so handlers fall through to a 500.
func ToErrorCode(err error) string {
	var pubErr *PublicationError
	if errors.As(err, &pubErr) {
		return pubErr.Code
	}

	switch {
	case errors.Is(err, ErrPublicationNotFound):
		return ErrCodePublicationNotFound
	case errors.Is(err, ErrAuthorNotFound):
		return ErrCodeAuthorNotFound
	case errors.Is(err, ErrVersionMismatch):
		return ErrCodeVersionMismatch
	case errors.Is(err, ErrIllegalTransition):
		return ErrCodeIllegalTransition
	case errors.Is(err, ErrTransitionRule):
		return ErrCodeTransitionRule
	case errors.Is(err, ErrNotEditable):
		return ErrCodeNotEditable
	case errors.Is(err, ErrDirectoryUnavailable):
		return ErrCodeDirectoryUnavailable
	case errors.Is(err, ErrCannotDelete):
		return ErrCodeCannotDelete
	case errors.Is(err, ErrAttachmentNotFound):
		return ErrCodeAttachmentNotFound
	case errors.Is(err, ErrAttachmentTooLarge):
		return ErrCodeAttachmentTooLarge
	case errors.Is(err, ErrInvalidStatus):
		return ErrCodeInvalidStatus
	case errors.Is(err, ErrValidation):
		return ErrCodeValidation
	default:
		return ""
	}
}

// ToHTTPStatus maps business error codes to HTTP status codes.
func ToHTTPStatus(code string) int {
	statusMap := map[string]int{
		ErrCodePublicationNotFound:  http.StatusNotFound,
		ErrCodeValidation:           http.StatusUnprocessableEntity,
		ErrCodeIllegalTransition:    http.StatusUnprocessableEntity,
		ErrCodeTransitionRule:       http.StatusUnprocessableEntity,
		ErrCodeVersionMismatch:      http.StatusConflict,
		ErrCodeAuthorNotFound:       http.StatusNotFound,
		ErrCodeDirectoryUnavailable: http.StatusServiceUnavailable,
		ErrCodeNotEditable:          http.StatusUnprocessableEntity,
		ErrCodeCannotDelete:         http.StatusConflict,
		ErrCodeAttachmentNotFound:   http.StatusNotFound,
		ErrCodeAttachmentTooLarge:   http.StatusRequestEntityTooLarge,
		ErrCodeInvalidStatus:        http.StatusUnprocessableEntity,
	}

	if status, exists := statusMap[code]; exists {
		return status
	}
	return http.StatusInternalServerError
}
