package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a domain error independently of its code.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthorized
	KindExpired
	KindMissingClaims
	KindMalformed
	KindConflict
	KindNotFound
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "Unauthorized"
	case KindExpired:
		return "Expired"
	case KindMissingClaims:
		return "MissingClaims"
	case KindMalformed:
		return "Malformed"
	case KindConflict:
		return "Conflict"
	case KindNotFound:
		return "NotFound"
	case KindForbidden:
		return "Forbidden"
	default:
		return "Internal"
	}
}

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Kind    Kind
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches on code so wrapped copies compare equal to the sentinel they
// were built from.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// newDomainError creates a sentinel domain error
func newDomainError(kind Kind, code, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Kind:    domainErr.Kind,
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// Predefined domain errors
var (
	// Authentication errors. Messages stay generic so callers cannot tell
	// which check failed.
	ErrInvalidCredentials = newDomainError(KindUnauthorized, "INVALID_CREDENTIALS", "invalid credentials")
	ErrUnauthorized       = newDomainError(KindUnauthorized, "UNAUTHORIZED", "unauthorized")
	ErrInvalidToken       = newDomainError(KindUnauthorized, "INVALID_TOKEN", "invalid token")
	ErrTokenExpired       = newDomainError(KindExpired, "TOKEN_EXPIRED", "token expired")
	ErrTokenMalformed     = newDomainError(KindMalformed, "TOKEN_MALFORMED", "invalid token")
	ErrMissingClaims      = newDomainError(KindMissingClaims, "MISSING_CLAIMS", "invalid token")
	ErrForbidden          = newDomainError(KindForbidden, "FORBIDDEN", "access forbidden")

	// User errors
	ErrUserNotFound = newDomainError(KindNotFound, "USER_NOT_FOUND", "user not found")
	ErrUserExists   = newDomainError(KindConflict, "USER_EXISTS", "username or email already exists")
	ErrSelfDeletion = newDomainError(KindForbidden, "SELF_DELETION", "users cannot delete themselves")

	// Catalog errors
	ErrProductNotFound  = newDomainError(KindNotFound, "PRODUCT_NOT_FOUND", "product not found")
	ErrRatingNotFound   = newDomainError(KindNotFound, "RATING_NOT_FOUND", "rating not found")
	ErrFeedbackNotFound = newDomainError(KindNotFound, "FEEDBACK_NOT_FOUND", "feedback not found")
	ErrReviewNotFound   = newDomainError(KindNotFound, "REVIEW_NOT_FOUND", "no products found")

	// Validation errors
	ErrInvalidInput = newDomainError(KindMalformed, "INVALID_INPUT", "invalid input")

	// System errors
	ErrInternal = newDomainError(KindInternal, "INTERNAL_ERROR", "internal server error")
)

// asDomainError extracts the domain error from an error chain
func asDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// KindOf reports the kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	if domainErr := asDomainError(err); domainErr != nil {
		return domainErr.Kind
	}
	return KindInternal
}

// ToHTTPStatus maps domain errors to HTTP status codes
// This should only be used in the handler/presentation layer
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch KindOf(err) {
	case KindUnauthorized, KindExpired, KindMissingClaims:
		return http.StatusUnauthorized
	case KindMalformed:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage safely extracts error message. Internal causes are never
// exposed to callers.
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return ErrInternal.Message
}

// GetErrorCode returns the machine readable code of err.
func GetErrorCode(err error) string {
	if domainErr := asDomainError(err); domainErr != nil {
		return domainErr.Code
	}
	return ErrInternal.Code
}
