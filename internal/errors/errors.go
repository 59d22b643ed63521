package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
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

// Is lets wrapped copies of a sentinel match the sentinel by code.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// WithMessage returns a copy of the domain error carrying a more specific
// user-facing message. Used for the suspended/deleted account messages that
// include the stored reason text.
func WithMessage(domainErr *DomainError, message string) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: message,
	}
}

// Predefined domain errors
var (
	// Validation
	ErrValidation  = NewDomainError("VALIDATION_ERROR", "invalid input")
	ErrPhoneExists = NewDomainError("PHONE_EXISTS", "phone number already registered")

	// Authentication
	ErrInvalidCredentials = NewDomainError("INVALID_CREDENTIALS", "invalid phone number or password")
	ErrAccountSuspended   = NewDomainError("ACCOUNT_SUSPENDED", "account suspended")
	ErrAccountDeleted     = NewDomainError("ACCOUNT_DELETED", "account deleted")
	ErrUnauthorized       = NewDomainError("UNAUTHORIZED", "unauthorized")
	ErrInvalidToken       = NewDomainError("INVALID_TOKEN", "invalid or expired token")

	// Verification flow
	ErrInvalidOtpFormat        = NewDomainError("INVALID_OTP_FORMAT", "verification code must be 6 digits")
	ErrInvalidOrExpiredOtp     = NewDomainError("INVALID_OR_EXPIRED_OTP", "verification code is invalid or has expired")
	ErrUserNotFound            = NewDomainError("USER_NOT_FOUND", "user not found")
	ErrNoPendingSocialAccount  = NewDomainError("NO_PENDING_SOCIAL_ACCOUNT", "no pending social login for this session")
	ErrSocialAccountNotFound   = NewDomainError("SOCIAL_ACCOUNT_NOT_FOUND", "social account not found")

	// Subscription
	ErrPlanNotFound        = NewDomainError("PLAN_NOT_FOUND", "subscription plan not found")
	ErrDowngradeNotAllowed = NewDomainError("DOWNGRADE_NOT_ALLOWED", "switching to a cheaper plan is not allowed")
	ErrAdLimitReached      = NewDomainError("AD_LIMIT_REACHED", "active ad allowance for the current plan is exhausted")

	// Listings / catalog
	ErrAdNotFound       = NewDomainError("AD_NOT_FOUND", "ad not found")
	ErrCategoryNotFound = NewDomainError("CATEGORY_NOT_FOUND", "category not found")

	// System
	ErrInternal           = NewDomainError("INTERNAL_ERROR", "internal server error")
	ErrServiceUnavailable = NewDomainError("SERVICE_UNAVAILABLE", "service unavailable")
	ErrTooManyRequests    = NewDomainError("TOO_MANY_REQUESTS", "too many requests, try again later")
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// ToHTTPStatus maps domain errors to HTTP status codes
// This should only be used in the handler/presentation layer
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	return http.StatusInternalServerError
}

func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	// 400 Bad Request
	case "INVALID_OR_EXPIRED_OTP":
		return http.StatusBadRequest

	// 401 Unauthorized
	case "UNAUTHORIZED", "INVALID_CREDENTIALS", "INVALID_TOKEN":
		return http.StatusUnauthorized

	// 403 Forbidden
	case "ACCOUNT_SUSPENDED", "ACCOUNT_DELETED", "AD_LIMIT_REACHED":
		return http.StatusForbidden

	// 404 Not Found
	case "USER_NOT_FOUND", "NO_PENDING_SOCIAL_ACCOUNT", "SOCIAL_ACCOUNT_NOT_FOUND",
		"PLAN_NOT_FOUND", "AD_NOT_FOUND", "CATEGORY_NOT_FOUND":
		return http.StatusNotFound

	// 409 Conflict
	case "PHONE_EXISTS":
		return http.StatusConflict

	// 422 Unprocessable Entity
	case "VALIDATION_ERROR", "INVALID_OTP_FORMAT", "DOWNGRADE_NOT_ALLOWED":
		return http.StatusUnprocessableEntity

	// 429 Too Many Requests
	case "TOO_MANY_REQUESTS":
		return http.StatusTooManyRequests

	// 503 Service Unavailable
	case "SERVICE_UNAVAILABLE":
		return http.StatusServiceUnavailable

	// 500 Internal Server Error (default)
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage safely extracts error message
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return err.Error()
}
