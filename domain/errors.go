package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeValidation   ErrorCode = "VALIDATION"
	ErrCodeActivation   ErrorCode = "ACTIVATION"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeDelivery     ErrorCode = "DELIVERY"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// FieldError holds the first failing rule's message key for a single field.
type FieldError struct {
	Field string
	Key   string
}

// Error represents a domain-level error. Key names an entry in the message
// catalogs; the boundary renders it in the negotiated locale. Internal detail
// stays in Err and never crosses the boundary.
type Error struct {
	Code   ErrorCode
	Key    string
	Fields []FieldError
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Key, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Key)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error carrying a message catalog key.
func NewError(code ErrorCode, key string) *Error {
	return &Error{Code: code, Key: key}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, key string, err error) *Error {
	return &Error{Code: code, Key: key, Err: err}
}

// NewValidationError builds a field-validation failure preserving field order.
func NewValidationError(fields ...FieldError) *Error {
	return &Error{Code: ErrCodeValidation, Key: "validation_failure", Fields: fields}
}

// Common domain errors.
var (
	ErrUserNotFound         = NewError(ErrCodeNotFound, "user_not_found")
	ErrTokenNotFound        = NewError(ErrCodeNotFound, "authentication_failure")
	ErrEmailInUse           = NewError(ErrCodeConflict, "email_inuse")
	ErrActivationFailed     = NewError(ErrCodeActivation, "account_activation_failure")
	ErrDeliveryFailed       = NewError(ErrCodeDelivery, "email_failure")
	ErrAuthenticationFailed = NewError(ErrCodeUnauthorized, "authentication_failure")
	ErrUpdateForbidden      = NewError(ErrCodeForbidden, "unauthenticated_user_update")
	ErrInvalidPayload       = NewError(ErrCodeInvalid, "invalid_payload")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// MessageKey extracts the catalog key of a domain error. Errors without a
// domain classification resolve to the generic internal key so that no
// internal detail leaks through the boundary.
func MessageKey(err error) string {
	var dErr *Error
	if errors.As(err, &dErr) && dErr.Code != ErrCodeInternal && dErr.Key != "" {
		return dErr.Key
	}
	return "internal_failure"
}
