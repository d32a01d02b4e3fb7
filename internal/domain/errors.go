package domain

import (
	"errors"
	"fmt"
)

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

// Is matches another DomainError by code and message so wrapped sentinels compare equal.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
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
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeInvalidOperation = "INVALID_OPERATION"
	ErrCodeAuthRequired     = "AUTH_REQUIRED"
	ErrCodeUpstream         = "UPSTREAM_ERROR"
	ErrCodeTransport        = "TRANSPORT_FAILURE"
	ErrCodePending          = "OPERATION_PENDING"
)

var (
	ErrAuthRequired     = NewDomainError(ErrCodeAuthRequired, "please log in to continue")
	ErrOperationPending = NewDomainError(ErrCodePending, "operation already in progress for this job")
	ErrUnknownFilter    = NewDomainError(ErrCodeValidation, "unknown search filter")
	ErrInvalidFilter    = NewDomainError(ErrCodeValidation, "invalid search filter value")
	ErrMissingJobID     = NewDomainError(ErrCodeValidation, "job id is required")
	ErrMissingToken     = NewDomainError(ErrCodeValidation, "token is required")
)

// GenericFailureMessage is used when an upstream body carries no usable message.
const GenericFailureMessage = "Something went wrong. Please try again."

// UpstreamError is a non-2xx response from the backend.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}

// TransportError is a network-level failure; no response was received.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: request failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsUnauthorized reports whether err is an upstream 401.
func IsUnauthorized(err error) bool {
	var upstream *UpstreamError
	return errors.As(err, &upstream) && upstream.StatusCode == 401
}

// UserMessage converts any workflow error into text fit for a notice.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		if upstream.Message != "" {
			return upstream.Message
		}
		return GenericFailureMessage
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return GenericFailureMessage
}
