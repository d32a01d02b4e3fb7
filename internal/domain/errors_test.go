package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Error(t *testing.T) {
	err := NewDomainError(ErrCodeValidation, "bad input")
	assert.Equal(t, "[VALIDATION_ERROR] bad input", err.Error())

	wrapped := NewDomainErrorWithCause(ErrCodeInternalError, "boom", errors.New("disk full"))
	assert.Equal(t, "[INTERNAL_ERROR] boom: disk full", wrapped.Error())
	assert.EqualError(t, errors.Unwrap(wrapped), "disk full")
}

func TestDomainError_Is(t *testing.T) {
	err := fmt.Errorf("save job: %w", ErrAuthRequired)
	assert.ErrorIs(t, err, ErrAuthRequired)
	assert.NotErrorIs(t, err, ErrOperationPending)
}

func TestIsUnauthorized(t *testing.T) {
	assert.True(t, IsUnauthorized(&UpstreamError{StatusCode: 401}))
	assert.True(t, IsUnauthorized(fmt.Errorf("wrap: %w", &UpstreamError{StatusCode: 401})))
	assert.False(t, IsUnauthorized(&UpstreamError{StatusCode: 500}))
	assert.False(t, IsUnauthorized(errors.New("plain")))
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil", nil, ""},
		{"upstream with message", &UpstreamError{StatusCode: 400, Message: "Email already registered"}, "Email already registered"},
		{"upstream without message", &UpstreamError{StatusCode: 502}, GenericFailureMessage},
		{"domain error", ErrAuthRequired, "please log in to continue"},
		{"transport", &TransportError{Op: "search", Err: errors.New("connection refused")}, GenericFailureMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, UserMessage(tt.err))
		})
	}
}

func TestTransportError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &TransportError{Op: "save job", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "save job")
}
