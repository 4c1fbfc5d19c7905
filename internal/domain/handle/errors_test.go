package handle

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Category(t *testing.T) {
	tests := []struct {
		err      *Error
		expected Category
	}{
		{ErrWrongServerType, CategoryConfiguration},
		{ErrIncompleteConfig, CategoryConfiguration},
		{ErrTransformNotFound, CategoryConfiguration},
		{ErrNotEligible, CategoryEligibility},
		{ErrNotPublic, CategoryEligibility},
		{ErrVisibilityCheckFailed, CategoryEligibility},
		{ErrAlreadyRegistered, CategoryDuplicate},
		{ErrConflictingIdentifier, CategoryDuplicate},
		{ErrRegistrationInProgress, CategoryDuplicate},
		{ErrSubmissionFailed, CategorySubmission},
		{ErrPartialRegistration, CategoryPersistence},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Code), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Category())
		})
	}
}

func TestError_IsMatchesCode(t *testing.T) {
	server := newTestServer()
	record := newTestRecord()
	err := fmt.Errorf("register: %w", newNotPublicError(server, record))

	assert.ErrorIs(t, err, ErrNotPublic)
	assert.NotErrorIs(t, err, ErrNotEligible)
	assert.Contains(t, err.Error(), "abc-123")
}

func TestSubmissionError(t *testing.T) {
	t.Run("body in message", func(t *testing.T) {
		err := &SubmissionError{
			URL:        "https://h.example/20.500.1/abc-123",
			HandleURL:  "https://hdl.example/abc-123",
			StatusCode: 500,
			Body:       "server overloaded",
		}
		assert.Equal(t, "error registering handle 'https://hdl.example/abc-123': server overloaded", err.Error())
	})

	t.Run("wrapped by submission failure", func(t *testing.T) {
		cause := errors.New("connection refused")
		subErr := &SubmissionError{HandleURL: "https://hdl.example/abc-123", Err: cause}
		err := NewSubmissionFailedError(newTestServer(), newTestRecord(), "20.500.1/abc-123", subErr)

		assert.ErrorIs(t, err, ErrSubmissionFailed)
		assert.ErrorIs(t, err, cause)

		var target *SubmissionError
		assert.True(t, errors.As(err, &target))
		assert.Contains(t, err.Error(), "connection refused")
	})
}
