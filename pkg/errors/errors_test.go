package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorWrapsUnknownErrors(t *testing.T) {
	err := FromError(fmt.Errorf("boom"))
	assert.Equal(t, ErrInternal.Code, err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.EqualError(t, err, "internal server error: boom")
}

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", Clone(ErrValidation, "weeks must be positive"))
	err := FromError(wrapped)
	assert.Equal(t, ErrValidation.Code, err.Code)
	assert.Equal(t, "weeks must be positive", err.Message)
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(Wrap(assert.AnError, ErrStoreUnavailable.Code, ErrStoreUnavailable.Status, "load submissions")))
	assert.False(t, Retryable(ErrValidation))
	assert.False(t, Retryable(assert.AnError))
}
