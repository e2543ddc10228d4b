package common

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapError(t *testing.T) {
	tests := []struct {
		name            string
		originalError   error
		message         string
		expectedMessage string
	}{
		{
			name:            "wrap simple error",
			originalError:   errors.New("original error"),
			message:         "wrapper message",
			expectedMessage: "wrapper message: original error",
		},
		{
			name:            "empty wrapper message",
			originalError:   errors.New("original error"),
			message:         "",
			expectedMessage: ": original error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrappedError := WrapError(tt.originalError, tt.message)
			require.Error(t, wrappedError)
			assert.Equal(t, tt.expectedMessage, wrappedError.Error())
			assert.ErrorIs(t, wrappedError, tt.originalError)
		})
	}

	assert.NoError(t, WrapError(nil, "nothing to wrap"))
}

func TestValidationError_IsInvalidInput(t *testing.T) {
	err := error(NewValidationError("url", "", "URL parameter is required."))

	assert.ErrorIs(t, err, ErrInvalidInput)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "url", vErr.Field)
}

func TestHTTPError(t *testing.T) {
	err := NewHTTPErrorWithURL(http.StatusBadGateway, "Bad Gateway", "https://example.com")

	assert.Equal(t, "HTTP 502 error for 'https://example.com': Bad Gateway", err.Error())
}

func TestNetworkError_Unwrap(t *testing.T) {
	root := errors.New("connection refused")
	err := NewNetworkError("https://example.com", "request failed", root)

	assert.ErrorIs(t, err, root)
	assert.Contains(t, err.Error(), "connection refused")
}
