package common

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is matched by every ValidationError.
	ErrInvalidInput = errors.New("invalid input")
	// ErrContentTooLarge means a response body exceeded the configured limit.
	ErrContentTooLarge = errors.New("content too large")
)

// WrapError wraps an error with additional context information
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// WrapErrorf wraps an error with formatted context information
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// NewError creates a new error with a formatted message
func NewError(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// ValidationError represents validation errors with field-specific information
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// Unwrap makes every validation error match ErrInvalidInput.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// NetworkError represents network-related errors
type NetworkError struct {
	URL     string
	Reason  string
	Wrapped error
}

func (e *NetworkError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("network error for '%s': %s: %v", e.URL, e.Reason, e.Wrapped)
	}
	return fmt.Sprintf("network error for '%s': %s", e.URL, e.Reason)
}

func (e *NetworkError) Unwrap() error {
	return e.Wrapped
}

// NewNetworkError creates a new network error
func NewNetworkError(url, reason string, wrapped error) *NetworkError {
	return &NetworkError{
		URL:     url,
		Reason:  reason,
		Wrapped: wrapped,
	}
}

// HTTPError represents a non-2xx response
type HTTPError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *HTTPError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("HTTP %d error for '%s': %s", e.StatusCode, e.URL, e.Message)
	}
	return fmt.Sprintf("HTTP %d error: %s", e.StatusCode, e.Message)
}

// NewHTTPErrorWithURL creates a new HTTP error with URL context
func NewHTTPErrorWithURL(statusCode int, message, url string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		URL:        url,
	}
}
