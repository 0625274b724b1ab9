package models

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeValidation represents bad request shape errors (400)
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeStorage represents recipe store I/O failures (500)
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypeGeneration represents remote generation failures (429/502)
	ErrorTypeGeneration ErrorType = "generation"
	// ErrorTypeNoMatch represents the defined "nothing satisfies this request" outcome (404)
	ErrorTypeNoMatch ErrorType = "no_match"
	// ErrorTypeNotFound represents resource not found errors (404)
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeInternal represents internal server errors (500)
	ErrorTypeInternal ErrorType = "internal"
)

// GenerationErrorKind identifies the specific failure mode of the external generator.
type GenerationErrorKind string

const (
	GenerationErrorNetworkUnavailable   GenerationErrorKind = "network_unavailable"
	GenerationErrorRateLimited          GenerationErrorKind = "rate_limited"
	GenerationErrorInvalidResponse      GenerationErrorKind = "invalid_response"
	GenerationErrorAuthenticationFailed GenerationErrorKind = "authentication_failed"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType           `json:"type"`
	Kind       GenerationErrorKind `json:"kind,omitempty"`
	Message    string              `json:"message"`
	Code       string              `json:"code,omitempty"`
	StatusCode int                 `json:"-"`
	Retryable  bool                `json:"retryable"`
	Cause      error               `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap allows error unwrapping
func (e *AppError) Unwrap() error {
	return e.Cause
}

// GetStatusCode returns the HTTP status code for the error
func (e *AppError) GetStatusCode() int {
	if e.StatusCode > 0 {
		return e.StatusCode
	}

	switch e.Type {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeNoMatch, ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeGeneration:
		if e.Kind == GenerationErrorRateLimited {
			return http.StatusTooManyRequests
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Retryable:  false,
		Cause:      cause,
	}
}

// NewStorageError creates a storage error for a failed store operation.
// Storage faults are never masked as cache misses.
func NewStorageError(operation string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeStorage,
		Message:    fmt.Sprintf("recipe store %s failed", operation),
		Code:       "STORAGE_FAILURE",
		StatusCode: http.StatusInternalServerError,
		Retryable:  true,
		Cause:      cause,
	}
}

// NewGenerationError creates a generation error with the specific failure kind
func NewGenerationError(kind GenerationErrorKind, message string, cause error) *AppError {
	retryable := kind == GenerationErrorRateLimited || kind == GenerationErrorNetworkUnavailable
	return &AppError{
		Type:      ErrorTypeGeneration,
		Kind:      kind,
		Message:   message,
		Code:      "GENERATION_" + string(kind),
		Retryable: retryable,
		Cause:     cause,
	}
}

// NewNoMatchError creates the defined terminal outcome for requests that no
// cached, bundled, or generated result can satisfy.
func NewNoMatchError() *AppError {
	return &AppError{
		Type:       ErrorTypeNoMatch,
		Message:    "no recipes available for this request, try relaxing restrictions",
		Code:       "NO_MATCH",
		StatusCode: http.StatusNotFound,
		Retryable:  false,
	}
}

// NewNotFoundError creates a resource not found error
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: http.StatusNotFound,
		Retryable:  false,
	}
}

// NewInternalError creates an internal server error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Retryable:  false,
		Cause:      cause,
	}
}

// AsAppError extracts an AppError from an error chain, if present.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsErrorType reports whether err is an AppError of the given category.
func IsErrorType(err error, t ErrorType) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Type == t
}

// SanitizeError sanitizes an error for external consumption
func SanitizeError(err error) *AppError {
	if appErr, ok := AsAppError(err); ok {
		return &AppError{
			Type:       appErr.Type,
			Kind:       appErr.Kind,
			Message:    appErr.Message,
			Code:       appErr.Code,
			StatusCode: appErr.GetStatusCode(),
			Retryable:  appErr.Retryable,
			// Don't expose internal cause
		}
	}

	return NewInternalError("an unexpected error occurred", err)
}
