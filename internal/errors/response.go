package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorResponse is the error object the transactions API returns.
// Error carries the human-readable reason clients display; Code is machine-readable.
type ErrorResponse struct {
	Success bool     `json:"success"`
	Error   string   `json:"error"`
	Code    string   `json:"code"`
	Details []string `json:"details,omitempty"`
	TraceID string   `json:"trace_id,omitempty"`
}

// ErrorOption is a functional option for configuring error responses
type ErrorOption func(*ErrorResponse)

// WithDetails adds detail messages to the error response
func WithDetails(details ...string) ErrorOption {
	return func(er *ErrorResponse) {
		er.Details = details
	}
}

// WithMessage overrides the default message for the error code
func WithMessage(message string) ErrorOption {
	return func(er *ErrorResponse) {
		er.Error = message
	}
}

// NewErrorResponse creates a standardized error response with the given error code and trace ID.
// Unregistered codes are reported as SYSTEM_001. Optional details can be added using functional options
func NewErrorResponse(code ErrorCode, traceID string, opts ...ErrorOption) *ErrorResponse {
	if !IsValidErrorCode(code) {
		code = SystemInternalError
	}

	response := &ErrorResponse{
		Error:   GetErrorMessage(code),
		Code:    string(code),
		TraceID: traceID,
	}

	for _, opt := range opts {
		opt(response)
	}

	return response
}

// NewValidationError creates a validation error response with field-specific error details
func NewValidationError(fieldErrors map[string]string, traceID string) *ErrorResponse {
	details := make([]string, 0, len(fieldErrors))
	for field, message := range fieldErrors {
		details = append(details, fmt.Sprintf("%s: %s", field, message))
	}

	return NewErrorResponse(ValidationGeneral, traceID, WithDetails(details...))
}

// WrapSystemError wraps an internal error with a generic system error message
// The internal error is returned separately for server-side logging
func WrapSystemError(err error, traceID string) (*ErrorResponse, error) {
	return NewErrorResponse(SystemInternalError, traceID), err
}

// WrapDatabaseError wraps a database error with a generic system error message
func WrapDatabaseError(err error, traceID string) (*ErrorResponse, error) {
	return NewErrorResponse(SystemDatabaseError, traceID), err
}

// ToJSON serializes the error response to JSON bytes
func (er *ErrorResponse) ToJSON() ([]byte, error) {
	return json.Marshal(er)
}

// GetHTTPStatus returns the appropriate HTTP status code for the error code
func GetHTTPStatus(code ErrorCode) int {
	switch code {
	case ValidationGeneral, ValidationRequiredField, ValidationInvalidFormat:
		return http.StatusBadRequest

	case AuthMissingToken, AuthInvalidToken, AuthExpiredToken:
		return http.StatusUnauthorized

	case TransactionNotFound, SystemRouteNotFound:
		return http.StatusNotFound

	case SystemMethodNotAllowed:
		return http.StatusMethodNotAllowed

	case SystemRateLimitExceeded:
		return http.StatusTooManyRequests

	case SystemDatabaseError:
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetHTTPStatus returns the HTTP status code for the error response
func (er *ErrorResponse) GetHTTPStatus() int {
	return GetHTTPStatus(ErrorCode(er.Code))
}

// String returns a string representation of the error response
func (er *ErrorResponse) String() string {
	return fmt.Sprintf("[%s] %s (trace: %s)", er.Code, er.Error, er.TraceID)
}
