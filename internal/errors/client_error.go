package errors

import (
	stderrors "errors"
	"fmt"
)

// ClientError is an error surfaced to the user by the transaction console.
// Message is what gets displayed; Cause keeps the underlying error for logs.
type ClientError struct {
	Code       ErrorCode
	Message    string
	StatusCode int
	Cause      error
}

// New creates a client error using the code's default message
func New(code ErrorCode) *ClientError {
	return &ClientError{Code: code, Message: GetErrorMessage(code)}
}

// Newf creates a client error with a formatted message
func Newf(code ErrorCode, format string, args ...any) *ClientError {
	return &ClientError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a client error around a cause, using the cause's text when no message is given
func Wrap(code ErrorCode, cause error, message string) *ClientError {
	if message == "" {
		if cause != nil {
			message = cause.Error()
		} else {
			message = GetErrorMessage(code)
		}
	}
	return &ClientError{Code: code, Message: message, Cause: cause}
}

// WithStatus records the HTTP status that produced the error
func (e *ClientError) WithStatus(status int) *ClientError {
	e.StatusCode = status
	return e
}

func (e *ClientError) Error() string {
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is matches another ClientError by code
func (e *ClientError) Is(target error) bool {
	var other *ClientError
	if !stderrors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

// CodeOf returns the code of the first ClientError in the chain, or "" if none
func CodeOf(err error) ErrorCode {
	var clientErr *ClientError
	if stderrors.As(err, &clientErr) {
		return clientErr.Code
	}
	return ""
}

// MessageOf returns the user-facing message for any error
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var clientErr *ClientError
	if stderrors.As(err, &clientErr) {
		return clientErr.Message
	}
	return err.Error()
}

// IsTransport reports whether the error came from a failed network round trip
func IsTransport(err error) bool {
	return CodeOf(err) == TransportFailure
}
