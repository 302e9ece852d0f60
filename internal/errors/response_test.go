package errors

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
)

// ResponseTestSuite defines the test suite for error responses
type ResponseTestSuite struct {
	suite.Suite
	traceID string
}

// SetupTest runs before each test
func (s *ResponseTestSuite) SetupTest() {
	s.traceID = "550e8400-e29b-41d4-a716-446655440000"
}

// TestResponseTestSuite runs the test suite
func TestResponseTestSuite(t *testing.T) {
	suite.Run(t, new(ResponseTestSuite))
}

func (s *ResponseTestSuite) TestNewErrorResponse_BasicUsage() {
	response := NewErrorResponse(TransactionNotFound, s.traceID)

	s.Equal("TRANSACTION_001", response.Code)
	s.Equal("Transaction not found", response.Error)
	s.Equal(s.traceID, response.TraceID)
	s.False(response.Success)
	s.Empty(response.Details)
}

func (s *ResponseTestSuite) TestNewErrorResponse_WithOptions() {
	response := NewErrorResponse(SystemDatabaseError, s.traceID,
		WithMessage("db unavailable"),
		WithDetails("connection refused"),
	)

	s.Equal("db unavailable", response.Error)
	s.Equal([]string{"connection refused"}, response.Details)
	s.Equal(http.StatusServiceUnavailable, response.GetHTTPStatus())
}

func (s *ResponseTestSuite) TestNewErrorResponse_UnregisteredCode() {
	response := NewErrorResponse(ErrorCode("LEDGER_404"), s.traceID)

	s.Equal(string(SystemInternalError), response.Code)
	s.Equal(GetErrorMessage(SystemInternalError), response.Error)
	s.Equal(http.StatusInternalServerError, response.GetHTTPStatus())
}

// TestToJSON_UsesFlatErrorField checks the envelope clients read the reason from
func (s *ResponseTestSuite) TestToJSON_UsesFlatErrorField() {
	response := NewErrorResponse(ValidationGeneral, s.traceID, WithMessage("amount is required"))

	data, err := response.ToJSON()
	s.Require().NoError(err)

	var decoded map[string]any
	s.Require().NoError(json.Unmarshal(data, &decoded))
	s.Equal("amount is required", decoded["error"])
	s.Equal(false, decoded["success"])
	s.Equal("VALIDATION_001", decoded["code"])
}

func (s *ResponseTestSuite) TestGetHTTPStatus() {
	testCases := []struct {
		code     ErrorCode
		expected int
	}{
		{ValidationRequiredField, http.StatusBadRequest},
		{TransactionNotFound, http.StatusNotFound},
		{AuthExpiredToken, http.StatusUnauthorized},
		{SystemMethodNotAllowed, http.StatusMethodNotAllowed},
		{SystemRateLimitExceeded, http.StatusTooManyRequests},
		{SystemInternalError, http.StatusInternalServerError},
		{"UNKNOWN", http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		s.Run(string(tc.code), func() {
			s.Equal(tc.expected, GetHTTPStatus(tc.code))
		})
	}
}

func (s *ResponseTestSuite) TestWrapSystemError_KeepsCause() {
	cause := New(TransportFailure)
	response, err := WrapSystemError(cause, s.traceID)

	s.Equal(string(SystemInternalError), response.Code)
	s.Equal(cause, err)
}
