package errors

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

// CodesTestSuite defines the test suite for error codes
type CodesTestSuite struct {
	suite.Suite
}

// TestCodesTestSuite runs the test suite
func TestCodesTestSuite(t *testing.T) {
	suite.Run(t, new(CodesTestSuite))
}

// TestGetErrorMessage_ValidCode tests getting message for valid error codes
func (s *CodesTestSuite) TestGetErrorMessage_ValidCode() {
	testCases := []struct {
		name     string
		code     ErrorCode
		expected string
	}{
		{
			name:     "Missing Elements",
			code:     UIMissingElements,
			expected: "Page elements missing. Cannot load transactions.",
		},
		{
			name:     "Required Field",
			code:     ValidationRequiredField,
			expected: "Please fill in all required fields (Amount, Date, Category, Account).",
		},
		{
			name:     "No Pending Delete",
			code:     StateNoPendingDelete,
			expected: "No transaction selected for deletion.",
		},
		{
			name:     "Malformed Response",
			code:     APIMalformedResponse,
			expected: "Invalid data received from server.",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, GetErrorMessage(tc.code))
		})
	}
}

// TestGetErrorMessage_InvalidCode tests getting message for invalid error code
func (s *CodesTestSuite) TestGetErrorMessage_InvalidCode() {
	s.Equal("An error occurred", GetErrorMessage("INVALID_CODE"))
}

// TestIsValidErrorCode_InvalidCode tests validation of invalid error code
func (s *CodesTestSuite) TestIsValidErrorCode_InvalidCode() {
	for _, code := range []ErrorCode{"INVALID_001", "", "UI_999"} {
		s.Run(string(code), func() {
			s.False(IsValidErrorCode(code), "Expected %s to be invalid", code)
		})
	}
}

// TestErrorCodeConstants_Uniqueness ensures all error codes are unique
func (s *CodesTestSuite) TestErrorCodeConstants_Uniqueness() {
	seen := make(map[string]ErrorCode)
	for code := range errorMessages {
		previous, exists := seen[string(code)]
		s.False(exists, "duplicate code %s (also %s)", code, previous)
		seen[string(code)] = code
	}
	s.Len(seen, len(errorMessages))
}
