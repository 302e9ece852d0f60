package errors

// ErrorCode represents a standardized error code used by the client and the stand-in backend
type ErrorCode string

// Integration error codes (UI_*)
const (
	UIMissingElements ErrorCode = "UI_001"
	UIEditFormBroken  ErrorCode = "UI_002"
	UIConfirmBroken   ErrorCode = "UI_003"
)

// Transport error codes (TRANSPORT_*)
const (
	TransportFailure ErrorCode = "TRANSPORT_001"
)

// API error codes (API_*)
const (
	APIRequestFailed     ErrorCode = "API_001"
	APIMalformedResponse ErrorCode = "API_002"
)

// Validation error codes (VALIDATION_*)
const (
	ValidationGeneral       ErrorCode = "VALIDATION_001"
	ValidationRequiredField ErrorCode = "VALIDATION_002"
	ValidationInvalidFormat ErrorCode = "VALIDATION_003"
)

// Interaction state error codes (STATE_*)
const (
	StateRowNotFound     ErrorCode = "STATE_001"
	StateNoPendingDelete ErrorCode = "STATE_002"
)

// Backend authentication error codes (AUTH_*)
const (
	AuthMissingToken ErrorCode = "AUTH_001"
	AuthInvalidToken ErrorCode = "AUTH_002"
	AuthExpiredToken ErrorCode = "AUTH_003"
)

// Backend error codes (TRANSACTION_*, SYSTEM_*)
const (
	TransactionNotFound     ErrorCode = "TRANSACTION_001"
	SystemInternalError     ErrorCode = "SYSTEM_001"
	SystemDatabaseError     ErrorCode = "SYSTEM_002"
	SystemRouteNotFound     ErrorCode = "SYSTEM_004"
	SystemMethodNotAllowed  ErrorCode = "SYSTEM_005"
	SystemRateLimitExceeded ErrorCode = "SYSTEM_006"
)

// errorMessages maps error codes to their default human-readable messages
var errorMessages = map[ErrorCode]string{
	// Integration errors
	UIMissingElements: "Page elements missing. Cannot load transactions.",
	UIEditFormBroken:  "Edit form is broken.",
	UIConfirmBroken:   "Delete confirmation is broken.",

	// Transport errors
	TransportFailure: "Network request failed",

	// API errors
	APIRequestFailed:     "Request failed",
	APIMalformedResponse: "Invalid data received from server.",

	// Validation errors
	ValidationGeneral:       "Validation failed",
	ValidationRequiredField: "Please fill in all required fields (Amount, Date, Category, Account).",
	ValidationInvalidFormat: "Invalid field format",

	// Interaction state errors
	StateRowNotFound:     "Could not find transaction details to edit.",
	StateNoPendingDelete: "No transaction selected for deletion.",

	// Backend authentication errors
	AuthMissingToken: "Authorization token is required",
	AuthInvalidToken: "Invalid authorization token",
	AuthExpiredToken: "Authorization token has expired",

	// Backend errors
	TransactionNotFound:     "Transaction not found",
	SystemInternalError:     "An unexpected error occurred",
	SystemDatabaseError:     "Database unavailable",
	SystemRouteNotFound:     "Resource not found",
	SystemMethodNotAllowed:  "Method not allowed",
	SystemRateLimitExceeded: "Rate limit exceeded. Please try again later",
}

// GetErrorMessage returns the default message for a given error code
// If the error code is not found, it returns a generic error message
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "An error occurred"
}

// IsValidErrorCode checks if the provided error code is a valid registered code
func IsValidErrorCode(code ErrorCode) bool {
	_, ok := errorMessages[code]
	return ok
}
