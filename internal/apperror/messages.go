package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidAddress:  "Invalid wallet address",
	CodeValidationError: "Validation error",

	CodeConfigurationError: "Configuration error",

	CodeInternalError: "Internal server error",
	CodeUnknownError:  "An unknown error occurred",

	CodeUnsupportedToken: "Token not supported on this chain",
	CodeUnsupportedRoute: "Route not supported by this provider",

	CodeProviderHTTPError: "Provider API returned an error",
	CodeProviderTimeout:   "Provider request timed out",
	CodeMalformedResponse: "Provider returned a malformed response",
	CodeProviderAuth:      "Provider requires an API key",

	CodeRateLimitExceeded: "Rate limit exceeded",

	CodeNoRoutesAvailable: "No providers responded with a usable quote",

	CodeCircuitOpen: "Circuit breaker is open",
}
