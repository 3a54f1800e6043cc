package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidAddress  Code = "INVALID_ADDRESS"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Bridge-comparison specific error codes
const (
	// Route resolution (adapter-local, provider dropped from results)
	CodeUnsupportedToken Code = "UNSUPPORTED_TOKEN"
	CodeUnsupportedRoute Code = "UNSUPPORTED_ROUTE"

	// Provider transport (adapter-local, provider dropped from results)
	CodeProviderHTTPError Code = "PROVIDER_HTTP_ERROR"
	CodeProviderTimeout   Code = "PROVIDER_TIMEOUT"
	CodeMalformedResponse Code = "PROVIDER_MALFORMED_RESPONSE"
	CodeProviderAuth      Code = "PROVIDER_AUTH_REQUIRED"

	// Rate limiting
	CodeRateLimitExceeded Code = "RATE_LIMIT_EXCEEDED"

	// Comparison outcomes
	CodeNoRoutesAvailable Code = "NO_ROUTES_AVAILABLE"

	// Circuit breaker
	CodeCircuitOpen Code = "CIRCUIT_OPEN"
)
