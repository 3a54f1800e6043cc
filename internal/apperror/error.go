// Package apperror provides structured application errors with stable codes.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"
)

// AppError implements the error interface and provides structured error handling
type AppError struct {
	Code       Code      `json:"code"`
	Message    string    `json:"message"`
	StatusCode int       `json:"statusCode"`
	Context    string    `json:"context,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	cause      error
	stack      []uintptr
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s (context: %s)", e.Code, e.Message, e.Context)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *AppError) Unwrap() error {
	return e.cause
}

// Is matches AppErrors by code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// ToLog serializes the error for logging with stack trace
func (e *AppError) ToLog() map[string]any {
	log := map[string]any{
		"code":       e.Code,
		"message":    e.Message,
		"statusCode": e.StatusCode,
		"timestamp":  e.Timestamp.Format(time.RFC3339),
	}
	if e.Context != "" {
		log["context"] = e.Context
	}
	if e.cause != nil {
		log["cause"] = e.cause.Error()
	}
	if len(e.stack) > 0 {
		log["stack"] = e.formatStack()
	}
	return log
}

func (e *AppError) formatStack() string {
	var sb strings.Builder
	frames := runtime.CallersFrames(e.stack)
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			sb.WriteString(fmt.Sprintf("\n\t%s:%d %s", frame.File, frame.Line, frame.Function))
		}
		if !more {
			break
		}
	}
	return sb.String()
}

func captureStack() []uintptr {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	return pcs[:n]
}

// New creates a new AppError with the given code and options
func New(code Code, opts ...Option) *AppError {
	err := &AppError{
		Code:       code,
		Message:    messages[code],
		StatusCode: defaultStatusCode(code),
		Timestamp:  time.Now(),
		stack:      captureStack(),
	}
	for _, opt := range opts {
		opt(err)
	}
	if err.Message == "" {
		err.Message = string(code)
	}
	return err
}

// Option is a functional option for AppError
type Option func(*AppError)

// WithMessage sets a custom message
func WithMessage(message string) Option {
	return func(e *AppError) {
		e.Message = message
	}
}

// WithContext adds context information
func WithContext(context string) Option {
	return func(e *AppError) {
		e.Context = context
	}
}

// WithStatusCode sets a custom HTTP status code
func WithStatusCode(statusCode int) Option {
	return func(e *AppError) {
		e.StatusCode = statusCode
	}
}

// WithCause wraps an underlying error
func WithCause(cause error) Option {
	return func(e *AppError) {
		e.cause = cause
	}
}

// Validation creates a validation error
func Validation(code Code, context string) *AppError {
	return New(code, WithContext(context), WithStatusCode(http.StatusBadRequest))
}

// Internal creates an internal server error
func Internal(code Code, context string, cause error) *AppError {
	return New(code, WithContext(context), WithCause(cause), WithStatusCode(http.StatusInternalServerError))
}

// External creates an external service error
func External(code Code, context string, cause error) *AppError {
	return New(code, WithContext(context), WithCause(cause), WithStatusCode(http.StatusServiceUnavailable))
}

// Wrap wraps a standard error into AppError
func Wrap(err error, code Code, context string) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		if context != "" && appErr.Context == "" {
			appErr.Context = context
		}
		return appErr
	}
	return Internal(code, context, err)
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetCode extracts the error code from an error
func GetCode(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknownError
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	return GetCode(err) == code
}

// defaultStatusCode determines the HTTP status code based on the error code
func defaultStatusCode(code Code) int {
	switch code {
	case CodeRequiredField, CodeInvalidInput, CodeInvalidAddress, CodeValidationError:
		return http.StatusBadRequest
	case CodeUnsupportedToken, CodeUnsupportedRoute:
		return http.StatusUnprocessableEntity
	case CodeProviderHTTPError, CodeMalformedResponse, CodeCircuitOpen:
		return http.StatusBadGateway
	case CodeProviderTimeout:
		return http.StatusGatewayTimeout
	case CodeProviderAuth:
		return http.StatusUnauthorized
	case CodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case CodeNoRoutesAvailable:
		// Zero usable quotes is a business outcome, not a fault.
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}
