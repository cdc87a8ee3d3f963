package errors

import "fmt"

// ErrorType classifies failures in the scrape/download pipeline
type ErrorType string

const (
	ErrorTypeNetwork         ErrorType = "network"
	ErrorTypeClientError     ErrorType = "client_error"
	ErrorTypeServerError     ErrorType = "server_error"
	ErrorTypeOversized       ErrorType = "oversized"
	ErrorTypePageUnavailable ErrorType = "page_unavailable"
	ErrorTypeParsing         ErrorType = "parsing"
	ErrorTypeNotFound        ErrorType = "not_found"
	ErrorTypeDiskSpace       ErrorType = "disk_space"
	ErrorTypeUnknown         ErrorType = "unknown"
)

// Error represents a typed pipeline error
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// New creates a typed error without an HTTP status code
func New(t ErrorType, msg string) *Error {
	return &Error{Type: t, Message: msg}
}

// Newf creates a typed error with a formatted message
func Newf(t ErrorType, format string, args ...interface{}) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...)}
}

// NewHTTP creates a typed error carrying an HTTP status code
func NewHTTP(t ErrorType, code int, msg string) *Error {
	return &Error{Type: t, Message: msg, Code: code}
}

// IsRetryable checks if an error type should be retried.
// Client errors and oversized responses are never transient; the same
// request would fail the same way.
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeNetwork, ErrorTypeServerError:
		return true
	case ErrorTypeClientError, ErrorTypeOversized, ErrorTypeNotFound,
		ErrorTypeParsing, ErrorTypePageUnavailable, ErrorTypeDiskSpace:
		return false
	default:
		return false
	}
}

// IsRetryableStatusCode checks if an HTTP status code indicates a retryable error
func IsRetryableStatusCode(statusCode int) bool {
	switch {
	case statusCode == 0: // transport failure, no response
		return true
	case statusCode >= 500:
		return true
	case statusCode >= 400:
		return false
	default:
		return false
	}
}

// ClassifyStatusCode maps an HTTP status code to an error type
func ClassifyStatusCode(statusCode int) ErrorType {
	switch {
	case statusCode == 0:
		return ErrorTypeNetwork
	case statusCode == 404:
		return ErrorTypeNotFound
	case statusCode >= 500:
		return ErrorTypeServerError
	case statusCode >= 400:
		return ErrorTypeClientError
	default:
		return ErrorTypeUnknown
	}
}
