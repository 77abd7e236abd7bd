// Package errors provides the error types returned while retrieving answers
// from the question-answering endpoint.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrNoAnswer        = errors.New("no answer in response")
	ErrInvalidResponse = errors.New("invalid response format")
	ErrEmptyQuestion   = errors.New("question cannot be empty")
)

// NetworkError represents a transport failure talking to the endpoint
type NetworkError struct {
	Operation string
	Endpoint  string
	Err       error
}

func (e *NetworkError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("network error during %s at %s: %v", e.Operation, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("network error during %s: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying transport error
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(operation, endpoint string, err error) *NetworkError {
	return &NetworkError{Operation: operation, Endpoint: endpoint, Err: err}
}

// APIError records a non-2xx status. It is informational: the body is still
// parsed, since the endpoint may put an answer in an error response.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("API error at %s: %s", e.Endpoint, e.Message)
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// ParseError represents a response parsing error
type ParseError struct {
	Message string
	Body    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Message)
}

// Is allows comparison with sentinel errors
func (e *ParseError) Is(target error) bool {
	if target == ErrInvalidResponse {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

// NewParseError creates a new ParseError. Body is truncated to keep log
// records small.
func NewParseError(message, body string) *ParseError {
	const maxBody = 512
	if len(body) > maxBody {
		body = body[:maxBody]
	}
	return &ParseError{Message: message, Body: body}
}

// IsNetworkError reports whether err is (or wraps) a NetworkError
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsParseError reports whether err means the response body could not be
// read as an answer: a ParseError, or anything wrapping ErrInvalidResponse.
func IsParseError(err error) bool {
	return errors.Is(err, ErrInvalidResponse)
}

// IsNoAnswer reports whether err means the response carried no answer
func IsNoAnswer(err error) bool {
	return errors.Is(err, ErrNoAnswer)
}

// GetHTTPStatus extracts the HTTP status code from an APIError, or 0
func GetHTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// GetEndpoint returns the endpoint recorded on a NetworkError or APIError
func GetEndpoint(err error) string {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Endpoint
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Endpoint
	}
	return ""
}
