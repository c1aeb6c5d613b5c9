// Package errors provides custom error types for the ragchat API client.
package errors

import (
	"errors"
	"fmt"
	"net"
	"os"
)

// Sentinel errors for common cases
var (
	ErrInvalidResponse  = errors.New("invalid response format")
	ErrNoSession        = errors.New("session ID not found")
	ErrUploadInProgress = errors.New("upload already in progress")
	ErrNoFile           = errors.New("no file selected")
)

// APIError represents a non-2xx HTTP response from the backend
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
	Body       string
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

// WithBody attaches the raw response body for display
func (e *APIError) WithBody(body string) *APIError {
	e.Body = body
	return e
}

// NetworkError represents a request that never produced a response
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(endpoint string, err error) *NetworkError {
	return &NetworkError{Endpoint: endpoint, Err: err}
}

// ApplicationError is an error field embedded in an otherwise successful response
type ApplicationError struct {
	Endpoint string
	Message  string
}

func (e *ApplicationError) Error() string {
	return e.Message
}

// NewApplicationError creates a new ApplicationError
func NewApplicationError(endpoint, message string) *ApplicationError {
	return &ApplicationError{Endpoint: endpoint, Message: message}
}

// UploadError represents a rejected document upload
type UploadError struct {
	FileName   string
	StatusCode int
	Message    string
}

func (e *UploadError) Error() string {
	return e.Message
}

// NewUploadError creates a new UploadError
func NewUploadError(fileName string, statusCode int, message string) *UploadError {
	return &UploadError{FileName: fileName, StatusCode: statusCode, Message: message}
}

// ParseError represents a response decoding error
type ParseError struct {
	Message  string
	Endpoint string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Message)
}

// NewParseError creates a new ParseError
func NewParseError(message, endpoint string) *ParseError {
	return &ParseError{Message: message, Endpoint: endpoint}
}

// Is allows comparison with sentinel errors
func (e *ParseError) Is(target error) bool {
	if target == ErrInvalidResponse {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

// GetHTTPStatus returns the HTTP status carried by err, or 0
func GetHTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	var upErr *UploadError
	if errors.As(err, &upErr) {
		return upErr.StatusCode
	}
	return 0
}

// GetEndpoint returns the endpoint carried by err, or ""
func GetEndpoint(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Endpoint
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Endpoint
	}
	var appErr *ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Endpoint
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Endpoint
	}
	return ""
}

// GetResponseBody returns the raw body of an APIError, or ""
func GetResponseBody(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Body
	}
	return ""
}

// IsAPIError reports whether err is an HTTP-level failure
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// IsNotFound reports whether err is a 404 from the backend
func IsNotFound(err error) bool {
	return GetHTTPStatus(err) == 404
}

// IsNetworkError reports whether err is a transport failure
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsTimeoutError reports whether err is a transport timeout
func IsTimeoutError(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// IsApplicationError reports whether err came from an error field in a response body
func IsApplicationError(err error) bool {
	var appErr *ApplicationError
	return errors.As(err, &appErr)
}

// IsUploadError reports whether err is a rejected upload
func IsUploadError(err error) bool {
	var upErr *UploadError
	return errors.As(err, &upErr)
}
