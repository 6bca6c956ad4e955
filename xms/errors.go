package xms

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid xms configuration")
	// ErrClientClosed is returned by calls made after Close
	ErrClientClosed = errors.New("xms client is closed")
)

// TransportError indicates the HTTP exchange could not complete.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("xms transport error: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is returned when the server rejects a request as malformed or
// forbidden. Code is a stable machine readable token.
type APIError struct {
	StatusCode int
	Code       string
	Text       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("xms API error: status %d: %s: %s", e.StatusCode, e.Code, e.Text)
}

// NotFoundError is returned for 404 responses.
type NotFoundError struct {
	URL string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("xms resource not found: %s", e.URL)
}

// UnauthorizedError is returned when the service plan and token pair is
// rejected. Error never prints the full token.
type UnauthorizedError struct {
	ServicePlanID string
	Token         string
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("xms unauthorized: service plan %s, token %s", e.ServicePlanID, maskToken(e.Token))
}

// UnexpectedResponseError is returned for any status code outside the known
// set. Body holds the raw response body.
type UnexpectedResponseError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *UnexpectedResponseError) Error() string {
	return fmt.Sprintf("xms unexpected response: %s", e.Message)
}

// InvalidArgumentError is returned before any network call when the caller
// supplied an argument the client cannot send.
type InvalidArgumentError struct {
	Argument string
	Reason   string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("xms invalid argument %s: %s", e.Argument, e.Reason)
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsUnauthorized reports whether err is or wraps an UnauthorizedError.
func IsUnauthorized(err error) bool {
	var target *UnauthorizedError
	return errors.As(err, &target)
}

// IsAPIError reports whether err is or wraps an APIError with the given
// code. An empty code matches any APIError.
func IsAPIError(err error, code string) bool {
	var target *APIError
	if !errors.As(err, &target) {
		return false
	}
	return code == "" || target.Code == code
}

// maskToken keeps the last four characters of a token.
func maskToken(token string) string {
	if len(token) <= 4 {
		return "****"
	}
	return "****" + token[len(token)-4:]
}
