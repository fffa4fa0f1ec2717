// Package errors provides custom error types for the Athena prompt client.
package errors

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrReplyFetch      = errors.New("reply fetch failed")
	ErrInvalidResponse = errors.New("invalid response format")
	ErrEmptyPrompt     = errors.New("prompt cannot be empty")
	ErrInvalidBaseURL  = errors.New("invalid base URL")
)

// FetchKind classifies why a reply could not be fetched
type FetchKind int

const (
	KindUnknown FetchKind = iota
	KindNetwork
	KindStatus
	KindParse
)

// String returns the kind name
func (k FetchKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindStatus:
		return "status"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// FetchError represents any failure while fetching a reply: the transport failed,
// the server answered with a non-2xx status, or the body was not JSON.
type FetchError struct {
	Kind       FetchKind
	StatusCode int
	Endpoint   string
	Message    string
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return ErrReplyFetch.Error()
	}
}

// Unwrap returns the underlying cause
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is allows comparison with sentinel errors
func (e *FetchError) Is(target error) bool {
	if target == ErrReplyFetch {
		return true
	}
	if target == ErrInvalidResponse {
		return e.Kind == KindParse
	}
	_, ok := target.(*FetchError)
	return ok
}

// NewStatusError creates a FetchError for a non-2xx response
func NewStatusError(statusCode int, endpoint string) *FetchError {
	return &FetchError{
		Kind:       KindStatus,
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    fmt.Sprintf("HTTP error! Status: %d", statusCode),
	}
}

// NewNetworkError creates a FetchError for a transport failure
func NewNetworkError(endpoint string, err error) *FetchError {
	return &FetchError{
		Kind:     KindNetwork,
		Endpoint: endpoint,
		Err:      err,
	}
}

// NewParseError creates a FetchError for an unparseable response body
func NewParseError(endpoint, message string, err error) *FetchError {
	return &FetchError{
		Kind:     KindParse,
		Endpoint: endpoint,
		Message:  message,
		Err:      err,
	}
}

// asFetchError extracts a *FetchError from the chain
func asFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// GetHTTPStatus returns the HTTP status carried by err, or 0
func GetHTTPStatus(err error) int {
	if fe, ok := asFetchError(err); ok {
		return fe.StatusCode
	}
	return 0
}

// GetEndpoint returns the endpoint carried by err, or ""
func GetEndpoint(err error) string {
	if fe, ok := asFetchError(err); ok {
		return fe.Endpoint
	}
	return ""
}

// GetKind returns the fetch kind carried by err
func GetKind(err error) FetchKind {
	if fe, ok := asFetchError(err); ok {
		return fe.Kind
	}
	return KindUnknown
}

// IsNetworkError reports whether err is a transport failure
func IsNetworkError(err error) bool {
	return GetKind(err) == KindNetwork
}

// IsStatusError reports whether err is a non-2xx response
func IsStatusError(err error) bool {
	return GetKind(err) == KindStatus
}

// IsParseError reports whether err is a response parsing failure
func IsParseError(err error) bool {
	return GetKind(err) == KindParse
}

// IsTimeoutError reports whether err was caused by a deadline
func IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
