package common

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Salesforce error codes this client reacts to. Anything else is passed
// through inside the classified error.
const (
	ErrCodeInvalidSession  = "INVALID_SESSION_ID"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeEntityIsDeleted = "ENTITY_IS_DELETED"
	ErrCodeRequestLimit    = "REQUEST_LIMIT_EXCEEDED"
)

// AuthError means the OAuth refresh exchange failed, or the session was
// still invalid after a refresh. Fatal for the current operation.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("salesforce auth: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("salesforce auth: %s", e.Message)
}

func (e *AuthError) Unwrap() error { return e.Err }

// ValidationError means the remote side rejected the payload as malformed.
type ValidationError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("salesforce rejected request (%d %s): %s", e.StatusCode, e.Code, e.Message)
}

// NotFoundError means the record identifier did not resolve.
type NotFoundError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("salesforce record not found (%d %s): %s", e.StatusCode, e.Code, e.Message)
}

// RateLimitedError means the remote side is throttling us. RetryAfter is
// zero when the response carried no Retry-After hint.
type RateLimitedError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("salesforce rate limited (%d %s): %s", e.StatusCode, e.Code, e.Message)
}

// TransportError covers network failures and responses we cannot make
// sense of (no parseable error body, 5xx).
type TransportError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("salesforce transport: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("salesforce transport (%d): %s", e.StatusCode, e.Message)
}

func (e *TransportError) Unwrap() error { return e.Err }

// apiErrorEntry is the shape Salesforce uses for error bodies:
// [{"message":"Session expired or invalid","errorCode":"INVALID_SESSION_ID"}]
type apiErrorEntry struct {
	Message   string `json:"message"`
	ErrorCode string `json:"errorCode"`
}

func parseAPIErrors(body []byte) []apiErrorEntry {
	var entries []apiErrorEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil
	}
	return entries
}

// IsSessionInvalid reports whether a record-endpoint response carries the
// invalid-session error code. The status code is deliberately ignored:
// the error code is the reliable signal, Salesforce has been seen
// returning it under more than one status.
func IsSessionInvalid(body []byte) bool {
	for _, entry := range parseAPIErrors(body) {
		if entry.ErrorCode == ErrCodeInvalidSession {
			return true
		}
	}
	// Fall back to a substring check for bodies that do not follow the
	// usual error-array shape.
	return strings.Contains(string(body), ErrCodeInvalidSession)
}

// ClassifyAPIError maps a non-success record-endpoint response to one of
// the typed errors above. Invalid-session bodies must be handled before
// calling this.
func ClassifyAPIError(statusCode int, header http.Header, body []byte) error {
	entries := parseAPIErrors(body)
	var code, message string
	if len(entries) > 0 {
		code = entries[0].ErrorCode
		message = entries[0].Message
	} else {
		message = string(body)
	}

	switch {
	case statusCode == http.StatusNotFound || code == ErrCodeNotFound || code == ErrCodeEntityIsDeleted:
		return &NotFoundError{StatusCode: statusCode, Code: code, Message: message}
	case statusCode == http.StatusTooManyRequests || code == ErrCodeRequestLimit:
		return &RateLimitedError{
			StatusCode: statusCode,
			Code:       code,
			Message:    message,
			RetryAfter: parseRetryAfter(header.Get("Retry-After")),
		}
	case statusCode >= 400 && statusCode < 500 && len(entries) > 0:
		return &ValidationError{StatusCode: statusCode, Code: code, Message: message}
	default:
		return &TransportError{StatusCode: statusCode, Message: message}
	}
}

// parseRetryAfter handles the delta-seconds form of Retry-After. The
// HTTP-date form is rare enough on this API that we ignore it.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
