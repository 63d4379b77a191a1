package newsapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

const (
	transportFailureMessage = "An error occurred while making the request. Please try again later."
	decodeFailureMessage    = "Error decoding the response. Please try again later."
)

// ErrorKind classifies why a headlines request failed.
type ErrorKind int

const (
	// KindRejected means the API answered with a non-2xx status.
	KindRejected ErrorKind = iota + 1
	// KindTransport covers DNS, connection and timeout failures.
	KindTransport
	// KindDecode means the response body was not the expected JSON.
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindRejected:
		return "rejected"
	case KindTransport:
		return "transport"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// FetchError carries a human-readable message safe to show to end users.
type FetchError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *FetchError) Error() string {
	return e.Message
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// knownStatus reports whether code has a fixed message. Tabled errors are
// treated as possibly caused by the key and trigger failover.
func knownStatus(code int) bool {
	_, ok := statusMessages[code]
	return ok
}

var statusMessages = map[int]string{
	http.StatusBadRequest:          "Bad request. Please check your input. (Error code: %d)",
	http.StatusUnauthorized:        "Your API key is invalid or incorrect. Check your key, or go to https://newsapi.org to create a free API key.(Error code: %d)",
	http.StatusForbidden:           "Forbidden request. You don't have permission to access this resource. (Error code: %d)",
	http.StatusNotFound:            "Resource not found. Please check the URL. (Error code: %d)",
	http.StatusTooManyRequests:     "Either exceeded API rate limits or too many requests. Please try again later. (Error code: %d)",
	http.StatusInternalServerError: "Internal server error. Please try again later. (Error code: %d)",
}

// StatusMessage maps an HTTP status to the message shown to users.
// status is the full status line ("418 I'm a teapot"); it may be empty.
func StatusMessage(code int, status string) string {
	if format, ok := statusMessages[code]; ok {
		return fmt.Sprintf(format, code)
	}
	return fmt.Sprintf("HTTP error occurred: %s (Error code: %d)", reasonPhrase(code, status), code)
}

func reasonPhrase(code int, status string) string {
	reason := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(status), strconv.Itoa(code)))
	if reason == "" {
		reason = http.StatusText(code)
	}
	return reason
}

func rejected(resp *http.Response) *FetchError {
	return &FetchError{
		Kind:       KindRejected,
		StatusCode: resp.StatusCode,
		Message:    StatusMessage(resp.StatusCode, resp.Status),
	}
}
