// status.go
// This package provides helpers for classifying HTTP status codes seen by the dispatcher.
package status

import (
	"net/http"
)

// IsRedirectStatusCode checks if the provided HTTP status code is one of the redirect codes.
// Redirect status codes instruct the client to make a new request to a different URI, as defined in the response's Location header.
//
// - 301 Moved Permanently
// - 302 Found
// - 303 See Other
// - 307 Temporary Redirect
// - 308 Permanent Redirect
func IsRedirectStatusCode(statusCode int) bool {
	switch statusCode {
	case http.StatusMovedPermanently,
		http.StatusFound,
		http.StatusSeeOther,
		http.StatusTemporaryRedirect,
		http.StatusPermanentRedirect:
		return true
	default:
		return false
	}
}

// IsPermanentRedirect checks if the provided HTTP status code is one of the permanent redirect codes.
func IsPermanentRedirect(statusCode int) bool {
	switch statusCode {
	case http.StatusMovedPermanently,
		http.StatusPermanentRedirect:
		return true
	default:
		return false
	}
}

// IsUnauthorized reports whether the status code invalidates persisted auth state.
func IsUnauthorized(statusCode int) bool {
	return statusCode == http.StatusUnauthorized
}

// IsErrorStatusCode reports whether the status code is a client or server error.
func IsErrorStatusCode(statusCode int) bool {
	return statusCode >= http.StatusBadRequest
}

// TranslateStatusCode provides a human-readable message for HTTP status codes.
func TranslateStatusCode(statusCode int) string {
	messages := map[int]string{
		http.StatusOK:                  "Request successful.",
		http.StatusCreated:             "Request to create or update resource successful.",
		http.StatusAccepted:            "The request was accepted for processing, but the processing has not completed.",
		http.StatusNoContent:           "Request successful. No content to send for this request.",
		http.StatusBadRequest:          "Bad request. Verify the syntax of the request.",
		http.StatusUnauthorized:        "Authentication failed. Verify the credentials being used for the request.",
		http.StatusForbidden:           "Invalid permissions. Verify the account being used has the proper permissions for the resource you are trying to access.",
		http.StatusNotFound:            "Resource not found. Verify the URL path is correct.",
		http.StatusConflict:            "Conflict. See the error response for additional details.",
		http.StatusTooManyRequests:     "Too many requests. The client has sent too many requests in a given amount of time.",
		http.StatusInternalServerError: "Internal server error. Retry the request or contact support if the error persists.",
		http.StatusBadGateway:          "Bad Gateway. The server received an invalid response from an upstream server.",
		http.StatusServiceUnavailable:  "Service unavailable.",
		http.StatusGatewayTimeout:      "Gateway timeout. The server did not receive a timely response from an upstream server.",
	}

	if message, exists := messages[statusCode]; exists {
		return message
	}
	if text := http.StatusText(statusCode); text != "" {
		return text
	}
	return "Unknown status code received."
}
