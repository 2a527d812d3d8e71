// httpclient/errors.go
package httpclient

import (
	"errors"

	"github.com/deploymenttheory/go-api-http-dispatch/response"
)

// Failures surfaced by Call. Each is wrapped with context, so match with errors.Is.
var (
	// ErrUnauthorized is returned for a 401 response. Persisted auth state has already been cleared.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrTransportFailure wraps network errors and bodies that could not be read.
	ErrTransportFailure = errors.New("transport failure")
	// ErrMalformedResponse wraps a success response whose body is not valid JSON.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrUnsupportedMethod is returned for a method outside GET, POST, PUT, PATCH and DELETE.
	ErrUnsupportedMethod = errors.New("unsupported http method")
	// ErrInvalidRequest is returned when a request could not be built from its descriptor.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrHTTPStatus matches the *response.APIError returned for statuses >= 400 other than 401.
	ErrHTTPStatus = response.ErrHTTPStatus
)
