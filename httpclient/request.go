// httpclient/request.go
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/deploymenttheory/go-api-http-dispatch/headers"
	"github.com/deploymenttheory/go-api-http-dispatch/response"
	"github.com/deploymenttheory/go-api-http-dispatch/status"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestDescriptor describes a single call. It is built by the caller and not modified by the client.
type RequestDescriptor struct {
	// URL is absolute, or a path joined onto the configured base URL.
	URL string
	// Method is one of GET, POST, PUT, PATCH or DELETE.
	Method string
	// Body is JSON encoded for every method but GET. A nil Body sends no payload.
	Body any
	// AuthToken overrides the persisted token when non-empty.
	AuthToken string
	// Media, when set on a non-GET request, is streamed as the raw request body and Body is
	// ignored. Only the Authorization header is set.
	Media io.Reader
}

// Call sends desc and returns the decoded JSON payload of a successful response, or nil for an
// empty body. A 401 clears persisted auth state and returns ErrUnauthorized. Any other status
// >= 400 returns a *response.APIError. A refreshed token in the payload is persisted before returning.
func (c *Client) Call(ctx context.Context, desc RequestDescriptor) (any, error) {
	log := c.Logger
	requestID := uuid.New().String()

	method := strings.ToUpper(desc.Method)
	if !IsSupportedMethod(method) {
		log.Warn("HTTP method not supported", zap.String("request_id", requestID), zap.String("method", desc.Method))
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, desc.Method)
	}

	token, _ := c.AuthTokenHandler.ResolveToken(desc.AuthToken)

	target, err := c.ResolveURL(desc.URL)
	if err != nil {
		return nil, err
	}

	req, headerHandler, err := c.buildRequest(ctx, method, target, desc, token)
	if err != nil {
		return nil, err
	}

	log.LogRequestStart(requestID, method, target, headerHandler.RedactedHeaders())

	startTime := time.Now()
	resp, err := c.transport.Do(req)
	if err != nil {
		log.LogError("transport_failure", method, target, 0, err, "")
		return nil, fmt.Errorf("%w: %s %s: %w", ErrTransportFailure, method, target, err)
	}
	defer resp.Body.Close()

	log.LogRequestEnd(requestID, method, target, resp.StatusCode, time.Since(startTime))
	headers.CheckDeprecationHeader(resp, log)

	if status.IsUnauthorized(resp.StatusCode) {
		clearErr := c.AuthTokenHandler.ClearAuthState()
		log.LogAuthStateCleared(requestID, target, clearErr)
		return nil, fmt.Errorf("%w: %s %s", ErrUnauthorized, method, target)
	}

	if status.IsErrorStatusCode(resp.StatusCode) {
		return nil, response.HandleAPIErrorResponse(resp, log)
	}

	if status.IsRedirectStatusCode(resp.StatusCode) {
		log.Warn("Redirect response returned without being followed",
			zap.String("request_id", requestID),
			zap.Int("status_code", resp.StatusCode),
			zap.String("status", status.TranslateStatusCode(resp.StatusCode)),
			zap.Bool("permanent", status.IsPermanentRedirect(resp.StatusCode)),
			zap.String("location", resp.Header.Get("Location")),
		)
	}

	payload, err := response.DecodeJSONBody(resp, log)
	if err != nil {
		if errors.Is(err, response.ErrMalformedBody) {
			return nil, fmt.Errorf("%w: %s %s: %w", ErrMalformedResponse, method, target, err)
		}
		return nil, fmt.Errorf("%w: %s %s: %w", ErrTransportFailure, method, target, err)
	}

	c.AuthTokenHandler.CaptureToken(requestID, payload)

	return payload, nil
}

// ResolveURL returns fragment unchanged when it is an absolute http(s) URL. Otherwise it joins the
// configured base URL and fragment with exactly one slash between them.
func (c *Client) ResolveURL(fragment string) (string, error) {
	if isAbsoluteHTTPURL(fragment) {
		return fragment, nil
	}
	if c.config.BaseURL == "" {
		return "", fmt.Errorf("%w: relative url %q with no base url configured", ErrInvalidRequest, fragment)
	}
	return strings.TrimRight(c.config.BaseURL, "/") + "/" + strings.TrimLeft(fragment, "/"), nil
}

// buildRequest encodes the body and applies the dispatcher headers.
func (c *Client) buildRequest(ctx context.Context, method, target string, desc RequestDescriptor, token string) (*http.Request, *headers.HeaderHandler, error) {
	isMedia := desc.Media != nil && method != http.MethodGet

	var body io.Reader
	switch {
	case isMedia:
		body = desc.Media
	case method != http.MethodGet && desc.Body != nil:
		encoded, err := json.Marshal(desc.Body)
		if err != nil {
			c.Logger.Error("Failed to encode request body", zap.String("method", method), zap.String("url", target), zap.Error(err))
			return nil, nil, fmt.Errorf("%w: encode body: %w", ErrInvalidRequest, err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	headerHandler := headers.NewHeaderHandler(req, c.Logger, token, c.config.HideSensitiveData)
	if isMedia {
		headerHandler.SetMediaRequestHeaders()
	} else {
		headerHandler.SetJSONRequestHeaders()
	}
	headerHandler.LogHeaders()

	return req, headerHandler, nil
}

func isAbsoluteHTTPURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
