// httpclient/methods.go
package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// IsSupportedMethod reports whether method is one of the verbs Call dispatches.
func IsSupportedMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// Get sends a GET request. An empty authToken falls back to the persisted token.
func (c *Client) Get(ctx context.Context, url string, authToken string) (any, error) {
	return c.Call(ctx, RequestDescriptor{URL: url, Method: http.MethodGet, AuthToken: authToken})
}

// Post sends body as JSON with a POST request.
func (c *Client) Post(ctx context.Context, url string, body any, authToken string) (any, error) {
	return c.Call(ctx, RequestDescriptor{URL: url, Method: http.MethodPost, Body: body, AuthToken: authToken})
}

// Put sends body as JSON with a PUT request.
func (c *Client) Put(ctx context.Context, url string, body any, authToken string) (any, error) {
	return c.Call(ctx, RequestDescriptor{URL: url, Method: http.MethodPut, Body: body, AuthToken: authToken})
}

// Patch sends body as JSON with a PATCH request.
func (c *Client) Patch(ctx context.Context, url string, body any, authToken string) (any, error) {
	return c.Call(ctx, RequestDescriptor{URL: url, Method: http.MethodPatch, Body: body, AuthToken: authToken})
}

// Delete sends a DELETE request. body may be nil.
func (c *Client) Delete(ctx context.Context, url string, body any, authToken string) (any, error) {
	return c.Call(ctx, RequestDescriptor{URL: url, Method: http.MethodDelete, Body: body, AuthToken: authToken})
}

// UploadMedia POSTs the raw bytes of media with only the Authorization header set.
func (c *Client) UploadMedia(ctx context.Context, url string, media io.Reader, authToken string) (any, error) {
	return c.Call(ctx, RequestDescriptor{URL: url, Method: http.MethodPost, Media: media, AuthToken: authToken})
}

// CallInto sends desc and decodes the payload into out, which must be a pointer.
// An empty response body leaves out untouched.
func (c *Client) CallInto(ctx context.Context, desc RequestDescriptor, out any) error {
	payload, err := c.Call(ctx, desc)
	if err != nil {
		return err
	}
	if payload == nil || out == nil {
		return nil
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if err := json.Unmarshal(encoded, out); err != nil {
		return fmt.Errorf("%w: decode into %T: %w", ErrMalformedResponse, out, err)
	}
	return nil
}
