// response/success.go
/* Responsible for handling successful API responses. The dispatcher always expects JSON, so the body is
read in full, logged at debug level and decoded into a generic value. */
package response

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/deploymenttheory/go-api-http-dispatch/logger"
	"go.uber.org/zap"
)

// ErrMalformedBody is returned when a response body is not valid JSON.
var ErrMalformedBody = errors.New("malformed response body")

// DecodeJSONBody reads resp.Body and decodes it as JSON. Objects decode to map[string]any and
// numbers to float64. An empty body (for example a 204) yields a nil payload and no error.
func DecodeJSONBody(resp *http.Response, log logger.Logger) (any, error) {
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("Failed to read response body", zap.Error(err))
		return nil, fmt.Errorf("read response body: %w", err)
	}

	log.Debug("Raw HTTP Response", zap.Int("status_code", resp.StatusCode), zap.Int("bytes", len(bodyBytes)))

	if len(bytes.TrimSpace(bodyBytes)) == 0 {
		return nil, nil
	}

	var payload any
	decoder := json.NewDecoder(bytes.NewReader(bodyBytes))
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		log.Warn("JSON Unmarshal error", zap.Error(err), zap.String("content_type", resp.Header.Get("Content-Type")))
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if decoder.More() {
		return nil, fmt.Errorf("%w: trailing data after JSON value", ErrMalformedBody)
	}

	return normalizeNumbers(payload), nil
}

// normalizeNumbers converts json.Number values to float64, matching encoding/json's default decoding,
// except integers that do not fit a float64 exactly which are kept as json.Number.
func normalizeNumbers(v any) any {
	switch value := v.(type) {
	case map[string]any:
		for k, item := range value {
			value[k] = normalizeNumbers(item)
		}
		return value
	case []any:
		for i, item := range value {
			value[i] = normalizeNumbers(item)
		}
		return value
	case json.Number:
		f, err := value.Float64()
		if err != nil {
			return value
		}
		if i, err := value.Int64(); err == nil && int64(float64(i)) != i {
			return value
		}
		return f
	default:
		return v
	}
}
