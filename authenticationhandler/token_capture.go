// authenticationhandler/token_capture.go
package authenticationhandler

import (
	"errors"

	"github.com/deploymenttheory/go-api-http-dispatch/tokenstore"
	"go.uber.org/zap"
)

// TokenFields lists the response body fields that carry a refreshed token, in order of precedence.
var TokenFields = []string{"token", "access_token"}

// ExtractToken returns the refreshed token carried by payload, if any. Only JSON objects with a
// non-empty string value in one of TokenFields qualify.
func ExtractToken(payload any) (token string, field string, ok bool) {
	body, isObject := payload.(map[string]any)
	if !isObject {
		return "", "", false
	}
	for _, field := range TokenFields {
		if value, isString := body[field].(string); isString && value != "" {
			return value, field, true
		}
	}
	return "", "", false
}

// CaptureToken persists the refreshed token carried by payload under tokenstore.TokenKey, overwriting
// any existing value. It reports the body field the token was taken from. A failed write is logged and
// does not fail the call that produced the payload.
func (h *AuthTokenHandler) CaptureToken(requestID string, payload any) (string, bool) {
	token, field, ok := ExtractToken(payload)
	if !ok {
		return "", false
	}

	if err := h.Store.Set(tokenstore.TokenKey, token); err != nil {
		if errors.Is(err, tokenstore.ErrUnavailable) {
			h.Logger.Debug("Token storage unavailable, refreshed token not persisted", zap.String("request_id", requestID))
		} else {
			h.Logger.Warn("Failed to persist refreshed token", zap.String("request_id", requestID), zap.Error(err))
		}
		return field, false
	}

	h.Logger.LogTokenCapture(requestID, field)
	return field, true
}
