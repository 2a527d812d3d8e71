// authenticationhandler/authenticationhandler.go

/* The authenticationhandler package decides which bearer token a dispatched request carries and keeps
the persisted token in step with what the API reports. Exactly one source is used per call: the token
supplied by the caller, else the token persisted under tokenstore.TokenKey, else no token. Responses
that carry a refreshed token overwrite the persisted value, and an unauthorized response clears all
persisted auth state.

The store is shared by every call made through the same handler. A clear triggered by one call's 401
can interleave with a concurrent call's token capture; no ordering between the two is enforced. */
package authenticationhandler

import (
	"errors"

	"github.com/deploymenttheory/go-api-http-dispatch/headers/redact"
	"github.com/deploymenttheory/go-api-http-dispatch/logger"
	"github.com/deploymenttheory/go-api-http-dispatch/tokenstore"
	"go.uber.org/zap"
)

// TokenSource identifies where an effective token came from.
type TokenSource string

const (
	TokenSourceExplicit TokenSource = "explicit"
	TokenSourceStore    TokenSource = "store"
	TokenSourceNone     TokenSource = "none"
)

// AuthTokenHandler manages the persisted bearer token.
type AuthTokenHandler struct {
	Store             tokenstore.Store // Store holds the persisted token namespace.
	Logger            logger.Logger    // Logger provides structured logging capabilities.
	HideSensitiveData bool             // HideSensitiveData keeps token values out of debug logs.
}

// NewAuthTokenHandler creates a new instance of AuthTokenHandler.
// A nil store is treated as unavailable storage.
func NewAuthTokenHandler(store tokenstore.Store, log logger.Logger, hideSensitiveData bool) *AuthTokenHandler {
	if store == nil {
		store = tokenstore.Unavailable()
	}
	return &AuthTokenHandler{
		Store:             store,
		Logger:            log,
		HideSensitiveData: hideSensitiveData,
	}
}

// ResolveToken returns the effective token for a call. A non-empty explicit token always wins;
// otherwise the persisted token is used; missing or unavailable storage yields an empty token.
func (h *AuthTokenHandler) ResolveToken(explicit string) (string, TokenSource) {
	if explicit != "" {
		h.logResolved(explicit, TokenSourceExplicit)
		return explicit, TokenSourceExplicit
	}

	token, err := h.Store.Get(tokenstore.TokenKey)
	switch {
	case err == nil && token != "":
		h.logResolved(token, TokenSourceStore)
		return token, TokenSourceStore
	case err == nil, errors.Is(err, tokenstore.ErrNotFound):
		h.Logger.Debug("No persisted token found")
	case errors.Is(err, tokenstore.ErrUnavailable):
		h.Logger.Debug("Token storage unavailable, sending request without token")
	default:
		h.Logger.Warn("Failed to read persisted token", zap.Error(err))
	}
	return "", TokenSourceNone
}

func (h *AuthTokenHandler) logResolved(token string, source TokenSource) {
	h.Logger.Debug("Resolved effective token",
		zap.String("source", string(source)),
		zap.String("token", redact.RedactSensitiveHeaderData(h.HideSensitiveData, "Authorization", token)),
	)
}

// ClearAuthState removes every persisted value. Unavailable storage is not an error.
func (h *AuthTokenHandler) ClearAuthState() error {
	if err := h.Store.Clear(); err != nil && !errors.Is(err, tokenstore.ErrUnavailable) {
		return err
	}
	return nil
}
