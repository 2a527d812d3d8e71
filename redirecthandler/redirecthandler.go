package redirecthandler

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/deploymenttheory/go-api-http-dispatch/logger"
	"go.uber.org/zap"
)

// RedirectHandler contains configurations for handling HTTP redirects.
type RedirectHandler struct {
	Logger           logger.Logger // Logger instance for logging.
	MaxRedirects     int           // Maximum allowed redirects to prevent infinite loops.
	SensitiveHeaders []string      // Headers to be removed on cross-host redirects.
}

// NewRedirectHandler creates a new instance of RedirectHandler.
func NewRedirectHandler(log logger.Logger, maxRedirects int) *RedirectHandler {
	return &RedirectHandler{
		Logger:           log,
		MaxRedirects:     maxRedirects,
		SensitiveHeaders: []string{"Authorization", "Cookie"},
	}
}

// AddSensitiveHeader allows adding configurable sensitive headers.
func (r *RedirectHandler) AddSensitiveHeader(header string) {
	r.SensitiveHeaders = append(r.SensitiveHeaders, header)
}

// WithRedirectHandling applies the redirect handling policy to an http.Client.
func (r *RedirectHandler) WithRedirectHandling(client *http.Client) {
	client.CheckRedirect = r.checkRedirect
}

// checkRedirect implements the redirect handling logic. req is the upcoming request and via holds
// the requests already made, oldest first.
func (r *RedirectHandler) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) == 0 {
		return nil
	}
	original := via[0]
	previous := via[len(via)-1]

	// Non-idempotent methods are never replayed against a new location
	if original.Method == http.MethodPost || original.Method == http.MethodPatch {
		r.Logger.Warn("Redirect attempted on non-idempotent method, not following", zap.String("method", original.Method))
		return http.ErrUseLastResponse
	}

	if len(via) >= r.MaxRedirects {
		r.Logger.Warn("Maximum redirects reached", zap.Int("maxRedirects", r.MaxRedirects))
		return &MaxRedirectsError{MaxRedirects: r.MaxRedirects}
	}

	history := make([]*url.URL, 0, len(via)+1)
	for _, v := range via {
		history = append(history, v.URL)
	}
	history = append(history, req.URL)
	if hasLoop(history) {
		r.Logger.Warn("Redirect loop detected", zap.String("url", req.URL.String()))
		return &RedirectLoopError{URL: req.URL.String()}
	}

	if req.URL.Host != previous.URL.Host {
		r.secureRequest(req)
	}

	r.Logger.Info("Redirecting request",
		zap.String("originalURL", previous.URL.String()),
		zap.String("newURL", req.URL.String()),
		zap.Int("redirectCount", len(via)),
	)
	return nil
}

// secureRequest removes sensitive headers from the request if the new destination is a different host.
func (r *RedirectHandler) secureRequest(req *http.Request) {
	for _, header := range r.SensitiveHeaders {
		if req.Header.Get(header) != "" {
			req.Header.Del(header)
			r.Logger.Debug("Removed sensitive header on cross-host redirect", zap.String("header", header))
		}
	}
}

// RedirectLoopError represents an error when a redirect loop is detected.
type RedirectLoopError struct {
	URL string
}

func (e *RedirectLoopError) Error() string {
	return fmt.Sprintf("redirect loop detected at %s", e.URL)
}

// MaxRedirectsError represents an error when the maximum number of redirects is reached.
type MaxRedirectsError struct {
	MaxRedirects int
}

func (e *MaxRedirectsError) Error() string {
	return fmt.Sprintf("maximum redirects reached: %d", e.MaxRedirects)
}

// hasLoop checks if there's a loop in the redirect history.
func hasLoop(history []*url.URL) bool {
	urlSet := make(map[string]struct{})
	for _, u := range history {
		if _, exists := urlSet[u.String()]; exists {
			return true
		}
		urlSet[u.String()] = struct{}{}
	}
	return false
}

// SetupRedirectHandler configures the HTTP client for redirect handling based on the client configuration.
// When followRedirects is false the client returns redirect responses to the caller untouched.
func SetupRedirectHandler(client *http.Client, followRedirects bool, maxRedirects int, log logger.Logger) error {
	if !followRedirects {
		client.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
		return nil
	}

	if maxRedirects < 1 {
		return log.Error("Invalid maxRedirects value", zap.Int("maxRedirects", maxRedirects))
	}

	NewRedirectHandler(log, maxRedirects).WithRedirectHandling(client)
	log.Info("Redirect handling enabled", zap.Int("MaxRedirects", maxRedirects))
	return nil
}
