// headers/headers.go
package headers

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/deploymenttheory/go-api-http-dispatch/headers/redact"
	"github.com/deploymenttheory/go-api-http-dispatch/logger"
	"github.com/deploymenttheory/go-api-http-dispatch/version"
	"go.uber.org/zap"
)

const (
	ContentTypeJSON = "application/json"
	AcceptJSON      = "application/json"
)

// HeaderHandler is responsible for managing and setting headers on dispatched HTTP requests.
type HeaderHandler struct {
	req               *http.Request // The http.Request for which headers are being managed
	log               logger.Logger // The logger to use for logging headers
	token             string        // The effective token, sent verbatim as the Authorization value
	hideSensitiveData bool          // Redact Authorization and similar headers in logs
}

// NewHeaderHandler creates a new instance of HeaderHandler for a given http.Request, logger and effective token.
func NewHeaderHandler(req *http.Request, log logger.Logger, token string, hideSensitiveData bool) *HeaderHandler {
	return &HeaderHandler{
		req:               req,
		log:               log,
		token:             token,
		hideSensitiveData: hideSensitiveData,
	}
}

// SetAuthorization sets the Authorization header to the effective token exactly as resolved.
// An empty token still produces an (empty) Authorization header.
func (h *HeaderHandler) SetAuthorization() {
	h.req.Header.Set("Authorization", h.token)
}

// SetContentType sets the Content-Type header for the request.
func (h *HeaderHandler) SetContentType(contentType string) {
	h.req.Header.Set("Content-Type", contentType)
}

// SetAccept sets the Accept header for the request.
func (h *HeaderHandler) SetAccept(acceptHeader string) {
	h.req.Header.Set("Accept", acceptHeader)
}

// SetUserAgent sets the User-Agent header for the request.
func (h *HeaderHandler) SetUserAgent(userAgent string) {
	h.req.Header.Set("User-Agent", userAgent)
}

// SetJSONRequestHeaders applies the header set used for every JSON request.
func (h *HeaderHandler) SetJSONRequestHeaders() {
	h.SetContentType(ContentTypeJSON)
	h.SetAccept(AcceptJSON)
	h.SetAuthorization()
	h.SetUserAgent(version.GetUserAgentHeader())
}

// SetMediaRequestHeaders applies the header set used for raw media uploads: Authorization only,
// so the transport does not rewrite the body's own content type.
func (h *HeaderHandler) SetMediaRequestHeaders() {
	h.SetAuthorization()
}

// SetCustomHeader sets an arbitrary header on the request.
func (h *HeaderHandler) SetCustomHeader(headerName, headerValue string) {
	h.req.Header.Set(headerName, headerValue)
}

// RedactedHeaders returns a copy of the request headers suitable for logging.
func (h *HeaderHandler) RedactedHeaders() map[string][]string {
	redacted := make(map[string][]string, len(h.req.Header))
	for name, values := range h.req.Header {
		copied := make([]string, len(values))
		for i, value := range values {
			copied[i] = redact.RedactSensitiveHeaderData(h.hideSensitiveData, name, value)
		}
		redacted[name] = copied
	}
	return redacted
}

// LogHeaders prints all the current headers in the http.Request at debug level, redacting sensitive values
// when hideSensitiveData is set.
func (h *HeaderHandler) LogHeaders() {
	if h.log.GetLogLevel() <= logger.LogLevelDebug {
		h.log.Debug("HTTP Request Headers", zap.String("Headers", HeadersToString(h.RedactedHeaders())))
	}
}

// HeadersToString converts headers to a string for logging, one header per line in name order.
func HeadersToString(headers map[string][]string) string {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)

	headerStrings := make([]string, 0, len(names))
	for _, name := range names {
		headerStrings = append(headerStrings, fmt.Sprintf("%s: %s", name, strings.Join(headers[name], ", ")))
	}
	return strings.Join(headerStrings, "\n")
}

// CheckDeprecationHeader checks the response headers for the Deprecation header and logs a warning if present.
func CheckDeprecationHeader(resp *http.Response, log logger.Logger) {
	deprecationHeader := resp.Header.Get("Deprecation")
	if deprecationHeader != "" {
		endpoint := ""
		if resp.Request != nil {
			endpoint = resp.Request.URL.String()
		}
		log.Warn("API endpoint is deprecated",
			zap.String("Date", deprecationHeader),
			zap.String("Endpoint", endpoint),
		)
	}
}
