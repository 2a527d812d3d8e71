// cookiejar/cookiejar.go

/* The cookiejar package provides cookie handling for the dispatcher's HTTP client: initialization of a
public-suffix aware cookie jar, seeding of caller supplied cookies for the base URL, and redaction of
sensitive cookies before they are logged. */
package cookiejar

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"github.com/deploymenttheory/go-api-http-dispatch/logger"
	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
)

// SetupCookieJar initializes the HTTP client with a cookie jar if enabled in the configuration.
func SetupCookieJar(client *http.Client, enableCookieJar bool, log logger.Logger) error {
	if !enableCookieJar {
		return nil
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		log.Error("Failed to create cookie jar", zap.Error(err))
		return fmt.Errorf("setupCookieJar failed: %w", err)
	}
	client.Jar = jar
	log.Debug("Cookie jar enabled")
	return nil
}

// ApplyCustomCookies seeds the client's jar with name/value cookies scoped to baseURL.
// A jar must already be configured when cookies are supplied.
func ApplyCustomCookies(client *http.Client, baseURL string, cookies map[string]string, log logger.Logger) error {
	if len(cookies) == 0 {
		return nil
	}
	if client.Jar == nil {
		return log.Error("Custom cookies supplied but cookie jar is disabled")
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil || parsedURL.Host == "" {
		return log.Error("Custom cookies require an absolute base URL", zap.String("base_url", baseURL))
	}

	httpCookies := make([]*http.Cookie, 0, len(cookies))
	for name, value := range cookies {
		httpCookies = append(httpCookies, &http.Cookie{Name: name, Value: value, Path: "/"})
	}
	client.Jar.SetCookies(parsedURL, httpCookies)

	if log.GetLogLevel() <= logger.LogLevelDebug {
		redacted := make([]string, 0, len(httpCookies))
		for _, cookie := range RedactSensitiveCookies(httpCookies) {
			redacted = append(redacted, cookie.String())
		}
		log.Debug("Custom cookies applied",
			zap.Strings("names", CookieNames(httpCookies)),
			zap.Strings("cookies", redacted),
			zap.String("host", parsedURL.Host),
		)
	}
	return nil
}

// RedactSensitiveCookies returns copies of cookies with sensitive values replaced.
// The input slice is not modified.
func RedactSensitiveCookies(cookies []*http.Cookie) []*http.Cookie {
	sensitiveCookieNames := map[string]bool{
		"SessionID": true,
		"session":   true,
		"token":     true,
	}

	redacted := make([]*http.Cookie, 0, len(cookies))
	for _, cookie := range cookies {
		copied := *cookie
		if sensitiveCookieNames[cookie.Name] {
			copied.Value = "REDACTED"
		}
		redacted = append(redacted, &copied)
	}
	return redacted
}

// CookieNames returns the names of cookies, for logging without values.
func CookieNames(cookies []*http.Cookie) []string {
	names := make([]string, 0, len(cookies))
	for _, cookie := range cookies {
		names = append(names, cookie.Name)
	}
	return names
}
