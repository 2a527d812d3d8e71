// proxy.go

package proxy

import (
	"net/http"
	"net/url"

	"github.com/deploymenttheory/go-api-http-dispatch/logger"
	"go.uber.org/zap"
)

// InitializeProxy routes httpClient through proxyURL. Username/password credentials, when both are set,
// are embedded in the proxy URL so the transport sends Proxy-Authorization on CONNECT.
// An empty proxyURL leaves the client untouched.
func InitializeProxy(httpClient *http.Client, proxyURL, proxyUsername, proxyPassword string, log logger.Logger) error {
	if proxyURL == "" {
		return nil
	}

	parsedProxyURL, err := url.Parse(proxyURL)
	if err != nil || parsedProxyURL.Host == "" {
		return log.Error("Failed to parse proxy URL", zap.String("ProxyURL", proxyURL))
	}

	if proxyUsername != "" && proxyPassword != "" {
		parsedProxyURL.User = url.UserPassword(proxyUsername, proxyPassword)
	}

	transport, ok := httpClient.Transport.(*http.Transport)
	if !ok || transport == nil {
		transport = http.DefaultTransport.(*http.Transport).Clone()
	} else {
		transport = transport.Clone()
	}
	transport.Proxy = http.ProxyURL(parsedProxyURL)
	httpClient.Transport = transport

	log.Info("Proxy configured", zap.String("ProxyURL", parsedProxyURL.Redacted()))
	return nil
}
