// httpclient/client.go
/* The `httpclient` package dispatches JSON requests to an API on behalf of a caller. Every call resolves
a bearer token (caller supplied, else persisted), sends the request, clears persisted auth state when the
API answers 401, persists refreshed tokens found in response bodies, and returns the decoded JSON payload.
Nothing is retried and no requests are queued; each call is a single round trip. */
package httpclient

import (
	"fmt"
	"net/http"
	"time"

	"github.com/deploymenttheory/go-api-http-dispatch/authenticationhandler"
	"github.com/deploymenttheory/go-api-http-dispatch/cookiejar"
	"github.com/deploymenttheory/go-api-http-dispatch/logger"
	"github.com/deploymenttheory/go-api-http-dispatch/proxy"
	"github.com/deploymenttheory/go-api-http-dispatch/redirecthandler"
	"github.com/deploymenttheory/go-api-http-dispatch/tokenstore"
	"go.uber.org/zap"
)

// Transport sends a single HTTP request. *http.Client satisfies it.
type Transport interface {
	Do(req *http.Request) (*http.Response, error)
}

// Master struct/object
type Client struct {
	// Private
	config    ClientConfig
	http      *http.Client
	transport Transport

	// Exported
	Logger           logger.Logger
	Store            tokenstore.Store
	AuthTokenHandler *authenticationhandler.AuthTokenHandler
}

// ClientOption overrides a collaborator BuildClient would otherwise construct from the config.
type ClientOption func(*clientOptions)

type clientOptions struct {
	store     tokenstore.Store
	transport Transport
	logger    logger.Logger
}

// WithTokenStore uses store for persisted tokens instead of the memory or file store chosen by the config.
func WithTokenStore(store tokenstore.Store) ClientOption {
	return func(o *clientOptions) { o.store = store }
}

// WithTransport sends requests through transport instead of the configured *http.Client.
func WithTransport(transport Transport) ClientOption {
	return func(o *clientOptions) { o.transport = transport }
}

// WithLogger uses log instead of building a zap logger from the config.
func WithLogger(log logger.Logger) ClientOption {
	return func(o *clientOptions) { o.logger = log }
}

// BuildClient creates a new dispatching client with the provided configuration.
func BuildClient(config ClientConfig, populateDefaultValues bool, opts ...ClientOption) (*Client, error) {
	if err := validateClientConfig(&config, populateDefaultValues); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	options := &clientOptions{}
	for _, opt := range opts {
		opt(options)
	}

	//region Logging

	log := options.logger
	if log == nil {
		parsedLogLevel := logger.ParseLogLevelFromString(config.LogLevel)
		exportPath := ""
		if config.ExportLogs {
			exportPath = config.LogExportPath
		}
		log = logger.BuildLogger(parsedLogLevel, config.LogOutputFormat, config.LogConsoleSeparator, exportPath)
	}

	//endregion

	//region HTTP

	httpClient := &http.Client{
		Timeout: config.CustomTimeout,
	}

	if err := cookiejar.SetupCookieJar(httpClient, config.CookieJarEnabled, log); err != nil {
		return nil, err
	}

	if err := cookiejar.ApplyCustomCookies(httpClient, config.BaseURL, config.CustomCookies, log); err != nil {
		return nil, err
	}

	if err := redirecthandler.SetupRedirectHandler(httpClient, config.FollowRedirects, config.MaxRedirects, log); err != nil {
		log.Error("Failed to set up redirect handler", zap.Error(err))
		return nil, err
	}

	if config.ProxyURL != "" {
		if err := proxy.InitializeProxy(httpClient, config.ProxyURL, config.ProxyUsername, config.ProxyPassword, log); err != nil {
			return nil, err
		}
	}

	var transport Transport = httpClient
	if options.transport != nil {
		transport = options.transport
	}

	//endregion

	//region Token storage

	store := options.store
	if store == nil {
		if config.TokenStorePath != "" {
			store = tokenstore.NewFileStore(config.TokenStorePath)
		} else {
			store = tokenstore.NewMemoryStore()
		}
	}

	//endregion

	client := &Client{
		config:           config,
		http:             httpClient,
		transport:        transport,
		Logger:           log,
		Store:            store,
		AuthTokenHandler: authenticationhandler.NewAuthTokenHandler(store, log, config.HideSensitiveData),
	}

	log.Debug("New API client initialized",
		zap.String("Base URL", config.BaseURL),
		zap.String("Logging Level", config.LogLevel),
		zap.String("Log Encoding Format", config.LogOutputFormat),
		zap.Bool("Hide Sensitive Data In Logs", config.HideSensitiveData),
		zap.Bool("Cookie Jar Enabled", config.CookieJarEnabled),
		zap.Bool("Follow Redirects", config.FollowRedirects),
		zap.Int("Max Redirects", config.MaxRedirects),
		zap.Duration("Custom Timeout", config.CustomTimeout),
		zap.Bool("Proxy Enabled", config.ProxyURL != ""),
		zap.Bool("File Token Store", config.TokenStorePath != "" && options.store == nil),
	)

	return client, nil
}

// Config returns a copy of the configuration the client was built with.
func (c *Client) Config() ClientConfig {
	return c.config
}

// ModifyHttpTimeout changes the timeout of the underlying *http.Client. It has no effect on a
// transport supplied through WithTransport.
func (c *Client) ModifyHttpTimeout(newTimeout time.Duration) {
	c.http.Timeout = newTimeout
	c.config.CustomTimeout = newTimeout
}
