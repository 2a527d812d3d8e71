// httpclient/config.go
package httpclient

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/deploymenttheory/go-api-http-dispatch/logger"
)

const (
	DefaultLogLevelString        = "LogLevelInfo"
	DefaultLogOutputFormatString = logger.LogOutputPretty
	DefaultLogConsoleSeparator   = "	"
	DefaultCustomTimeout         = 10 * time.Second
	DefaultMaxRedirects          = 5
	ConfigFileExtension          = ".json"
)

var validLogLevels = map[string]bool{
	"LogLevelDebug":  true,
	"LogLevelInfo":   true,
	"LogLevelWarn":   true,
	"LogLevelError":  true,
	"LogLevelDPanic": true,
	"LogLevelPanic":  true,
	"LogLevelFatal":  true,
}

// ClientConfig holds everything BuildClient needs. Zero values are replaced by defaults when
// BuildClient is asked to populate them.
type ClientConfig struct {
	// BaseURL is prepended to relative request URLs.
	BaseURL string `envconfig:"BASE_URL"`

	// Log
	LogLevel            string `envconfig:"LOG_LEVEL"`
	LogOutputFormat     string `envconfig:"LOG_OUTPUT_FORMAT"` // "json" or "pretty"
	LogConsoleSeparator string `envconfig:"LOG_CONSOLE_SEPARATOR"`
	ExportLogs          bool   `envconfig:"EXPORT_LOGS"`
	LogExportPath       string `envconfig:"LOG_EXPORT_PATH"`
	HideSensitiveData   bool   `envconfig:"HIDE_SENSITIVE_DATA"`

	// Cookies
	CookieJarEnabled bool              `envconfig:"COOKIE_JAR_ENABLED"`
	CustomCookies    map[string]string `envconfig:"CUSTOM_COOKIES"`

	// Transport
	CustomTimeout   time.Duration `envconfig:"CUSTOM_TIMEOUT"`
	FollowRedirects bool          `envconfig:"FOLLOW_REDIRECTS"`
	MaxRedirects    int           `envconfig:"MAX_REDIRECTS"`
	ProxyURL        string        `envconfig:"PROXY_URL"`
	ProxyUsername   string        `envconfig:"PROXY_USERNAME"`
	ProxyPassword   string        `envconfig:"PROXY_PASSWORD"`

	// TokenStorePath selects a file backed token store. Empty keeps tokens in memory.
	TokenStorePath string `envconfig:"TOKEN_STORE_PATH"`
}

// SetDefaultValuesClientConfig fills unset fields of config with their defaults.
func SetDefaultValuesClientConfig(config *ClientConfig) {
	setDefaultString(&config.LogLevel, DefaultLogLevelString)
	setDefaultString(&config.LogOutputFormat, DefaultLogOutputFormatString)
	setDefaultString(&config.LogConsoleSeparator, DefaultLogConsoleSeparator)
	if config.CustomTimeout == 0 {
		config.CustomTimeout = DefaultCustomTimeout
	}
	if config.MaxRedirects == 0 {
		config.MaxRedirects = DefaultMaxRedirects
	}
}

func setDefaultString(field *string, defaultValue string) {
	if *field == "" {
		*field = defaultValue
	}
}

// validateClientConfig checks config for values BuildClient cannot work with.
func validateClientConfig(config *ClientConfig, populateDefaults bool) error {
	if populateDefaults {
		SetDefaultValuesClientConfig(config)
	}

	if config.BaseURL != "" && !isAbsoluteHTTPURL(config.BaseURL) {
		return fmt.Errorf("base url must be an absolute http(s) url: %q", config.BaseURL)
	}

	if config.LogLevel != "" && !validLogLevels[config.LogLevel] {
		return fmt.Errorf("unknown log level: %q", config.LogLevel)
	}

	switch config.LogOutputFormat {
	case "", logger.LogOutputJSON, logger.LogOutputPretty:
	default:
		return fmt.Errorf("unknown log output format: %q, expected %q or %q", config.LogOutputFormat, logger.LogOutputJSON, logger.LogOutputPretty)
	}

	if config.ExportLogs && config.LogExportPath == "" {
		return errors.New("log export enabled but no log export path supplied")
	}

	if config.CustomTimeout < 0 {
		return errors.New("timeout cannot be less than 0 seconds")
	}

	if config.FollowRedirects && config.MaxRedirects < 1 {
		return errors.New("max redirects cannot be less than 1 when following redirects")
	}

	if len(config.CustomCookies) > 0 {
		if !config.CookieJarEnabled {
			return errors.New("custom cookies require the cookie jar to be enabled")
		}
		if config.BaseURL == "" {
			return errors.New("custom cookies require a base url to scope them to")
		}
	}

	if config.ProxyURL != "" {
		if _, err := url.Parse(config.ProxyURL); err != nil {
			return fmt.Errorf("invalid proxy url: %w", err)
		}
	}

	return nil
}

// validateFilePath cleans path and checks that it names a JSON file without traversal segments.
func validateFilePath(path string) (string, error) {
	cleanPath := filepath.Clean(path)

	absPath, err := filepath.EvalSymlinks(cleanPath)
	if err != nil {
		return "", fmt.Errorf("unable to resolve the absolute path of the configuration file: %s, error: %w", path, err)
	}

	if strings.Contains(absPath, "..") {
		return "", fmt.Errorf("invalid path, path traversal patterns detected: %s", path)
	}

	if filepath.Ext(absPath) != ConfigFileExtension {
		return "", fmt.Errorf("invalid file extension for configuration file: %s, expected .json", path)
	}

	return absPath, nil
}
