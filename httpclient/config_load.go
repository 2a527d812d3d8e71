// httpclient/config_load.go
package httpclient

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable read by LoadConfigFromEnv, e.g. HTTPDISPATCH_BASE_URL.
const EnvPrefix = "HTTPDISPATCH"

// LoadConfigFromFile loads http client configuration settings from a JSON file. CustomTimeout is
// written as a duration string such as "30s". Missing fields are set to their defaults.
func LoadConfigFromFile(filepath string) (*ClientConfig, error) {
	absPath, err := validateFilePath(filepath)
	if err != nil {
		return nil, fmt.Errorf("invalid file path: %w", err)
	}

	byteValue, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("could not read file: %w", err)
	}

	var config ClientConfig
	if err := json.Unmarshal(byteValue, &config); err != nil {
		return nil, fmt.Errorf("could not unmarshal JSON: %w", err)
	}

	SetDefaultValuesClientConfig(&config)

	return &config, nil
}

// LoadConfigFromEnv loads http client configuration settings from HTTPDISPATCH_* environment variables.
// CUSTOM_COOKIES uses the "name:value,name:value" form. Unset variables fall back to the defaults.
func LoadConfigFromEnv() (*ClientConfig, error) {
	var config ClientConfig
	if err := envconfig.Process(EnvPrefix, &config); err != nil {
		return nil, fmt.Errorf("could not load configuration from environment: %w", err)
	}

	SetDefaultValuesClientConfig(&config)

	return &config, nil
}

// UnmarshalJSON accepts CustomTimeout either as a duration string or as nanoseconds.
func (c *ClientConfig) UnmarshalJSON(data []byte) error {
	type plain ClientConfig
	aux := struct {
		*plain
		CustomTimeout json.RawMessage
	}{plain: (*plain)(c)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.CustomTimeout) == 0 || string(aux.CustomTimeout) == "null" {
		return nil
	}

	var text string
	if err := json.Unmarshal(aux.CustomTimeout, &text); err == nil {
		d, err := time.ParseDuration(text)
		if err != nil {
			return fmt.Errorf("invalid CustomTimeout %q: %w", text, err)
		}
		c.CustomTimeout = d
		return nil
	}

	var nanos int64
	if err := json.Unmarshal(aux.CustomTimeout, &nanos); err != nil {
		return fmt.Errorf("invalid CustomTimeout: %w", err)
	}
	c.CustomTimeout = time.Duration(nanos)
	return nil
}
