// headers/redact/redact.go
package redact

import "net/http"

// sensitiveKeys holds canonical header names whose values are never logged when redaction is on.
var sensitiveKeys = map[string]bool{
	"Accesstoken":         true,
	"Authorization":       true,
	"Cookie":              true,
	"Set-Cookie":          true,
	"Proxy-Authorization": true,
}

// RedactSensitiveHeaderData redacts sensitive data based on the hideSensitiveData flag.
// Header names are compared in canonical form.
func RedactSensitiveHeaderData(hideSensitiveData bool, key, value string) string {
	if hideSensitiveData && sensitiveKeys[http.CanonicalHeaderKey(key)] {
		return "REDACTED"
	}
	return value
}
