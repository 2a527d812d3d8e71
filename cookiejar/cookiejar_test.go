// cookiejar/cookiejar_test.go
package cookiejar

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/deploymenttheory/go-api-http-dispatch/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRedactSensitiveCookies tests the RedactSensitiveCookies function to ensure it correctly redacts sensitive cookies.
func TestRedactSensitiveCookies(t *testing.T) {
	cookies := []*http.Cookie{
		{Name: "SessionID", Value: "sensitive-value-1"},
		{Name: "NonSensitiveCookie", Value: "non-sensitive-value"},
		{Name: "token", Value: "sensitive-value-2"},
	}

	redactedCookies := RedactSensitiveCookies(cookies)

	expectedValues := map[string]string{
		"SessionID":          "REDACTED",
		"NonSensitiveCookie": "non-sensitive-value",
		"token":              "REDACTED",
	}
	for _, cookie := range redactedCookies {
		assert.Equal(t, expectedValues[cookie.Name], cookie.Value, "Cookie value should match expected redaction outcome")
	}
	assert.Equal(t, "sensitive-value-1", cookies[0].Value, "input cookies must not be modified")
}

func TestSetupCookieJar(t *testing.T) {
	log := logger.NewNopLogger()

	disabled := &http.Client{}
	require.NoError(t, SetupCookieJar(disabled, false, log))
	assert.Nil(t, disabled.Jar)

	enabled := &http.Client{}
	require.NoError(t, SetupCookieJar(enabled, true, log))
	assert.NotNil(t, enabled.Jar)
}

func TestApplyCustomCookies(t *testing.T) {
	log := logger.NewNopLogger()
	client := &http.Client{}
	require.NoError(t, SetupCookieJar(client, true, log))

	err := ApplyCustomCookies(client, "https://api.example.com", map[string]string{"locale": "en"}, log)
	require.NoError(t, err)

	target, _ := url.Parse("https://api.example.com/users")
	cookies := client.Jar.Cookies(target)
	require.Len(t, cookies, 1)
	assert.Equal(t, "locale", cookies[0].Name)
	assert.Equal(t, []string{"locale"}, CookieNames(cookies))
}

func TestApplyCustomCookies_Errors(t *testing.T) {
	log := logger.NewNopLogger()

	assert.NoError(t, ApplyCustomCookies(&http.Client{}, "", nil, log))
	assert.Error(t, ApplyCustomCookies(&http.Client{}, "https://api.example.com", map[string]string{"a": "b"}, log))

	withJar := &http.Client{}
	require.NoError(t, SetupCookieJar(withJar, true, log))
	assert.Error(t, ApplyCustomCookies(withJar, "/relative", map[string]string{"a": "b"}, log))
}
