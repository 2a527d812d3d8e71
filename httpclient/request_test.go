package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deploymenttheory/go-api-http-dispatch/logger"
	"github.com/deploymenttheory/go-api-http-dispatch/response"
	"github.com/deploymenttheory/go-api-http-dispatch/tokenstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, baseURL string, store tokenstore.Store, opts ...ClientOption) *Client {
	t.Helper()
	options := append([]ClientOption{WithLogger(logger.NewNopLogger()), WithTokenStore(store)}, opts...)
	client, err := BuildClient(ClientConfig{BaseURL: baseURL}, true, options...)
	require.NoError(t, err)
	return client
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

type failingTransport struct {
	err error
}

func (f failingTransport) Do(*http.Request) (*http.Response, error) {
	return nil, f.err
}

func TestCall_GetWithStoredToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/me", r.URL.Path)
		assert.Equal(t, "abc", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		writeJSON(w, http.StatusOK, `{"id":1,"name":"a"}`)
	}))
	defer server.Close()

	store := tokenstore.NewMemoryStore()
	require.NoError(t, store.Set(tokenstore.TokenKey, "abc"))
	client := newTestClient(t, server.URL, store)

	result, err := client.Call(context.Background(), RequestDescriptor{URL: "/me", Method: http.MethodGet})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": float64(1), "name": "a"}, result)

	stored, err := store.Get(tokenstore.TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "abc", stored)
}

func TestCall_ExplicitTokenWins(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "explicit", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, `{}`)
	}))
	defer server.Close()

	store := tokenstore.NewMemoryStore()
	require.NoError(t, store.Set(tokenstore.TokenKey, "stored"))
	client := newTestClient(t, server.URL, store)

	_, err := client.Get(context.Background(), "/me", "explicit")
	require.NoError(t, err)
}

func TestCall_NoTokenSendsEmptyAuthorization(t *testing.T) {
	tests := []struct {
		name  string
		store tokenstore.Store
	}{
		{name: "empty store", store: tokenstore.NewMemoryStore()},
		{name: "unavailable store", store: tokenstore.Unavailable()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "", r.Header.Get("Authorization"))
				writeJSON(w, http.StatusOK, `{"token":"fresh"}`)
			}))
			defer server.Close()

			client := newTestClient(t, server.URL, tt.store)

			result, err := client.Get(context.Background(), "/ping", "")
			require.NoError(t, err)
			assert.Equal(t, map[string]any{"token": "fresh"}, result)
		})
	}
}

func TestCall_EncodesBodyForNonGetMethods(t *testing.T) {
	methods := []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}
	for _, method := range methods {
		t.Run(method, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, method, r.Method)
				var body map[string]any
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, map[string]any{"name": "widget", "count": float64(2)}, body)
				writeJSON(w, http.StatusOK, `{"ok":true}`)
			}))
			defer server.Close()

			client := newTestClient(t, server.URL, nil)

			result, err := client.Call(context.Background(), RequestDescriptor{
				URL:    "/widgets",
				Method: method,
				Body:   map[string]any{"name": "widget", "count": 2},
			})
			require.NoError(t, err)
			assert.Equal(t, map[string]any{"ok": true}, result)
		})
	}
}

func TestCall_GetNeverSendsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Empty(t, body)
		writeJSON(w, http.StatusOK, `[]`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, nil)

	result, err := client.Call(context.Background(), RequestDescriptor{URL: "/items", Method: "get", Body: map[string]any{"ignored": true}})
	require.NoError(t, err)
	assert.Equal(t, []any{}, result)
}

func TestCall_UnauthorizedClearsStore(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"token":"should-not-be-captured"}`)
	}))
	defer server.Close()

	store := tokenstore.NewMemoryStore()
	require.NoError(t, store.Set(tokenstore.TokenKey, "stale"))
	require.NoError(t, store.Set("profile", "cached"))
	client := newTestClient(t, server.URL, store)

	result, err := client.Get(context.Background(), "/me", "")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = store.Get(tokenstore.TokenKey)
	assert.ErrorIs(t, err, tokenstore.ErrNotFound)
	_, err = store.Get("profile")
	assert.ErrorIs(t, err, tokenstore.ErrNotFound)
}

func TestCall_UnauthorizedWithUnavailableStore(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, tokenstore.Unavailable())

	_, err := client.Get(context.Background(), "/me", "explicit")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCall_ErrorStatusReturnsAPIError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		wantMessage string
	}{
		{
			name:        "json error body",
			status:      http.StatusBadRequest,
			contentType: "application/json",
			body:        `{"message":"name is required"}`,
			wantMessage: "name is required",
		},
		{
			name:        "plain text server error",
			status:      http.StatusInternalServerError,
			contentType: "text/plain",
			body:        "upstream exploded",
			wantMessage: "upstream exploded",
		},
		{
			name:        "empty body",
			status:      http.StatusNotFound,
			wantMessage: "Not Found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.contentType != "" {
					w.Header().Set("Content-Type", tt.contentType)
				}
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer server.Close()

			store := tokenstore.NewMemoryStore()
			require.NoError(t, store.Set(tokenstore.TokenKey, "abc"))
			client := newTestClient(t, server.URL, store)

			result, err := client.Post(context.Background(), "/widgets", map[string]any{}, "")
			assert.Nil(t, result)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrHTTPStatus)

			var apiErr *response.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			assert.Equal(t, tt.body, apiErr.RawResponse)
			assert.Equal(t, http.MethodPost, apiErr.Method)

			stored, err := store.Get(tokenstore.TokenKey)
			require.NoError(t, err)
			assert.Equal(t, "abc", stored)
		})
	}
}

func TestCall_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"id":`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, nil)

	result, err := client.Get(context.Background(), "/me", "")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.ErrorIs(t, err, response.ErrMalformedBody)
}

func TestCall_EmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, nil)

	result, err := client.Delete(context.Background(), "/widgets/1", nil, "")
	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestCall_CapturesRefreshedToken(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantToken string
	}{
		{name: "token field", body: `{"token":"new-token"}`, wantToken: "new-token"},
		{name: "access_token field", body: `{"access_token":"new-access"}`, wantToken: "new-access"},
		{name: "token preferred over access_token", body: `{"access_token":"second","token":"first"}`, wantToken: "first"},
		{name: "empty token ignored", body: `{"token":""}`, wantToken: "old"},
		{name: "non-string token ignored", body: `{"token":42}`, wantToken: "old"},
		{name: "array body ignored", body: `[{"token":"nested"}]`, wantToken: "old"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, tt.body)
			}))
			defer server.Close()

			store := tokenstore.NewMemoryStore()
			require.NoError(t, store.Set(tokenstore.TokenKey, "old"))
			client := newTestClient(t, server.URL, store)

			_, err := client.Post(context.Background(), "/login", map[string]string{"user": "u"}, "")
			require.NoError(t, err)

			stored, err := store.Get(tokenstore.TokenKey)
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, stored)
		})
	}
}

func TestCall_TransportFailure(t *testing.T) {
	cause := errors.New("connection refused")
	client := newTestClient(t, "https://api.example.com", nil, WithTransport(failingTransport{err: cause}))

	result, err := client.Get(context.Background(), "/me", "")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrTransportFailure)
	assert.ErrorIs(t, err, cause)
}

func TestCall_UnsupportedMethod(t *testing.T) {
	client := newTestClient(t, "https://api.example.com", nil, WithTransport(failingTransport{err: errors.New("must not be called")}))

	_, err := client.Call(context.Background(), RequestDescriptor{URL: "/me", Method: http.MethodOptions})
	assert.ErrorIs(t, err, ErrUnsupportedMethod)
}

func TestCall_UnencodableBody(t *testing.T) {
	client := newTestClient(t, "https://api.example.com", nil, WithTransport(failingTransport{err: errors.New("must not be called")}))

	_, err := client.Post(context.Background(), "/widgets", map[string]any{"fn": func() {}}, "")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestUploadMedia_SendsRawBody(t *testing.T) {
	payload := []byte{0x89, 0x50, 0x4e, 0x47, 0x00, 0x01}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "media-token", r.Header.Get("Authorization"))
		assert.Empty(t, r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Accept"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, payload, body)
		writeJSON(w, http.StatusCreated, `{"id":"m1"}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, nil)

	result, err := client.UploadMedia(context.Background(), "/media", bytes.NewReader(payload), "media-token")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": "m1"}, result)
}

func TestCallInto(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"id":7,"name":"seven","tags":["a","b"]}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, nil)

	var out struct {
		ID   int      `json:"id"`
		Name string   `json:"name"`
		Tags []string `json:"tags"`
	}
	err := client.CallInto(context.Background(), RequestDescriptor{URL: "/items/7", Method: http.MethodGet}, &out)
	require.NoError(t, err)
	assert.Equal(t, 7, out.ID)
	assert.Equal(t, "seven", out.Name)
	assert.Equal(t, []string{"a", "b"}, out.Tags)
}

func TestCallInto_TypeMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"id":"not-a-number"}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, nil)

	var out struct {
		ID int `json:"id"`
	}
	err := client.CallInto(context.Background(), RequestDescriptor{URL: "/items/7", Method: http.MethodGet}, &out)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		fragment string
		want     string
		wantErr  error
	}{
		{name: "relative path", baseURL: "https://api.example.com", fragment: "/users", want: "https://api.example.com/users"},
		{name: "trailing slash on base", baseURL: "https://api.example.com/", fragment: "/users", want: "https://api.example.com/users"},
		{name: "no slashes", baseURL: "https://api.example.com/v1", fragment: "users", want: "https://api.example.com/v1/users"},
		{name: "absolute url untouched", baseURL: "https://api.example.com", fragment: "https://other.example.com/x", want: "https://other.example.com/x"},
		{name: "absolute http url untouched", baseURL: "https://api.example.com", fragment: "http://other.example.com/x?y=1", want: "http://other.example.com/x?y=1"},
		{name: "relative without base", fragment: "/users", wantErr: ErrInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &Client{config: ClientConfig{BaseURL: tt.baseURL}}
			got, err := client.ResolveURL(tt.fragment)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsSupportedMethod(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		assert.True(t, IsSupportedMethod(method), method)
	}
	for _, method := range []string{http.MethodHead, http.MethodOptions, http.MethodConnect, http.MethodTrace, "", "get"} {
		assert.False(t, IsSupportedMethod(method), method)
	}
}
