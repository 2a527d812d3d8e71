package tokencipher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	const secret = "s3cr3t"

	cases := []struct {
		name    string
		payload any
		want    any
	}{
		{"object", map[string]any{"id": 1, "roles": []string{"admin"}}, map[string]any{"id": float64(1), "roles": []any{"admin"}}},
		{"array", []any{"a", map[string]any{"b": true}}, []any{"a", map[string]any{"b": true}}},
		{"plain string", "hello world", "hello world"},
		{"numeric looking string", "42", "42"},
		{"json looking string", `{"already":"json"}`, `{"already":"json"}`},
		{"pre-serialized bytes", []byte(`{"already":"json"}`), map[string]any{"already": "json"}},
		{"raw bytes", []byte("not json"), "not json"},
		{"number", 42, float64(42)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			token, err := Encode(tc.payload, secret)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			decoded, err := Decode(token, secret)
			require.NoError(t, err)
			assert.Equal(t, tc.want, decoded)
		})
	}
}

func TestEncode_NonceVaries(t *testing.T) {
	first, err := Encode("same", "k")
	require.NoError(t, err)
	second, err := Encode("same", "k")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestDecode_WrongSecret(t *testing.T) {
	token, err := Encode(map[string]string{"user": "a"}, "right")
	require.NoError(t, err)

	_, err = Decode(token, "wrong")
	assert.ErrorIs(t, err, ErrDecodingFailure)
}

func TestDecode_CorruptToken(t *testing.T) {
	token, err := Encode("payload", "k")
	require.NoError(t, err)

	for name, corrupt := range map[string]string{
		"not base64": "%%%",
		"too short":  "AAAA",
		"tampered":   strings.Repeat("A", len(token)),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(corrupt, "k")
			assert.ErrorIs(t, err, ErrDecodingFailure)
		})
	}
}

func TestEncode_Failures(t *testing.T) {
	_, err := Encode(map[string]any{"ch": make(chan int)}, "k")
	assert.ErrorIs(t, err, ErrEncodingFailure)

	_, err = Encode("payload", "")
	assert.ErrorIs(t, err, ErrEncodingFailure)

	_, err = Decode("anything", "")
	assert.ErrorIs(t, err, ErrDecodingFailure)
}

func TestCipher_Reuse(t *testing.T) {
	c, err := New("k")
	require.NoError(t, err)

	token, err := c.Encode(map[string]any{"n": 1})
	require.NoError(t, err)

	decoded, err := Decode(token, "k")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": float64(1)}, decoded)
}
