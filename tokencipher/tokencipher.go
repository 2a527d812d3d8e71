// tokencipher/tokencipher.go

/* Package tokencipher seals arbitrary JSON-serializable payloads into opaque token strings using a
caller supplied secret, and opens them again. The secret is stretched into a 256-bit key with
HKDF-SHA256 and the payload is sealed with AES-GCM. The token format is
base64url(nonce || ciphertext || tag) without padding.

Secret management (rotation, expiry, storage) is the caller's concern. */
package tokencipher

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

var (
	// ErrEncodingFailure is returned when a payload cannot be serialized or sealed.
	ErrEncodingFailure = errors.New("tokencipher: encoding failure")
	// ErrDecodingFailure is returned when a token cannot be opened, e.g. a wrong secret or corrupt data.
	ErrDecodingFailure = errors.New("tokencipher: decoding failure")
)

var (
	hkdfSalt = []byte("go-api-http-dispatch/tokencipher/v1")
	hkdfInfo = []byte("token-sealing-key")
)

var encoding = base64.RawURLEncoding

// Cipher seals and opens tokens with a key derived once from a secret.
type Cipher struct {
	aead cipher.AEAD
}

// New derives a key from secret and returns a Cipher bound to it.
func New(secret string) (*Cipher, error) {
	if secret == "" {
		return nil, errors.New("tokencipher: empty secret")
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), hkdfSalt, hkdfInfo), key); err != nil {
		return nil, fmt.Errorf("tokencipher: derive key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Cipher{aead: aead}, nil
}

// Encode serializes payload and seals it. A []byte payload is sealed verbatim as already serialized
// plaintext; anything else, strings included, is JSON encoded first.
func (c *Cipher) Encode(payload any) (string, error) {
	plaintext, err := serialize(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncodingFailure, err)
	}

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncodingFailure, err)
	}

	sealed := c.aead.Seal(nonce, nonce, plaintext, nil)
	return encoding.EncodeToString(sealed), nil
}

// Decode opens token and returns the payload. Plaintext that parses as JSON is returned decoded
// (objects as map[string]any, numbers as float64); otherwise the raw plaintext string is returned.
func (c *Cipher) Decode(token string) (any, error) {
	data, err := encoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodingFailure, err)
	}

	nonceSize := c.aead.NonceSize()
	if len(data) < nonceSize+c.aead.Overhead() {
		return nil, fmt.Errorf("%w: token too short", ErrDecodingFailure)
	}

	plaintext, err := c.aead.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodingFailure, err)
	}

	var decoded any
	if err := json.Unmarshal(plaintext, &decoded); err != nil {
		return string(plaintext), nil
	}
	return decoded, nil
}

// Encode seals payload with a key derived from secret.
func Encode(payload any, secret string) (string, error) {
	c, err := New(secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncodingFailure, err)
	}
	return c.Encode(payload)
}

// Decode opens token with a key derived from secret.
func Decode(token string, secret string) (any, error) {
	c, err := New(secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodingFailure, err)
	}
	return c.Decode(token)
}

func serialize(payload any) ([]byte, error) {
	if raw, ok := payload.([]byte); ok {
		return raw, nil
	}
	return json.Marshal(payload)
}
