// tokenstore/tokenstore.go

/* Package tokenstore provides the persistent key-value storage the dispatcher reads bearer tokens from
and writes refreshed tokens to. A Store is a single logical namespace of string keys. Three variants are
provided: an in-process memory store, a JSON file backed store that survives restarts, and an
unavailable store for headless contexts where no storage exists. The unavailable variant reports
ErrUnavailable on every call so callers can tell "no token stored" apart from "no storage at all". */
package tokenstore

import (
	"encoding/json"
	"errors"
)

// TokenKey is the key the dispatcher persists the effective bearer token under.
const TokenKey = "token"

var (
	// ErrNotFound is returned by Get when the key has no value.
	ErrNotFound = errors.New("tokenstore: key not found")
	// ErrUnavailable is returned by every operation of a store that has no backing storage.
	ErrUnavailable = errors.New("tokenstore: storage unavailable")
)

// Store is a string key-value namespace.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Clear() error
}

// GetJSON reads key from store and decodes it as JSON. Values that are not valid JSON are
// returned as the raw string. A missing key yields (nil, ErrNotFound).
func GetJSON(store Store, key string) (any, error) {
	raw, err := store.Get(key)
	if err != nil {
		return nil, err
	}

	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return raw, nil
	}
	return decoded, nil
}

type unavailableStore struct{}

// Unavailable returns a Store with no backing storage.
func Unavailable() Store {
	return unavailableStore{}
}

func (unavailableStore) Get(string) (string, error) { return "", ErrUnavailable }
func (unavailableStore) Set(string, string) error   { return ErrUnavailable }
func (unavailableStore) Clear() error               { return ErrUnavailable }
