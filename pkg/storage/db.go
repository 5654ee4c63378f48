// Package storage provides the key-value persistence boundary for wallet
// records. The SDK ships an in-memory store for tests and ephemeral sessions,
// a Badger-backed store for desktop installs, and a prefix wrapper that
// namespaces one logical store inside another. Hosts may supply their own DB
// implementation instead.
package storage

import "errors"

// ErrKeyNotFound is returned by Get when no value exists for the key.
// Implementations wrap it so callers can test with errors.Is.
var ErrKeyNotFound = errors.New("key not found")

// DB is the key-value storage boundary. No transactional semantics are
// required; each call is independent.
type DB interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	Has(key []byte) (bool, error)
	// ForEach iterates over all keys with the given prefix.
	// The callback receives a copy of the key. Return a non-nil error
	// from fn to stop iteration early.
	ForEach(prefix []byte, fn func(key, value []byte) error) error
	Close() error
}
