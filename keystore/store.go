package keystore

import (
	"sync"

	"github.com/nicfit/clique/jwk"
)

// Store resolves key thumbprints to JWKs.
type Store interface {
	// Add indexes key by its thumbprint, overwriting any previous entry.
	Add(key jwk.Key) error

	// Get resolves thumbprint tp to a key, failing with errors.KeyNotFound
	// when it cannot be.
	Get(tp string) (jwk.Key, error)

	// Contains reports whether tp is a known thumbprint.
	Contains(tp string) bool

	// Upload publishes key to the store. For a Local store this is
	// equivalent to Add; for a Remote store it also pushes the key to
	// the backing server.
	Upload(key jwk.Key) error
}

var (
	defaultMu    sync.RWMutex
	defaultStore Store = NewLocal()
)

// Default returns the process-wide default KeyStore.
func Default() Store {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultStore
}

// SetDefault replaces the process-wide default KeyStore, returning the
// previous instance. The swap itself is safe for concurrent callers; the
// returned and replaced stores are not otherwise synchronized.
func SetDefault(s Store) Store {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	prev := defaultStore
	defaultStore = s
	return prev
}
