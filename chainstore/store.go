package chainstore

import "sync"

// Chain is the minimal surface a BlockChain-like value must expose to be
// held by a Store: its genesis subject, and a way to serialize it back
// to the wire format for re-upload or caching.
type Chain interface {
	Subject() string
	Serialize() (string, error)

	// BlockTokens returns each block's compact JWS serialization, in
	// chain order, for upload to a remote store one block at a time.
	BlockTokens() ([]string, error)
}

// Store resolves a chain subject to its Chain.
type Store interface {
	// Add indexes chain by its subject. Fails if the subject is already
	// present.
	Add(chain Chain) error

	// Get resolves subject to a Chain, failing with errors.ChainNotFound
	// when it cannot be.
	Get(subject string) (Chain, error)

	// Upload publishes chain to the store. For a Local store this is
	// equivalent to Add; for a Remote store it also pushes every block
	// to the backing server.
	Upload(chain Chain) error
}

var (
	defaultMu    sync.RWMutex
	defaultStore Store = NewLocal()
)

// Default returns the process-wide default ChainStore.
func Default() Store {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultStore
}

// SetDefault replaces the process-wide default ChainStore, returning the
// previous instance.
func SetDefault(s Store) Store {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	prev := defaultStore
	defaultStore = s
	return prev
}
