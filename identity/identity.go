package identity

import (
	"github.com/nicfit/clique/errors"
	"github.com/nicfit/clique/jwk"
)

// Identity is the tuple (acct, active key, key history, idchain?) bound
// to a single account. An Identity built from a public key alone
// (no private material) has an empty key history; it exists solely to
// name the creator of a deserialized block.
type Identity struct {
	acct    string
	key     jwk.Key
	keys    *KeySet
	idchain string
	hasIDC  bool
}

// New builds an Identity for `acct` using `key` as its active signing
// (or verification) key. If `key` carries private material, it is added
// to the identity's key-rotation history.
func New(acct string, key jwk.Key) (*Identity, error) {
	if key == nil {
		return nil, errors.ValueError("active key must not be nil")
	}
	tp, err := key.Thumbprint()
	if err != nil {
		return nil, err
	}
	if key.ID() == "" {
		return nil, errors.ValueError("active key must have a key ID (kid)")
	}
	if key.ID() != tp {
		return nil, errors.ValueError("active key id %q does not match its thumbprint %q", key.ID(), tp)
	}

	id := &Identity{
		acct: acct,
		key:  key,
		keys: NewKeySet(),
	}
	if key.IsPrivate() {
		if err := id.keys.Add(key); err != nil {
			return nil, err
		}
	}
	return id, nil
}

// Acct returns the account URI this identity represents.
func (id *Identity) Acct() string {
	return id.acct
}

// ActiveKey returns the key currently used to sign new blocks.
func (id *Identity) ActiveKey() jwk.Key {
	return id.key
}

// Thumbprint returns the thumbprint of the active key.
func (id *Identity) Thumbprint() (string, error) {
	return id.key.Thumbprint()
}

// Keys returns the identity's key-rotation history, in the order keys
// were first used.
func (id *Identity) Keys() *KeySet {
	return id.keys
}

// IsPrivate reports whether the identity's active key carries private
// material, i.e. whether it can sign new blocks.
func (id *Identity) IsPrivate() bool {
	return id.key.IsPrivate()
}

// RotateKey makes `key` the identity's active signing key, appending it
// to the key history if it isn't already present. Passing nil generates
// a fresh key with the current active key's algorithm.
func (id *Identity) RotateKey(key jwk.Key) (jwk.Key, error) {
	if key == nil {
		var err error
		key, err = jwk.New(id.key.Alg())
		if err != nil {
			return nil, err
		}
	}
	if err := id.keys.Add(key); err != nil {
		return nil, err
	}
	id.key = key
	return key, nil
}

// IDChain returns the serialized IdentityChain carried by this identity,
// if one was set with SetIDChain.
func (id *Identity) IDChain() (string, bool) {
	return id.idchain, id.hasIDC
}

// SetIDChain attaches a serialized IdentityChain to this identity. The
// chain itself is not parsed or validated here.
func (id *Identity) SetIDChain(serialized string) {
	id.idchain = serialized
	id.hasIDC = true
}
