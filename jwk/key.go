package jwk

import (
	"crypto"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/nicfit/clique/errors"
	"github.com/nicfit/clique/jwa"
)

// Base64 encoding used consistently by key material and thumbprints.
var b64 = base64.RawURLEncoding

// Key represents a cryptographic key used to sign and verify blocks.
type Key interface {
	// ID returns the `kid` this key was imported or generated with. For a
	// key minted by New, this equals Thumbprint().
	ID() string

	// Alg returns the JWA algorithm identifier intended for the key.
	Alg() jwa.Alg

	// Thumbprint returns the canonical fingerprint of the key's public
	// material: SHA-256 over the compact JSON object
	// {"crv":...,"kty":...,"x":...,"y":...}, base64url (no padding)
	// encoded. Two keys with identical (crv,kty,x,y) always produce the
	// same thumbprint, regardless of any attached private material.
	Thumbprint() (string, error)

	// IsPrivate reports whether the key carries private material.
	IsPrivate() bool

	// Public returns the public key corresponding to the opaque key.
	Public() crypto.PublicKey

	// Sign digests `data` with the hash function carried by `hh` and
	// produces a digital signature over the digest.
	Sign(rand io.Reader, data []byte, hh crypto.SignerOpts) (signature []byte, err error)

	// Verify checks the authenticity of `signature` over `data`.
	Verify(hh crypto.Hash, data, signature []byte) bool

	// Export returns a portable representation of the key. When `safe`
	// is true, private material ('d') is omitted.
	Export(safe bool) Record
}

// Record is the portable JSON representation of a key, restricted to the
// EC key fields this module needs.
// https://www.rfc-editor.org/rfc/rfc7517.html#section-4
type Record struct {
	// KeyType identifies the cryptographic key family; always "EC" here.
	KeyType string `json:"kty"`

	// KeyID is the "kid" parameter: the key's thumbprint.
	KeyID string `json:"kid,omitempty"`

	// Crv is the curve identifier, e.g. "P-256".
	Crv string `json:"crv,omitempty"`

	// X is the base64url-encoded X coordinate of the public key.
	X string `json:"x,omitempty"`

	// Y is the base64url-encoded Y coordinate of the public key.
	Y string `json:"y,omitempty"`

	// D is the base64url-encoded private scalar. Omitted on public records.
	D string `json:"d,omitempty"`
}

// New generates a fresh EC key pair for the provided algorithm.
func New(alg jwa.Alg) (Key, error) {
	return newEC(alg)
}

// Import restores a Key instance from its portable JWK representation.
// The `alg` hint is required since a bare Record doesn't carry one: the
// chain protocol always imports under ES256.
func Import(r Record, alg jwa.Alg) (Key, error) {
	k := &ecKey{alg: alg}
	if err := k.importRecord(r); err != nil {
		return nil, err
	}
	return k, nil
}

// Thumbprint computes the canonical fingerprint for the given curve and
// public coordinates: SHA-256 over the UTF-8 bytes of
// `{"crv":<crv>,"kty":<kty>,"x":<x>,"y":<y>}`, with no whitespace, in that
// exact key order, base64url (no padding) encoded.
func Thumbprint(kty, crv, x, y string) (string, error) {
	if kty == "" || crv == "" || x == "" || y == "" {
		return "", errors.ValueError("thumbprint requires kty, crv, x and y")
	}
	canonical := fmt.Sprintf(`{"crv":%q,"kty":%q,"x":%q,"y":%q}`, crv, kty, x, y)
	sum := sha256.Sum256([]byte(canonical))
	return b64.EncodeToString(sum[:]), nil
}
