/*
Package jwa provides the JSON Web Algorithm identifiers relevant to this
module, as described by RFC-7518. Only the elliptic-curve family is
implemented; the chain protocol is pinned to ES256 (P-256 / SHA-256), but
the identifier keeps the shape used across the curve family so a future
signer (ES384/ES512) has a natural home.
*/
package jwa

import (
	"crypto"
	"crypto/elliptic"

	"github.com/nicfit/clique/errors"
)

// Alg values provide valid cryptographic algorithm identifiers.
type Alg string

const (
	// ES256 - ECDSA using P-256 and SHA-256. The only algorithm the chain
	// protocol signs and verifies with.
	ES256 Alg = "ES256"
	// ES384 - ECDSA using P-384 and SHA-384. Not exercised by the chain
	// protocol today; kept so the Alg type can grow without a breaking change.
	ES384 Alg = "ES384"
	// ES512 - ECDSA using P-521 and SHA-512.
	ES512 Alg = "ES512"
)

// HashFunction returns the hash function mandated for the algorithm.
func (a Alg) HashFunction() (crypto.Hash, error) {
	switch a {
	case ES256:
		return crypto.SHA256, nil
	case ES384:
		return crypto.SHA384, nil
	case ES512:
		return crypto.SHA512, nil
	default:
		return 0, errors.ValueError("unsupported alg %q", string(a))
	}
}

// Curve returns the elliptic curve mandated for the algorithm.
func (a Alg) Curve() (elliptic.Curve, error) {
	switch a {
	case ES256:
		return elliptic.P256(), nil
	case ES384:
		return elliptic.P384(), nil
	case ES512:
		return elliptic.P521(), nil
	default:
		return nil, errors.ValueError("unsupported alg %q", string(a))
	}
}
