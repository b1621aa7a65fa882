package jws

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nicfit/clique/errors"
	"github.com/nicfit/clique/jwa"
	"github.com/nicfit/clique/jwk"
)

// Unpadded base64url encoding used for every segment.
var b64 = base64.RawURLEncoding

// Header is the JWS protected header. This module only ever produces and
// consumes the two fields the chain protocol requires.
type Header struct {
	Algorithm string `json:"alg"`
	KeyID     string `json:"kid"`
}

// Token is a parsed, compact-serialization JWS. It keeps the exact bytes
// of its payload segment so re-serializing never drifts from what was
// originally signed or parsed.
type Token struct {
	header  Header
	payload []byte
	sig     []byte
	raw     string
}

// Sign produces a new Token over `payload` (expected to already be
// well-formed JSON) using `key`. The header carries `alg=ES256` and
// `kid=<key thumbprint>`.
func Sign(payload []byte, key jwk.Key) (*Token, error) {
	if key.Alg() != jwa.ES256 {
		return nil, errors.ValueError("only ES256 signing keys are supported, got %q", key.Alg())
	}
	tp, err := key.Thumbprint()
	if err != nil {
		return nil, err
	}

	t := &Token{
		header:  Header{Algorithm: string(jwa.ES256), KeyID: tp},
		payload: payload,
	}

	hb, err := json.Marshal(t.header)
	if err != nil {
		return nil, errors.Wrap(err, "encode header")
	}
	material := fmt.Sprintf("%s.%s", b64.EncodeToString(hb), b64.EncodeToString(t.payload))

	hf, err := key.Alg().HashFunction()
	if err != nil {
		return nil, err
	}
	sig, err := key.Sign(rand.Reader, []byte(material), hf)
	if err != nil {
		return nil, errors.Wrap(err, "sign block")
	}
	t.sig = sig
	t.raw = fmt.Sprintf("%s.%s", material, b64.EncodeToString(t.sig))
	return t, nil
}

// Parse decodes a compact-serialization JWS string without verifying its
// signature; call Verify separately once the signing key is resolved.
func Parse(compact string) (*Token, error) {
	segments := strings.Split(compact, ".")
	if len(segments) != 3 {
		return nil, errors.ValueError("invalid compact JWS: expected 3 segments, got %d", len(segments))
	}

	hb, err := b64.DecodeString(segments[0])
	if err != nil {
		return nil, errors.Wrap(err, "decode header")
	}
	var header Header
	if err := json.Unmarshal(hb, &header); err != nil {
		return nil, errors.Wrap(err, "parse header")
	}

	payload, err := b64.DecodeString(segments[1])
	if err != nil {
		return nil, errors.Wrap(err, "decode payload")
	}

	sig, err := b64.DecodeString(segments[2])
	if err != nil {
		return nil, errors.Wrap(err, "decode signature")
	}

	return &Token{header: header, payload: payload, sig: sig, raw: compact}, nil
}

// Header returns the token's protected header.
func (t *Token) Header() Header {
	return t.header
}

// Payload returns the raw JSON bytes carried by the token.
func (t *Token) Payload() []byte {
	return t.payload
}

// String returns the compact serialization of the token.
func (t *Token) String() string {
	return t.raw
}

// Bytes returns the compact serialization as bytes.
func (t *Token) Bytes() []byte {
	return []byte(t.raw)
}

// Verify checks the token's signature against `key`. The caller is
// responsible for resolving the key named by the token's `kid` header
// (typically via a KeyStore) before calling this method.
func (t *Token) Verify(key jwk.Key) error {
	hf, err := jwa.Alg(t.header.Algorithm).HashFunction()
	if err != nil {
		return err
	}
	segments := strings.SplitN(t.raw, ".", 3)
	if len(segments) != 3 {
		return errors.ValueError("invalid compact JWS")
	}
	material := fmt.Sprintf("%s.%s", segments[0], segments[1])
	if !key.Verify(hf, []byte(material), t.sig) {
		return errors.SignatureInvalid("ES256 verification failed")
	}
	return nil
}
