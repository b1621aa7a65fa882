package jwk

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"io"
	"math/big"

	"github.com/nicfit/clique/errors"
	"github.com/nicfit/clique/jwa"
)

// ecKey is the only Key implementation this module ships: an elliptic
// curve P-256 key pair (or a public-only key resolved from a store).
type ecKey struct {
	sk  *ecdsa.PrivateKey
	pub *ecdsa.PublicKey
	id  string
	alg jwa.Alg
}

func newEC(alg jwa.Alg) (*ecKey, error) {
	crv, err := alg.Curve()
	if err != nil {
		return nil, err
	}
	sk, err := ecdsa.GenerateKey(crv, rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "generate EC key")
	}
	k := &ecKey{sk: sk, pub: &sk.PublicKey, alg: alg}
	tp, err := k.Thumbprint()
	if err != nil {
		return nil, err
	}
	k.id = tp
	return k, nil
}

func (k *ecKey) ID() string {
	return k.id
}

func (k *ecKey) Alg() jwa.Alg {
	return k.alg
}

func (k *ecKey) IsPrivate() bool {
	return k.sk != nil
}

func (k *ecKey) Public() crypto.PublicKey {
	return *k.pub
}

func (k *ecKey) Thumbprint() (string, error) {
	crv, err := curveName(k.alg)
	if err != nil {
		return "", err
	}
	x := b64.EncodeToString(k.pub.X.Bytes())
	y := b64.EncodeToString(k.pub.Y.Bytes())
	return Thumbprint("EC", crv, x, y)
}

func (k *ecKey) Sign(rr io.Reader, data []byte, hh crypto.SignerOpts) ([]byte, error) {
	if k.sk == nil {
		return nil, errors.ValueError("key has no private material")
	}
	digest := hh.HashFunc().New()
	digest.Write(data)
	msg := digest.Sum(nil)

	r, s, err := ecdsa.Sign(rr, k.sk, msg)
	if err != nil {
		return nil, errors.Wrap(err, "sign")
	}

	size := curveByteSize(k.sk.Curve)
	rb, sb := make([]byte, size), make([]byte, size)
	r.FillBytes(rb)
	s.FillBytes(sb)
	return append(rb, sb...), nil
}

func (k *ecKey) Verify(hh crypto.Hash, data, signature []byte) bool {
	size := curveByteSize(k.pub.Curve)
	if len(signature) != size*2 {
		return false
	}
	r := new(big.Int).SetBytes(signature[:size])
	s := new(big.Int).SetBytes(signature[size:])

	digest := hh.New()
	digest.Write(data)
	msg := digest.Sum(nil)
	return ecdsa.Verify(k.pub, msg, r, s)
}

func (k *ecKey) Export(safe bool) Record {
	crv, _ := curveName(k.alg)
	rec := Record{
		KeyType: "EC",
		KeyID:   k.id,
		Crv:     crv,
		X:       b64.EncodeToString(k.pub.X.Bytes()),
		Y:       b64.EncodeToString(k.pub.Y.Bytes()),
	}
	if !safe && k.sk != nil {
		rec.D = b64.EncodeToString(k.sk.D.Bytes())
	}
	return rec
}

func (k *ecKey) importRecord(r Record) error {
	if r.KeyType != "" && r.KeyType != "EC" {
		return errors.ValueError("unsupported kty %q", r.KeyType)
	}
	crv, err := k.alg.Curve()
	if err != nil {
		return err
	}

	xb, err := b64.DecodeString(r.X)
	if err != nil {
		return errors.Wrap(err, "invalid 'x' value")
	}
	yb, err := b64.DecodeString(r.Y)
	if err != nil {
		return errors.Wrap(err, "invalid 'y' value")
	}
	k.pub = &ecdsa.PublicKey{
		Curve: crv,
		X:     new(big.Int).SetBytes(xb),
		Y:     new(big.Int).SetBytes(yb),
	}
	k.id = r.KeyID
	if k.id == "" {
		tp, terr := k.Thumbprint()
		if terr != nil {
			return terr
		}
		k.id = tp
	}

	if r.D == "" {
		return nil
	}
	db, err := b64.DecodeString(r.D)
	if err != nil {
		return errors.Wrap(err, "invalid 'd' value")
	}
	k.sk = &ecdsa.PrivateKey{
		PublicKey: *k.pub,
		D:         new(big.Int).SetBytes(db),
	}
	return nil
}

func curveName(alg jwa.Alg) (string, error) {
	switch alg {
	case jwa.ES256:
		return "P-256", nil
	case jwa.ES384:
		return "P-384", nil
	case jwa.ES512:
		return "P-521", nil
	default:
		return "", errors.ValueError("unsupported alg %q", string(alg))
	}
}

func curveByteSize(c elliptic.Curve) int {
	bits := c.Params().BitSize
	return (bits + 7) / 8
}
