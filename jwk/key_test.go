package jwk

import (
	"crypto/rand"
	"testing"

	tdd "github.com/stretchr/testify/assert"

	"github.com/nicfit/clique/jwa"
)

func TestThumbprintDeterminism(t *testing.T) {
	assert := tdd.New(t)

	k, err := New(jwa.ES256)
	assert.Nil(err)

	tp1, err := k.Thumbprint()
	assert.Nil(err)
	tp2, err := k.Thumbprint()
	assert.Nil(err)
	assert.Equal(tp1, tp2, "thumbprint must be stable across calls")
	assert.Equal(tp1, k.ID(), "a freshly generated key's id is its thumbprint")
}

func TestThumbprintMatchesOnImport(t *testing.T) {
	assert := tdd.New(t)

	k, err := New(jwa.ES256)
	assert.Nil(err)
	want, _ := k.Thumbprint()

	pub := k.Export(true)
	assert.Empty(pub.D, "safe export omits the private scalar")

	imported, err := Import(pub, jwa.ES256)
	assert.Nil(err)
	got, err := imported.Thumbprint()
	assert.Nil(err)
	assert.Equal(want, got, "thumbprint is computed from public coordinates alone")
}

func TestSignVerifyRoundTrip(t *testing.T) {
	assert := tdd.New(t)

	k, err := New(jwa.ES256)
	assert.Nil(err)

	hf, err := k.Alg().HashFunction()
	assert.Nil(err)

	msg := []byte("block payload bytes")
	sig, err := k.Sign(rand.Reader, msg, hf)
	assert.Nil(err)
	assert.True(k.Verify(hf, msg, sig))
	assert.False(k.Verify(hf, []byte("tampered"), sig))
}

func TestImportRejectsUnknownKeyType(t *testing.T) {
	assert := tdd.New(t)

	k, _ := New(jwa.ES256)
	rec := k.Export(true)
	rec.KeyType = "RSA"
	_, err := Import(rec, jwa.ES256)
	assert.NotNil(err)
}
