package identity

import (
	"testing"

	tdd "github.com/stretchr/testify/assert"

	"github.com/nicfit/clique/jwa"
	"github.com/nicfit/clique/jwk"
)

func newPrivateKey(t *testing.T) jwk.Key {
	t.Helper()
	k, err := jwk.New(jwa.ES256)
	if err != nil {
		t.Fatal(err)
	}
	return k
}

func TestNewIdentityTracksPrivateKey(t *testing.T) {
	assert := tdd.New(t)

	k := newPrivateKey(t)
	id, err := New("acct:alice@example.com", k)
	assert.Nil(err)
	assert.Equal(1, id.Keys().Len())
	tp, _ := k.Thumbprint()
	assert.True(id.Keys().Contains(tp))
}

func TestRotateKeyAppendsToHistory(t *testing.T) {
	assert := tdd.New(t)

	k1 := newPrivateKey(t)
	id, err := New("acct:alice@example.com", k1)
	assert.Nil(err)

	k2, err := id.RotateKey(nil)
	assert.Nil(err)
	assert.Equal(2, id.Keys().Len())
	assert.Equal(k2, id.ActiveKey())
}

func TestNewRejectsMismatchedKeyID(t *testing.T) {
	assert := tdd.New(t)

	k := newPrivateKey(t)
	pub := k.Export(true)
	pub.KeyID = "not-the-thumbprint"
	bad, err := jwk.Import(pub, jwa.ES256)
	assert.Nil(err)

	_, err = New("acct:alice@example.com", bad)
	assert.NotNil(err)
}
