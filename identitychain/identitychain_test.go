package identitychain

import (
	"testing"

	tdd "github.com/stretchr/testify/assert"

	"github.com/nicfit/clique/identity"
	"github.com/nicfit/clique/jwa"
	"github.com/nicfit/clique/jwk"
	"github.com/nicfit/clique/keystore"
)

func newRotatingIdentity(t *testing.T, acct string, n int) *identity.Identity {
	t.Helper()
	first, err := jwk.New(jwa.ES256)
	if err != nil {
		t.Fatal(err)
	}
	if err := keystore.Default().Add(first); err != nil {
		t.Fatal(err)
	}
	id, err := identity.New(acct, first)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < n; i++ {
		k, err := jwk.New(jwa.ES256)
		if err != nil {
			t.Fatal(err)
		}
		if err := keystore.Default().Add(k); err != nil {
			t.Fatal(err)
		}
		if _, err := id.RotateKey(k); err != nil {
			t.Fatal(err)
		}
	}
	return id
}

func TestGenesisIsSelfSigned(t *testing.T) {
	assert := tdd.New(t)

	id := newRotatingIdentity(t, "acct:alice@example.com", 1)
	c, err := NewChain(id, "MaxC")
	assert.Nil(err)

	genesis, err := c.Genesis()
	assert.Nil(err)
	assert.Nil(genesis.Verify(nil))

	blk := genesis.(*Block)
	tp, _ := id.ActiveKey().Thumbprint()
	assert.Equal(tp, blk.Pkt())
}

func TestFromIdentityElevenKeyRotation(t *testing.T) {
	assert := tdd.New(t)

	id := newRotatingIdentity(t, "acct:alice@example.com", 11)
	keys := id.Keys().Ordered()
	assert.Equal(11, len(keys))

	c, err := FromIdentity(id, "MaxC")
	assert.Nil(err)
	assert.Equal(11, c.Len())

	thumbprints := make([]string, 11)
	for i, k := range keys {
		thumbprints[i], _ = k.Thumbprint()
	}

	for i := 0; i < c.Len(); i++ {
		blk := c.At(i).(*Block)
		assert.Equal(thumbprints[i], blk.Pkt())
	}

	for j := 0; j < 11; j++ {
		for i := 0; i < 11; i++ {
			assert.Equal(j >= i, c.IsSameOrSubsequent(thumbprints[j], thumbprints[i]))
		}
	}

	h0, err := c.At(0).Hash()
	assert.Nil(err)
	assert.Nil(c.Validate(h0))
}

func TestValidateRejectsBlockSignedByWrongKey(t *testing.T) {
	assert := tdd.New(t)

	id := newRotatingIdentity(t, "acct:alice@example.com", 3)
	keys := id.Keys().Ordered()

	c, err := FromIdentity(id, "MaxC")
	assert.Nil(err)

	// Append a block signed with k0 even though block 2 (the current
	// tail) advertises k2 as the next signer: the rotation rule must
	// reject it.
	interloper, err := identity.New("acct:alice@example.com", keys[0])
	assert.Nil(err)
	_, err = c.AddBlock(interloper, "irrelevant-pkt")
	assert.Nil(err)

	h0, err := c.At(0).Hash()
	assert.Nil(err)
	assert.NotNil(c.Validate(h0))
}

func TestDeserializeRoundTrip(t *testing.T) {
	assert := tdd.New(t)

	id := newRotatingIdentity(t, "acct:alice@example.com", 4)
	c, err := FromIdentity(id, "MaxC")
	assert.Nil(err)

	wire, err := c.Serialize()
	assert.Nil(err)

	c2, err := Deserialize(wire)
	assert.Nil(err)
	assert.Equal(c.Len(), c2.Len())
	assert.Equal(c.Subject(), c2.Subject())
	assert.Equal(c.Creator(), c2.Creator())

	h0, err := c.At(0).Hash()
	assert.Nil(err)
	assert.Nil(c2.Validate(h0))
}
