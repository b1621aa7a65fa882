package chain

import (
	"testing"

	tdd "github.com/stretchr/testify/assert"
)

func buildChain(t *testing.T, n int) *BlockChain {
	t.Helper()
	id := newTestIdentity(t, "acct:alice@example.com")
	c := NewBlockChain()
	for i := 0; i < n; i++ {
		b := NewBlock(id, nil)
		if err := c.Append(b); err != nil {
			t.Fatal(err)
		}
	}
	return c
}

func TestAppendLinksAntecedentHashes(t *testing.T) {
	assert := tdd.New(t)

	c := buildChain(t, 5)
	for i := 1; i < c.Len(); i++ {
		prevHash, err := c.At(i - 1).Hash()
		assert.Nil(err)
		ant, hasAnt := c.At(i).Antecedent()
		assert.True(hasAnt)
		assert.Equal(prevHash, ant)
	}
	_, hasAnt := c.At(0).Antecedent()
	assert.False(hasAnt)
}

func TestValidateSucceedsOnWellFormedChain(t *testing.T) {
	assert := tdd.New(t)

	c := buildChain(t, 5)
	h0, err := c.At(0).Hash()
	assert.Nil(err)
	assert.Nil(c.Validate(h0, func() Ratchet { return NewBaseRatchet() }))
}

func TestValidateFailsOnWrongGenesisHash(t *testing.T) {
	assert := tdd.New(t)

	c := buildChain(t, 3)
	err := c.Validate("8686305d62bc647ce3f1f9908efa3ab33dbe87b3", func() Ratchet { return NewBaseRatchet() })
	assert.NotNil(err)
}

func TestValidateDetectsTamperedAntecedent(t *testing.T) {
	assert := tdd.New(t)

	c := buildChain(t, 5)
	h0, err := c.At(0).Hash()
	assert.Nil(err)

	ant2, _ := c.At(2).Antecedent()
	ant3, _ := c.At(3).Antecedent()
	c.At(3).SetAntecedent(&ant2)

	err = c.Validate(h0, func() Ratchet { return NewBaseRatchet() })
	assert.NotNil(err)

	c.At(3).SetAntecedent(&ant3)
	assert.Nil(c.Validate(h0, func() Ratchet { return NewBaseRatchet() }))
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	assert := tdd.New(t)

	c := buildChain(t, 3)
	wire, err := c.Serialize()
	assert.Nil(err)

	tokens, err := ParseTokenArray(wire)
	assert.Nil(err)
	assert.Equal(3, len(tokens))
	for i, tok := range tokens {
		want, err := c.At(i).Serialize(false)
		assert.Nil(err)
		assert.Equal(want, tok)
	}
}

func TestParseTokenArrayOnEmptyChainIsStable(t *testing.T) {
	assert := tdd.New(t)

	tokens, err := ParseTokenArray("[]")
	assert.Nil(err)
	assert.Equal(0, len(tokens))

	c := NewBlockChain()
	wire, err := c.Serialize()
	assert.Nil(err)
	assert.Equal("[]", wire)
}
