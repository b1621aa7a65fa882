package jws

import (
	"testing"

	tdd "github.com/stretchr/testify/assert"

	"github.com/nicfit/clique/jwa"
	"github.com/nicfit/clique/jwk"
)

func TestSignParseVerify(t *testing.T) {
	assert := tdd.New(t)

	key, err := jwk.New(jwa.ES256)
	assert.Nil(err)

	tok, err := Sign([]byte(`{"iss":"acct:alice@example.com"}`), key)
	assert.Nil(err)
	assert.Equal("ES256", tok.Header().Algorithm)
	tp, _ := key.Thumbprint()
	assert.Equal(tp, tok.Header().KeyID)

	parsed, err := Parse(tok.String())
	assert.Nil(err)
	assert.Equal(tok.Payload(), parsed.Payload())
	assert.Nil(parsed.Verify(key))
}

func TestVerifyFailsForWrongKey(t *testing.T) {
	assert := tdd.New(t)

	key, _ := jwk.New(jwa.ES256)
	other, _ := jwk.New(jwa.ES256)

	tok, err := Sign([]byte(`{"iss":"acct:bob@example.com"}`), key)
	assert.Nil(err)
	assert.NotNil(tok.Verify(other))
}

func TestParseRejectsMalformedCompact(t *testing.T) {
	assert := tdd.New(t)
	_, err := Parse("not-a-jws")
	assert.NotNil(err)
}
