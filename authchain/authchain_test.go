package authchain

import (
	"testing"

	tdd "github.com/stretchr/testify/assert"

	"github.com/nicfit/clique/chainstore"
	"github.com/nicfit/clique/identity"
	"github.com/nicfit/clique/identitychain"
	"github.com/nicfit/clique/jwa"
	"github.com/nicfit/clique/jwk"
	"github.com/nicfit/clique/keystore"
)

type actor struct {
	id  *identity.Identity
	key jwk.Key
}

func newActor(t *testing.T, acct string) *actor {
	t.Helper()
	k, err := jwk.New(jwa.ES256)
	if err != nil {
		t.Fatal(err)
	}
	if err := keystore.Default().Add(k); err != nil {
		t.Fatal(err)
	}
	id, err := identity.New(acct, k)
	if err != nil {
		t.Fatal(err)
	}
	return &actor{id: id, key: k}
}

func registerIdentityChain(t *testing.T, a *actor) {
	t.Helper()
	idc, err := identitychain.NewChain(a.id, a.id.Acct())
	if err != nil {
		t.Fatal(err)
	}
	if err := chainstore.Default().Add(idc); err != nil {
		t.Fatal(err)
	}
}

func tp(t *testing.T, k jwk.Key) string {
	t.Helper()
	s, err := k.Thumbprint()
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// TestViralDelegationAndStaleKeyRejection walks through alice's viral
// delegation to bob, bob's further delegation to jack and diane, and
// diane's revoke/grant block, then checks the resulting policy and that
// a block signed with one of diane's retired keys is rejected.
func TestViralDelegationAndStaleKeyRejection(t *testing.T) {
	assert := tdd.New(t)

	alice := newActor(t, "acct:alice-vd@example.com")
	bob := newActor(t, "acct:bob-vd@example.com")
	jack := newActor(t, "acct:jack-vd@example.com")
	diane := newActor(t, "acct:diane-vd@example.com")
	steve := newActor(t, "acct:steve-vd@example.com")

	registerIdentityChain(t, bob)

	dianeK1 := diane.key
	dianeIDChain, err := identitychain.NewChain(diane.id, diane.id.Acct())
	assert.Nil(err)
	dianeK2, err := jwk.New(jwa.ES256)
	assert.Nil(err)
	assert.Nil(keystore.Default().Add(dianeK2))
	dianeTp2 := tp(t, dianeK2)
	_, err = dianeIDChain.AddBlock(diane.id, dianeTp2)
	assert.Nil(err)
	_, err = diane.id.RotateKey(dianeK2)
	assert.Nil(err)
	assert.Nil(chainstore.Default().Add(dianeIDChain))

	resource := "xmpp:teamroom@conference.example.com"
	c, err := NewChain(alice.id, resource)
	assert.Nil(err)
	genesis, err := c.Genesis()
	assert.Nil(err)
	genesis.AddGrant(Grant{Type: Viral, Privilege: "participant", Grantee: alice.id.Acct(), Thumbprint: tp(t, alice.key)})
	genesis.AddGrant(Grant{Type: Viral, Privilege: "participant", Grantee: bob.id.Acct(), Thumbprint: tp(t, bob.key)})
	genesis.AddGrant(Grant{Type: Viral, Privilege: "moderator", Grantee: bob.id.Acct(), Thumbprint: tp(t, bob.key)})

	_, err = c.AddBlock(bob.id, []Grant{
		{Type: Direct, Privilege: "participant", Grantee: jack.id.Acct(), Thumbprint: tp(t, jack.key)},
		{Type: Viral, Privilege: "participant", Grantee: diane.id.Acct(), Thumbprint: dianeTp2},
		{Type: Viral, Privilege: "moderator", Grantee: diane.id.Acct(), Thumbprint: dianeTp2},
	})
	assert.Nil(err)

	_, err = c.AddBlock(diane.id, []Grant{
		{Type: Revoke, Privilege: "participant", Grantee: jack.id.Acct(), Thumbprint: tp(t, jack.key)},
		{Type: Direct, Privilege: "participant", Grantee: steve.id.Acct(), Thumbprint: tp(t, steve.key)},
	})
	assert.Nil(err)

	h0, err := c.At(0).Hash()
	assert.Nil(err)
	assert.Nil(c.Validate(h0))

	assert.True(c.HasPrivilege(alice.id.Acct(), "participant"))
	assert.False(c.HasPrivilege(alice.id.Acct(), "moderator"))
	assert.True(c.HasPrivilege(bob.id.Acct(), "participant"))
	assert.True(c.HasPrivilege(bob.id.Acct(), "moderator"))
	assert.False(c.HasPrivilege(jack.id.Acct(), "participant"))
	assert.False(c.HasPrivilege(jack.id.Acct(), "moderator"))
	assert.True(c.HasPrivilege(diane.id.Acct(), "participant"))
	assert.True(c.HasPrivilege(diane.id.Acct(), "moderator"))
	assert.True(c.HasPrivilege(steve.id.Acct(), "participant"))
	assert.False(c.HasPrivilege(steve.id.Acct(), "moderator"))

	// Stale-key rejection: rotate diane back to her first key and sign
	// a new block with it. Her most recently advertised thumbprint
	// (recorded when bob granted her) is dianeK2's, so dianeK1 is out of
	// date even though it is a key she legitimately once held.
	_, err = diane.id.RotateKey(dianeK1)
	assert.Nil(err)
	_, err = c.AddBlock(diane.id, []Grant{
		{Type: Direct, Privilege: "participant", Grantee: steve.id.Acct(), Thumbprint: tp(t, steve.key)},
	})
	assert.Nil(err)

	err = c.Validate(h0)
	assert.NotNil(err)
	if err != nil {
		assert.Contains(err.Error(), "Out of date key")
	}
}

// TestNonViralCannotGrant covers the case where a creator holding only
// a direct (non-viral) grant of a privilege attempts to grant that same
// privilege onward; the grant-authority check must reject it.
func TestNonViralCannotGrant(t *testing.T) {
	assert := tdd.New(t)

	jus := newActor(t, "acct:jus-nv@example.com")
	liz := newActor(t, "acct:liz-nv@example.com")
	registerIdentityChain(t, liz)

	c, err := NewChain(jus.id, "xmpp:room2@conference.example.com")
	assert.Nil(err)
	genesis, err := c.Genesis()
	assert.Nil(err)
	genesis.AddGrant(Grant{Type: Direct, Privilege: "moderator", Grantee: jus.id.Acct(), Thumbprint: tp(t, jus.key)})
	genesis.AddGrant(Grant{Type: Direct, Privilege: "participant", Grantee: liz.id.Acct(), Thumbprint: tp(t, liz.key)})

	_, err = c.AddBlock(liz.id, []Grant{
		{Type: Direct, Privilege: "participant", Grantee: jus.id.Acct(), Thumbprint: tp(t, jus.key)},
	})
	assert.Nil(err)

	h0, err := c.At(0).Hash()
	assert.Nil(err)
	err = c.Validate(h0)
	assert.NotNil(err)
	if err != nil {
		assert.Contains(err.Error(), "Failed grant check")
	}
}

func TestDeserializeRoundTrip(t *testing.T) {
	assert := tdd.New(t)

	alice := newActor(t, "acct:alice-rt@example.com")
	c, err := NewChain(alice.id, "xmpp:room3@conference.example.com")
	assert.Nil(err)
	genesis, err := c.Genesis()
	assert.Nil(err)
	genesis.AddGrant(Grant{Type: Viral, Privilege: "participant", Grantee: alice.id.Acct(), Thumbprint: tp(t, alice.key)})

	wire, err := c.Serialize()
	assert.Nil(err)

	c2, err := Deserialize(wire)
	assert.Nil(err)
	assert.Equal(c.Subject(), c2.Subject())
	assert.Equal(c.Creator(), c2.Creator())
	assert.True(c2.HasPrivilege(alice.id.Acct(), "participant"))

	h0, err := c.At(0).Hash()
	assert.Nil(err)
	assert.Nil(c2.Validate(h0))
}
