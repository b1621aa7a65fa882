package authchain

import (
	"github.com/nicfit/clique/chain"
	"github.com/nicfit/clique/errors"
	"github.com/nicfit/clique/identity"
	"github.com/nicfit/clique/keystore"
)

// Chain is the authorization-policy history over a single resource.
type Chain struct {
	*chain.BlockChain
	creator string
	subject string
}

// NewChain builds a chain with only a genesis block, self-signed by
// identity, carrying no grants. Use Genesis().AddGrant to seed initial
// authority before the chain is persisted.
func NewChain(id *identity.Identity, subject string) (*Chain, error) {
	c := &Chain{BlockChain: chain.NewBlockChain(), creator: id.Acct(), subject: subject}
	genesis := newGenesisBlock(id, subject)
	if err := c.BlockChain.Append(genesis); err != nil {
		return nil, err
	}
	return c, nil
}

// Genesis returns the chain's genesis block.
func (c *Chain) Genesis() (*Block, error) {
	b, err := c.BlockChain.Genesis()
	if err != nil {
		return nil, err
	}
	blk, ok := b.(*Block)
	if !ok {
		return nil, errors.ValueError("auth chain holds a non-auth genesis block")
	}
	return blk, nil
}

// AddBlock appends a new block signed by identity, carrying grants.
func (c *Chain) AddBlock(id *identity.Identity, grants []Grant) (*Block, error) {
	blk := newNormalBlock(id, nil)
	for _, g := range grants {
		blk.AddGrant(g)
	}
	if err := c.BlockChain.Append(blk); err != nil {
		return nil, err
	}
	return blk, nil
}

// Deserialize hydrates a wire-format AuthChain serialization.
func Deserialize(serialized string) (*Chain, error) {
	tokens, err := chain.ParseTokenArray(serialized)
	if err != nil {
		return nil, err
	}

	c := &Chain{BlockChain: chain.NewBlockChain()}
	if len(tokens) == 0 {
		return c, nil
	}

	genesis, err := decodeGenesisBlock(tokens[0])
	if err != nil {
		return nil, err
	}
	c.AppendDecoded(genesis)
	c.creator = genesis.Creator()
	if subV, ok := genesis.Payload().Get("sub"); ok {
		c.subject, _ = subV.(string)
	}

	for _, tok := range tokens[1:] {
		blk, err := decodeNormalBlock(tok, c.creator)
		if err != nil {
			return nil, err
		}
		c.AppendDecoded(blk)
	}
	return c, nil
}

// Subject returns the chain's resource URI, read from its genesis block.
func (c *Chain) Subject() string {
	return c.subject
}

// Creator returns the chain's creator account URI, read from its
// genesis block.
func (c *Chain) Creator() string {
	return c.creator
}

// Validate checks the chain against expectedGenesisHash using the
// AuthChain ratchet extension.
func (c *Chain) Validate(expectedGenesisHash string) error {
	return c.BlockChain.Validate(expectedGenesisHash, func() chain.Ratchet { return NewRatchet() })
}

// HasPrivilege scans the chain newest-to-oldest for the most recent
// grant matching (grantee=acct, privilege); the result is true unless
// that grant is a REVOKE.
func (c *Chain) HasPrivilege(acct, privilege string) bool {
	for i := c.Len() - 1; i >= 0; i-- {
		blk, ok := c.At(i).(*Block)
		if !ok {
			continue
		}
		for j := len(blk.grants) - 1; j >= 0; j-- {
			g := blk.grants[j]
			if g.Grantee == acct && g.Privilege == privilege {
				return g.Type != Revoke
			}
		}
	}
	return false
}

// GetGrantIdentity returns a public Identity for acct bound to the key
// thumbprint carried by its most recent grant, or false if acct never
// received one.
func (c *Chain) GetGrantIdentity(acct string) (*identity.Identity, bool) {
	for i := c.Len() - 1; i >= 0; i-- {
		blk, ok := c.At(i).(*Block)
		if !ok {
			continue
		}
		for j := len(blk.grants) - 1; j >= 0; j-- {
			g := blk.grants[j]
			if g.Grantee != acct {
				continue
			}
			key, err := keystore.Default().Get(g.Thumbprint)
			if err != nil {
				return nil, false
			}
			id, err := identity.New(acct, key)
			if err != nil {
				return nil, false
			}
			return id, true
		}
	}
	return nil, false
}
