package identitychain

import (
	"github.com/nicfit/clique/chain"
	"github.com/nicfit/clique/errors"
	"github.com/nicfit/clique/identity"
	"github.com/nicfit/clique/keystore"
)

// Chain is the key-rotation history of a single identity.
type Chain struct {
	*chain.BlockChain
	pktOrder map[string]int
	creator  string
	subject  string
}

// NewChain builds a chain with only a genesis block: `identity`'s
// currently-active key is captured as the genesis signer, and its own
// thumbprint becomes the genesis `pkt` (it self-signs).
func NewChain(id *identity.Identity, subject string) (*Chain, error) {
	pkt, err := id.ActiveKey().Thumbprint()
	if err != nil {
		return nil, err
	}

	c := &Chain{BlockChain: chain.NewBlockChain(), pktOrder: make(map[string]int), creator: id.Acct(), subject: subject}
	c.SetOnAppend(c.trackPkt)

	genesis := newGenesisBlock(id, subject, pkt)
	if err := c.BlockChain.Append(genesis); err != nil {
		return nil, err
	}
	return c, nil
}

// AddBlock appends a normal block advertising pkt as the thumbprint of
// the key authorized to sign the next block. The new block is signed
// with identity's currently-active key.
func (c *Chain) AddBlock(id *identity.Identity, pkt string) (*Block, error) {
	blk := newNormalBlock(id, nil, pkt)
	if err := c.BlockChain.Append(blk); err != nil {
		return nil, err
	}
	return blk, nil
}

// FromIdentity builds a full rotation-history chain from identity's key
// history [k0, k1, ..., kn]: block i advertises pkt=thumbprint(k_i) and
// is signed by k_{i-1} (block 0 is signed by k0, and self-advertises its
// own thumbprint). identity's active key is left at kn. Every key in
// the history must already be resolvable through the default KeyStore.
func FromIdentity(id *identity.Identity, subject string) (*Chain, error) {
	keys := id.Keys().Ordered()
	if len(keys) == 0 {
		return nil, errors.ValueError("identity has no keys to build a chain from")
	}

	thumbprints := make([]string, len(keys))
	for i, k := range keys {
		tp, err := k.Thumbprint()
		if err != nil {
			return nil, err
		}
		thumbprints[i] = tp
	}

	if _, err := id.RotateKey(keys[0]); err != nil {
		return nil, err
	}
	c, err := NewChain(id, subject)
	if err != nil {
		return nil, err
	}

	for i := 1; i < len(keys); i++ {
		last, ok := c.At(c.Len() - 1).(*Block)
		if !ok {
			return nil, errors.ValueError("identity chain holds a non-identity block")
		}
		signer, err := keystore.Default().Get(last.Pkt())
		if err != nil {
			return nil, err
		}
		if _, err := id.RotateKey(signer); err != nil {
			return nil, err
		}
		if _, err := c.AddBlock(id, thumbprints[i]); err != nil {
			return nil, err
		}
	}
	if _, err := id.RotateKey(keys[len(keys)-1]); err != nil {
		return nil, err
	}
	return c, nil
}

// Deserialize hydrates a wire-format IdentityChain serialization.
func Deserialize(serialized string) (*Chain, error) {
	tokens, err := chain.ParseTokenArray(serialized)
	if err != nil {
		return nil, err
	}

	c := &Chain{BlockChain: chain.NewBlockChain(), pktOrder: make(map[string]int)}
	c.SetOnAppend(c.trackPkt)
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

func (c *Chain) trackPkt(b chain.Block) {
	blk, ok := b.(*Block)
	if !ok {
		return
	}
	c.pktOrder[blk.pkt] = len(c.pktOrder)
}

// Subject returns the chain's subject, read from its genesis block.
func (c *Chain) Subject() string {
	return c.subject
}

// Creator returns the chain's creator account URI, read from its
// genesis block.
func (c *Chain) Creator() string {
	return c.creator
}

// IsSameOrSubsequent reports whether tp1 appears no earlier than tp2 in
// the chain's per-pkt insertion order. AuthChain uses this to check
// signing-key freshness against an IdentityChain.
func (c *Chain) IsSameOrSubsequent(tp1, tp2 string) bool {
	return c.pktOrder[tp1] >= c.pktOrder[tp2]
}

// Validate checks the chain against expectedGenesisHash using the base
// ratchet: IdentityChain's validation rule is carried entirely by each
// block's ValidateSignature hook, so no ratchet extension is needed.
func (c *Chain) Validate(expectedGenesisHash string) error {
	return c.BlockChain.Validate(expectedGenesisHash, func() chain.Ratchet { return chain.NewBaseRatchet() })
}
