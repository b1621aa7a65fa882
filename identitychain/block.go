package identitychain

import (
	"encoding/json"

	"github.com/nicfit/clique/chain"
	"github.com/nicfit/clique/errors"
	"github.com/nicfit/clique/identity"
	"github.com/nicfit/clique/jws"
	"github.com/nicfit/clique/keystore"
)

// ChainTypeID is the `tid` value genesis blocks carry for this chain
// type.
const ChainTypeID = "identity_XXX"

// Block is an IdentityChain block: a base Block plus the `pkt` claim
// naming the key authorized to sign the next block.
type Block struct {
	*chain.BaseBlock
	pkt       string
	isGenesis bool
}

// Pkt returns the thumbprint of the key authorized to sign the next
// block in the chain.
func (b *Block) Pkt() string {
	return b.pkt
}

func newNormalBlock(id *identity.Identity, antecedent *string, pkt string) *Block {
	base := chain.NewBlock(id, antecedent)
	base.Payload().Set("pkt", pkt)
	blk := &Block{BaseBlock: base, pkt: pkt}
	base.SetHooks(chain.Hooks{
		ShapeJSON: func(p *chain.Payload) *chain.Payload {
			d := p.Clone()
			d.Delete("iss")
			return d
		},
		ValidateSignature: blk.validateSignature,
	})
	return blk
}

func newGenesisBlock(id *identity.Identity, subject, pkt string) *Block {
	base := chain.NewBlock(id, nil)
	base.Payload().Set("tid", ChainTypeID)
	base.Payload().Set("sub", subject)
	base.Payload().Set("pkt", pkt)
	blk := &Block{BaseBlock: base, pkt: pkt, isGenesis: true}
	base.SetHooks(chain.Hooks{
		ValidateSignature: blk.validateSignature,
	})
	return blk
}

// validateSignature enforces the key-rotation invariant: a normal
// block must be signed with the key whose thumbprint equals the
// previous block's pkt. The genesis block is self-signed, so it is
// bootstrapped by checking its signer against its own pkt.
func (b *Block) validateSignature(base *chain.BaseBlock, r chain.Ratchet) error {
	signer, err := base.Kid()
	if err != nil {
		return err
	}

	expected := b.pkt
	if prev := r.Antecedent(); prev != nil {
		prevBlock, ok := prev.(*Block)
		if !ok {
			return errors.ValueError("identity chain ratchet holds a non-identity block")
		}
		expected = prevBlock.pkt
	}

	if expected != signer {
		return errors.NotImplemented("block signed by a key other than the previous block's advertised key")
	}
	return base.Verify(nil)
}

func decodeGenesisBlock(tok string) (*Block, error) {
	token, err := jws.Parse(tok)
	if err != nil {
		return nil, err
	}
	var payload chain.Payload
	if err := json.Unmarshal(token.Payload(), &payload); err != nil {
		return nil, errors.Wrap(err, "decode identity chain genesis payload")
	}

	issV, _ := payload.Get("iss")
	iss, _ := issV.(string)
	subV, _ := payload.Get("sub")
	subject, _ := subV.(string)
	pktV, _ := payload.Get("pkt")
	pkt, _ := pktV.(string)

	key, err := keystore.Default().Get(token.Header().KeyID)
	if err != nil {
		return nil, err
	}
	id, err := identity.New(iss, key)
	if err != nil {
		return nil, err
	}

	blk := newGenesisBlock(id, subject, pkt)
	blk.Freeze(tok)
	return blk, nil
}

func decodeNormalBlock(tok, creator string) (*Block, error) {
	token, err := jws.Parse(tok)
	if err != nil {
		return nil, err
	}
	var payload chain.Payload
	if err := json.Unmarshal(token.Payload(), &payload); err != nil {
		return nil, errors.Wrap(err, "decode identity chain block payload")
	}

	pktV, _ := payload.Get("pkt")
	pkt, _ := pktV.(string)

	var antecedent *string
	if antV, ok := payload.Get("ant"); ok {
		s, _ := antV.(string)
		antecedent = &s
	}

	key, err := keystore.Default().Get(token.Header().KeyID)
	if err != nil {
		return nil, err
	}
	id, err := identity.New(creator, key)
	if err != nil {
		return nil, err
	}

	blk := newNormalBlock(id, antecedent, pkt)
	blk.Freeze(tok)
	return blk, nil
}
