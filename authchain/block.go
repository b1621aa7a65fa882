package authchain

import (
	"encoding/json"

	"github.com/nicfit/clique/chain"
	"github.com/nicfit/clique/chainstore"
	"github.com/nicfit/clique/errors"
	"github.com/nicfit/clique/identity"
	"github.com/nicfit/clique/jws"
	"github.com/nicfit/clique/keystore"
)

// ChainTypeID is the `tid` value genesis blocks carry for this chain
// type.
const ChainTypeID = "auth_XXX"

// identityChain is the slice of identitychain.Chain that AuthChain
// validation needs, expressed locally to avoid importing that package
// and creating a cycle through chainstore.
type identityChain interface {
	IsSameOrSubsequent(tp1, tp2 string) bool
}

// Block is an AuthChain block: a base Block plus the list of grants it
// carries. Unlike IdentityChain, `iss` is never omitted and no `pkt`
// field is ever set.
type Block struct {
	*chain.BaseBlock
	grants    []Grant
	isGenesis bool
}

// Grants returns the block's grants, in the order they were added.
func (b *Block) Grants() []Grant {
	out := make([]Grant, len(b.grants))
	copy(out, b.grants)
	return out
}

// AddGrant appends a grant to the block. Must be called before the
// block is first serialized.
func (b *Block) AddGrant(g Grant) {
	b.grants = append(b.grants, g)
	b.Payload().Set("grants", b.grants)
}

func newNormalBlock(id *identity.Identity, antecedent *string) *Block {
	base := chain.NewBlock(id, antecedent)
	blk := &Block{BaseBlock: base, grants: []Grant{}}
	base.Payload().Set("grants", blk.grants)
	base.SetHooks(chain.Hooks{
		ValidateSignature: blk.validateSignature,
		ValidateExtra:     blk.validateGrants,
	})
	return blk
}

func newGenesisBlock(id *identity.Identity, subject string) *Block {
	base := chain.NewBlock(id, nil)
	base.Payload().Set("tid", ChainTypeID)
	base.Payload().Set("sub", subject)
	blk := &Block{BaseBlock: base, grants: []Grant{}, isGenesis: true}
	base.Payload().Set("grants", blk.grants)
	base.SetHooks(chain.Hooks{
		ValidateSignature: blk.validateSignature,
		ValidateExtra:     blk.validateGrants,
	})
	return blk
}

// validateSignature enforces the key-freshness rule: a non-genesis
// block must be signed with a key no older, in the creator's own
// IdentityChain, than the thumbprint recorded the last time the
// creator received a grant. The genesis block is bootstrap and is
// verified like a base block.
func (b *Block) validateSignature(base *chain.BaseBlock, r chain.Ratchet) error {
	if b.isGenesis {
		return base.Verify(nil)
	}

	ar, ok := r.(*Ratchet)
	if !ok {
		return errors.ValueError("auth chain ratchet holds an unexpected type")
	}

	tpSigner, err := base.Kid()
	if err != nil {
		return err
	}

	tpKnown, ok := ar.recentThumbprints[b.Creator()]
	if !ok {
		return errors.ChainValidation("No grants for creator: %s", b.Creator())
	}

	idc, err := chainstore.Default().Get(b.Creator())
	if err != nil {
		return err
	}
	ic, ok := idc.(identityChain)
	if !ok {
		return errors.ValueError("identity chain store holds a non-identity chain for %s", b.Creator())
	}
	if !ic.IsSameOrSubsequent(tpSigner, tpKnown) {
		return errors.ChainValidation("Out of date key")
	}

	signer, err := keystore.Default().Get(tpSigner)
	if err != nil {
		return err
	}
	return base.Verify(signer)
}

// validateGrants enforces grant authority: every grant a non-genesis
// block carries must be over a privilege the creator currently holds
// as a viral grant.
func (b *Block) validateGrants(_ *chain.BaseBlock, r chain.Ratchet) error {
	if b.isGenesis {
		return nil
	}

	ar, ok := r.(*Ratchet)
	if !ok {
		return errors.ValueError("auth chain ratchet holds an unexpected type")
	}

	held := ar.currentGrants[b.Creator()]
	for _, g := range b.grants {
		cg, ok := held[g.Privilege]
		if !ok || cg.Type != Viral {
			return errors.ChainValidation("Failed grant check: %s", g.Privilege)
		}
	}
	return nil
}

func decodeGrants(payload *chain.Payload) ([]Grant, error) {
	raw, ok := payload.Get("grants")
	if !ok || raw == nil {
		return nil, nil
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, errors.Wrap(err, "decode grants")
	}
	var grants []Grant
	if err := json.Unmarshal(b, &grants); err != nil {
		return nil, errors.Wrap(err, "decode grants")
	}
	return grants, nil
}

func decodeGenesisBlock(tok string) (*Block, error) {
	token, err := jws.Parse(tok)
	if err != nil {
		return nil, err
	}
	var payload chain.Payload
	if err := json.Unmarshal(token.Payload(), &payload); err != nil {
		return nil, errors.Wrap(err, "decode auth chain genesis payload")
	}

	issV, _ := payload.Get("iss")
	iss, _ := issV.(string)
	subV, _ := payload.Get("sub")
	subject, _ := subV.(string)

	key, err := keystore.Default().Get(token.Header().KeyID)
	if err != nil {
		return nil, err
	}
	id, err := identity.New(iss, key)
	if err != nil {
		return nil, err
	}

	grants, err := decodeGrants(&payload)
	if err != nil {
		return nil, err
	}

	blk := newGenesisBlock(id, subject)
	for _, g := range grants {
		blk.AddGrant(g)
	}
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
		return nil, errors.Wrap(err, "decode auth chain block payload")
	}

	var antecedent *string
	if antV, ok := payload.Get("ant"); ok {
		s, _ := antV.(string)
		antecedent = &s
	}

	iss := creator
	if issV, ok := payload.Get("iss"); ok {
		if s, ok := issV.(string); ok && s != "" {
			iss = s
		}
	}

	key, err := keystore.Default().Get(token.Header().KeyID)
	if err != nil {
		return nil, err
	}
	id, err := identity.New(iss, key)
	if err != nil {
		return nil, err
	}

	grants, err := decodeGrants(&payload)
	if err != nil {
		return nil, err
	}

	blk := newNormalBlock(id, antecedent)
	for _, g := range grants {
		blk.AddGrant(g)
	}
	blk.Freeze(tok)
	return blk, nil
}
