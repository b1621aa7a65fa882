package chain

import (
	"encoding/json"

	"github.com/nicfit/clique/errors"
)

// BlockChain is an ordered container of Blocks. It implements the
// append contract (genesis-or-linked, antecedent auto-wired), chain
// (de)serialization, and ratchet-driven validation shared by every
// concrete chain type.
type BlockChain struct {
	blocks   []Block
	onAppend func(b Block)
}

// NewBlockChain returns an empty chain.
func NewBlockChain() *BlockChain {
	return &BlockChain{}
}

// SetOnAppend installs a hook invoked every time a block is appended,
// whether via Append or AppendDecoded. Chain-type packages use this to
// maintain auxiliary indexes (e.g. IdentityChain's pkt-order map) as
// blocks are added, mirroring the source's `_newBlock` override point.
func (c *BlockChain) SetOnAppend(fn func(b Block)) {
	c.onAppend = fn
}

// Append adds a pre-constructed block to the chain, rewriting its
// antecedent to the current tail's hash (or removing it, if the chain
// is empty) before appending. This is the `+=` operator from the
// source: it lets a caller hand-craft a block that is spliced onto the
// chain afterward.
func (c *BlockChain) Append(b Block) error {
	if len(c.blocks) == 0 {
		b.SetAntecedent(nil)
	} else {
		h, err := c.blocks[len(c.blocks)-1].Hash()
		if err != nil {
			return err
		}
		b.SetAntecedent(&h)
	}
	c.appendRaw(b)
	return nil
}

// AppendDecoded adds a block that was just hydrated from a wire
// serialization, whose antecedent is already set from the wire data
// and must not be rewritten.
func (c *BlockChain) AppendDecoded(b Block) {
	c.appendRaw(b)
}

func (c *BlockChain) appendRaw(b Block) {
	c.blocks = append(c.blocks, b)
	if c.onAppend != nil {
		c.onAppend(b)
	}
}

// Len returns the number of blocks in the chain.
func (c *BlockChain) Len() int {
	return len(c.blocks)
}

// At returns the block at index i.
func (c *BlockChain) At(i int) Block {
	return c.blocks[i]
}

// Blocks returns the chain's blocks in order. The returned slice is
// owned by the caller; mutating it does not affect the chain.
func (c *BlockChain) Blocks() []Block {
	out := make([]Block, len(c.blocks))
	copy(out, c.blocks)
	return out
}

// Genesis returns the first block in the chain.
func (c *BlockChain) Genesis() (Block, error) {
	if len(c.blocks) == 0 {
		return nil, errors.ValueError("chain has no blocks")
	}
	return c.blocks[0], nil
}

// Serialize returns the chain's wire format: a JSON array of each
// block's compact JWS string, in chain order.
func (c *BlockChain) Serialize() (string, error) {
	tokens, err := c.BlockTokens()
	if err != nil {
		return "", err
	}
	out, err := json.Marshal(tokens)
	if err != nil {
		return "", errors.Wrap(err, "encode chain")
	}
	return string(out), nil
}

// BlockTokens returns each block's compact JWS serialization, in chain
// order, without JSON-array-wrapping them.
func (c *BlockChain) BlockTokens() ([]string, error) {
	tokens := make([]string, len(c.blocks))
	for i, b := range c.blocks {
		s, err := b.Serialize(false)
		if err != nil {
			return nil, err
		}
		tokens[i] = s
	}
	return tokens, nil
}

// ParseTokenArray decodes the wire-format JSON array of compact JWS
// strings, without hydrating any blocks.
func ParseTokenArray(serialized string) ([]string, error) {
	var tokens []string
	if err := json.Unmarshal([]byte(serialized), &tokens); err != nil {
		return nil, errors.Wrap(err, "decode chain")
	}
	return tokens, nil
}

// Validate checks the chain against expectedGenesisHash: the genesis
// block's hash must match, then every block is validated in order
// against a freshly constructed ratchet (newRatchet), which is advanced
// after each successful block validation.
func (c *BlockChain) Validate(expectedGenesisHash string, newRatchet func() Ratchet) error {
	if len(c.blocks) == 0 {
		return nil
	}

	h0, err := c.blocks[0].Hash()
	if err != nil {
		return err
	}
	if h0 != expectedGenesisHash {
		return errors.ChainValidation("Genesis hash mismatch: %s (self) != %s (requested)", h0, expectedGenesisHash)
	}

	r := newRatchet()
	for _, b := range c.blocks {
		if err := b.Validate(r); err != nil {
			return err
		}
		r.Ratchet(b)
	}
	return nil
}
