package chain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/nicfit/clique/errors"
	"github.com/nicfit/clique/identity"
	"github.com/nicfit/clique/jwk"
	"github.com/nicfit/clique/jws"
	"github.com/nicfit/clique/keystore"
)

// Block is the contract every chain block satisfies, whether it is a
// base Block or a chain-type-specific wrapper (identitychain.Block,
// authchain.Block) built on top of one.
type Block interface {
	// Creator returns the account URI that produced this block.
	Creator() string

	// Antecedent returns the antecedent block's hash, and whether this
	// block carries one at all (false for a genesis block).
	Antecedent() (string, bool)

	// SetAntecedent rewrites the antecedent hash. A nil hash removes the
	// `ant` field entirely.
	SetAntecedent(hash *string)

	// Payload returns the block's stored payload, before any
	// chain-type-specific transform (field omission, renaming) is
	// applied for signing.
	Payload() *Payload

	// Serialize returns the block's compact JWS serialization, computed
	// once and cached. Passing update=true forces recomputation (e.g.
	// after SetAntecedent changes the signed content).
	Serialize(update bool) (string, error)

	// Hash returns sha256_hex(Serialize(false)).
	Hash() (string, error)

	// Verify checks the block's signature. If key is nil, the signer is
	// resolved from the default KeyStore using the JWS header's kid.
	Verify(key jwk.Key) error

	// Validate runs this block's full validation against the supplied
	// ratchet state: antecedent check, then signature/authority checks.
	Validate(r Ratchet) error
}

// BaseBlock implements the construct/serialize/hash/verify machinery
// shared by every block type. Chain-type packages embed *BaseBlock and
// attach Hooks to customize payload shaping and signature/authority
// validation, since Go composition has no virtual method dispatch to
// lean on instead.
type BaseBlock struct {
	identity *identity.Identity
	signer   jwk.Key
	payload  *Payload
	hooks    Hooks

	serialization string
	serialized    bool
}

// Hooks are the chain-type-specific extension points a BaseBlock calls
// into. A zero-value Hooks behaves like the plain base Block: no
// payload shaping, no extra validation, default KeyStore-backed
// signature verification.
type Hooks struct {
	// ShapeJSON transforms the stored payload into the object that gets
	// signed and serialized. Called once per Serialize(update=true).
	ShapeJSON func(p *Payload) *Payload

	// ValidateSignature replaces the default "resolve kid via the
	// default KeyStore and verify" step. Used by IdentityChain and
	// AuthChain to enforce their respective key-freshness rules before
	// delegating to the base JWS check.
	ValidateSignature func(b *BaseBlock, r Ratchet) error

	// ValidateExtra runs after the antecedent and signature checks,
	// e.g. AuthChain's grant-authority check. A nil hook is a no-op.
	ValidateExtra func(b *BaseBlock, r Ratchet) error
}

// NewBlock constructs an in-memory block. antecedent is nil for a
// genesis block. The payload is seeded with `iss` (and `ant`, if
// antecedent is non-nil); callers add further fields via Payload().Set
// before the block is first serialized.
func NewBlock(id *identity.Identity, antecedent *string) *BaseBlock {
	p := NewPayload()
	p.Set("iss", id.Acct())
	if antecedent != nil {
		p.Set("ant", *antecedent)
	}
	return &BaseBlock{identity: id, signer: id.ActiveKey(), payload: p}
}

// SetHooks attaches the chain-type-specific extension points. Must be
// called before the block is first serialized.
func (b *BaseBlock) SetHooks(h Hooks) {
	b.hooks = h
}

// Freeze sets the block's cached serialization directly to an
// already-signed compact JWS, bypassing local signing entirely. Used
// when hydrating a block from a wire serialization: the identity
// rebuilt from the JWS `kid` may only hold public key material, so the
// block must never attempt to re-sign itself.
func (b *BaseBlock) Freeze(serialization string) {
	b.serialization = serialization
	b.serialized = true
}

// Creator implements Block.
func (b *BaseBlock) Creator() string {
	return b.identity.Acct()
}

// Antecedent implements Block.
func (b *BaseBlock) Antecedent() (string, bool) {
	v, ok := b.payload.Get("ant")
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, true
}

// SetAntecedent implements Block. It changes only the payload: a block
// that has already been serialized keeps its cached serialization (and
// so its hash) until Serialize(true) is called.
func (b *BaseBlock) SetAntecedent(hash *string) {
	if hash == nil {
		b.payload.Delete("ant")
	} else {
		b.payload.Set("ant", *hash)
	}
}

// Payload implements Block.
func (b *BaseBlock) Payload() *Payload {
	return b.payload
}

// toJSON applies the chain-type-specific shaping hook, if any.
func (b *BaseBlock) toJSON() *Payload {
	if b.hooks.ShapeJSON != nil {
		return b.hooks.ShapeJSON(b.payload)
	}
	return b.payload
}

// ToJSON returns the shaped payload with `omit` keys dropped, `remap`
// keys renamed (old -> new), and `add` keys injected. It fails if an
// `add` key already exists in the shaped payload.
func (b *BaseBlock) ToJSON(omit []string, remap map[string]string, add map[string]interface{}) (*Payload, error) {
	d := b.toJSON().Clone()
	for _, k := range omit {
		d.Delete(k)
	}
	for oldKey, newKey := range remap {
		if v, ok := d.Get(oldKey); ok {
			d.Set(newKey, v)
			d.Delete(oldKey)
		}
	}
	for k, v := range add {
		if _, exists := d.Get(k); exists {
			return nil, errors.ValueError("value exists: %s=%v", k, v)
		}
		d.Set(k, v)
	}
	return d, nil
}

// Serialize implements Block.
func (b *BaseBlock) Serialize(update bool) (string, error) {
	if b.serialized && !update {
		return b.serialization, nil
	}

	payloadJSON, err := json.Marshal(b.toJSON())
	if err != nil {
		return "", errors.Wrap(err, "encode block payload")
	}
	tok, err := jws.Sign(payloadJSON, b.signer)
	if err != nil {
		return "", errors.Wrap(err, "sign block")
	}
	b.serialization = tok.String()
	b.serialized = true
	return b.serialization, nil
}

// Hash implements Block.
func (b *BaseBlock) Hash() (string, error) {
	s, err := b.Serialize(false)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:]), nil
}

// Kid returns the thumbprint of the key that signed this block, read
// from the cached JWS header. Serializes the block first if needed.
func (b *BaseBlock) Kid() (string, error) {
	s, err := b.Serialize(false)
	if err != nil {
		return "", err
	}
	tok, err := jws.Parse(s)
	if err != nil {
		return "", err
	}
	return tok.Header().KeyID, nil
}

// Verify implements Block.
func (b *BaseBlock) Verify(key jwk.Key) error {
	s, err := b.Serialize(false)
	if err != nil {
		return err
	}
	tok, err := jws.Parse(s)
	if err != nil {
		return err
	}
	if key == nil {
		key, err = keystore.Default().Get(tok.Header().KeyID)
		if err != nil {
			return err
		}
	}
	return tok.Verify(key)
}

// Validate implements Block: checks the antecedent hash against the
// ratchet's last-validated block, then delegates signature checking to
// the ValidateSignature hook (or the base KeyStore-backed check), then
// runs ValidateExtra.
func (b *BaseBlock) Validate(r Ratchet) error {
	if err := b.validateAntecedent(r); err != nil {
		return err
	}
	if b.hooks.ValidateSignature != nil {
		if err := b.hooks.ValidateSignature(b, r); err != nil {
			return err
		}
	} else if err := b.validateSignatureDefault(r); err != nil {
		return err
	}
	if b.hooks.ValidateExtra != nil {
		return b.hooks.ValidateExtra(b, r)
	}
	return nil
}

func (b *BaseBlock) validateAntecedent(r Ratchet) error {
	var expected string
	if prev := r.Antecedent(); prev != nil {
		h, err := prev.Hash()
		if err != nil {
			return err
		}
		expected = h
	}
	ant, hasAnt := b.Antecedent()
	if !hasAnt {
		ant = ""
	}
	if ant != expected {
		return errors.ChainValidation("Antecedent hash mismatch: %s (self) != %s (antecedent)", ant, expected)
	}
	return nil
}

func (b *BaseBlock) validateSignatureDefault(_ Ratchet) error {
	return b.Verify(nil)
}
