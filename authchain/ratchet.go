package authchain

import "github.com/nicfit/clique/chain"

// Ratchet extends the base validation state with the policy view
// AuthChain validation needs: for each account that has ever received a
// grant, the thumbprint it held at that time, and its currently held
// grant per privilege. Both are overwritten on every ratchet step, so a
// later REVOKE or a demoting GRANT always wins.
type Ratchet struct {
	antecedent        chain.Block
	recentThumbprints map[string]string
	currentGrants     map[string]map[string]Grant
}

// NewRatchet returns a fresh Ratchet with no recorded grants.
func NewRatchet() *Ratchet {
	return &Ratchet{
		recentThumbprints: make(map[string]string),
		currentGrants:     make(map[string]map[string]Grant),
	}
}

// Antecedent implements chain.Ratchet.
func (r *Ratchet) Antecedent() chain.Block {
	return r.antecedent
}

// Ratchet implements chain.Ratchet: folds b's grants into the policy
// view, overwriting any earlier entry for the same (grantee, privilege).
func (r *Ratchet) Ratchet(b chain.Block) {
	r.antecedent = b
	blk, ok := b.(*Block)
	if !ok {
		return
	}
	for _, g := range blk.grants {
		if _, ok := r.currentGrants[g.Grantee]; !ok {
			r.currentGrants[g.Grantee] = make(map[string]Grant)
		}
		r.currentGrants[g.Grantee][g.Privilege] = g
		r.recentThumbprints[g.Grantee] = g.Thumbprint
	}
}
